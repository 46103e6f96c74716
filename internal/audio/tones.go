// Package audio synthesizes and plays the countdown completion sound.
package audio

import (
	"math"
	"time"

	"teachtimer/internal/core/model"

	"github.com/faiface/beep"
)

// SampleRate is the output rate used for synthesis.
const SampleRate = beep.SampleRate(44100)

const (
	envelopeFloor  = 0.001
	envelopeAttack = 20 * time.Millisecond
)

// Tone is one sine burst in a completion sequence.
type Tone struct {
	Offset    time.Duration
	Length    time.Duration
	Frequency float64
	// Gain scales the configured volume.
	Gain float64
}

// Sequence returns the tone pattern for mode, or nil for silent.
func Sequence(mode model.SoundMode) []Tone {
	switch mode {
	case model.SoundBell:
		return []Tone{
			{Offset: 0, Length: 180 * time.Millisecond, Frequency: 880, Gain: 0.9},
			{Offset: 200 * time.Millisecond, Length: 300 * time.Millisecond, Frequency: 1320, Gain: 1},
		}
	case model.SoundChime:
		return []Tone{
			{Offset: 0, Length: 220 * time.Millisecond, Frequency: 740, Gain: 0.9},
			{Offset: 240 * time.Millisecond, Length: 220 * time.Millisecond, Frequency: 988, Gain: 0.95},
		}
	default:
		return nil
	}
}

// SequenceLength returns the time until the last tone ends.
func SequenceLength(tones []Tone) time.Duration {
	var end time.Duration
	for _, tone := range tones {
		if toneEnd := tone.Offset + tone.Length; toneEnd > end {
			end = toneEnd
		}
	}
	return end
}

// Envelope returns the gain at elapsed into a tone of the given length:
// an exponential rise from the floor to peak over the attack, then an
// exponential fall back to the floor at the end. A zero peak is silent.
func Envelope(elapsed, length time.Duration, peak float64) float64 {
	peak = math.Min(math.Max(peak, 0), 1)
	if peak == 0 || elapsed < 0 || elapsed >= length {
		return 0
	}
	ramp := func(from, to, fraction float64) float64 {
		return from * math.Pow(to/from, fraction)
	}
	attack := envelopeAttack
	if attack > length {
		attack = length
	}
	if elapsed < attack {
		return ramp(envelopeFloor, peak, float64(elapsed)/float64(attack))
	}
	decay := length - attack
	if decay <= 0 {
		return peak
	}
	return ramp(peak, envelopeFloor, float64(elapsed-attack)/float64(decay))
}

// Streamer renders the tone sequence at volume as a finite stereo stream.
func Streamer(tones []Tone, volume float64, sampleRate beep.SampleRate) beep.Streamer {
	total := sampleRate.N(SequenceLength(tones))
	position := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if position >= total {
			return 0, false
		}
		filled := 0
		for filled < len(samples) && position < total {
			at := sampleRate.D(position)
			var value float64
			for _, tone := range tones {
				elapsed := at - tone.Offset
				gain := Envelope(elapsed, tone.Length, volume*tone.Gain)
				if gain == 0 {
					continue
				}
				phase := 2 * math.Pi * tone.Frequency * elapsed.Seconds()
				value += gain * math.Sin(phase)
			}
			samples[filled][0] = value
			samples[filled][1] = value
			filled++
			position++
		}
		return filled, true
	})
}
