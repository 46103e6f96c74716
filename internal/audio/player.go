package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"teachtimer/internal/core/model"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// ErrUnavailable indicates the host has no usable audio output.
var ErrUnavailable = errors.New("audio output unavailable")

// SpeakerPlayer plays completion sounds on the default output device.
// The device is opened lazily on first use.
type SpeakerPlayer struct {
	once    sync.Once
	initErr error
	rate    beep.SampleRate
}

// NewSpeakerPlayer creates a player for the system speaker.
func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{rate: SampleRate}
}

// Play schedules the tone sequence for mode and returns without waiting.
// Silent mode is a no-op.
func (player *SpeakerPlayer) Play(mode model.SoundMode, volume float64) error {
	tones := Sequence(mode)
	if len(tones) == 0 {
		return nil
	}

	player.once.Do(func() {
		if err := speaker.Init(player.rate, player.rate.N(time.Second/10)); err != nil {
			player.initErr = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	})
	if player.initErr != nil {
		return player.initErr
	}

	// Zero volume still plays the full envelope, just muted.
	stream := &effects.Volume{
		Streamer: Streamer(tones, volume, player.rate),
		Base:     2,
		Volume:   0,
		Silent:   volume <= 0,
	}
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		slog.Debug("completion sound finished", "mode", mode)
	})))
	slog.Debug("completion sound scheduled", "mode", mode, "volume", volume)
	return nil
}

// Wait blocks until the longest sequence for mode could have finished.
func Wait(mode model.SoundMode) {
	if length := SequenceLength(Sequence(mode)); length > 0 {
		time.Sleep(length + 100*time.Millisecond)
	}
}
