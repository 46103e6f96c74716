package animation

import "time"

// DefaultConfig returns the completion flash timing.
func DefaultConfig() Config {
	return Config{
		On:     450 * time.Millisecond,
		Off:    300 * time.Millisecond,
		Pulses: 6,
	}
}
