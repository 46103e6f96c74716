package model

import (
	"fmt"
	"time"
)

var defaultPresetMinutes = []int{2, 5, 10, 15, 20}

// DefaultPresets returns the compiled-in presets stamped with now.
func DefaultPresets(now time.Time) []Preset {
	now = now.UTC()
	presets := make([]Preset, 0, len(defaultPresetMinutes))
	for index, minutes := range defaultPresetMinutes {
		presets = append(presets, Preset{
			ID:              fmt.Sprintf("preset-%d", minutes),
			Name:            fmt.Sprintf("%d min", minutes),
			DurationSeconds: minutes * 60,
			SortOrder:       index,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return presets
}

// DefaultSettings returns the compiled-in settings.
func DefaultSettings() Settings {
	return Settings{
		Theme:               ThemeLight,
		Sound:               SoundChime,
		Volume:              0.6,
		FinalMinuteWarnings: true,
		AutoFullscreen:      false,
		LargeFont:           false,
	}
}

// DefaultSnapshot returns the full fallback snapshot.
func DefaultSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Version:  SnapshotVersion,
		Presets:  DefaultPresets(now),
		Settings: DefaultSettings(),
	}
}
