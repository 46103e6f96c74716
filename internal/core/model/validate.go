package model

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// ErrInvalidSnapshot indicates a snapshot failed validation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Valid reports whether the theme is known.
func (mode ThemeMode) Valid() bool {
	for _, candidate := range ThemeModes {
		if candidate == mode {
			return true
		}
	}
	return false
}

// Valid reports whether the sound mode is known.
func (mode SoundMode) Valid() bool {
	for _, candidate := range SoundModes {
		if candidate == mode {
			return true
		}
	}
	return false
}

// Validate checks a single preset.
func (preset Preset) Validate() error {
	var errs []error
	if preset.ID == "" {
		errs = append(errs, errors.New("id: must not be empty"))
	}
	nameLength := utf8.RuneCountInString(preset.Name)
	if nameLength < MinPresetNameLength || nameLength > MaxPresetNameLength {
		errs = append(errs, fmt.Errorf("name: length %d outside [%d, %d]", nameLength, MinPresetNameLength, MaxPresetNameLength))
	}
	if preset.DurationSeconds < MinDurationSeconds || preset.DurationSeconds > MaxDurationSeconds {
		errs = append(errs, fmt.Errorf("duration_seconds: %d outside [%d, %d]", preset.DurationSeconds, MinDurationSeconds, MaxDurationSeconds))
	}
	if preset.SortOrder < 0 {
		errs = append(errs, fmt.Errorf("sort_order: %d is negative", preset.SortOrder))
	}
	return errors.Join(errs...)
}

// Validate checks settings ranges and enum membership.
func (settings Settings) Validate() error {
	var errs []error
	if !settings.Theme.Valid() {
		errs = append(errs, fmt.Errorf("theme: unknown value %q", settings.Theme))
	}
	if !settings.Sound.Valid() {
		errs = append(errs, fmt.Errorf("sound: unknown value %q", settings.Sound))
	}
	// NaN fails both comparisons.
	if !(settings.Volume >= 0 && settings.Volume <= 1) {
		errs = append(errs, fmt.Errorf("volume: %v outside [0, 1]", settings.Volume))
	}
	return errors.Join(errs...)
}

// Validate checks the whole snapshot and reports every failing field.
func (snapshot Snapshot) Validate() error {
	var errs []error
	if snapshot.Version != SnapshotVersion {
		errs = append(errs, fmt.Errorf("version: got %d, want %d", snapshot.Version, SnapshotVersion))
	}
	if len(snapshot.Presets) == 0 {
		errs = append(errs, errors.New("presets: at least one preset is required"))
	}
	for index, preset := range snapshot.Presets {
		if err := preset.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("presets[%d]: %w", index, err))
		}
	}
	if err := snapshot.Settings.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("settings: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(errs...))
}

// SortPresets orders presets by sort order, keeping insertion order for ties.
func SortPresets(presets []Preset) {
	sort.SliceStable(presets, func(i, j int) bool {
		return presets[i].SortOrder < presets[j].SortOrder
	})
}

// ClonePresets returns an independent copy of presets.
func ClonePresets(presets []Preset) []Preset {
	return append([]Preset(nil), presets...)
}
