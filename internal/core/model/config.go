package model

import "time"

// Duration bounds in seconds.
const (
	MinDurationSeconds  = 10
	MaxDurationSeconds  = 4 * 60 * 60
	MinRemainingSeconds = 0
)

// SnapshotVersion is the only persisted snapshot version understood.
const SnapshotVersion = 1

// Preset name length bounds.
const (
	MinPresetNameLength = 1
	MaxPresetNameLength = 40
)

// ThemeMode selects the colour palette.
type ThemeMode string

const (
	ThemeLight        ThemeMode = "light"
	ThemeDark         ThemeMode = "dark"
	ThemeHighContrast ThemeMode = "high-contrast"
)

// ThemeModes lists every valid theme in display order.
var ThemeModes = []ThemeMode{ThemeLight, ThemeDark, ThemeHighContrast}

// SoundMode selects the completion sound.
type SoundMode string

const (
	SoundBell   SoundMode = "bell"
	SoundChime  SoundMode = "chime"
	SoundSilent SoundMode = "silent"
)

// SoundModes lists every valid sound mode in display order.
var SoundModes = []SoundMode{SoundChime, SoundBell, SoundSilent}

// Preset is a named shortcut to a countdown duration.
type Preset struct {
	ID              string
	Name            string
	DurationSeconds int
	SortOrder       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Settings contains persisted user preferences.
type Settings struct {
	Theme               ThemeMode
	Sound               SoundMode
	Volume              float64
	FinalMinuteWarnings bool
	AutoFullscreen      bool
	LargeFont           bool
}

// Snapshot is the persisted presets and settings record.
type Snapshot struct {
	Version  int
	Presets  []Preset
	Settings Settings
}
