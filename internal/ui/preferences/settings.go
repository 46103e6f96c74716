package preferences

import (
	"teachtimer/internal/core/model"
)

// Editor is the part of the session the preferences window edits.
type Editor interface {
	Settings() model.Settings
	UpdateSettings(settings model.Settings) error
	Presets() []model.Preset
	AddPreset(name, durationText string) (model.Preset, error)
	UpdatePreset(id, name, durationText string) (model.Preset, error)
	RemovePreset(id string) error
}

var themeLabels = map[model.ThemeMode]string{
	model.ThemeLight:        "Light",
	model.ThemeDark:         "Dark",
	model.ThemeHighContrast: "High contrast",
}

var soundLabels = map[model.SoundMode]string{
	model.SoundChime:  "Chime",
	model.SoundBell:   "Bell",
	model.SoundSilent: "Silent",
}

func themeOptions() []string {
	options := make([]string, 0, len(model.ThemeModes))
	for _, mode := range model.ThemeModes {
		options = append(options, themeLabels[mode])
	}
	return options
}

func soundOptions() []string {
	options := make([]string, 0, len(model.SoundModes))
	for _, mode := range model.SoundModes {
		options = append(options, soundLabels[mode])
	}
	return options
}

func themeFromLabel(label string, fallback model.ThemeMode) model.ThemeMode {
	for mode, text := range themeLabels {
		if text == label {
			return mode
		}
	}
	return fallback
}

func soundFromLabel(label string, fallback model.SoundMode) model.SoundMode {
	for mode, text := range soundLabels {
		if text == label {
			return mode
		}
	}
	return fallback
}
