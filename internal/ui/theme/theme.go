// Package theme maps the stored appearance settings onto a fyne theme.
package theme

import (
	"image/color"

	"teachtimer/internal/core/model"
	"teachtimer/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"
)

const (
	// LabelSize is the countdown label height in the regular font mode.
	LabelSize = float32(96)
	// LargeLabelSize is used when the large font setting is on.
	LargeLabelSize = float32(160)

	largeTextScale = float32(1.35)
)

var (
	highContrastBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	highContrastForeground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	highContrastPrimary    = color.NRGBA{R: 255, G: 214, B: 0, A: 255}

	finalMinuteColor = color.NRGBA{R: 232, G: 150, B: 20, A: 255}
	finalTenColor    = color.NRGBA{R: 214, G: 48, B: 49, A: 255}
	completeColor    = color.NRGBA{R: 214, G: 48, B: 49, A: 255}

	highContrastFinalMinute = color.NRGBA{R: 255, G: 214, B: 0, A: 255}
	highContrastFinalTen    = color.NRGBA{R: 255, G: 80, B: 80, A: 255}
)

// Theme is a fyne.Theme fixed to one appearance mode.
type Theme struct {
	mode      model.ThemeMode
	largeFont bool
	base      fyne.Theme
}

var _ fyne.Theme = (*Theme)(nil)

// New returns the theme for settings.
func New(settings model.Settings) *Theme {
	mode := settings.Theme
	if !mode.Valid() {
		mode = model.ThemeLight
	}
	return &Theme{
		mode:      mode,
		largeFont: settings.LargeFont,
		base:      fynetheme.DefaultTheme(),
	}
}

// Mode returns the appearance mode.
func (t *Theme) Mode() model.ThemeMode {
	return t.mode
}

// Color ignores the system variant and uses the configured mode.
func (t *Theme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if t.mode == model.ThemeHighContrast {
		switch name {
		case fynetheme.ColorNameBackground, fynetheme.ColorNameOverlayBackground, fynetheme.ColorNameMenuBackground:
			return highContrastBackground
		case fynetheme.ColorNameForeground, fynetheme.ColorNameInputBorder, fynetheme.ColorNameSeparator:
			return highContrastForeground
		case fynetheme.ColorNamePrimary, fynetheme.ColorNameFocus, fynetheme.ColorNameSelection:
			return highContrastPrimary
		case fynetheme.ColorNameButton, fynetheme.ColorNameInputBackground:
			return color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		}
		return t.base.Color(name, fynetheme.VariantDark)
	}
	return t.base.Color(name, t.variant())
}

func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size scales text when the large font setting is on.
func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	size := t.base.Size(name)
	if !t.largeFont {
		return size
	}
	switch name {
	case fynetheme.SizeNameText, fynetheme.SizeNameHeadingText, fynetheme.SizeNameSubHeadingText, fynetheme.SizeNameCaptionText:
		return size * largeTextScale
	}
	return size
}

// LabelTextSize returns the countdown label size.
func (t *Theme) LabelTextSize() float32 {
	if t.largeFont {
		return LargeLabelSize
	}
	return LabelSize
}

// WarningColor returns the countdown label colour for level.
func (t *Theme) WarningColor(level timekeeper.WarningLevel) color.Color {
	switch level {
	case timekeeper.WarningFinalMinute:
		if t.mode == model.ThemeHighContrast {
			return highContrastFinalMinute
		}
		return finalMinuteColor
	case timekeeper.WarningFinalTen:
		if t.mode == model.ThemeHighContrast {
			return highContrastFinalTen
		}
		return finalTenColor
	case timekeeper.WarningComplete:
		if t.mode == model.ThemeHighContrast {
			return highContrastFinalTen
		}
		return completeColor
	default:
		return t.Color(fynetheme.ColorNameForeground, t.variant())
	}
}

func (t *Theme) variant() fyne.ThemeVariant {
	if t.mode == model.ThemeDark || t.mode == model.ThemeHighContrast {
		return fynetheme.VariantDark
	}
	return fynetheme.VariantLight
}
