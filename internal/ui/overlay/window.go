package overlay

import (
	"context"
	"image/color"

	"teachtimer/internal/core/model"
	"teachtimer/internal/core/session"
	"teachtimer/internal/core/timekeeper"
	"teachtimer/internal/ui/animation"
	apptheme "teachtimer/internal/ui/theme"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Banner is shown while a completion is being acknowledged.
const Banner = "Time is up."

const (
	defaultWidth  = float32(720)
	defaultHeight = float32(480)
	flashAlpha    = uint8(90)
)

// Config defines window behaviour.
type Config struct {
	Title string
	// AdjustStep is the quick adjust amount in seconds.
	AdjustStep int
}

// Window is the main countdown window.
type Window struct {
	app        fyne.App
	window     fyne.Window
	controller session.Controller
	config     Config
	theme      *apptheme.Theme
	engine     *animation.Engine

	background   *canvas.Rectangle
	timerLabel   *canvas.Text
	tapLabel     *tapText
	entry        *editEntry
	banner       *canvas.Text
	progress     *widget.ProgressBar
	startButton  *widget.Button
	resetButton  *widget.Button
	minusButton  *widget.Button
	plusButton   *widget.Button
	adjustButton *widget.Button
	soundButton  *widget.Button
	screenButton *widget.Button
	prefsButton  *widget.Button
	presetBox    *fyne.Container

	view          session.View
	presets       []model.Preset
	editing       bool
	onPreferences func()
}

var _ session.Renderer = (*Window)(nil)

// New creates the countdown window. It must be called on the UI thread.
func New(app fyne.App, controller session.Controller, config Config) *Window {
	if config.Title == "" {
		config.Title = "TeachTimer"
	}
	if config.AdjustStep <= 0 {
		config.AdjustStep = 60
	}

	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	overlay := &Window{
		app:        app,
		window:     window,
		controller: controller,
		config:     config,
		theme:      apptheme.New(controller.Settings()),
	}
	overlay.engine = animation.New(animation.DefaultConfig(), func(highlight bool) {
		fyne.Do(func() { overlay.setHighlightUnsafe(highlight) })
	})

	overlay.background = canvas.NewRectangle(color.Transparent)

	overlay.timerLabel = canvas.NewText("--:--", overlay.theme.WarningColor(timekeeper.WarningNormal))
	overlay.timerLabel.Alignment = fyne.TextAlignCenter
	overlay.timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	overlay.timerLabel.TextSize = overlay.theme.LabelTextSize()
	overlay.tapLabel = newTapText(overlay.timerLabel, overlay.BeginEdit)

	overlay.entry = newEditEntry()
	overlay.entry.SetPlaceHolder("mm:ss")
	overlay.entry.OnSubmitted = func(text string) { overlay.CommitEdit(text) }
	overlay.entry.onCancel = overlay.CancelEdit
	overlay.entry.Hide()

	overlay.banner = canvas.NewText(Banner, overlay.theme.WarningColor(timekeeper.WarningComplete))
	overlay.banner.Alignment = fyne.TextAlignCenter
	overlay.banner.TextStyle = fyne.TextStyle{Bold: true}
	overlay.banner.TextSize = 28
	overlay.banner.Hide()

	overlay.progress = widget.NewProgressBar()
	overlay.progress.TextFormatter = func() string { return "" }

	overlay.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), controller.Toggle)
	overlay.startButton.Importance = widget.HighImportance
	overlay.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), controller.Reset)
	overlay.minusButton = widget.NewButton(timekeeper.FormatSignedAdjust(-config.AdjustStep), func() {
		controller.AddTime(-overlay.config.AdjustStep)
	})
	overlay.plusButton = widget.NewButton(timekeeper.FormatSignedAdjust(config.AdjustStep), func() {
		controller.AddTime(overlay.config.AdjustStep)
	})
	overlay.adjustButton = widget.NewButtonWithIcon("", theme.MoreHorizontalIcon(), overlay.showAdjustMenu)
	overlay.soundButton = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), controller.ToggleSound)
	overlay.screenButton = widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), overlay.ToggleFullscreen)
	overlay.prefsButton = widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if overlay.onPreferences != nil {
			overlay.onPreferences()
		}
	})
	overlay.presetBox = container.NewHBox()

	controls := container.NewHBox(
		overlay.minusButton,
		overlay.startButton,
		overlay.resetButton,
		overlay.plusButton,
		overlay.adjustButton,
	)
	toolbar := container.NewHBox(overlay.soundButton, overlay.screenButton, overlay.prefsButton)
	clock := container.NewStack(overlay.tapLabel, container.NewCenter(overlay.entry))
	body := container.NewVBox(
		clock,
		overlay.banner,
		overlay.progress,
		container.NewCenter(controls),
	)
	content := container.NewBorder(
		container.NewBorder(nil, nil, nil, toolbar),
		container.NewCenter(container.NewHScroll(overlay.presetBox)),
		nil, nil,
		container.NewCenter(body),
	)

	window.SetContent(container.NewStack(overlay.background, container.NewPadded(content)))
	window.Canvas().SetOnTypedKey(overlay.handleKey)
	window.Resize(fyne.NewSize(defaultWidth, defaultHeight))

	overlay.SetPresets(controller.Presets())
	overlay.Render(controller.View())
	return overlay
}

// Show displays the window.
func (overlay *Window) Show() {
	overlay.window.Show()
	overlay.window.RequestFocus()
}

// Window exposes the underlying fyne window.
func (overlay *Window) Window() fyne.Window {
	return overlay.window
}

// SetOnPreferences sets the preferences button handler.
func (overlay *Window) SetOnPreferences(handler func()) {
	overlay.onPreferences = handler
}

// Render draws view. It must be called on the UI thread.
func (overlay *Window) Render(view session.View) {
	previous := overlay.view
	overlay.view = view

	if view.Settings != previous.Settings {
		overlay.theme = apptheme.New(view.Settings)
		overlay.timerLabel.TextSize = overlay.theme.LabelTextSize()
		overlay.banner.Color = overlay.theme.WarningColor(timekeeper.WarningComplete)
		overlay.banner.Refresh()
	}

	overlay.timerLabel.Text = view.Label
	overlay.timerLabel.Color = overlay.theme.WarningColor(view.Warning)
	overlay.timerLabel.Refresh()
	overlay.progress.SetValue(view.Progress / 100)

	if view.Running {
		overlay.startButton.SetText("Pause")
		overlay.startButton.SetIcon(theme.MediaPauseIcon())
	} else {
		overlay.startButton.SetText("Start")
		overlay.startButton.SetIcon(theme.MediaPlayIcon())
	}

	if view.Settings.Sound == model.SoundSilent {
		overlay.soundButton.SetIcon(theme.VolumeMuteIcon())
	} else {
		overlay.soundButton.SetIcon(theme.VolumeUpIcon())
	}

	if view.JustCompleted {
		overlay.banner.Show()
		if !previous.JustCompleted {
			overlay.engine.Flash(context.Background())
		}
	} else {
		overlay.banner.Hide()
		if previous.JustCompleted {
			overlay.engine.Stop()
		}
	}

	if view.Running && !previous.Running && view.Settings.AutoFullscreen && !overlay.window.FullScreen() {
		overlay.setFullscreen(true)
	}

	if view.Duration != previous.Duration {
		overlay.refreshPresetButtons()
	}
}

// SetPresets replaces the preset buttons.
func (overlay *Window) SetPresets(presets []model.Preset) {
	overlay.presets = presets
	overlay.refreshPresetButtons()
}

// BeginEdit swaps the label for a text entry holding the current label.
func (overlay *Window) BeginEdit() {
	if overlay.editing {
		return
	}
	overlay.editing = true
	overlay.entry.SetText(overlay.view.Label)
	overlay.tapLabel.Hide()
	overlay.entry.Show()
	overlay.window.Canvas().Focus(overlay.entry)
}

// CommitEdit applies text and leaves edit mode. Rejected input restores
// the previous label.
func (overlay *Window) CommitEdit(text string) bool {
	accepted := overlay.controller.CommitEdit(text)
	if !accepted {
		overlay.entry.SetText(overlay.view.Label)
	}
	overlay.endEdit()
	return accepted
}

// CancelEdit leaves edit mode without changing the countdown.
func (overlay *Window) CancelEdit() {
	overlay.endEdit()
}

// Editing reports whether the entry is open.
func (overlay *Window) Editing() bool {
	return overlay.editing
}

// ToggleFullscreen switches between windowed and fullscreen.
func (overlay *Window) ToggleFullscreen() {
	overlay.setFullscreen(!overlay.window.FullScreen())
}

// StopEffects ends any running completion flash.
func (overlay *Window) StopEffects() {
	overlay.engine.Stop()
}

func (overlay *Window) endEdit() {
	if !overlay.editing {
		return
	}
	overlay.editing = false
	overlay.entry.Hide()
	overlay.tapLabel.Show()
	overlay.window.Canvas().Unfocus()
}

func (overlay *Window) setFullscreen(enabled bool) {
	overlay.window.SetFullScreen(enabled)
	if enabled {
		overlay.screenButton.SetIcon(theme.ViewRestoreIcon())
	} else {
		overlay.screenButton.SetIcon(theme.ViewFullScreenIcon())
	}
}

func (overlay *Window) setHighlightUnsafe(highlight bool) {
	if highlight {
		flash := color.NRGBAModel.Convert(overlay.theme.WarningColor(timekeeper.WarningComplete)).(color.NRGBA)
		flash.A = flashAlpha
		overlay.background.FillColor = flash
	} else {
		overlay.background.FillColor = color.Transparent
	}
	overlay.background.Refresh()
}

func (overlay *Window) showAdjustMenu() {
	items := make([]*fyne.MenuItem, 0, len(timekeeper.AdjustSteps)*2)
	for _, step := range timekeeper.AdjustSteps {
		items = append(items, fyne.NewMenuItem(timekeeper.FormatSignedAdjust(step), func() {
			overlay.controller.AddTime(step)
		}))
	}
	items = append(items, fyne.NewMenuItemSeparator())
	for _, step := range timekeeper.AdjustSteps {
		items = append(items, fyne.NewMenuItem(timekeeper.FormatSignedAdjust(-step), func() {
			overlay.controller.AddTime(-step)
		}))
	}

	driver := overlay.app.Driver()
	position := driver.AbsolutePositionForObject(overlay.adjustButton)
	position = position.AddXY(0, overlay.adjustButton.Size().Height)
	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), overlay.window.Canvas(), position)
}

func (overlay *Window) refreshPresetButtons() {
	buttons := make([]fyne.CanvasObject, 0, len(overlay.presets))
	for _, preset := range overlay.presets {
		button := widget.NewButton(preset.Name, func() {
			_ = overlay.controller.SelectPreset(preset.ID)
		})
		if preset.DurationSeconds == overlay.view.Duration {
			button.Importance = widget.HighImportance
		}
		buttons = append(buttons, button)
	}
	overlay.presetBox.Objects = buttons
	overlay.presetBox.Refresh()
}

func (overlay *Window) handleKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeySpace:
		overlay.controller.Toggle()
	case fyne.KeyR:
		overlay.controller.Reset()
	case fyne.KeyUp, fyne.KeyEqual:
		overlay.controller.AddTime(overlay.config.AdjustStep)
	case fyne.KeyDown, fyne.KeyMinus:
		overlay.controller.AddTime(-overlay.config.AdjustStep)
	case fyne.KeyE, fyne.KeyReturn, fyne.KeyEnter:
		overlay.BeginEdit()
	case fyne.KeyM:
		overlay.controller.ToggleSound()
	case fyne.KeyF, fyne.KeyF11:
		overlay.ToggleFullscreen()
	case fyne.KeyEscape:
		if overlay.window.FullScreen() {
			overlay.setFullscreen(false)
		}
	}
}
