package preferences

import (
	"fmt"
	"math"

	"teachtimer/internal/core/model"
	"teachtimer/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	editor   Editor
	settings model.Settings

	theme          *widget.Select
	sound          *widget.Select
	volume         *widget.Slider
	volumeLabel    *widget.Label
	warnings       *widget.Check
	autoFullscreen *widget.Check
	largeFont      *widget.Check

	presetList *fyne.Container
	presetName *widget.Entry
	presetTime *widget.Entry
	addButton  *widget.Button
	editingID  string
}

// New creates a preferences window.
func New(app fyne.App, editor Editor) *Window {
	window := app.NewWindow("TeachTimer Settings")
	prefs := &Window{
		window:   window,
		editor:   editor,
		settings: editor.Settings(),
	}

	prefs.theme = widget.NewSelect(themeOptions(), nil)
	prefs.sound = widget.NewSelect(soundOptions(), nil)
	prefs.volumeLabel = widget.NewLabel("")
	prefs.volume = widget.NewSlider(0, 1)
	prefs.volume.Step = 0.01
	prefs.volume.OnChanged = func(value float64) {
		prefs.volumeLabel.SetText(fmt.Sprintf("%.0f%%", value*100))
	}
	prefs.warnings = widget.NewCheck("Final minute warnings", nil)
	prefs.autoFullscreen = widget.NewCheck("Go fullscreen on start", nil)
	prefs.largeFont = widget.NewCheck("Large font", nil)

	prefs.presetList = container.NewVBox()
	prefs.presetName = widget.NewEntry()
	prefs.presetName.SetPlaceHolder("Name")
	prefs.presetTime = widget.NewEntry()
	prefs.presetTime.SetPlaceHolder("mm:ss")
	prefs.addButton = widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), prefs.handleAdd)

	general := container.NewVBox(
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Theme", prefs.theme),
			widget.NewFormItem("Sound", prefs.sound),
			widget.NewFormItem("Volume", container.NewBorder(nil, nil, nil, prefs.volumeLabel, prefs.volume)),
		),
		prefs.warnings,
		prefs.autoFullscreen,
		prefs.largeFont,
	)
	presets := container.NewVBox(
		widget.NewLabelWithStyle("Presets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.presetList,
		container.NewBorder(nil, nil, nil, prefs.addButton,
			container.NewGridWithColumns(2, prefs.presetName, prefs.presetTime)),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.Reload()
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil,
		container.NewVScroll(container.NewVBox(general, widget.NewSeparator(), presets)))
	window.SetContent(content)
	window.Resize(fyne.NewSize(440, 560))
	window.SetCloseIntercept(window.Hide)

	prefs.Reload()
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Reload replaces window values with the current settings and presets.
func (prefs *Window) Reload() {
	prefs.settings = prefs.editor.Settings()
	settings := prefs.settings
	prefs.theme.SetSelected(themeLabels[settings.Theme])
	prefs.sound.SetSelected(soundLabels[settings.Sound])
	prefs.volume.SetValue(settings.Volume)
	prefs.volumeLabel.SetText(fmt.Sprintf("%.0f%%", settings.Volume*100))
	prefs.warnings.SetChecked(settings.FinalMinuteWarnings)
	prefs.autoFullscreen.SetChecked(settings.AutoFullscreen)
	prefs.largeFont.SetChecked(settings.LargeFont)
	prefs.RefreshPresets()
}

// RefreshPresets rebuilds the preset rows.
func (prefs *Window) RefreshPresets() {
	presets := prefs.editor.Presets()
	rows := make([]fyne.CanvasObject, 0, len(presets))
	for _, preset := range presets {
		edit := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
			prefs.handleEdit(preset)
		})
		remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
			prefs.handleRemove(preset.ID)
		})
		if len(presets) == 1 {
			remove.Disable()
		}
		rows = append(rows, container.NewBorder(nil, nil, nil, container.NewHBox(edit, remove),
			widget.NewLabel(fmt.Sprintf("%s  (%s)", preset.Name, timekeeper.FormatLabel(preset.DurationSeconds)))))
	}
	prefs.presetList.Objects = rows
	prefs.presetList.Refresh()
}

func (prefs *Window) formSettings() model.Settings {
	settings := prefs.settings
	settings.Theme = themeFromLabel(prefs.theme.Selected, settings.Theme)
	settings.Sound = soundFromLabel(prefs.sound.Selected, settings.Sound)
	settings.Volume = math.Round(prefs.volume.Value*100) / 100
	settings.FinalMinuteWarnings = prefs.warnings.Checked
	settings.AutoFullscreen = prefs.autoFullscreen.Checked
	settings.LargeFont = prefs.largeFont.Checked
	return settings
}

func (prefs *Window) handleSave() {
	settings := prefs.formSettings()
	if err := prefs.editor.UpdateSettings(settings); err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	prefs.settings = settings
	prefs.window.Hide()
}

// handleAdd stores the form as a new preset, or as the preset being edited.
func (prefs *Window) handleAdd() {
	var err error
	if prefs.editingID != "" {
		_, err = prefs.editor.UpdatePreset(prefs.editingID, prefs.presetName.Text, prefs.presetTime.Text)
	} else {
		_, err = prefs.editor.AddPreset(prefs.presetName.Text, prefs.presetTime.Text)
	}
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	prefs.resetPresetForm()
	prefs.RefreshPresets()
}

func (prefs *Window) handleEdit(preset model.Preset) {
	prefs.editingID = preset.ID
	prefs.presetName.SetText(preset.Name)
	prefs.presetTime.SetText(timekeeper.FormatLabel(preset.DurationSeconds))
	prefs.addButton.SetText("Update")
	prefs.addButton.SetIcon(theme.DocumentSaveIcon())
}

func (prefs *Window) resetPresetForm() {
	prefs.editingID = ""
	prefs.presetName.SetText("")
	prefs.presetTime.SetText("")
	prefs.addButton.SetText("Add")
	prefs.addButton.SetIcon(theme.ContentAddIcon())
}

func (prefs *Window) handleRemove(id string) {
	if err := prefs.editor.RemovePreset(id); err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	if id == prefs.editingID {
		prefs.resetPresetForm()
	}
	prefs.RefreshPresets()
}
