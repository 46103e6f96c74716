package tray

import (
	"fmt"

	"teachtimer/internal/core/model"
	"teachtimer/internal/core/session"
	"teachtimer/internal/core/timekeeper"

	"fyne.io/fyne/v2"
)

// Host is the part of desktop.App the tray needs.
type Host interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnQuit        func()
}

// Icons are swapped to reflect the countdown state.
type Icons struct {
	Running  fyne.Resource
	Paused   fyne.Resource
	Complete fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	host       Host
	controller session.Controller
	callbacks  Callbacks
	icons      Icons
	adjustStep int

	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	soundItem  *fyne.MenuItem
	presets    []model.Preset
	view       session.View
	icon       fyne.Resource
}

var _ session.Renderer = (*Manager)(nil)

// New creates a tray manager with the provided callbacks.
func New(host Host, controller session.Controller, adjustStep int, icons Icons, callbacks Callbacks) *Manager {
	if adjustStep <= 0 {
		adjustStep = 60
	}
	manager := &Manager{
		host:       host,
		controller: controller,
		callbacks:  callbacks,
		icons:      icons,
		adjustStep: adjustStep,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", controller.Toggle)
	manager.soundItem = fyne.NewMenuItem("Sound", controller.ToggleSound)

	manager.presets = controller.Presets()
	manager.Render(controller.View())
	return manager
}

// Render updates the status line, menu labels and icon.
func (manager *Manager) Render(view session.View) {
	manager.view = view
	manager.statusItem.Label = StatusText(view)
	if view.Running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.soundItem.Checked = view.Settings.Sound != model.SoundSilent

	icon := manager.iconFor(view)
	if icon != nil && icon != manager.icon {
		manager.icon = icon
		manager.host.SetSystemTrayIcon(icon)
	}
	manager.refreshMenu()
}

// SetPresets replaces the preset submenu.
func (manager *Manager) SetPresets(presets []model.Preset) {
	manager.presets = presets
	manager.refreshMenu()
}

// StatusText is the tray status line for view.
func StatusText(view session.View) string {
	switch {
	case view.JustCompleted:
		return "Status: time is up"
	case view.Running:
		return fmt.Sprintf("Status: %s left", view.Label)
	default:
		return fmt.Sprintf("Status: %s (paused)", view.Label)
	}
}

func (manager *Manager) iconFor(view session.View) fyne.Resource {
	switch {
	case view.JustCompleted:
		return manager.icons.Complete
	case view.Running:
		return manager.icons.Running
	default:
		return manager.icons.Paused
	}
}

func (manager *Manager) buildMenu() *fyne.Menu {
	presetItem := fyne.NewMenuItem("Presets", nil)
	children := make([]*fyne.MenuItem, 0, len(manager.presets))
	for _, preset := range manager.presets {
		item := fyne.NewMenuItem(preset.Name, func() {
			_ = manager.controller.SelectPreset(preset.ID)
		})
		item.Checked = preset.DurationSeconds == manager.view.Duration
		children = append(children, item)
	}
	presetItem.ChildMenu = fyne.NewMenu("", children...)

	return fyne.NewMenu("TeachTimer",
		manager.statusItem,
		fyne.NewMenuItem("Show timer", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("Reset", manager.controller.Reset),
		fyne.NewMenuItem(timekeeper.FormatSignedAdjust(manager.adjustStep), func() {
			manager.controller.AddTime(manager.adjustStep)
		}),
		fyne.NewMenuItem(timekeeper.FormatSignedAdjust(-manager.adjustStep), func() {
			manager.controller.AddTime(-manager.adjustStep)
		}),
		presetItem,
		manager.soundItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.host != nil {
		manager.host.SetSystemTrayMenu(manager.buildMenu())
	}
}
