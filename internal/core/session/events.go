package session

import (
	"time"

	"teachtimer/internal/core/model"
	"teachtimer/internal/core/timekeeper"
)

// EventType defines the type of Session event.
type EventType string

const (
	EventUpdate    EventType = "update"
	EventCompleted EventType = "completed"
	EventSettings  EventType = "settings"
	EventPresets   EventType = "presets"
)

// Event represents a Session update for observers.
type Event struct {
	Type EventType
	View View
	// Sound and Volume are set on EventCompleted.
	Sound  model.SoundMode
	Volume float64
	At     time.Time
}

// View is everything a renderer needs to draw the countdown.
type View struct {
	Label         string
	Progress      float64
	Warning       timekeeper.WarningLevel
	Running       bool
	JustCompleted bool
	Duration      int
	Remaining     int
	Settings      model.Settings
}

// Renderer draws a View.
type Renderer interface {
	Render(view View)
}

// Controller is the capability set shared by every renderer.
type Controller interface {
	Start()
	Pause()
	Reset()
	Toggle()
	SetDuration(seconds int)
	AddTime(deltaSeconds int)
	SelectPreset(id string) error
	CommitEdit(text string) bool
	ToggleSound()
	View() View
	Presets() []model.Preset
	Settings() model.Settings
}
