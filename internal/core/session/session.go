// Package session binds one countdown to the presets, the settings and
// the injected persistence and audio collaborators.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"teachtimer/internal/core/model"
	"teachtimer/internal/core/timekeeper"

	"github.com/google/uuid"
)

var (
	// ErrPresetNotFound indicates an unknown preset id.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrLastPreset indicates an attempt to remove the only preset.
	ErrLastPreset = errors.New("at least one preset must remain")
	// ErrInvalidPreset indicates a rejected preset name or duration.
	ErrInvalidPreset = errors.New("invalid preset")
	// ErrInvalidSettings indicates rejected settings values.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Store loads and saves the presets and settings snapshot.
type Store interface {
	Load() (model.Snapshot, error)
	Save(snapshot model.Snapshot) error
}

// Player plays the completion sound.
type Player interface {
	Play(mode model.SoundMode, volume float64) error
}

// Session serializes access to the countdown so the runner goroutine and
// the UI can drive it concurrently.
type Session struct {
	mu       sync.Mutex
	clock    timekeeper.Clock
	keeper   *timekeeper.TimeKeeper
	presets  []model.Preset
	settings model.Settings
	store    Store
	player   Player
	events   []chan Event
	lastView View
	closed   bool
}

// New loads the snapshot from store and seeds the countdown with the first
// preset. A nil store or player is allowed.
func New(store Store, player Player, clock timekeeper.Clock) *Session {
	if clock == nil {
		clock = timekeeper.SystemClock
	}

	snapshot := model.DefaultSnapshot(clock.Now())
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			slog.Warn("stored snapshot unusable, using defaults", "err", err)
		}
		snapshot = loaded
	}
	if snapshot.Validate() != nil {
		snapshot = model.DefaultSnapshot(clock.Now())
	}

	presets := model.ClonePresets(snapshot.Presets)
	model.SortPresets(presets)

	session := &Session{
		clock:    clock,
		keeper:   timekeeper.New(presets[0].DurationSeconds, clock),
		presets:  presets,
		settings: snapshot.Settings,
		store:    store,
		player:   player,
	}
	session.lastView = session.viewLocked()
	return session
}

// Subscribe registers a new observer channel.
func (session *Session) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	session.mu.Lock()
	if session.closed {
		close(ch)
	} else {
		session.events = append(session.events, ch)
	}
	session.mu.Unlock()
	return ch
}

// Close closes every observer channel.
func (session *Session) Close() {
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return
	}
	session.closed = true
	events := session.events
	session.events = nil
	session.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start begins or resumes the countdown.
func (session *Session) Start() {
	session.mutate(func(keeper *timekeeper.TimeKeeper) { keeper.Start() })
}

// Pause freezes the countdown.
func (session *Session) Pause() {
	session.mutate(func(keeper *timekeeper.TimeKeeper) { keeper.Pause() })
}

// Reset restores the configured duration.
func (session *Session) Reset() {
	session.mutate(func(keeper *timekeeper.TimeKeeper) { keeper.Reset() })
}

// Toggle pauses when running and starts otherwise.
func (session *Session) Toggle() {
	session.mutate(func(keeper *timekeeper.TimeKeeper) { keeper.Toggle() })
}

// SetDuration replaces the countdown length.
func (session *Session) SetDuration(seconds int) {
	session.mutate(func(keeper *timekeeper.TimeKeeper) { keeper.SetDuration(seconds) })
}

// AddTime adjusts the countdown by deltaSeconds.
func (session *Session) AddTime(deltaSeconds int) {
	session.mutate(func(keeper *timekeeper.TimeKeeper) { keeper.AddTime(deltaSeconds) })
}

// CommitEdit applies typed time text. It returns false when the text is
// rejected; the countdown is then left untouched.
func (session *Session) CommitEdit(text string) bool {
	seconds, ok := timekeeper.ParseEditableTime(text)
	if !ok {
		slog.Debug("rejected time input", "text", text)
		return false
	}
	session.SetDuration(seconds)
	return true
}

// SelectPreset loads the preset duration into the countdown.
func (session *Session) SelectPreset(id string) error {
	session.mu.Lock()
	index := session.presetIndexLocked(id)
	if index < 0 {
		session.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	session.keeper.SetDuration(session.presets[index].DurationSeconds)
	session.emitUpdateLocked(EventUpdate)
	session.mu.Unlock()
	return nil
}

// Tick advances the countdown from the wall clock. On completion, observers
// receive EventCompleted and the player is asked for the completion sound.
func (session *Session) Tick(now time.Time) {
	session.mu.Lock()
	completed := session.keeper.Tick(now)
	if !completed {
		session.emitUpdateLocked(EventUpdate)
		session.mu.Unlock()
		return
	}

	settings := session.settings
	view := session.viewLocked()
	session.lastView = view
	session.emitLocked(Event{
		Type:   EventCompleted,
		View:   view,
		Sound:  settings.Sound,
		Volume: settings.Volume,
		At:     now,
	})
	session.mu.Unlock()

	slog.Info("countdown complete", "duration", view.Duration)
	session.playCompletion(settings)
}

// View returns the current derived outputs.
func (session *Session) View() View {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.viewLocked()
}

// Presets returns the presets ordered by sort order.
func (session *Session) Presets() []model.Preset {
	session.mu.Lock()
	defer session.mu.Unlock()
	return model.ClonePresets(session.presets)
}

// Settings returns the current settings.
func (session *Session) Settings() model.Settings {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.settings
}

// UpdateSettings validates and applies settings, then persists the snapshot.
func (session *Session) UpdateSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	session.mu.Lock()
	session.settings = settings
	session.persistLocked()
	session.emitUpdateLocked(EventSettings)
	session.mu.Unlock()
	return nil
}

// ToggleSound switches between silent and chime.
func (session *Session) ToggleSound() {
	session.mu.Lock()
	if session.settings.Sound == model.SoundSilent {
		session.settings.Sound = model.SoundChime
	} else {
		session.settings.Sound = model.SoundSilent
	}
	session.persistLocked()
	session.emitUpdateLocked(EventSettings)
	session.mu.Unlock()
}

// AddPreset creates a preset from a name and editable time text.
func (session *Session) AddPreset(name, durationText string) (model.Preset, error) {
	name, seconds, err := parsePresetInput(name, durationText)
	if err != nil {
		return model.Preset{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	now := session.clock.Now().UTC()
	preset := model.Preset{
		ID:              uuid.NewString(),
		Name:            name,
		DurationSeconds: seconds,
		SortOrder:       session.nextSortOrderLocked(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	session.presets = append(session.presets, preset)
	session.persistLocked()
	session.emitUpdateLocked(EventPresets)
	return preset, nil
}

// UpdatePreset renames a preset and replaces its duration.
func (session *Session) UpdatePreset(id, name, durationText string) (model.Preset, error) {
	name, seconds, err := parsePresetInput(name, durationText)
	if err != nil {
		return model.Preset{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	index := session.presetIndexLocked(id)
	if index < 0 {
		return model.Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	preset := &session.presets[index]
	preset.Name = name
	preset.DurationSeconds = seconds
	preset.UpdatedAt = session.clock.Now().UTC()
	session.persistLocked()
	session.emitUpdateLocked(EventPresets)
	return *preset, nil
}

// RemovePreset deletes a preset. The last remaining preset cannot be removed.
func (session *Session) RemovePreset(id string) error {
	session.mu.Lock()
	defer session.mu.Unlock()

	index := session.presetIndexLocked(id)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	if len(session.presets) == 1 {
		return ErrLastPreset
	}
	session.presets = append(session.presets[:index], session.presets[index+1:]...)
	session.persistLocked()
	session.emitUpdateLocked(EventPresets)
	return nil
}

func (session *Session) mutate(action func(keeper *timekeeper.TimeKeeper)) {
	session.mu.Lock()
	action(session.keeper)
	session.emitUpdateLocked(EventUpdate)
	session.mu.Unlock()
}

func (session *Session) playCompletion(settings model.Settings) {
	if session.player == nil || settings.Sound == model.SoundSilent {
		return
	}
	if err := session.player.Play(settings.Sound, settings.Volume); err != nil {
		slog.Debug("completion sound skipped", "err", err)
	}
}

func (session *Session) persistLocked() {
	if session.store == nil {
		return
	}
	snapshot := model.Snapshot{
		Version:  model.SnapshotVersion,
		Presets:  model.ClonePresets(session.presets),
		Settings: session.settings,
	}
	if err := session.store.Save(snapshot); err != nil {
		slog.Warn("snapshot not saved", "err", err)
	}
}

func (session *Session) viewLocked() View {
	state := session.keeper.State()
	return View{
		Label:         timekeeper.FormatLabel(state.Remaining),
		Progress:      timekeeper.ProgressPercent(state.Duration, state.Remaining),
		Warning:       timekeeper.Warning(state.Remaining, session.settings.FinalMinuteWarnings),
		Running:       state.Running,
		JustCompleted: state.JustCompleted,
		Duration:      state.Duration,
		Remaining:     state.Remaining,
		Settings:      session.settings,
	}
}

// emitUpdateLocked notifies observers unless an update tick changed nothing.
func (session *Session) emitUpdateLocked(eventType EventType) {
	view := session.viewLocked()
	if eventType == EventUpdate && view == session.lastView {
		return
	}
	session.lastView = view
	session.emitLocked(Event{
		Type: eventType,
		View: view,
		At:   session.clock.Now(),
	})
}

// emitLocked never blocks. Slow observers miss updates, but a completion
// event displaces the oldest buffered event instead of being dropped.
func (session *Session) emitLocked(event Event) {
	for _, ch := range session.events {
		select {
		case ch <- event:
			continue
		default:
		}
		if event.Type != EventCompleted {
			continue
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
			slog.Warn("observer dropped completion event")
		}
	}
}

func (session *Session) presetIndexLocked(id string) int {
	for index, preset := range session.presets {
		if preset.ID == id {
			return index
		}
	}
	return -1
}

func (session *Session) nextSortOrderLocked() int {
	next := 0
	for _, preset := range session.presets {
		if preset.SortOrder >= next {
			next = preset.SortOrder + 1
		}
	}
	return next
}

func parsePresetInput(name, durationText string) (string, int, error) {
	name = strings.TrimSpace(name)
	if length := utf8.RuneCountInString(name); length < model.MinPresetNameLength || length > model.MaxPresetNameLength {
		return "", 0, fmt.Errorf("%w: name must be %d-%d characters", ErrInvalidPreset, model.MinPresetNameLength, model.MaxPresetNameLength)
	}
	seconds, ok := timekeeper.ParseEditableTime(durationText)
	if !ok {
		return "", 0, fmt.Errorf("%w: unreadable duration %q", ErrInvalidPreset, durationText)
	}
	return name, seconds, nil
}
