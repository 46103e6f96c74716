package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"teachtimer/internal/core/model"
	"teachtimer/internal/core/timekeeper"
)

type MockClock struct {
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

type MockStore struct {
	Snapshot model.Snapshot
	LoadErr  error
	SaveErr  error
	Saved    []model.Snapshot
}

func (m *MockStore) Load() (model.Snapshot, error) {
	return m.Snapshot, m.LoadErr
}

func (m *MockStore) Save(snapshot model.Snapshot) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}
	m.Saved = append(m.Saved, snapshot)
	return nil
}

type playCall struct {
	Mode   model.SoundMode
	Volume float64
}

type MockPlayer struct {
	mu    sync.Mutex
	Calls []playCall
	Err   error
}

func (m *MockPlayer) Play(mode model.SoundMode, volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, playCall{Mode: mode, Volume: volume})
	return m.Err
}

var startTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T) (*Session, *MockStore, *MockPlayer, *MockClock) {
	t.Helper()
	clock := &MockClock{CurrentTime: startTime}
	store := &MockStore{Snapshot: model.DefaultSnapshot(startTime)}
	player := &MockPlayer{}
	return New(store, player, clock), store, player, clock
}

func TestNewSeedsFirstPresetBySortOrder(t *testing.T) {
	snapshot := model.DefaultSnapshot(startTime)
	snapshot.Presets[0].SortOrder = 9
	snapshot.Presets[3].SortOrder = 0
	store := &MockStore{Snapshot: snapshot}

	session := New(store, nil, &MockClock{CurrentTime: startTime})
	view := session.View()
	if view.Duration != 15*60 {
		t.Errorf("got duration %d, want %d", view.Duration, 15*60)
	}
	if view.Label != "15:00" || view.Running || view.Progress != 0 {
		t.Errorf("unexpected initial view: %+v", view)
	}
}

func TestNewFallsBackOnInvalidStore(t *testing.T) {
	store := &MockStore{Snapshot: model.Snapshot{Version: 7}, LoadErr: errors.New("boom")}
	session := New(store, nil, &MockClock{CurrentTime: startTime})
	if got := len(session.Presets()); got != 5 {
		t.Errorf("got %d presets, want defaults", got)
	}
	if session.Settings() != model.DefaultSettings() {
		t.Errorf("got %+v, want default settings", session.Settings())
	}
}

func TestNilStoreUsesDefaults(t *testing.T) {
	session := New(nil, nil, nil)
	if session.View().Duration != 120 {
		t.Errorf("got %d, want 120", session.View().Duration)
	}
	if _, err := session.AddPreset("Lab", "3"); err != nil {
		t.Errorf("add without store: %v", err)
	}
}

func TestCompletionFiresOnceAndPlaysSound(t *testing.T) {
	session, _, player, clock := newTestSession(t)
	events := session.Subscribe(16)

	session.Start()
	session.Tick(clock.CurrentTime.Add(119 * time.Second))
	session.Tick(clock.CurrentTime.Add(120 * time.Second))
	session.Tick(clock.CurrentTime.Add(125 * time.Second))

	completions := 0
	for len(events) > 0 {
		event := <-events
		if event.Type == EventCompleted {
			completions++
			if event.Sound != model.SoundChime || event.Volume != 0.6 {
				t.Errorf("completion carries %q/%v", event.Sound, event.Volume)
			}
			if !event.View.JustCompleted || event.View.Warning != timekeeper.WarningComplete {
				t.Errorf("unexpected completion view: %+v", event.View)
			}
		}
	}
	if completions != 1 {
		t.Errorf("got %d completion events, want 1", completions)
	}
	if len(player.Calls) != 1 || player.Calls[0].Mode != model.SoundChime {
		t.Errorf("unexpected player calls: %+v", player.Calls)
	}
}

func TestCompletionReachesFullObserver(t *testing.T) {
	session, _, _, clock := newTestSession(t)
	events := session.Subscribe(1)

	session.Start()
	session.Tick(clock.CurrentTime.Add(60 * time.Second))
	session.Tick(clock.CurrentTime.Add(119 * time.Second))
	session.Tick(clock.CurrentTime.Add(120 * time.Second))

	if len(events) != 1 {
		t.Fatalf("got %d buffered events, want 1", len(events))
	}
	if event := <-events; event.Type != EventCompleted {
		t.Errorf("got %q, want the completion event", event.Type)
	}
}

func TestCompletionSilentSkipsPlayer(t *testing.T) {
	session, _, player, clock := newTestSession(t)
	session.ToggleSound()
	if session.Settings().Sound != model.SoundSilent {
		t.Fatal("toggle did not silence")
	}

	session.Start()
	session.Tick(clock.CurrentTime.Add(time.Hour))
	if len(player.Calls) != 0 {
		t.Errorf("silent mode played %+v", player.Calls)
	}
	if !session.View().JustCompleted {
		t.Error("completion not registered")
	}
}

func TestCompletionSurvivesPlayerFailure(t *testing.T) {
	session, _, player, clock := newTestSession(t)
	player.Err = errors.New("no device")

	session.Start()
	session.Tick(clock.CurrentTime.Add(time.Hour))
	view := session.View()
	if !view.JustCompleted || view.Remaining != 0 || view.Running {
		t.Errorf("unexpected view after failed sound: %+v", view)
	}
}

func TestWarningFollowsSettings(t *testing.T) {
	session, _, _, clock := newTestSession(t)
	session.Start()
	session.Tick(clock.CurrentTime.Add(115 * time.Second))
	if got := session.View().Warning; got != timekeeper.WarningFinalTen {
		t.Fatalf("got %q, want final-ten", got)
	}

	settings := session.Settings()
	settings.FinalMinuteWarnings = false
	if err := session.UpdateSettings(settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if got := session.View().Warning; got != timekeeper.WarningNormal {
		t.Errorf("got %q, want normal", got)
	}
}

func TestTickWithoutChangeEmitsNothing(t *testing.T) {
	session, _, _, clock := newTestSession(t)
	session.Start()
	events := session.Subscribe(8)

	session.Tick(clock.CurrentTime.Add(100 * time.Millisecond))
	session.Tick(clock.CurrentTime.Add(200 * time.Millisecond))
	if len(events) != 0 {
		t.Errorf("got %d events for unchanged ticks", len(events))
	}

	session.Tick(clock.CurrentTime.Add(1500 * time.Millisecond))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if event := <-events; event.View.Label != "01:59" {
		t.Errorf("got label %q, want 01:59", event.View.Label)
	}
}

func TestCommitEdit(t *testing.T) {
	session, _, _, _ := newTestSession(t)

	if session.CommitEdit("abc") {
		t.Error("accepted bad input")
	}
	if session.View().Duration != 120 {
		t.Errorf("rejected input changed duration to %d", session.View().Duration)
	}

	if !session.CommitEdit("1:30") {
		t.Fatal("rejected 1:30")
	}
	view := session.View()
	if view.Duration != 90 || view.Remaining != 90 || view.Label != "01:30" {
		t.Errorf("unexpected view: %+v", view)
	}
}

func TestSelectPreset(t *testing.T) {
	session, _, _, clock := newTestSession(t)
	session.Start()
	session.Tick(clock.CurrentTime.Add(10 * time.Second))

	if err := session.SelectPreset("preset-10"); err != nil {
		t.Fatalf("select: %v", err)
	}
	view := session.View()
	if view.Running || view.Duration != 600 || view.Remaining != 600 {
		t.Errorf("unexpected view: %+v", view)
	}

	if err := session.SelectPreset("missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("got %v, want ErrPresetNotFound", err)
	}
}

func TestPresetManagementPersists(t *testing.T) {
	session, store, _, clock := newTestSession(t)
	clock.CurrentTime = startTime.Add(time.Hour)

	preset, err := session.AddPreset("  Group work  ", "25")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if preset.Name != "Group work" || preset.DurationSeconds != 1500 || preset.SortOrder != 5 {
		t.Errorf("unexpected preset: %+v", preset)
	}
	if preset.ID == "" || !preset.CreatedAt.Equal(clock.CurrentTime) {
		t.Errorf("unexpected identity: %+v", preset)
	}
	if len(store.Saved) != 1 || len(store.Saved[0].Presets) != 6 {
		t.Fatalf("unexpected saves: %d", len(store.Saved))
	}

	updated, err := session.UpdatePreset(preset.ID, "Groups", "0:45")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Groups" || updated.DurationSeconds != 45 {
		t.Errorf("unexpected update: %+v", updated)
	}

	if err := session.RemovePreset(preset.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := len(session.Presets()); got != 5 {
		t.Errorf("got %d presets, want 5", got)
	}
	if len(store.Saved) != 3 {
		t.Errorf("got %d saves, want 3", len(store.Saved))
	}
}

func TestAddPresetRejectsInvalidInput(t *testing.T) {
	session, store, _, _ := newTestSession(t)
	tests := []struct {
		name, duration string
	}{
		{name: "", duration: "5"},
		{name: "This preset name is far too long to be valid", duration: "5"},
		{name: "Quiz", duration: "soon"},
	}
	for _, tt := range tests {
		if _, err := session.AddPreset(tt.name, tt.duration); !errors.Is(err, ErrInvalidPreset) {
			t.Errorf("AddPreset(%q, %q): got %v, want ErrInvalidPreset", tt.name, tt.duration, err)
		}
	}
	if len(store.Saved) != 0 {
		t.Errorf("rejected input saved %d snapshots", len(store.Saved))
	}
}

func TestRemoveLastPresetRefused(t *testing.T) {
	session, _, _, _ := newTestSession(t)
	presets := session.Presets()
	for _, preset := range presets[1:] {
		if err := session.RemovePreset(preset.ID); err != nil {
			t.Fatalf("remove %s: %v", preset.ID, err)
		}
	}
	if err := session.RemovePreset(presets[0].ID); !errors.Is(err, ErrLastPreset) {
		t.Errorf("got %v, want ErrLastPreset", err)
	}
	if err := session.RemovePreset("nope"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("got %v, want ErrPresetNotFound", err)
	}
}

func TestUpdateSettingsValidates(t *testing.T) {
	session, store, _, _ := newTestSession(t)
	settings := session.Settings()
	settings.Volume = 1.5
	if err := session.UpdateSettings(settings); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("got %v, want validation error", err)
	}
	if session.Settings().Volume != 0.6 || len(store.Saved) != 0 {
		t.Error("invalid settings applied")
	}

	settings.Volume = 0
	settings.Theme = model.ThemeDark
	events := session.Subscribe(4)
	if err := session.UpdateSettings(settings); err != nil {
		t.Fatalf("update: %v", err)
	}
	if event := <-events; event.Type != EventSettings || event.View.Settings.Theme != model.ThemeDark {
		t.Errorf("unexpected event: %+v", event)
	}
	if len(store.Saved) != 1 || store.Saved[0].Settings.Volume != 0 {
		t.Errorf("settings not persisted: %+v", store.Saved)
	}
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	session, store, _, _ := newTestSession(t)
	store.SaveErr = errors.New("disk full")
	session.ToggleSound()
	if session.Settings().Sound != model.SoundSilent {
		t.Error("setting not applied after failed save")
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	session, _, _, _ := newTestSession(t)
	events := session.Subscribe(1)
	session.Close()
	if _, ok := <-events; ok {
		t.Error("channel still open")
	}
	session.Close()

	late := session.Subscribe(1)
	if _, ok := <-late; ok {
		t.Error("late subscription open after close")
	}
	session.Start()
}

func TestSessionSatisfiesController(t *testing.T) {
	var _ Controller = (*Session)(nil)
	var _ timekeeper.Ticker = (*Session)(nil)
}
