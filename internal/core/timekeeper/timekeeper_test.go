package timekeeper

import (
	"testing"
	"time"

	"teachtimer/internal/core/model"
)

type fakeClock struct {
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.now = clock.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func TestSetDurationThenResetMatchesClamp(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{input: 10, want: 10},
		{input: 300, want: 300},
		{input: 14400, want: 14400},
		{input: 5, want: 10},
		{input: -100, want: 10},
		{input: 20000, want: 14400},
	}

	for _, tt := range tests {
		keeper := New(300, newFakeClock())
		keeper.SetDuration(tt.input)
		keeper.Reset()
		if keeper.Duration() != tt.want || keeper.Remaining() != tt.want {
			t.Errorf("SetDuration(%d): got duration %d remaining %d, want %d", tt.input, keeper.Duration(), keeper.Remaining(), tt.want)
		}
	}
}

func TestStartSetsTargetAndCompletesOnce(t *testing.T) {
	clock := newFakeClock()
	keeper := New(90, clock)
	start := clock.now

	keeper.Start()
	target, ok := keeper.TargetTimestamp()
	if !ok {
		t.Fatal("expected target while running")
	}
	if want := start.UnixMilli() + 90_000; target != want {
		t.Fatalf("target: got %d, want %d", target, want)
	}

	if completed := keeper.Tick(start.Add(90 * time.Second)); !completed {
		t.Fatal("expected completion at target")
	}
	state := keeper.State()
	if state.Remaining != 0 || state.Running || !state.JustCompleted || state.TargetTimestamp != 0 {
		t.Fatalf("unexpected state after completion: %+v", state)
	}

	for _, later := range []time.Duration{91 * time.Second, 5 * time.Minute} {
		if keeper.Tick(start.Add(later)) {
			t.Errorf("completion fired again at +%v", later)
		}
	}
	if !keeper.JustCompleted() {
		t.Error("JustCompleted cleared by idle ticks")
	}
}

func TestTickRoundsUpPartialSeconds(t *testing.T) {
	clock := newFakeClock()
	keeper := New(60, clock)
	keeper.Start()

	keeper.Tick(clock.now.Add(100 * time.Millisecond))
	if keeper.Remaining() != 60 {
		t.Errorf("got %d, want 60", keeper.Remaining())
	}
	keeper.Tick(clock.now.Add(59*time.Second + time.Millisecond))
	if keeper.Remaining() != 1 || !keeper.Running() {
		t.Errorf("got remaining %d running %v, want 1 true", keeper.Remaining(), keeper.Running())
	}
}

func TestTickResyncsAfterMissedTicks(t *testing.T) {
	clock := newFakeClock()
	keeper := New(600, clock)
	keeper.Start()

	// A single late tick lands on the wall-clock value.
	keeper.Tick(clock.now.Add(7*time.Minute + 30*time.Second))
	if keeper.Remaining() != 150 {
		t.Errorf("got %d, want 150", keeper.Remaining())
	}
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	clock := newFakeClock()
	keeper := New(300, clock)
	keeper.Start()
	clock.Advance(42 * time.Second)

	keeper.Pause()
	if keeper.Running() {
		t.Fatal("still running after pause")
	}
	if _, ok := keeper.TargetTimestamp(); ok {
		t.Fatal("target present while paused")
	}
	if keeper.Remaining() != 258 {
		t.Fatalf("paused remaining: got %d, want 258", keeper.Remaining())
	}

	keeper.Start()
	keeper.Pause()
	if keeper.Remaining() != 258 {
		t.Errorf("after resume/pause: got %d, want 258", keeper.Remaining())
	}
}

func TestPauseWhenIdleIsNoop(t *testing.T) {
	keeper := New(120, newFakeClock())
	keeper.AddTime(-30)
	keeper.Pause()
	if keeper.Remaining() != 90 || keeper.Running() {
		t.Errorf("unexpected state: %+v", keeper.State())
	}
}

func TestStartAtZeroIsNoop(t *testing.T) {
	clock := newFakeClock()
	keeper := New(10, clock)
	keeper.Start()
	keeper.Tick(clock.now.Add(10 * time.Second))

	keeper.Start()
	if keeper.Running() {
		t.Error("start at zero began a run")
	}
	if !keeper.JustCompleted() {
		t.Error("no-op start cleared JustCompleted")
	}
}

func TestToggle(t *testing.T) {
	clock := newFakeClock()
	keeper := New(120, clock)
	keeper.Toggle()
	if !keeper.Running() {
		t.Fatal("toggle did not start")
	}
	clock.Advance(20 * time.Second)
	keeper.Toggle()
	if keeper.Running() || keeper.Remaining() != 100 {
		t.Fatalf("toggle did not pause: %+v", keeper.State())
	}
}

func TestAddTimeWhileRunningShiftsTarget(t *testing.T) {
	clock := newFakeClock()
	keeper := New(300, clock)
	keeper.Start()
	before, _ := keeper.TargetTimestamp()

	keeper.AddTime(60)
	after, ok := keeper.TargetTimestamp()
	if !ok || !keeper.Running() {
		t.Fatal("AddTime changed running flag")
	}
	if after-before != 60_000 {
		t.Errorf("target shift: got %d ms, want 60000", after-before)
	}
	if keeper.Duration() != 360 || keeper.Remaining() != 360 {
		t.Errorf("got duration %d remaining %d, want 360/360", keeper.Duration(), keeper.Remaining())
	}
}

func TestAddTimeWhileIdleOnlyChangesValues(t *testing.T) {
	keeper := New(300, newFakeClock())
	keeper.AddTime(60)
	if keeper.Running() {
		t.Fatal("AddTime started the countdown")
	}
	if _, ok := keeper.TargetTimestamp(); ok {
		t.Fatal("AddTime set a target while idle")
	}
	if keeper.Duration() != 360 || keeper.Remaining() != 360 {
		t.Errorf("got duration %d remaining %d", keeper.Duration(), keeper.Remaining())
	}
}

// Duration and remaining clamp independently, so they can diverge.
func TestAddTimeClampsIndependently(t *testing.T) {
	keeper := New(model.MinDurationSeconds, newFakeClock())
	keeper.AddTime(-5)
	if keeper.Duration() != 10 {
		t.Errorf("duration: got %d, want 10 (floor)", keeper.Duration())
	}
	if keeper.Remaining() != 5 {
		t.Errorf("remaining: got %d, want 5", keeper.Remaining())
	}

	keeper.AddTime(-60)
	if keeper.Duration() != 10 || keeper.Remaining() != 0 {
		t.Errorf("got duration %d remaining %d, want 10/0", keeper.Duration(), keeper.Remaining())
	}
}

func TestAddTimeDivergesAfterFloor(t *testing.T) {
	keeper := New(model.MaxDurationSeconds, newFakeClock())
	keeper.AddTime(-14390)
	keeper.AddTime(-100)
	// duration stopped at 10 while remaining went to 0; they stay apart.
	keeper.AddTime(30)
	if keeper.Duration() != 40 || keeper.Remaining() != 30 {
		t.Fatalf("got duration %d remaining %d", keeper.Duration(), keeper.Remaining())
	}

	keeper = New(100, newFakeClock())
	keeper.AddTime(model.MaxDurationSeconds)
	if keeper.Duration() != model.MaxDurationSeconds || keeper.Remaining() != model.MaxDurationSeconds {
		t.Fatalf("ceiling: got duration %d remaining %d", keeper.Duration(), keeper.Remaining())
	}
}

func TestRemainingNeverExceedsCeilingWhileRunning(t *testing.T) {
	clock := newFakeClock()
	keeper := New(model.MaxDurationSeconds, clock)
	keeper.Start()
	keeper.AddTime(600)
	keeper.Tick(clock.now)
	if keeper.Remaining() != model.MaxDurationSeconds {
		t.Errorf("got %d, want %d", keeper.Remaining(), model.MaxDurationSeconds)
	}
}

func TestActionsClearJustCompleted(t *testing.T) {
	actions := map[string]func(*TimeKeeper){
		"reset":        func(keeper *TimeKeeper) { keeper.Reset() },
		"set duration": func(keeper *TimeKeeper) { keeper.SetDuration(60) },
		"add time":     func(keeper *TimeKeeper) { keeper.AddTime(30) },
	}

	for name, action := range actions {
		t.Run(name, func(t *testing.T) {
			clock := newFakeClock()
			keeper := New(10, clock)
			keeper.Start()
			if !keeper.Tick(clock.now.Add(10 * time.Second)) {
				t.Fatal("setup: expected completion")
			}
			action(keeper)
			if keeper.JustCompleted() {
				t.Errorf("%s left JustCompleted set", name)
			}
		})
	}
}

func TestCompletionRearmsAfterAddTime(t *testing.T) {
	clock := newFakeClock()
	keeper := New(10, clock)
	keeper.Start()
	keeper.Tick(clock.now.Add(10 * time.Second))

	clock.Advance(10 * time.Second)
	keeper.AddTime(30)
	keeper.Start()
	if !keeper.Tick(clock.now.Add(30 * time.Second)) {
		t.Error("second run did not fire completion")
	}
}

func TestSetDurationStopsRun(t *testing.T) {
	clock := newFakeClock()
	keeper := New(300, clock)
	keeper.Start()
	keeper.SetDuration(600)
	state := keeper.State()
	if state.Running || state.TargetTimestamp != 0 || state.Remaining != 600 || state.Duration != 600 {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestTickWhenIdleIsNoop(t *testing.T) {
	clock := newFakeClock()
	keeper := New(300, clock)
	if keeper.Tick(clock.now.Add(time.Hour)) {
		t.Error("idle tick fired completion")
	}
	if keeper.Remaining() != 300 {
		t.Errorf("idle tick changed remaining to %d", keeper.Remaining())
	}
}
