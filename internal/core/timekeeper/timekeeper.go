package timekeeper

import (
	"time"

	"teachtimer/internal/core/model"
)

// Clock reports the current wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock is the default clock implementation.
var SystemClock Clock = systemClock{}

// State is a read-only copy of the countdown state.
type State struct {
	Duration  int
	Remaining int
	// TargetTimestamp is epoch milliseconds, zero unless Running.
	TargetTimestamp int64
	Running         bool
	JustCompleted   bool
}

// TimeKeeper is the countdown state machine. Remaining time is derived
// from a wall-clock target while running, never decremented per tick.
// It holds no timers of its own; callers advance it with Tick.
type TimeKeeper struct {
	clock         Clock
	duration      int
	remaining     int
	target        int64
	running       bool
	justCompleted bool
	completed     bool
}

// New creates an idle TimeKeeper with the clamped duration.
func New(durationSeconds int, clock Clock) *TimeKeeper {
	if clock == nil {
		clock = SystemClock
	}
	duration := ClampDuration(durationSeconds)
	return &TimeKeeper{
		clock:     clock,
		duration:  duration,
		remaining: duration,
	}
}

// Start begins or resumes the countdown. It is a no-op once remaining is zero.
func (keeper *TimeKeeper) Start() {
	if keeper.remaining <= 0 {
		return
	}
	keeper.target = keeper.nowMillis() + int64(keeper.remaining)*1000
	keeper.running = true
	keeper.justCompleted = false
	keeper.completed = false
}

// Pause freezes the countdown at its wall-clock derived remaining time.
func (keeper *TimeKeeper) Pause() {
	if !keeper.running {
		return
	}
	keeper.remaining = clampRemaining(RemainingFromTarget(keeper.target, keeper.nowMillis()))
	keeper.stop()
}

// Reset restores remaining to the configured duration and stops the run.
func (keeper *TimeKeeper) Reset() {
	keeper.remaining = keeper.duration
	keeper.stop()
	keeper.justCompleted = false
	keeper.completed = false
}

// Toggle pauses a running countdown and starts an idle one.
func (keeper *TimeKeeper) Toggle() {
	if keeper.running {
		keeper.Pause()
		return
	}
	keeper.Start()
}

// SetDuration replaces duration and remaining with the clamped value and stops the run.
func (keeper *TimeKeeper) SetDuration(seconds int) {
	duration := ClampDuration(seconds)
	keeper.duration = duration
	keeper.remaining = duration
	keeper.stop()
	keeper.justCompleted = false
	keeper.completed = false
}

// AddTime adjusts duration and remaining by deltaSeconds. The two values
// clamp independently, so remaining may end up above duration. A running
// countdown keeps its pace: only the target moves.
func (keeper *TimeKeeper) AddTime(deltaSeconds int) {
	keeper.justCompleted = false
	keeper.completed = false
	keeper.duration = ClampDuration(keeper.duration + deltaSeconds)
	keeper.remaining = clampRemaining(keeper.remaining + deltaSeconds)
	if keeper.running {
		keeper.target += int64(deltaSeconds) * 1000
	}
}

// Tick recomputes remaining from the target. It reports true exactly once
// per run, on the call that observes the countdown reaching zero.
func (keeper *TimeKeeper) Tick(now time.Time) bool {
	if !keeper.running {
		return false
	}
	keeper.remaining = clampRemaining(RemainingFromTarget(keeper.target, now.UnixMilli()))
	if keeper.remaining > 0 || keeper.completed {
		return false
	}
	keeper.completed = true
	keeper.justCompleted = true
	keeper.stop()
	return true
}

// Duration returns the configured countdown length in seconds.
func (keeper *TimeKeeper) Duration() int {
	return keeper.duration
}

// Remaining returns the seconds left as of the last operation or tick.
func (keeper *TimeKeeper) Remaining() int {
	return keeper.remaining
}

// Running reports whether the countdown is advancing.
func (keeper *TimeKeeper) Running() bool {
	return keeper.running
}

// JustCompleted reports whether the countdown reached zero since the last action.
func (keeper *TimeKeeper) JustCompleted() bool {
	return keeper.justCompleted
}

// TargetTimestamp returns the epoch millisecond completion instant while running.
func (keeper *TimeKeeper) TargetTimestamp() (int64, bool) {
	return keeper.target, keeper.running
}

// State returns a copy of the current state.
func (keeper *TimeKeeper) State() State {
	return State{
		Duration:        keeper.duration,
		Remaining:       keeper.remaining,
		TargetTimestamp: keeper.target,
		Running:         keeper.running,
		JustCompleted:   keeper.justCompleted,
	}
}

func (keeper *TimeKeeper) stop() {
	keeper.target = 0
	keeper.running = false
}

func (keeper *TimeKeeper) nowMillis() int64 {
	return keeper.clock.Now().UnixMilli()
}

// ClampDuration bounds seconds to the allowed countdown length.
func ClampDuration(seconds int) int {
	return Clamp(seconds, model.MinDurationSeconds, model.MaxDurationSeconds)
}

func clampRemaining(seconds int) int {
	return Clamp(seconds, model.MinRemainingSeconds, model.MaxDurationSeconds)
}
