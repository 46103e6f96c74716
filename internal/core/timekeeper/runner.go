package timekeeper

import (
	"context"
	"log/slog"
	"time"
)

// Ticker is advanced by a Runner.
type Ticker interface {
	Tick(now time.Time)
}

// Config contains runtime options for a Runner.
type Config struct {
	TickInterval time.Duration
}

// DefaultTickInterval is used when Config.TickInterval is unset.
const DefaultTickInterval = 250 * time.Millisecond

// suspendFactor is how many missed intervals count as a suspension.
const suspendFactor = 4

// Runner calls Tick on a fixed cadence and immediately on Wake.
type Runner struct {
	target   Ticker
	clock    Clock
	options  Config
	wakeCh   chan struct{}
	lastTick time.Time
}

// NewRunner creates a Runner for target.
func NewRunner(target Ticker, clock Clock, options Config) *Runner {
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultTickInterval
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Runner{
		target:  target,
		clock:   clock,
		options: options,
		wakeCh:  make(chan struct{}, 1),
	}
}

// Wake requests an immediate tick, e.g. when the window regains focus.
func (runner *Runner) Wake() {
	select {
	case runner.wakeCh <- struct{}{}:
	default:
	}
}

// Run ticks until ctx is done.
func (runner *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(runner.options.TickInterval)
	defer ticker.Stop()

	runner.tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			runner.tick()
		case <-runner.wakeCh:
			slog.Debug("wake resync")
			runner.tick()
		}
	}
}

func (runner *Runner) tick() {
	now := runner.clock.Now()
	if !runner.lastTick.IsZero() {
		if gap := now.Sub(runner.lastTick); gap > suspendFactor*runner.options.TickInterval {
			slog.Debug("tick gap, resyncing from wall clock", "gap", gap)
		}
	}
	runner.lastTick = now
	runner.target.Tick(now)
}
