package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains flash timing values.
type Config struct {
	On  time.Duration
	Off time.Duration
	// Pulses is the number of on/off cycles; zero flashes until stopped.
	Pulses int
}

// Engine drives a highlight flash, e.g. when the countdown completes.
type Engine struct {
	mu     sync.Mutex
	config Config
	apply  func(highlight bool)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new animation engine. apply is called from the engine
// goroutine and must marshal onto the UI thread itself.
func New(config Config, apply func(highlight bool)) *Engine {
	defaults := DefaultConfig()
	if config.On <= 0 {
		config.On = defaults.On
	}
	if config.Off <= 0 {
		config.Off = defaults.Off
	}
	if config.Pulses < 0 {
		config.Pulses = defaults.Pulses
	}
	return &Engine{
		config: config,
		apply:  apply,
	}
}

// Flash starts a new flash, replacing any running one.
func (engine *Engine) Flash(ctx context.Context) {
	engine.start(ctx, func(runCtx context.Context) {
		defer engine.apply(false)
		for pulse := 0; engine.config.Pulses == 0 || pulse < engine.config.Pulses; pulse++ {
			engine.apply(true)
			if !sleepWithContext(runCtx, engine.config.On) {
				return
			}
			engine.apply(false)
			if !sleepWithContext(runCtx, engine.config.Off) {
				return
			}
		}
	})
}

// Stop terminates any active animation and waits for it to clear the
// highlight.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel, engine.done = nil, nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Active reports whether a flash is running.
func (engine *Engine) Active() bool {
	engine.mu.Lock()
	done := engine.done
	engine.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	engine.mu.Lock()
	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		run(runCtx)
	}()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
