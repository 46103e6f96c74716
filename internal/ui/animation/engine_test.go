package animation

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	calls []bool
}

func (r *recorder) apply(highlight bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, highlight)
}

func (r *recorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.calls...)
}

func waitInactive(t *testing.T, engine *Engine) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for engine.Active() {
		if time.Now().After(deadline) {
			t.Fatal("flash did not finish")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestFlashRunsPulsesAndClears(t *testing.T) {
	rec := &recorder{}
	engine := New(Config{On: time.Millisecond, Off: time.Millisecond, Pulses: 2}, rec.apply)
	engine.Flash(context.Background())
	waitInactive(t, engine)

	got := rec.snapshot()
	want := []bool{true, false, true, false, false}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestStopEndsEndlessFlash(t *testing.T) {
	rec := &recorder{}
	engine := New(Config{On: time.Hour, Off: time.Hour}, rec.apply)
	engine.Flash(context.Background())
	if !engine.Active() {
		t.Fatal("flash not active")
	}

	engine.Stop()
	if engine.Active() {
		t.Error("flash still active after Stop")
	}
	got := rec.snapshot()
	if len(got) == 0 || got[len(got)-1] {
		t.Errorf("highlight not cleared: %v", got)
	}
	engine.Stop()
}

func TestContextCancelEndsFlash(t *testing.T) {
	rec := &recorder{}
	engine := New(Config{On: time.Hour, Off: time.Hour}, rec.apply)
	ctx, cancel := context.WithCancel(context.Background())
	engine.Flash(ctx)
	cancel()
	waitInactive(t, engine)
}

func TestNewFillsDefaults(t *testing.T) {
	engine := New(Config{Pulses: -1}, func(bool) {})
	if engine.config != DefaultConfig() {
		t.Errorf("got %+v, want %+v", engine.config, DefaultConfig())
	}
}
