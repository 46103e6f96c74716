package platform

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func uniqueName(t *testing.T) string {
	return fmt.Sprintf("teachtimer-test-%s-%d", t.Name(), time.Now().UnixNano())
}

func TestSecondInstanceRefused(t *testing.T) {
	name := uniqueName(t)
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	defer guard.Release()

	if _, err := AcquireSingleInstance(name); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("got %v, want ErrAlreadyRunning", err)
	}

	if err := guard.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := AcquireSingleInstance(name)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	again.Release()
}

func TestActivateRunning(t *testing.T) {
	name := uniqueName(t)
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	activated := make(chan struct{}, 1)
	served := make(chan struct{})
	go func() {
		guard.Serve(func() { activated <- struct{}{} })
		close(served)
	}()

	if err := ActivateRunning(name); err != nil {
		t.Fatalf("activate: %v", err)
	}
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}

	guard.Release()
	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Release")
	}
}

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("teachtimer")
	if first != portFromName("teachtimer") {
		t.Error("port changed between calls")
	}
	if first < 20000 || first > 39999 {
		t.Errorf("port %d out of range", first)
	}
	var nilGuard *InstanceGuard
	if nilGuard.Release() != nil || nilGuard.Address() != "" {
		t.Error("nil guard misbehaves")
	}
}
