package main

import (
	"context"
	"errors"
	"testing"

	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/hal"
)

func TestSession(t *testing.T) {
	var s session
	_, _, err := s.get()
	if !errors.Is(err, errNotRunning) {
		t.Errorf("expected=%q, got=%v", errNotRunning, err)
	}

	gpio := hal.NewVirtualGPIO()
	a, err := app.New(app.DefaultConfig(), app.Hardware{GPIO: gpio, Waker: hal.NewEdgeWaker(gpio, hal.WakeColdBoot)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	s.set(a, ctx)

	got, gotCtx, err := s.get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != a || gotCtx != ctx {
		t.Error("expected the running boot")
	}

	s.set(nil, nil)
	if _, _, err := s.get(); !errors.Is(err, errNotRunning) {
		t.Errorf("expected=%q, got=%v", errNotRunning, err)
	}
}
