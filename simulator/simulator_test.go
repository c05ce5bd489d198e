package simulator

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/commands"
)

func testConfig() app.Config {
	cfg := app.DefaultConfig()
	cfg.StartupFade = false
	cfg.Debounce = time.Millisecond
	cfg.HeldTick = time.Millisecond
	cfg.Power.DimAfter = 30 * time.Millisecond
	cfg.Power.SleepAfter = 60 * time.Millisecond
	cfg.Power.TickInterval = 5 * time.Millisecond
	cfg.Power.FadeInterval = time.Millisecond
	return cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s        state
		expected string
	}{
		{stateNone, "Unknown"},
		{stateBooting, "Booting"},
		{stateRunning, "Running"},
		{stateAsleep, "Asleep"},
		{stateStopped, "Stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.s.String() != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, tt.s.String())
			}
		})
	}
}

func TestRunnerSleepsAndReboots(t *testing.T) {
	r := newRunner(testConfig(), slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- r.Run(ctx)
	}()

	waitFor(t, "first boot", func() bool { return r.Boots() == 1 && r.State() == stateRunning })
	waitFor(t, "sleep", func() bool { return r.State() == stateAsleep })

	waitFor(t, "backlight off", func() bool { return r.mem.Brightness() == 0 })

	err := r.SetButton(bedlift.ButtonUp, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// a held wake pin keeps waking each new boot, so only a lower bound holds
	waitFor(t, "reboot", func() bool { return r.Boots() >= 2 })

	waitFor(t, "button wake cause", func() bool {
		a, sessionCtx, err := r.session()
		if err != nil {
			return false
		}
		var cause string
		err = a.Loop().Do(sessionCtx, func(a *app.App) { cause = a.Status().WakeCause.String() })
		return err == nil && cause == "button"
	})

	err = r.SetButton(bedlift.ButtonUp, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancel()
	err = <-done
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if r.State() != stateStopped {
		t.Errorf("expected=%q, got=%q", stateStopped, r.State())
	}
}

func TestRunnerRestart(t *testing.T) {
	cfg := testConfig()
	cfg.Power.DimAfter = time.Minute
	cfg.Power.SleepAfter = 2 * time.Minute
	r := newRunner(cfg, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	waitFor(t, "first boot", func() bool { return r.Boots() == 1 && r.State() == stateRunning })

	cfg.ForceDevMode = true
	r.Restart(cfg)

	waitFor(t, "restart", func() bool {
		a, _, err := r.session()
		return err == nil && r.Boots() == 2 && a.DevMode()
	})
	if !r.Config().ForceDevMode {
		t.Error("expected restarted config to be kept")
	}
}

func TestSetButtonNotWired(t *testing.T) {
	cfg := testConfig()
	cfg.Buttons = cfg.Buttons[:2]
	r := newRunner(cfg, slog.New(slog.DiscardHandler))

	err := r.SetButton(bedlift.ButtonDown, true)
	if err == nil || err.Error() != "button DOWN is not wired" {
		t.Errorf("expected=%q, got=%v", "button DOWN is not wired", err)
	}
}

func TestConsoleControllerNotRunning(t *testing.T) {
	r := newRunner(testConfig(), slog.New(slog.DiscardHandler))
	c := commands.NewSessionController(r.session, bufio.NewReader(strings.NewReader("")))

	_, err := c.Status()
	if !errors.Is(err, errNotRunning) {
		t.Errorf("expected=%q, got=%v", errNotRunning, err)
	}
	err = c.Press(bedlift.ButtonUp)
	if !errors.Is(err, errNotRunning) {
		t.Errorf("expected=%q, got=%v", errNotRunning, err)
	}
}

func TestConsoleControllerRunning(t *testing.T) {
	cfg := testConfig()
	cfg.Power.DimAfter = time.Minute
	cfg.Power.SleepAfter = 2 * time.Minute
	r := newRunner(cfg, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)
	waitFor(t, "boot", func() bool { return r.State() == stateRunning })

	c := commands.NewSessionController(r.session, bufio.NewReader(strings.NewReader("")))
	m, err := c.CycleMode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != bedlift.ModeRoll {
		t.Errorf("expected=%q, got=%q", bedlift.ModeRoll, m)
	}

	status, err := c.Status()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(status, "mode=Roll") {
		t.Errorf("expected=%q, got=%q", "mode=Roll", status)
	}
}

func TestLogBuffer(t *testing.T) {
	l := newLogBuffer(2)

	_, _ = l.Write([]byte("one\ntw"))
	text, v1 := l.Text()
	if text != "one" {
		t.Errorf("expected=%q, got=%q", "one", text)
	}

	_, _ = l.Write([]byte("o\nthree\n"))
	text, v2 := l.Text()
	if text != "two\nthree" {
		t.Errorf("expected=%q, got=%q", "two\nthree", text)
	}
	if v1 == v2 {
		t.Error("expected version to change")
	}
}

func TestSettingsApply(t *testing.T) {
	tests := []struct {
		name     string
		settings settings
		err      string
	}{
		{"Valid", settings{ForceDevMode: true, DimAfter: "10s", SleepAfter: "20s"}, ""},
		{"BadDim", settings{DimAfter: "soon", SleepAfter: "20s"}, `invalid dim timeout: time: invalid duration "soon"`},
		{"BadSleep", settings{DimAfter: "10s", SleepAfter: "later"}, `invalid sleep timeout: time: invalid duration "later"`},
		{"NotPositive", settings{DimAfter: "0s", SleepAfter: "20s"}, "timeouts must be positive"},
		{"DimAfterSleep", settings{DimAfter: "30s", SleepAfter: "20s"}, "dim timeout must be shorter than sleep timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.settings.apply(app.DefaultConfig())
			if tt.err != "" {
				if err == nil || err.Error() != tt.err {
					t.Errorf("expected=%q, got=%v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !cfg.ForceDevMode || cfg.Power.DimAfter != 10*time.Second || cfg.Power.SleepAfter != 20*time.Second {
				t.Errorf("unexpected config: %+v", cfg.Power)
			}
		})
	}
}

func TestSettingsFromConfig(t *testing.T) {
	s := settingsFromConfig(app.DefaultConfig())
	expected := settings{DimAfter: "45s", SleepAfter: "1m0s"}
	if s != expected {
		t.Errorf("expected=%+v, got=%+v", expected, s)
	}
}

func TestFormatDuration(t *testing.T) {
	got := formatDuration(61*time.Second + 250*time.Millisecond)
	if got != "01:01.250" {
		t.Errorf("expected=%q, got=%q", "01:01.250", got)
	}
}
