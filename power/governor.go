package power

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/calvinmclean/bedlift/hal"
)

// ErrWoken is returned by Run when Sleep returns. Hardware reboots on wake instead, so
// only virtual wakers produce it.
var ErrWoken = errors.New("woke from sleep")

// Config holds the inactivity timeouts and backlight levels
type Config struct {
	DimAfter   time.Duration
	SleepAfter time.Duration

	FullBrightness uint8
	DimBrightness  uint8
	FadeStep       uint8
	FadeInterval   time.Duration

	TickInterval time.Duration

	// WakePins are armed to wake the controller from sleep
	WakePins []hal.Pin
}

// DefaultConfig dims after 45 seconds and sleeps after 60
func DefaultConfig() Config {
	return Config{
		DimAfter:       45 * time.Second,
		SleepAfter:     60 * time.Second,
		FullBrightness: 128,
		DimBrightness:  32,
		FadeStep:       4,
		FadeInterval:   10 * time.Millisecond,
		TickInterval:   time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DimAfter <= 0 {
		c.DimAfter = d.DimAfter
	}
	if c.SleepAfter <= 0 {
		c.SleepAfter = d.SleepAfter
	}
	if c.FullBrightness == 0 {
		c.FullBrightness = d.FullBrightness
	}
	if c.DimBrightness == 0 {
		c.DimBrightness = d.DimBrightness
	}
	if c.FadeStep == 0 {
		c.FadeStep = d.FadeStep
	}
	if c.FadeInterval <= 0 {
		c.FadeInterval = d.FadeInterval
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	return c
}

// MotorStopper stops every motor before sleeping
type MotorStopper interface {
	StopMotors()
}

// Blanker clears the screen before sleeping
type Blanker interface {
	Blank()
}

// Dependencies are the collaborators of a Governor. Motors and Screen are optional.
type Dependencies struct {
	Activity *ActivityClock
	GPIO     hal.GPIO
	Waker    hal.Waker
	Motors   MotorStopper
	Screen   Blanker
	Clock    hal.Clock
	Logger   *slog.Logger
}

// Governor moves the controller from ACTIVE to DIMMED to ASLEEP as idle time grows.
// Each step happens once per idle period; Touch on the ActivityClock starts a new one.
type Governor struct {
	cfg      Config
	activity *ActivityClock
	gpio     hal.GPIO
	waker    hal.Waker
	motors   MotorStopper
	screen   Blanker
	clock    hal.Clock
	logger   *slog.Logger
}

func NewGovernor(cfg Config, deps Dependencies) (*Governor, error) {
	if deps.Activity == nil {
		return nil, errors.New("activity clock is required")
	}
	if deps.Waker == nil {
		return nil, errors.New("waker is required")
	}
	if deps.GPIO == nil {
		return nil, errors.New("gpio is required")
	}
	if deps.Clock == nil {
		deps.Clock = hal.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	return &Governor{
		cfg:      cfg.withDefaults(),
		activity: deps.Activity,
		gpio:     deps.GPIO,
		waker:    deps.Waker,
		motors:   deps.Motors,
		screen:   deps.Screen,
		clock:    deps.Clock,
		logger:   deps.Logger,
	}, nil
}

// Tick checks idle time and performs at most one transition. It blocks while fading
// and, once asleep, until the waker returns.
func (g *Governor) Tick(now time.Time) (State, error) {
	idle := g.activity.Idle(now)
	state := g.activity.State()

	switch {
	case state == StateAsleep:
		return state, nil
	case idle >= g.cfg.SleepAfter:
		return StateAsleep, g.shutdown(idle)
	case state == StateActive && idle >= g.cfg.DimAfter:
		g.logger.Info("dimming display", "idle", idle.String())
		if !g.activity.dim() {
			g.logger.Debug("dimming interrupted by activity")
		}
		return g.activity.State(), nil
	}
	return state, nil
}

// Run ticks until ctx is done or the controller wakes from sleep
func (g *Governor) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		state, err := g.Tick(g.clock.Now())
		if err != nil {
			return err
		}
		if state == StateAsleep {
			return ErrWoken
		}
	}
}

func (g *Governor) shutdown(idle time.Duration) error {
	g.logger.Info("entering sleep", "idle", idle.String())

	// asleep before the motors stop, so no button can start them again
	g.activity.enter(StateAsleep)
	if g.motors != nil {
		g.motors.StopMotors()
	}

	g.activity.off()
	if g.screen != nil {
		g.screen.Blank()
	}

	for _, pin := range g.cfg.WakePins {
		err := g.gpio.Configure(pin, hal.PinInput, hal.PullDown)
		if err != nil {
			return fmt.Errorf("error configuring wake pin %d: %w", pin, err)
		}
	}
	err := g.waker.ConfigureWake(g.cfg.WakePins)
	if err != nil {
		return fmt.Errorf("error arming wake pins: %w", err)
	}

	g.logger.Info("sleeping", "wake_pins", fmt.Sprint(g.cfg.WakePins))
	g.waker.Sleep()
	return nil
}
