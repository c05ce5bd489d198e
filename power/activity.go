// Package power dims the backlight and puts the controller to sleep when no buttons
// have been used for a while.
package power

import (
	"sync"
	"time"

	"github.com/calvinmclean/bedlift/display"
	"github.com/calvinmclean/bedlift/hal"
)

// State is the power state of the controller
type State uint8

const (
	StateActive State = iota
	StateDimmed
	StateAsleep
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateDimmed:
		return "DIMMED"
	case StateAsleep:
		return "ASLEEP"
	default:
		return "UNKNOWN"
	}
}

// ActivityClock records the last button activity and owns the backlight level. The event
// loop touches it and the governor reads it, so every method takes the lock.
type ActivityClock struct {
	mu         sync.Mutex
	cfg        Config
	clock      hal.Clock
	backlight  display.Backlight
	last       time.Time
	state      State
	brightness uint8
	// generation changes on every Touch so a fade in progress knows to stop
	generation uint64
}

// NewActivityClock starts active at the given brightness with the idle timer at zero.
// backlight may be nil.
func NewActivityClock(cfg Config, clock hal.Clock, backlight display.Backlight, brightness uint8) *ActivityClock {
	if clock == nil {
		clock = hal.SystemClock{}
	}
	a := &ActivityClock{
		cfg:       cfg.withDefaults(),
		clock:     clock,
		backlight: backlight,
		last:      clock.Now(),
	}
	a.setBrightness(brightness)
	return a
}

// Touch records activity. A dimmed backlight returns to full brightness before Touch
// returns. Touch has no effect on brightness once asleep.
func (a *ActivityClock) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.last = a.clock.Now()
	a.generation++

	if a.state == StateAsleep {
		return
	}
	a.state = StateActive
	if a.brightness != a.cfg.FullBrightness {
		a.setBrightness(a.cfg.FullBrightness)
	}
}

// Idle returns how long it has been since the last Touch
func (a *ActivityClock) Idle(now time.Time) time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return now.Sub(a.last)
}

func (a *ActivityClock) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Dimmed reports whether the backlight has been dimmed for inactivity
func (a *ActivityClock) Dimmed() bool {
	return a.State() == StateDimmed
}

func (a *ActivityClock) Brightness() uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.brightness
}

// Full is the brightness Touch restores
func (a *ActivityClock) Full() uint8 {
	return a.cfg.FullBrightness
}

// Fade steps the backlight toward level. It stops early and returns false if Touch is
// called while fading.
func (a *ActivityClock) Fade(level uint8) bool {
	a.mu.Lock()
	gen := a.generation
	a.mu.Unlock()

	return a.fade(level, func() bool {
		return a.generation == gen
	})
}

// enter moves to state and returns the generation it was entered in
func (a *ActivityClock) enter(s State) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
	return a.generation
}

// dim fades to the dim level unless touched on the way. It reports whether the
// backlight reached the dim level.
func (a *ActivityClock) dim() bool {
	gen := a.enter(StateDimmed)
	return a.fade(a.cfg.DimBrightness, func() bool {
		return a.generation == gen && a.state == StateDimmed
	})
}

// off fades to zero. Nothing interrupts it.
func (a *ActivityClock) off() {
	a.enter(StateAsleep)
	a.fade(0, func() bool { return true })
}

// fade changes brightness by the configured step every fade interval. keep is called
// with the lock held before every step.
func (a *ActivityClock) fade(level uint8, keep func() bool) bool {
	step := int(a.cfg.FadeStep)
	for {
		a.mu.Lock()
		if !keep() {
			a.mu.Unlock()
			return false
		}
		current := int(a.brightness)
		if current == int(level) {
			a.mu.Unlock()
			return true
		}

		next := current - step
		if current < int(level) {
			next = current + step
			if next > int(level) {
				next = int(level)
			}
		} else if next < int(level) {
			next = int(level)
		}
		a.setBrightness(uint8(next))
		a.mu.Unlock()

		a.clock.Sleep(a.cfg.FadeInterval)
	}
}

// setBrightness must be called with the lock held, or before the clock is shared
func (a *ActivityClock) setBrightness(level uint8) {
	a.brightness = level
	if a.backlight != nil {
		a.backlight.SetBrightness(level)
	}
}
