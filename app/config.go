package app

import (
	"time"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/button"
	"github.com/calvinmclean/bedlift/hal"
	"github.com/calvinmclean/bedlift/power"
)

// Default button wiring: UP and MODE pull the pin high, DOWN pulls it low
const (
	DefaultPinDown hal.Pin = 0
	DefaultPinMode hal.Pin = 1
	DefaultPinUp   hal.Pin = 2
)

// Config holds the timings and wiring of the controller
type Config struct {
	Buttons []button.Config

	Debounce  time.Duration
	QueueSize int
	// HeldTick is how often held-button actions run when no edges arrive
	HeldTick time.Duration
	// InjectQueueSize bounds pending console injections
	InjectQueueSize int

	// DevSettle is the wait between configuring the dev-mode buttons and sampling them
	DevSettle time.Duration
	// ForceDevMode enables dev-only modes without holding buttons at boot
	ForceDevMode bool

	// StartupFade fades the backlight in from zero before the first full refresh
	StartupFade bool

	Power power.Config
}

// DefaultConfig returns the production timings and wiring
func DefaultConfig() Config {
	cfg := Config{
		Buttons: []button.Config{
			{Button: bedlift.ButtonUp, Pin: DefaultPinUp},
			{Button: bedlift.ButtonMode, Pin: DefaultPinMode},
			{Button: bedlift.ButtonDown, Pin: DefaultPinDown, ActiveLow: true},
		},
		Debounce:        button.DefaultDebounce,
		QueueSize:       button.DefaultQueueSize,
		HeldTick:        50 * time.Millisecond,
		InjectQueueSize: 4,
		DevSettle:       10 * time.Millisecond,
		StartupFade:     true,
		Power:           power.DefaultConfig(),
	}
	cfg.Power.WakePins = cfg.WakePins()
	return cfg
}

// ButtonConfig returns the config of b and whether it is wired
func (c Config) ButtonConfig(b bedlift.Button) (button.Config, bool) {
	for _, bc := range c.Buttons {
		if bc.Button == b {
			return bc, true
		}
	}
	return button.Config{}, false
}

// WakePins returns the UP and MODE pins. DOWN idles high, so it is never a wake source.
func (c Config) WakePins() []hal.Pin {
	var pins []hal.Pin
	for _, b := range []bedlift.Button{bedlift.ButtonUp, bedlift.ButtonMode} {
		if bc, ok := c.ButtonConfig(b); ok && !bc.ActiveLow {
			pins = append(pins, bc.Pin)
		}
	}
	return pins
}
