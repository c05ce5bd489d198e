// Package hal is the boundary between the controller logic and the board. Firmware,
// the desktop simulator and the Linux bench rig each provide their own implementation.
package hal

import (
	"errors"
	"time"
)

var ErrNotImplemented = errors.New("not implemented")

// Pin is a GPIO number.
type Pin uint8

// PinMode selects whether a pin is an input or output.
type PinMode uint8

const (
	PinInput PinMode = iota
	PinOutput
)

// Pull selects the pull resistor configuration.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Edge selects which level changes fire an interrupt.
type Edge uint8

const (
	EdgeRising Edge = iota + 1
	EdgeFalling
	EdgeBoth
)

// Matches reports whether a change to level high fires on this edge selection.
func (e Edge) Matches(high bool) bool {
	switch e {
	case EdgeBoth:
		return true
	case EdgeRising:
		return high
	case EdgeFalling:
		return !high
	default:
		return false
	}
}

// GPIO provides pin configuration, level access and edge interrupts.
//
// Interrupt handlers run in interrupt context on hardware: they must not block or allocate.
type GPIO interface {
	Configure(pin Pin, mode PinMode, pull Pull) error
	Get(pin Pin) (high bool)
	Set(pin Pin, high bool)
	SetInterrupt(pin Pin, edge Edge, handler func(Pin)) error
}

// WakeCause is why the controller booted.
type WakeCause uint8

const (
	WakeColdBoot WakeCause = iota
	WakeButton
)

func (w WakeCause) String() string {
	switch w {
	case WakeButton:
		return "button"
	default:
		return "cold boot"
	}
}

// Waker arms wake sources and enters low-power sleep.
type Waker interface {
	// ConfigureWake arms the pins to wake the controller when any of them reads high.
	ConfigureWake(pins []Pin) error
	// Sleep enters low-power sleep. On hardware it does not return; waking reboots.
	Sleep()
	// WakeCause reports why the current boot happened.
	WakeCause() WakeCause
}

// Clock is the time source. Sleep blocks the calling goroutine only.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
