//go:build tinygo

package device

import (
	"errors"
	"machine"

	"github.com/calvinmclean/bedlift/hal"
)

// GPIO is the chip's GPIO bank. Pins are machine pin numbers.
type GPIO struct{}

var _ hal.GPIO = GPIO{}

func (GPIO) Configure(p hal.Pin, mode hal.PinMode, pull hal.Pull) error {
	var m machine.PinMode
	switch {
	case mode == hal.PinOutput:
		m = machine.PinOutput
	case mode == hal.PinInput && pull == hal.PullUp:
		m = machine.PinInputPullup
	case mode == hal.PinInput && pull == hal.PullDown:
		m = machine.PinInputPulldown
	case mode == hal.PinInput:
		m = machine.PinInput
	default:
		return errors.New("invalid mode")
	}
	machine.Pin(p).Configure(machine.PinConfig{Mode: m})
	return nil
}

func (GPIO) Get(p hal.Pin) bool {
	return machine.Pin(p).Get()
}

func (GPIO) Set(p hal.Pin, high bool) {
	machine.Pin(p).Set(high)
}

func (GPIO) SetInterrupt(p hal.Pin, edge hal.Edge, handler func(hal.Pin)) error {
	var change machine.PinChange
	switch edge {
	case hal.EdgeRising:
		change = machine.PinRising
	case hal.EdgeFalling:
		change = machine.PinFalling
	case hal.EdgeBoth:
		change = machine.PinToggle
	default:
		return errors.New("invalid edge")
	}
	return machine.Pin(p).SetInterrupt(change, func(machine.Pin) {
		handler(p)
	})
}
