package app

import (
	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/actuator"
)

// handler reacts to one button transition in one mode
type handler func(c *App, b bedlift.Button)

// behavior holds the UP and DOWN handlers of a mode. A nil handler ignores the transition.
type behavior struct {
	PressUp     handler
	ReleaseUp   handler
	PressDown   handler
	ReleaseDown handler
}

// behaviors is indexed by mode. Only Up/Down reacts to release: spinning runs while a
// button is held, everything else happens once per press.
var behaviors = [bedlift.ModeCount]behavior{
	bedlift.ModeUpDown: {
		PressUp:     startSpin(actuator.DirectionForward),
		ReleaseUp:   stopSpin,
		PressDown:   startSpin(actuator.DirectionReverse),
		ReleaseDown: stopSpin,
	},
	bedlift.ModeRoll:    adjust(actuator.AxisRoll),
	bedlift.ModePitch:   adjust(actuator.AxisPitch),
	bedlift.ModeTorsion: adjust(actuator.AxisTorsion),
	bedlift.ModeLevel: {
		PressUp:   func(c *App, _ bedlift.Button) { c.actuators.Calibrate(actuator.DirectionForward) },
		PressDown: func(c *App, _ bedlift.Button) { c.actuators.Calibrate(actuator.DirectionReverse) },
	},
	bedlift.ModeMotor1: jog(0),
	bedlift.ModeMotor2: jog(1),
	bedlift.ModeMotor3: jog(2),
	bedlift.ModeMotor4: jog(3),
}

func (b behavior) handler(button bedlift.Button, pressed bool) handler {
	switch {
	case button == bedlift.ButtonUp && pressed:
		return b.PressUp
	case button == bedlift.ButtonUp:
		return b.ReleaseUp
	case button == bedlift.ButtonDown && pressed:
		return b.PressDown
	case button == bedlift.ButtonDown:
		return b.ReleaseDown
	}
	return nil
}

// startSpin unlocks and spins the motors unless another button already owns the spin
func startSpin(dir actuator.Direction) handler {
	return func(c *App, b bedlift.Button) {
		if c.spinOwner != nil {
			return
		}
		owner := b
		c.spinOwner = &owner

		c.actuators.Unlock()
		c.setMonitor(bedlift.MonitorLock, false)
		c.actuators.SpinMotors(dir)
		c.setMonitor(bedlift.MonitorMotors, true)
	}
}

// stopSpin stops and re-locks, but only when released by the button that started the spin
func stopSpin(c *App, b bedlift.Button) {
	if c.spinOwner == nil || *c.spinOwner != b {
		return
	}
	c.haltMotors()
}

func adjust(axis actuator.Axis) behavior {
	return behavior{
		PressUp:   func(c *App, _ bedlift.Button) { c.actuators.Adjust(axis, actuator.DirectionForward) },
		PressDown: func(c *App, _ bedlift.Button) { c.actuators.Adjust(axis, actuator.DirectionReverse) },
	}
}

func jog(motor int) behavior {
	return behavior{
		PressUp:   func(c *App, _ bedlift.Button) { c.actuators.JogMotor(motor, actuator.DirectionForward) },
		PressDown: func(c *App, _ bedlift.Button) { c.actuators.JogMotor(motor, actuator.DirectionReverse) },
	}
}
