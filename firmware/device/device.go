//go:build tinygo

// Package device owns the controller board: buttons, panel, lock latch and lift motors.
package device

import (
	"errors"
	"log/slog"
	"machine"

	"github.com/calvinmclean/bedlift/actuator"
	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/hal"
)

type Device struct {
	gpio    GPIO
	display *Display
	rig     *actuator.Rig
	sleep   SleepConfig
}

// New sets up the board. The servo latch is used when servoCfg has a PWM, otherwise the
// solenoids are.
func New(displayCfg DisplayConfig, stepperCfg StepperConfig, solenoidCfg SolenoidConfig, servoCfg ServoConfig, sleepCfg SleepConfig, logger *slog.Logger) (*Device, error) {
	d := &Device{sleep: sleepCfg}

	var err error
	d.display, err = NewDisplay(displayCfg)
	if err != nil {
		return nil, errors.New("error creating display: " + err.Error())
	}

	motors, err := newMotors(stepperCfg)
	if err != nil {
		return nil, err
	}

	var latch actuator.Latch
	if servoCfg.PWM != nil {
		latch, err = NewServoLatch(servoCfg)
	} else {
		latch, err = actuator.NewSolenoidLatch(d.gpio, halPins(solenoidCfg.Pins))
	}
	if err != nil {
		return nil, errors.New("error creating latch: " + err.Error())
	}

	rigCfg := actuator.DefaultRigConfig()
	if stepperCfg.EnablePin != machine.NoPin {
		enable := hal.Pin(stepperCfg.EnablePin)
		rigCfg.EnablePin = &enable
	}
	d.rig, err = actuator.NewRig(rigCfg, d.gpio, motors, latch, logger.With("component", "actuators"))
	if err != nil {
		return nil, errors.New("error creating actuators: " + err.Error())
	}

	return d, nil
}

// Hardware returns what the controller runs on for one boot
func (d *Device) Hardware(cause hal.WakeCause, logger *slog.Logger) app.Hardware {
	return app.Hardware{
		GPIO:      d.gpio,
		Waker:     NewWaker(d.display, d.sleep, cause),
		Clock:     hal.SystemClock{},
		Surface:   d.display.Canvas(),
		Actuators: d.rig,
		Logger:    logger,
	}
}

func halPins(pins []machine.Pin) []hal.Pin {
	out := make([]hal.Pin, len(pins))
	for i, p := range pins {
		out[i] = hal.Pin(p)
	}
	return out
}
