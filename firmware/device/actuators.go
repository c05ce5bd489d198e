//go:build tinygo

package device

import (
	"errors"
	"time"

	"github.com/calvinmclean/bedlift/actuator"

	"tinygo.org/x/drivers/easystepper"
	"tinygo.org/x/drivers/servo"
)

// motor is an easystepper motor that can drop its coils
type motor struct {
	*easystepper.Device
}

var (
	_ actuator.Motor    = motor{}
	_ actuator.Releaser = motor{}
)

func (m motor) Release() {
	m.Off()
}

func newMotors(cfg StepperConfig) ([]actuator.Motor, error) {
	motors := make([]actuator.Motor, 0, len(cfg.Motors))
	for _, mc := range cfg.Motors {
		stepper, err := easystepper.New(mc)
		if err != nil {
			return nil, errors.New("error creating stepper: " + err.Error())
		}
		stepper.Configure()
		motors = append(motors, motor{stepper})
	}
	return motors, nil
}

// ServoLatch locks the lift with a servo-driven pin
type ServoLatch struct {
	servo servo.Servo
	cfg   ServoConfig
}

var _ actuator.Latch = &ServoLatch{}

func NewServoLatch(cfg ServoConfig) (*ServoLatch, error) {
	s, err := servo.New(cfg.PWM, cfg.Pin)
	if err != nil {
		return nil, errors.New("error creating servo: " + err.Error())
	}
	return &ServoLatch{servo: s, cfg: cfg}, nil
}

func (l *ServoLatch) Lock() error {
	return l.move(l.cfg.LockAngle)
}

func (l *ServoLatch) Unlock() error {
	return l.move(l.cfg.UnlockAngle)
}

func (l *ServoLatch) move(angle int) error {
	err := l.servo.SetAngle(angle)
	if err != nil {
		return errors.New("error setting servo angle: " + err.Error())
	}
	time.Sleep(l.cfg.MoveDelay)
	return nil
}
