// Package actuator drives the lift motors and the bed lock.
package actuator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/calvinmclean/bedlift/hal"
)

// Direction of travel. Forward raises the bed.
type Direction int8

const (
	DirectionNone    Direction = 0
	DirectionForward Direction = 1
	DirectionReverse Direction = -1
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionReverse:
		return "reverse"
	default:
		return "none"
	}
}

// Axis is an orientation axis of the bed
type Axis uint8

const (
	AxisRoll Axis = iota
	AxisPitch
	AxisTorsion
)

func (a Axis) String() string {
	switch a {
	case AxisRoll:
		return "roll"
	case AxisPitch:
		return "pitch"
	case AxisTorsion:
		return "torsion"
	default:
		return "unknown"
	}
}

// Actuators is everything the button handlers can move. Calls never block for longer
// than one drive increment and never fail: hardware faults are logged by the
// implementation.
type Actuators interface {
	// Unlock releases the bed so the motors can move it
	Unlock()
	// Lock holds the bed in place
	Lock()
	// SpinMotors starts all lift motors in dir. Drive moves them.
	SpinMotors(dir Direction)
	// Drive advances spinning motors by one increment. It is called while a button is held.
	Drive()
	// StopMotors stops and de-energizes every motor
	StopMotors()
	// Spinning returns the direction the motors are spinning in
	Spinning() Direction

	// Adjust nudges the orientation of the bed along axis
	Adjust(axis Axis, dir Direction)
	// Calibrate nudges the level calibration
	Calibrate(dir Direction)
	// JogMotor moves a single motor by one increment. Motors are numbered from 0.
	JogMotor(motor int, dir Direction)
}

// Motor moves by a number of steps. Negative steps reverse.
type Motor interface {
	Move(steps int32)
}

// Releaser is implemented by motors that can de-energize their coils
type Releaser interface {
	Release()
}

// Latch locks and unlocks the bed
type Latch interface {
	Lock() error
	Unlock() error
}

// RigConfig configures a Rig
type RigConfig struct {
	// StepsPerDrive is how far each motor moves per Drive call
	StepsPerDrive int32
	// JogSteps is how far a single motor moves per JogMotor call
	JogSteps int32

	// EnablePin, when set, is driven high while the motors spin
	EnablePin *hal.Pin
}

func DefaultRigConfig() RigConfig {
	return RigConfig{
		StepsPerDrive: 4,
		JogSteps:      16,
	}
}

// Rig is the Actuators implementation for a set of lift motors and a lock
type Rig struct {
	cfg      RigConfig
	gpio     hal.GPIO
	motors   []Motor
	latch    Latch
	spinning Direction
	locked   bool
	logger   *slog.Logger
}

var _ Actuators = &Rig{}

// NewRig creates a Rig. gpio is only needed when cfg.EnablePin is set. latch may be nil.
func NewRig(cfg RigConfig, gpio hal.GPIO, motors []Motor, latch Latch, logger *slog.Logger) (*Rig, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.StepsPerDrive <= 0 {
		cfg.StepsPerDrive = DefaultRigConfig().StepsPerDrive
	}
	if cfg.JogSteps <= 0 {
		cfg.JogSteps = DefaultRigConfig().JogSteps
	}

	if cfg.EnablePin != nil {
		if gpio == nil {
			return nil, errors.New("gpio is required for the motor enable pin")
		}
		err := gpio.Configure(*cfg.EnablePin, hal.PinOutput, hal.PullNone)
		if err != nil {
			return nil, fmt.Errorf("error configuring motor enable pin: %w", err)
		}
		gpio.Set(*cfg.EnablePin, false)
	}

	return &Rig{
		cfg:    cfg,
		gpio:   gpio,
		motors: motors,
		latch:  latch,
		locked: true,
		logger: logger,
	}, nil
}

func (r *Rig) Unlock() {
	r.logger.Info("unlocking")
	if r.latch != nil {
		if err := r.latch.Unlock(); err != nil {
			r.logger.Error("error unlocking", "error", err)
			return
		}
	}
	r.locked = false
}

func (r *Rig) Lock() {
	r.logger.Info("locking")
	if r.latch != nil {
		if err := r.latch.Lock(); err != nil {
			r.logger.Error("error locking", "error", err)
			return
		}
	}
	r.locked = true
}

// Locked reports whether the last Lock or Unlock left the bed locked
func (r *Rig) Locked() bool {
	return r.locked
}

func (r *Rig) SpinMotors(dir Direction) {
	if dir == DirectionNone {
		r.StopMotors()
		return
	}
	r.logger.Info("spinning motors", "direction", dir.String())
	r.spinning = dir
	r.setEnabled(true)
}

func (r *Rig) Drive() {
	if r.spinning == DirectionNone {
		return
	}
	steps := int32(r.spinning) * r.cfg.StepsPerDrive
	for _, m := range r.motors {
		m.Move(steps)
	}
}

func (r *Rig) StopMotors() {
	if r.spinning != DirectionNone {
		r.logger.Info("stopping motors")
	}
	r.spinning = DirectionNone
	for _, m := range r.motors {
		if rel, ok := m.(Releaser); ok {
			rel.Release()
		}
	}
	r.setEnabled(false)
}

func (r *Rig) Spinning() Direction {
	return r.spinning
}

// Adjust has no sensor feedback to act on yet, so it only records the request.
func (r *Rig) Adjust(axis Axis, dir Direction) {
	r.logger.Info("orientation adjust requested", "axis", axis.String(), "direction", dir.String())
}

// Calibrate records the request like Adjust.
func (r *Rig) Calibrate(dir Direction) {
	r.logger.Info("level calibration requested", "direction", dir.String())
}

func (r *Rig) JogMotor(motor int, dir Direction) {
	if motor < 0 || motor >= len(r.motors) {
		r.logger.Warn("no such motor", "motor", motor)
		return
	}
	if dir == DirectionNone {
		return
	}

	r.logger.Info("jogging motor", "motor", motor, "direction", dir.String())
	r.setEnabled(true)
	r.motors[motor].Move(int32(dir) * r.cfg.JogSteps)
	if r.spinning == DirectionNone {
		r.setEnabled(false)
	}
}

func (r *Rig) setEnabled(on bool) {
	if r.cfg.EnablePin == nil {
		return
	}
	r.gpio.Set(*r.cfg.EnablePin, on)
}

// SolenoidLatch holds the bed with solenoids that release it while energized
type SolenoidLatch struct {
	gpio hal.GPIO
	pins []hal.Pin
}

var _ Latch = &SolenoidLatch{}

// NewSolenoidLatch configures pins as outputs and leaves the solenoids de-energized
func NewSolenoidLatch(gpio hal.GPIO, pins []hal.Pin) (*SolenoidLatch, error) {
	if gpio == nil {
		return nil, errors.New("gpio is required")
	}
	for _, p := range pins {
		err := gpio.Configure(p, hal.PinOutput, hal.PullNone)
		if err != nil {
			return nil, fmt.Errorf("error configuring solenoid pin %d: %w", p, err)
		}
		gpio.Set(p, false)
	}
	return &SolenoidLatch{gpio: gpio, pins: pins}, nil
}

func (l *SolenoidLatch) Lock() error {
	l.set(false)
	return nil
}

func (l *SolenoidLatch) Unlock() error {
	l.set(true)
	return nil
}

func (l *SolenoidLatch) set(energized bool) {
	for _, p := range l.pins {
		l.gpio.Set(p, energized)
	}
}
