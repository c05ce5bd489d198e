package actuator

import (
	"errors"
	"fmt"
	"time"

	"github.com/calvinmclean/bedlift/hal"
)

const defaultStepDelay = 2000 * time.Microsecond

type StepMode int

const (
	StepModeFull StepMode = iota
	StepModeHalf
)

// StepperConfig wires a four-coil unipolar stepper
type StepperConfig struct {
	Pins      [4]hal.Pin
	StepMode  StepMode
	StepDelay time.Duration
}

// Stepper drives a four-coil stepper one coil pattern at a time
type Stepper struct {
	gpio        hal.GPIO
	clock       hal.Clock
	pins        [4]hal.Pin
	stepMode    StepMode
	currentStep int
	stepDelay   time.Duration
}

var (
	_ Motor    = &Stepper{}
	_ Releaser = &Stepper{}
)

func NewStepper(gpio hal.GPIO, clock hal.Clock, cfg StepperConfig) (*Stepper, error) {
	if gpio == nil {
		return nil, errors.New("gpio is required")
	}
	if cfg.StepMode != StepModeFull && cfg.StepMode != StepModeHalf {
		return nil, errors.New("invalid StepMode")
	}
	if cfg.StepDelay == 0 {
		cfg.StepDelay = defaultStepDelay
	}
	if clock == nil {
		clock = hal.SystemClock{}
	}

	s := &Stepper{
		gpio:      gpio,
		clock:     clock,
		pins:      cfg.Pins,
		stepMode:  cfg.StepMode,
		stepDelay: cfg.StepDelay,
	}
	for _, p := range s.pins {
		err := gpio.Configure(p, hal.PinOutput, hal.PullNone)
		if err != nil {
			return nil, fmt.Errorf("error configuring stepper pin %d: %w", p, err)
		}
	}
	return s, nil
}

var (
	// 8-step half-step sequence
	halfStepSequence = [8][4]bool{
		{true, false, false, false},
		{true, true, false, false},
		{false, true, false, false},
		{false, true, true, false},
		{false, false, true, false},
		{false, false, true, true},
		{false, false, false, true},
		{true, false, false, true},
	}

	// 4-step sequence
	fullStepSequence = [4][4]bool{
		{true, false, false, false},
		{false, true, false, false},
		{false, false, true, false},
		{false, false, false, true},
	}
)

func (s *Stepper) sequenceLen() int {
	if s.stepMode == StepModeHalf {
		return len(halfStepSequence)
	}
	return len(fullStepSequence)
}

func (s *Stepper) applyStep() {
	var sequence [4]bool
	switch s.stepMode {
	default:
		fallthrough
	case StepModeFull:
		sequence = fullStepSequence[s.currentStep]
	case StepModeHalf:
		sequence = halfStepSequence[s.currentStep]
	}

	for i := range 4 {
		s.gpio.Set(s.pins[i], sequence[i])
	}
}

func (s *Stepper) StepForward() {
	s.currentStep = (s.currentStep + 1) % s.sequenceLen()
	s.applyStep()
	s.clock.Sleep(s.stepDelay)
}

func (s *Stepper) StepBackward() {
	n := s.sequenceLen()
	s.currentStep = (s.currentStep - 1 + n) % n
	s.applyStep()
	s.clock.Sleep(s.stepDelay)
}

func (s *Stepper) Move(steps int32) {
	if steps > 0 {
		for range steps {
			s.StepForward()
		}
	} else {
		for range -steps {
			s.StepBackward()
		}
	}
}

// Release turns every coil off so the motor does not hold position or draw current
func (s *Stepper) Release() {
	for _, p := range s.pins {
		s.gpio.Set(p, false)
	}
}

// Position is the index into the current step sequence
func (s *Stepper) Position() int {
	return s.currentStep
}
