package actuator

import (
	"errors"
	"testing"
	"time"

	"github.com/calvinmclean/bedlift/hal"
)

type fakeMotor struct {
	moves    []int32
	releases int
}

func (m *fakeMotor) Move(steps int32) { m.moves = append(m.moves, steps) }
func (m *fakeMotor) Release()         { m.releases++ }

type fakeLatch struct {
	err     error
	locks   int
	unlocks int
}

func (l *fakeLatch) Lock() error {
	l.locks++
	return l.err
}

func (l *fakeLatch) Unlock() error {
	l.unlocks++
	return l.err
}

func newTestRig(t *testing.T, enable *hal.Pin) (*Rig, []*fakeMotor, *fakeLatch, *hal.VirtualGPIO) {
	t.Helper()

	gpio := hal.NewVirtualGPIO()
	motors := []*fakeMotor{{}, {}}
	latch := &fakeLatch{}

	cfg := DefaultRigConfig()
	cfg.EnablePin = enable
	r, err := NewRig(cfg, gpio, []Motor{motors[0], motors[1]}, latch, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r, motors, latch, gpio
}

func TestRigSpinDriveStop(t *testing.T) {
	enable := hal.Pin(20)
	r, motors, _, gpio := newTestRig(t, &enable)

	if on, ok := gpio.Output(enable); !ok || on {
		t.Fatalf("expected enable pin to start low, got %t/%t", on, ok)
	}

	r.Drive()
	if len(motors[0].moves) != 0 {
		t.Errorf("expected no movement before spinning, got %v", motors[0].moves)
	}

	r.SpinMotors(DirectionReverse)
	r.Drive()
	r.Drive()

	if r.Spinning() != DirectionReverse {
		t.Errorf("expected=%q, got=%q", DirectionReverse, r.Spinning())
	}
	if on, _ := gpio.Output(enable); !on {
		t.Error("expected enable pin high while spinning")
	}
	for i, m := range motors {
		if len(m.moves) != 2 || m.moves[0] != -4 || m.moves[1] != -4 {
			t.Errorf("motor %d: expected=[-4 -4], got=%v", i, m.moves)
		}
	}

	r.StopMotors()
	if r.Spinning() != DirectionNone {
		t.Errorf("expected=%q, got=%q", DirectionNone, r.Spinning())
	}
	if on, _ := gpio.Output(enable); on {
		t.Error("expected enable pin low after stopping")
	}
	for i, m := range motors {
		if m.releases != 1 {
			t.Errorf("motor %d: expected=%d, got=%d", i, 1, m.releases)
		}
	}
}

func TestRigSpinNoneStops(t *testing.T) {
	r, motors, _, _ := newTestRig(t, nil)

	r.SpinMotors(DirectionForward)
	r.SpinMotors(DirectionNone)

	if r.Spinning() != DirectionNone {
		t.Errorf("expected=%q, got=%q", DirectionNone, r.Spinning())
	}
	if motors[0].releases != 1 {
		t.Errorf("expected=%d, got=%d", 1, motors[0].releases)
	}
}

func TestRigLock(t *testing.T) {
	r, _, latch, _ := newTestRig(t, nil)

	if !r.Locked() {
		t.Error("expected rig to start locked")
	}

	r.Unlock()
	if r.Locked() || latch.unlocks != 1 {
		t.Errorf("expected unlocked, got locked=%t unlocks=%d", r.Locked(), latch.unlocks)
	}

	r.Lock()
	if !r.Locked() || latch.locks != 1 {
		t.Errorf("expected locked, got locked=%t locks=%d", r.Locked(), latch.locks)
	}
}

func TestRigLockError(t *testing.T) {
	r, _, latch, _ := newTestRig(t, nil)
	latch.err = errors.New("jammed")

	r.Unlock()
	if !r.Locked() {
		t.Error("expected rig to stay locked when the latch fails")
	}
}

func TestRigJogMotor(t *testing.T) {
	tests := []struct {
		name     string
		motor    int
		dir      Direction
		expected [2][]int32
	}{
		{"FirstForward", 0, DirectionForward, [2][]int32{{16}, nil}},
		{"SecondReverse", 1, DirectionReverse, [2][]int32{nil, {-16}}},
		{"NoSuchMotor", 3, DirectionForward, [2][]int32{nil, nil}},
		{"Negative", -1, DirectionForward, [2][]int32{nil, nil}},
		{"NoDirection", 0, DirectionNone, [2][]int32{nil, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, motors, _, _ := newTestRig(t, nil)
			r.JogMotor(tt.motor, tt.dir)

			for i, m := range motors {
				if len(m.moves) != len(tt.expected[i]) {
					t.Fatalf("motor %d: expected=%v, got=%v", i, tt.expected[i], m.moves)
				}
				for j := range m.moves {
					if m.moves[j] != tt.expected[i][j] {
						t.Errorf("motor %d: expected=%v, got=%v", i, tt.expected[i], m.moves)
					}
				}
			}
		})
	}
}

func TestNewRigEnablePinNeedsGPIO(t *testing.T) {
	enable := hal.Pin(1)
	_, err := NewRig(RigConfig{EnablePin: &enable}, nil, nil, nil, nil)
	if err == nil {
		t.Error("expected error")
	}
}

func TestSolenoidLatch(t *testing.T) {
	gpio := hal.NewVirtualGPIO()
	pins := []hal.Pin{10, 11}

	l, err := NewSolenoidLatch(gpio, pins)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	check := func(expected bool) {
		t.Helper()
		for _, p := range pins {
			on, ok := gpio.Output(p)
			if !ok || on != expected {
				t.Errorf("pin %d: expected=%t, got=%t", p, expected, on)
			}
		}
	}

	check(false)
	_ = l.Unlock()
	check(true)
	_ = l.Lock()
	check(false)
}

func TestStepperSequences(t *testing.T) {
	tests := []struct {
		name     string
		mode     StepMode
		steps    int32
		position int
		coils    [4]bool
	}{
		{"FullForward", StepModeFull, 1, 1, [4]bool{false, true, false, false}},
		{"FullWraps", StepModeFull, 5, 1, [4]bool{false, true, false, false}},
		{"FullBackward", StepModeFull, -1, 3, [4]bool{false, false, false, true}},
		{"HalfForward", StepModeHalf, 1, 1, [4]bool{true, true, false, false}},
		{"HalfBackward", StepModeHalf, -1, 7, [4]bool{true, false, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gpio := hal.NewVirtualGPIO()
			clock := hal.NewManualClock(time.Unix(0, 0))
			pins := [4]hal.Pin{4, 5, 6, 7}

			s, err := NewStepper(gpio, clock, StepperConfig{Pins: pins, StepMode: tt.mode})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			s.Move(tt.steps)

			if s.Position() != tt.position {
				t.Errorf("expected=%d, got=%d", tt.position, s.Position())
			}
			for i, p := range pins {
				if on, _ := gpio.Output(p); on != tt.coils[i] {
					t.Errorf("coil %d: expected=%t, got=%t", i, tt.coils[i], on)
				}
			}

			abs := tt.steps
			if abs < 0 {
				abs = -abs
			}
			if clock.Slept() != time.Duration(abs)*defaultStepDelay {
				t.Errorf("expected=%v, got=%v", time.Duration(abs)*defaultStepDelay, clock.Slept())
			}

			s.Release()
			for _, p := range pins {
				if on, _ := gpio.Output(p); on {
					t.Errorf("expected coil %d off after release", p)
				}
			}
		})
	}
}

func TestNewStepperInvalidMode(t *testing.T) {
	_, err := NewStepper(hal.NewVirtualGPIO(), nil, StepperConfig{StepMode: 5})
	if err == nil || err.Error() != "invalid StepMode" {
		t.Errorf("expected=%q, got=%v", "invalid StepMode", err)
	}
}
