package button

import (
	"testing"
	"time"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/hal"
)

const (
	pinDown hal.Pin = 0
	pinMode hal.Pin = 1
	pinUp   hal.Pin = 2
)

var testConfigs = []Config{
	{Button: bedlift.ButtonUp, Pin: pinUp},
	{Button: bedlift.ButtonMode, Pin: pinMode},
	{Button: bedlift.ButtonDown, Pin: pinDown, ActiveLow: true},
}

func newTestDebouncer(t *testing.T) (*Debouncer, *Queue, *hal.VirtualGPIO, *hal.ManualClock) {
	t.Helper()

	gpio := hal.NewVirtualGPIO()
	clock := hal.NewManualClock(time.Unix(0, 0))
	d, err := NewDebouncer(gpio, clock, DefaultDebounce, testConfigs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := NewQueue(DefaultQueueSize)
	err = d.Configure(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Sample()

	return d, q, gpio, clock
}

func drain(d *Debouncer, q *Queue) []Transition {
	var out []Transition
	for {
		select {
		case pin := <-q.Events():
			if tr, ok := d.Settle(pin); ok {
				out = append(out, tr)
			}
		default:
			return out
		}
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	q.OnRawEdge(1)
	q.OnRawEdge(2)
	q.OnRawEdge(3)

	if q.Dropped() != 1 {
		t.Errorf("expected=%d, got=%d", 1, q.Dropped())
	}

	// queued edges are kept in order and never overwritten
	first, second := <-q.Events(), <-q.Events()
	if first != 1 || second != 2 {
		t.Errorf("expected=[1 2], got=[%d %d]", first, second)
	}
}

func TestNewQueueDefaultSize(t *testing.T) {
	q := NewQueue(0)
	if cap(q.events) != DefaultQueueSize {
		t.Errorf("expected=%d, got=%d", DefaultQueueSize, cap(q.events))
	}
}

func TestNewDebouncerErrors(t *testing.T) {
	tests := []struct {
		name    string
		gpio    hal.GPIO
		configs []Config
		err     string
	}{
		{
			"NoGPIO",
			nil,
			nil,
			"gpio is required",
		},
		{
			"DuplicateButton",
			hal.NewVirtualGPIO(),
			[]Config{{Button: bedlift.ButtonUp, Pin: 1}, {Button: bedlift.ButtonUp, Pin: 2}},
			"duplicate config for button UP",
		},
		{
			"DuplicatePin",
			hal.NewVirtualGPIO(),
			[]Config{{Button: bedlift.ButtonUp, Pin: 1}, {Button: bedlift.ButtonDown, Pin: 1}},
			"pin 1 used by UP and DOWN",
		},
		{
			"InvalidButton",
			hal.NewVirtualGPIO(),
			[]Config{{Button: bedlift.ButtonCount, Pin: 1}},
			"invalid button: 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDebouncer(tt.gpio, nil, 0, tt.configs)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.err {
				t.Errorf("expected=%q, got=%q", tt.err, err.Error())
			}
		})
	}
}

func TestConfigurePulls(t *testing.T) {
	_, _, gpio, _ := newTestDebouncer(t)

	tests := []struct {
		pin  hal.Pin
		pull hal.Pull
	}{
		{pinUp, hal.PullDown},
		{pinMode, hal.PullDown},
		{pinDown, hal.PullUp},
	}
	for _, tt := range tests {
		mode, pull := gpio.PinConfig(tt.pin)
		if mode != hal.PinInput || pull != tt.pull {
			t.Errorf("pin %d: expected=%v/%v, got=%v/%v", tt.pin, hal.PinInput, tt.pull, mode, pull)
		}
	}
}

func TestSampleSeedsWithoutTransition(t *testing.T) {
	gpio := hal.NewVirtualGPIO()
	d, err := NewDebouncer(gpio, hal.NewManualClock(time.Unix(0, 0)), 0, testConfigs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := NewQueue(DefaultQueueSize)
	if err := d.Configure(q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gpio.Drive(pinUp, true)
	<-q.Events()
	d.Sample()

	if !d.Pressed(bedlift.ButtonUp) {
		t.Error("expected UP to be pressed after sampling")
	}
	if d.Pressed(bedlift.ButtonDown) {
		t.Error("expected active-low DOWN to be released at its pull-up level")
	}
	if _, ok := d.Settle(pinUp); ok {
		t.Error("expected no transition for a sampled state")
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		pin      hal.Pin
		level    bool
		expected Transition
	}{
		{"UpPressed", pinUp, true, Transition{Button: bedlift.ButtonUp, Pressed: true}},
		{"ModePressed", pinMode, true, Transition{Button: bedlift.ButtonMode, Pressed: true}},
		{"DownPressedActiveLow", pinDown, false, Transition{Button: bedlift.ButtonDown, Pressed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, q, gpio, clock := newTestDebouncer(t)

			gpio.Drive(tt.pin, tt.level)
			got := drain(d, q)

			if len(got) != 1 {
				t.Fatalf("expected 1 transition, got %d", len(got))
			}
			if got[0].Button != tt.expected.Button || got[0].Pressed != tt.expected.Pressed {
				t.Errorf("expected=%q, got=%q", tt.expected, got[0])
			}
			if clock.Slept() != DefaultDebounce {
				t.Errorf("expected=%v, got=%v", DefaultDebounce, clock.Slept())
			}

			s, _ := d.State(tt.expected.Button)
			if !s.Pressed || s.Previous {
				t.Errorf("unexpected state: %+v", s)
			}
		})
	}
}

func TestSettleCollapsesBounce(t *testing.T) {
	tests := []struct {
		name     string
		levels   []bool
		expected []bool
	}{
		{"BounceToPressed", []bool{true, false, true, false, true}, []bool{true}},
		{"BounceBackToReleased", []bool{true, false, true, false}, nil},
		{"SinglePress", []bool{true}, []bool{true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, q, gpio, _ := newTestDebouncer(t)

			// every edge lands in the queue before the loop gets to run
			for _, level := range tt.levels {
				gpio.Drive(pinUp, level)
			}
			got := drain(d, q)

			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d transitions, got %d: %v", len(tt.expected), len(got), got)
			}
			for i, pressed := range tt.expected {
				if got[i].Pressed != pressed {
					t.Errorf("transition %d: expected=%t, got=%t", i, pressed, got[i].Pressed)
				}
			}
		})
	}
}

func TestSettlePressThenRelease(t *testing.T) {
	d, q, gpio, _ := newTestDebouncer(t)

	gpio.Drive(pinMode, true)
	pressed := drain(d, q)
	gpio.Drive(pinMode, false)
	released := drain(d, q)

	if len(pressed) != 1 || !pressed[0].Pressed {
		t.Fatalf("unexpected press transitions: %v", pressed)
	}
	if len(released) != 1 || released[0].Pressed {
		t.Fatalf("unexpected release transitions: %v", released)
	}

	s, _ := d.State(bedlift.ButtonMode)
	if s.Pressed || !s.Previous {
		t.Errorf("unexpected state: %+v", s)
	}
}

func TestSettleUnknownPin(t *testing.T) {
	d, _, _, clock := newTestDebouncer(t)

	if _, ok := d.Settle(42); ok {
		t.Error("expected no transition for unknown pin")
	}
	if clock.Slept() != 0 {
		t.Errorf("expected no debounce wait, got %v", clock.Slept())
	}
}

func TestTransitionString(t *testing.T) {
	tr := Transition{Button: bedlift.ButtonDown, Pressed: true}
	if tr.String() != "DOWN pressed" {
		t.Errorf("expected=%q, got=%q", "DOWN pressed", tr.String())
	}
	tr.Pressed = false
	if tr.String() != "DOWN released" {
		t.Errorf("expected=%q, got=%q", "DOWN released", tr.String())
	}
}
