// Package button turns raw GPIO edges into debounced press and release transitions.
//
// Interrupt handlers only push the pin number onto a Queue. The event loop drains the
// queue and calls Debouncer.Settle, which waits out the bounce and samples the settled
// level. Several queued edges for one pin collapse into at most one transition because
// later samples find the state unchanged.
package button

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/hal"
)

const (
	DefaultDebounce  = 50 * time.Millisecond
	DefaultQueueSize = 10
)

// Queue is the bounded FIFO between interrupt handlers and the event loop.
type Queue struct {
	events  chan hal.Pin
	dropped atomic.Uint32
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{events: make(chan hal.Pin, size)}
}

// OnRawEdge enqueues pin without blocking. It is safe to call from an interrupt handler.
// When the queue is full the edge is counted in Dropped; queued edges are never replaced.
func (q *Queue) OnRawEdge(pin hal.Pin) {
	select {
	case q.events <- pin:
	default:
		q.dropped.Add(1)
	}
}

// Events is the consumer side of the queue
func (q *Queue) Events() <-chan hal.Pin {
	return q.events
}

// Dropped returns how many edges did not fit in the queue
func (q *Queue) Dropped() uint32 {
	return q.dropped.Load()
}

// Config wires a logical button to a pin
type Config struct {
	Button    bedlift.Button
	Pin       hal.Pin
	ActiveLow bool
}

// Pull returns the resistor that holds the button in its released state
func (c Config) Pull() hal.Pull {
	if c.ActiveLow {
		return hal.PullUp
	}
	return hal.PullDown
}

// IsPressed maps a raw level to pressed using the button's polarity
func (c Config) IsPressed(high bool) bool {
	return high != c.ActiveLow
}

// State is the debounced state of one button
type State struct {
	Config
	Pressed  bool
	Previous bool
}

// Transition is a debounced change of a button
type Transition struct {
	Button  bedlift.Button
	Pressed bool
	At      time.Time
}

func (t Transition) String() string {
	if t.Pressed {
		return t.Button.String() + " pressed"
	}
	return t.Button.String() + " released"
}

// Debouncer owns the button states. Only the event loop may call it after Configure.
type Debouncer struct {
	gpio     hal.GPIO
	clock    hal.Clock
	interval time.Duration

	states [bedlift.ButtonCount]State
	known  [bedlift.ButtonCount]bool
}

// NewDebouncer validates the button configs. Each button and each pin may appear once.
func NewDebouncer(gpio hal.GPIO, clock hal.Clock, interval time.Duration, configs []Config) (*Debouncer, error) {
	if gpio == nil {
		return nil, errors.New("gpio is required")
	}
	if clock == nil {
		clock = hal.SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultDebounce
	}

	d := &Debouncer{gpio: gpio, clock: clock, interval: interval}
	pins := map[hal.Pin]bedlift.Button{}
	for _, cfg := range configs {
		if cfg.Button < 0 || cfg.Button >= bedlift.ButtonCount {
			return nil, fmt.Errorf("invalid button: %d", cfg.Button)
		}
		if d.known[cfg.Button] {
			return nil, fmt.Errorf("duplicate config for button %s", cfg.Button)
		}
		if other, ok := pins[cfg.Pin]; ok {
			return nil, fmt.Errorf("pin %d used by %s and %s", cfg.Pin, other, cfg.Button)
		}
		pins[cfg.Pin] = cfg.Button
		d.known[cfg.Button] = true
		d.states[cfg.Button] = State{Config: cfg}
	}
	return d, nil
}

// Configure sets every button pin as an input with its pull and routes both edges to q.
func (d *Debouncer) Configure(q *Queue) error {
	for b := range d.states {
		if !d.known[b] {
			continue
		}
		cfg := d.states[b].Config
		err := d.gpio.Configure(cfg.Pin, hal.PinInput, cfg.Pull())
		if err != nil {
			return fmt.Errorf("error configuring %s button: %w", cfg.Button, err)
		}
		err = d.gpio.SetInterrupt(cfg.Pin, hal.EdgeBoth, q.OnRawEdge)
		if err != nil {
			return fmt.Errorf("error setting %s interrupt: %w", cfg.Button, err)
		}
	}
	return nil
}

// Sample seeds every state from the current hardware levels without producing transitions.
func (d *Debouncer) Sample() {
	for b := range d.states {
		if !d.known[b] {
			continue
		}
		s := &d.states[b]
		s.Pressed = s.IsPressed(d.gpio.Get(s.Pin))
		s.Previous = s.Pressed
	}
}

// Settle waits the debounce interval, samples pin and returns a transition if the
// settled state differs from the last known state. Unknown pins never transition.
func (d *Debouncer) Settle(pin hal.Pin) (Transition, bool) {
	s := d.byPin(pin)
	if s == nil {
		return Transition{}, false
	}

	d.clock.Sleep(d.interval)

	pressed := s.IsPressed(d.gpio.Get(pin))
	if pressed == s.Pressed {
		return Transition{}, false
	}

	s.Previous = s.Pressed
	s.Pressed = pressed
	return Transition{Button: s.Button, Pressed: pressed, At: d.clock.Now()}, true
}

// State returns the debounced state of b
func (d *Debouncer) State(b bedlift.Button) (State, bool) {
	if b < 0 || b >= bedlift.ButtonCount || !d.known[b] {
		return State{}, false
	}
	return d.states[b], true
}

// Pressed reports the debounced state of b
func (d *Debouncer) Pressed(b bedlift.Button) bool {
	s, ok := d.State(b)
	return ok && s.Pressed
}

func (d *Debouncer) byPin(pin hal.Pin) *State {
	for b := range d.states {
		if d.known[b] && d.states[b].Pin == pin {
			return &d.states[b]
		}
	}
	return nil
}
