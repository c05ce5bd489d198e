package hal

import (
	"fmt"
	"sync"
	"time"
)

type virtualPin struct {
	mode    PinMode
	pull    Pull
	level   bool
	driven  bool
	edge    Edge
	handler func(Pin)
}

// VirtualGPIO is an in-memory GPIO bank. Drive simulates an external signal on an input.
type VirtualGPIO struct {
	mu   sync.Mutex
	pins map[Pin]*virtualPin
}

var _ GPIO = &VirtualGPIO{}

func NewVirtualGPIO() *VirtualGPIO {
	return &VirtualGPIO{pins: map[Pin]*virtualPin{}}
}

func (g *VirtualGPIO) pin(p Pin) *virtualPin {
	vp, ok := g.pins[p]
	if !ok {
		vp = &virtualPin{}
		g.pins[p] = vp
	}
	return vp
}

func (g *VirtualGPIO) Configure(p Pin, mode PinMode, pull Pull) error {
	if mode != PinInput && mode != PinOutput {
		return fmt.Errorf("gpio: pin %d: invalid mode", p)
	}
	if pull > PullDown {
		return fmt.Errorf("gpio: pin %d: invalid pull", p)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	vp := g.pin(p)
	vp.mode = mode
	vp.pull = pull
	// an undriven input floats to its pull level
	if mode == PinInput && !vp.driven {
		switch pull {
		case PullUp:
			vp.level = true
		case PullDown:
			vp.level = false
		}
	}
	return nil
}

func (g *VirtualGPIO) Get(p Pin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pin(p).level
}

func (g *VirtualGPIO) Set(p Pin, high bool) {
	g.mu.Lock()
	vp := g.pin(p)
	if vp.mode != PinOutput {
		g.mu.Unlock()
		return
	}
	vp.level = high
	g.mu.Unlock()
}

func (g *VirtualGPIO) SetInterrupt(p Pin, edge Edge, handler func(Pin)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	vp := g.pin(p)
	if vp.mode != PinInput {
		return fmt.Errorf("gpio: pin %d: interrupt on non-input", p)
	}
	vp.edge = edge
	vp.handler = handler
	return nil
}

// Drive sets the external level of an input and fires its interrupt on a matching edge.
func (g *VirtualGPIO) Drive(p Pin, high bool) {
	g.mu.Lock()
	vp := g.pin(p)
	vp.driven = true
	fire := vp.setLevel(p, high)
	g.mu.Unlock()

	fire()
}

// Release stops driving the pin so it floats back to its pull level.
func (g *VirtualGPIO) Release(p Pin) {
	g.mu.Lock()
	vp := g.pin(p)
	vp.driven = false
	high := vp.level
	switch vp.pull {
	case PullUp:
		high = true
	case PullDown:
		high = false
	}
	fire := vp.setLevel(p, high)
	g.mu.Unlock()

	fire()
}

// setLevel updates the level and returns the interrupt call to make once unlocked.
func (vp *virtualPin) setLevel(p Pin, high bool) func() {
	changed := vp.level != high
	vp.level = high
	handler, edge := vp.handler, vp.edge
	if !changed || handler == nil || !edge.Matches(high) {
		return func() {}
	}
	return func() { handler(p) }
}

// Output returns the last level written to an output pin.
func (g *VirtualGPIO) Output(p Pin) (high bool, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	vp, exists := g.pins[p]
	if !exists || vp.mode != PinOutput {
		return false, false
	}
	return vp.level, true
}

// PinConfig returns the current mode and pull of p.
func (g *VirtualGPIO) PinConfig(p Pin) (PinMode, Pull) {
	g.mu.Lock()
	defer g.mu.Unlock()
	vp := g.pin(p)
	return vp.mode, vp.pull
}

// ManualClock is a Clock whose Sleep advances time instantly.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Time
	slept time.Duration
}

var _ Clock = &ManualClock{}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Sleep(d time.Duration) {
	c.Advance(d)
	c.mu.Lock()
	c.slept += d
	c.mu.Unlock()
}

// Advance moves the clock forward without counting as sleep.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Slept is the total duration passed to Sleep.
func (c *ManualClock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slept
}
