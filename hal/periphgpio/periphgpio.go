// Package periphgpio runs the controller's GPIO on a Linux board through periph.io, for
// bench testing the buttons and outputs without the MCU.
package periphgpio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/calvinmclean/bedlift/hal"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// DefaultEdgeTimeout bounds each wait for an edge so watchers notice when they are replaced
const DefaultEdgeTimeout = 100 * time.Millisecond

type Config struct {
	// Names maps controller pins to periph pin names. Unmapped pins use "GPIO<n>".
	Names       map[hal.Pin]string
	EdgeTimeout time.Duration
	Logger      *slog.Logger
}

type GPIO struct {
	cfg    Config
	lookup func(string) gpio.PinIO

	mu   sync.Mutex
	pins map[hal.Pin]*pin
}

var _ hal.GPIO = &GPIO{}

type pin struct {
	io gpio.PinIO

	// mu guards the pull and the watcher
	mu   sync.Mutex
	pull gpio.Pull
	stop chan struct{}
	done chan struct{}
}

// New initializes the periph host drivers
func New(cfg Config) (*GPIO, error) {
	_, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("error initializing periph host: %w", err)
	}
	return newGPIO(cfg, gpioreg.ByName), nil
}

func newGPIO(cfg Config, lookup func(string) gpio.PinIO) *GPIO {
	if cfg.EdgeTimeout <= 0 {
		cfg.EdgeTimeout = DefaultEdgeTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &GPIO{
		cfg:    cfg,
		lookup: lookup,
		pins:   map[hal.Pin]*pin{},
	}
}

func (g *GPIO) name(p hal.Pin) string {
	if name, ok := g.cfg.Names[p]; ok {
		return name
	}
	return fmt.Sprintf("GPIO%d", p)
}

func (g *GPIO) pin(p hal.Pin) (*pin, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gp, ok := g.pins[p]; ok {
		return gp, nil
	}

	io := g.lookup(g.name(p))
	if io == nil {
		return nil, fmt.Errorf("gpio: pin %d: no pin named %q", p, g.name(p))
	}
	gp := &pin{io: io, pull: gpio.Float}
	g.pins[p] = gp
	return gp, nil
}

func (g *GPIO) Configure(p hal.Pin, mode hal.PinMode, pull hal.Pull) error {
	gp, err := g.pin(p)
	if err != nil {
		return err
	}
	gp.mu.Lock()
	defer gp.mu.Unlock()
	gp.stopWatcher()

	switch mode {
	case hal.PinOutput:
		err = gp.io.Out(gpio.Low)
	case hal.PinInput:
		gp.pull, err = toPull(pull)
		if err == nil {
			err = gp.io.In(gp.pull, gpio.NoEdge)
		}
	default:
		err = fmt.Errorf("invalid mode")
	}
	if err != nil {
		return fmt.Errorf("gpio: pin %d: %w", p, err)
	}
	return nil
}

func (g *GPIO) Get(p hal.Pin) bool {
	gp, err := g.pin(p)
	if err != nil {
		g.cfg.Logger.Warn("error reading pin", "error", err)
		return false
	}
	return gp.io.Read() == gpio.High
}

func (g *GPIO) Set(p hal.Pin, high bool) {
	gp, err := g.pin(p)
	if err == nil {
		err = gp.io.Out(gpio.Level(high))
	}
	if err != nil {
		g.cfg.Logger.Warn("error setting pin", "pin", p, "error", err)
	}
}

// SetInterrupt replaces any previous handler for p. Handlers run on a watcher goroutine
// per pin.
func (g *GPIO) SetInterrupt(p hal.Pin, edge hal.Edge, handler func(hal.Pin)) error {
	gp, err := g.pin(p)
	if err != nil {
		return err
	}
	gp.mu.Lock()
	defer gp.mu.Unlock()
	gp.stopWatcher()

	e, err := toEdge(edge)
	if err != nil {
		return fmt.Errorf("gpio: pin %d: %w", p, err)
	}
	err = gp.io.In(gp.pull, e)
	if err != nil {
		return fmt.Errorf("gpio: pin %d: %w", p, err)
	}

	gp.stop = make(chan struct{})
	gp.done = make(chan struct{})
	go gp.watch(p, gp.stop, gp.done, g.cfg.EdgeTimeout, handler)
	return nil
}

func (gp *pin) watch(p hal.Pin, stop, done chan struct{}, timeout time.Duration, handler func(hal.Pin)) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		if gp.io.WaitForEdge(timeout) {
			handler(p)
		}
	}
}

// stopWatcher waits for the pin's watcher to exit. It may wait up to one edge timeout.
// gp.mu must be held.
func (gp *pin) stopWatcher() {
	if gp.stop == nil {
		return
	}
	close(gp.stop)
	<-gp.done
	gp.stop, gp.done = nil, nil
}

// Close stops every watcher and halts the pins
func (g *GPIO) Close() error {
	g.mu.Lock()
	pins := g.pins
	g.pins = map[hal.Pin]*pin{}
	g.mu.Unlock()

	var firstErr error
	for p, gp := range pins {
		gp.mu.Lock()
		gp.stopWatcher()
		gp.mu.Unlock()
		err := gp.io.Halt()
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("gpio: pin %d: %w", p, err)
		}
	}
	return firstErr
}

func toPull(p hal.Pull) (gpio.Pull, error) {
	switch p {
	case hal.PullNone:
		return gpio.Float, nil
	case hal.PullUp:
		return gpio.PullUp, nil
	case hal.PullDown:
		return gpio.PullDown, nil
	}
	return gpio.PullNoChange, fmt.Errorf("invalid pull")
}

func toEdge(e hal.Edge) (gpio.Edge, error) {
	switch e {
	case hal.EdgeRising:
		return gpio.RisingEdge, nil
	case hal.EdgeFalling:
		return gpio.FallingEdge, nil
	case hal.EdgeBoth:
		return gpio.BothEdges, nil
	}
	return gpio.NoEdge, fmt.Errorf("invalid edge")
}
