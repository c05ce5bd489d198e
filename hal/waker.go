package hal

import (
	"fmt"
	"sync"
)

// EdgeWaker sleeps by blocking until one of the armed pins reads high. It serves boards
// without a real deep sleep, like the simulator and the Linux bench rig.
type EdgeWaker struct {
	gpio GPIO

	mu    sync.Mutex
	pins  []Pin
	cause WakeCause
	woke  chan struct{}
}

var _ Waker = &EdgeWaker{}

func NewEdgeWaker(gpio GPIO, cause WakeCause) *EdgeWaker {
	return &EdgeWaker{gpio: gpio, cause: cause}
}

func (w *EdgeWaker) ConfigureWake(pins []Pin) error {
	woke := make(chan struct{})
	var once sync.Once
	for _, p := range pins {
		err := w.gpio.SetInterrupt(p, EdgeRising, func(Pin) {
			once.Do(func() { close(woke) })
		})
		if err != nil {
			return fmt.Errorf("error arming wake pin %d: %w", p, err)
		}
	}
	// wake is level triggered: a pin already high when armed has no edge left to fire
	for _, p := range pins {
		if w.gpio.Get(p) {
			once.Do(func() { close(woke) })
			break
		}
	}

	w.mu.Lock()
	w.pins = append([]Pin(nil), pins...)
	w.woke = woke
	w.mu.Unlock()
	return nil
}

// Sleep blocks until an armed pin reads high. With no armed pins it blocks forever, like the
// hardware would.
func (w *EdgeWaker) Sleep() {
	w.mu.Lock()
	woke := w.woke
	w.mu.Unlock()

	if woke == nil {
		select {}
	}
	<-woke
}

func (w *EdgeWaker) WakeCause() WakeCause {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cause
}

// WakePins returns the pins armed by the last ConfigureWake.
func (w *EdgeWaker) WakePins() []Pin {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Pin(nil), w.pins...)
}
