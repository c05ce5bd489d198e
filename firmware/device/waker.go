//go:build tinygo

package device

import (
	"machine"
	"sync"
	"time"

	"github.com/calvinmclean/bedlift/hal"
)

const defaultPollInterval = 20 * time.Millisecond

// Waker sleeps with the panel powered off and polls the wake pins. TinyGo has no
// portable deep sleep, so Sleep returns on wake and the caller boots the controller
// again instead of the chip resetting.
type Waker struct {
	display *Display
	poll    time.Duration
	cause   hal.WakeCause

	mu   sync.Mutex
	pins []hal.Pin
}

var _ hal.Waker = &Waker{}

func NewWaker(d *Display, cfg SleepConfig, cause hal.WakeCause) *Waker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Waker{display: d, poll: cfg.PollInterval, cause: cause}
}

func (w *Waker) ConfigureWake(pins []hal.Pin) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pins = append([]hal.Pin(nil), pins...)
	return nil
}

func (w *Waker) Sleep() {
	w.mu.Lock()
	pins := w.pins
	w.mu.Unlock()

	if w.display != nil {
		w.display.Power(false)
	}

	for !anyHigh(pins) {
		time.Sleep(w.poll)
	}

	if w.display != nil {
		w.display.Wake()
	}
}

func (w *Waker) WakeCause() hal.WakeCause {
	return w.cause
}

func anyHigh(pins []hal.Pin) bool {
	for _, p := range pins {
		if machine.Pin(p).Get() {
			return true
		}
	}
	return false
}
