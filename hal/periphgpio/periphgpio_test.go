package periphgpio

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/calvinmclean/bedlift/hal"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func testGPIO(pins ...*gpiotest.Pin) *GPIO {
	byName := map[string]*gpiotest.Pin{}
	for _, p := range pins {
		byName[p.N] = p
	}
	return newGPIO(Config{
		Names:       map[hal.Pin]string{7: "TFT_PWR"},
		EdgeTimeout: 5 * time.Millisecond,
	}, func(name string) gpio.PinIO {
		p, ok := byName[name]
		if !ok {
			return nil
		}
		return p
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConfigureInput(t *testing.T) {
	tests := []struct {
		name     string
		pull     hal.Pull
		expected gpio.Pull
		high     bool
	}{
		{"PullDown", hal.PullDown, gpio.PullDown, false},
		{"PullUp", hal.PullUp, gpio.PullUp, true},
		{"Float", hal.PullNone, gpio.Float, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &gpiotest.Pin{N: "GPIO2", Num: 2}
			g := testGPIO(p)

			err := g.Configure(2, hal.PinInput, tt.pull)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.P != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, p.P)
			}
			if g.Get(2) != tt.high {
				t.Errorf("expected=%t, got=%t", tt.high, g.Get(2))
			}
		})
	}
}

func TestConfigureErrors(t *testing.T) {
	g := testGPIO(&gpiotest.Pin{N: "GPIO2", Num: 2})

	tests := []struct {
		name     string
		pin      hal.Pin
		mode     hal.PinMode
		pull     hal.Pull
		expected string
	}{
		{"UnknownPin", 9, hal.PinInput, hal.PullNone, `gpio: pin 9: no pin named "GPIO9"`},
		{"InvalidPull", 2, hal.PinInput, hal.Pull(9), "gpio: pin 2: invalid pull"},
		{"InvalidMode", 2, hal.PinMode(9), hal.PullNone, "gpio: pin 2: invalid mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Configure(tt.pin, tt.mode, tt.pull)
			if err == nil || err.Error() != tt.expected {
				t.Errorf("expected=%q, got=%v", tt.expected, err)
			}
		})
	}
}

func TestNamedOutput(t *testing.T) {
	p := &gpiotest.Pin{N: "TFT_PWR", Num: 7, L: gpio.High}
	g := testGPIO(p)

	err := g.Configure(7, hal.PinOutput, hal.PullNone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Read() != gpio.Low {
		t.Errorf("expected output to start low")
	}

	g.Set(7, true)
	if p.Read() != gpio.High {
		t.Errorf("expected=%s, got=%s", gpio.High, p.Read())
	}
}

func TestSetInterrupt(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO1", Num: 1, EdgesChan: make(chan gpio.Level, 4)}
	g := testGPIO(p)
	defer g.Close()

	err := g.Configure(1, hal.PinInput, hal.PullDown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var first, second atomic.Int32
	err = g.SetInterrupt(1, hal.EdgeBoth, func(pin hal.Pin) {
		if pin == 1 {
			first.Add(1)
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.EdgesChan <- gpio.High
	waitFor(t, "first handler", func() bool { return first.Load() == 1 })
	if !g.Get(1) {
		t.Error("expected pin to read high after the edge")
	}

	err = g.SetInterrupt(1, hal.EdgeRising, func(hal.Pin) { second.Add(1) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.EdgesChan <- gpio.Low
	waitFor(t, "second handler", func() bool { return second.Load() == 1 })
	if first.Load() != 1 {
		t.Errorf("expected replaced handler to stop, got %d calls", first.Load())
	}
}

func TestSetInterruptInvalidEdge(t *testing.T) {
	g := testGPIO(&gpiotest.Pin{N: "GPIO1", Num: 1, EdgesChan: make(chan gpio.Level)})

	err := g.SetInterrupt(1, hal.Edge(0), func(hal.Pin) {})
	if err == nil || err.Error() != "gpio: pin 1: invalid edge" {
		t.Errorf("expected=%q, got=%v", "gpio: pin 1: invalid edge", err)
	}
}

func TestEdgeWaker(t *testing.T) {
	up := &gpiotest.Pin{N: "GPIO2", Num: 2, EdgesChan: make(chan gpio.Level, 1)}
	mode := &gpiotest.Pin{N: "GPIO1", Num: 1, EdgesChan: make(chan gpio.Level, 1)}
	g := testGPIO(up, mode)
	defer g.Close()

	w := hal.NewEdgeWaker(g, hal.WakeColdBoot)
	err := w.ConfigureWake([]hal.Pin{2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	woke := make(chan struct{})
	go func() {
		w.Sleep()
		close(woke)
	}()

	mode.EdgesChan <- gpio.High
	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for wake")
	}
}
