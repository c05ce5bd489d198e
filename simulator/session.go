package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/display"
	"github.com/calvinmclean/bedlift/hal"
	"github.com/calvinmclean/bedlift/power"
	"github.com/calvinmclean/bedlift/ui"
)

var errNotRunning = errors.New("controller is not running")

// runner boots the controller on virtual hardware and boots it again after every wake.
// The GPIO bank and the panel outlive each boot, like the real board.
type runner struct {
	gpio   *hal.VirtualGPIO
	mem    *display.Memory
	logger *slog.Logger

	mu      sync.Mutex
	cfg     app.Config
	current *app.App
	ctx     context.Context
	cancel  context.CancelFunc
	state   state
	boots   int
}

func newRunner(cfg app.Config, logger *slog.Logger) *runner {
	return &runner{
		gpio:   hal.NewVirtualGPIO(),
		mem:    display.NewMemory(ui.ScreenWidth, ui.ScreenHeight),
		logger: logger,
		cfg:    cfg,
	}
}

// Run boots until ctx is done or a boot fails. It returns when ctx is done even if the
// controller is asleep, leaving the sleeping boot behind.
func (r *runner) Run(ctx context.Context) error {
	defer r.stop()

	cause := hal.WakeColdBoot
	for ctx.Err() == nil {
		errc := make(chan error, 1)
		go func() {
			errc <- r.boot(ctx, cause)
		}()

		var err error
		select {
		case <-ctx.Done():
			return nil
		case err = <-errc:
		}

		switch {
		case errors.Is(err, power.ErrWoken):
			r.logger.Info("rebooting after wake")
			cause = hal.WakeButton
		case errors.Is(err, errRestart):
			cause = hal.WakeColdBoot
		case err != nil:
			return err
		}
	}
	return nil
}

func (r *runner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current, r.ctx, r.cancel = nil, nil, nil
	r.state = stateStopped
}

var errRestart = errors.New("restart requested")

func (r *runner) boot(ctx context.Context, cause hal.WakeCause) error {
	r.mu.Lock()
	cfg := r.cfg
	r.mu.Unlock()

	r.setState(stateBooting)
	a, err := app.New(cfg, app.Hardware{
		GPIO:    r.gpio,
		Waker:   hal.NewEdgeWaker(r.gpio, cause),
		Clock:   hal.SystemClock{},
		Surface: display.NewCanvas(r.mem, r.mem),
		Logger:  r.logger,
	})
	if err != nil {
		return fmt.Errorf("error creating controller: %w", err)
	}

	sessionCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	r.mu.Lock()
	r.current = a
	r.ctx = sessionCtx
	r.cancel = func() { cancel(errRestart) }
	r.boots++
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.current == a {
			r.current, r.ctx, r.cancel = nil, nil, nil
		}
		r.mu.Unlock()
	}()

	err = a.Run(sessionCtx)
	if err != nil {
		return err
	}
	if errors.Is(context.Cause(sessionCtx), errRestart) {
		return errRestart
	}
	return nil
}

// Restart cold boots with cfg. A sleeping controller has no abort path, so it restarts
// with cfg when it wakes.
func (r *runner) Restart(cfg app.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *runner) Config() app.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// session returns the running controller and the context it runs under
func (r *runner) session() (*app.App, context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, nil, errNotRunning
	}
	return r.current, r.ctx, nil
}

func (r *runner) setState(s state) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// State reports the lifecycle state, reading Asleep from the running controller
func (r *runner) State() state {
	r.mu.Lock()
	s, a := r.state, r.current
	r.mu.Unlock()

	if a == nil {
		return s
	}
	if a.Activity().State() == power.StateAsleep {
		return stateAsleep
	}
	return stateRunning
}

// Boots counts controller boots
func (r *runner) Boots() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.boots
}

// SetButton holds or lets go of a button by driving its pin
func (r *runner) SetButton(b bedlift.Button, pressed bool) error {
	bc, ok := r.Config().ButtonConfig(b)
	if !ok {
		return fmt.Errorf("button %s is not wired", b)
	}
	if pressed {
		r.gpio.Drive(bc.Pin, !bc.ActiveLow)
	} else {
		r.gpio.Release(bc.Pin)
	}
	return nil
}
