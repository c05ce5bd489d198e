package app

import (
	"context"
	"errors"
	"time"
)

// ErrLoopStopped is returned when work is submitted to an event loop that is not running
var ErrLoopStopped = errors.New("event loop stopped")

// EventLoop is the single owner of the UI, mode and button state. Other goroutines reach
// that state only through Submit.
type EventLoop struct {
	app    *App
	inject chan func(*App)
	done   chan struct{}
}

func newEventLoop(a *App) *EventLoop {
	size := a.cfg.InjectQueueSize
	if size <= 0 {
		size = 1
	}
	return &EventLoop{
		app:    a,
		inject: make(chan func(*App), size),
		done:   make(chan struct{}),
	}
}

// Run handles queued button edges, submitted work and held-button ticks until ctx is done.
func (l *EventLoop) Run(ctx context.Context) error {
	defer close(l.done)

	a := l.app
	tick := a.cfg.HeldTick
	if tick <= 0 {
		tick = DefaultConfig().HeldTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case pin := <-a.queue.Events():
			tr, ok := a.debouncer.Settle(pin)
			if ok {
				l.locked(func() { a.HandleTransition(tr) })
			}
		case fn := <-l.inject:
			l.locked(func() { fn(a) })
		case <-ticker.C:
			a.drive()
		}
		a.checkDropped()
	}
}

func (l *EventLoop) locked(fn func()) {
	l.app.screenMu.Lock()
	defer l.app.screenMu.Unlock()
	fn()
}

// Submit queues fn to run on the event loop. It blocks until fn is queued, ctx is done or
// the loop stops. It does not wait for fn to run.
func (l *EventLoop) Submit(ctx context.Context, fn func(*App)) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.inject <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

// Do runs fn on the event loop and waits for it to finish
func (l *EventLoop) Do(ctx context.Context, fn func(*App)) error {
	finished := make(chan struct{})
	err := l.Submit(ctx, func(a *App) {
		defer close(finished)
		fn(a)
	})
	if err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// fn may have run just before the loop stopped
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}
