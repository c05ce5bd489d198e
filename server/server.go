// Package server exposes the debug console over HTTP. Every action is posted as an
// event, which is applied to the running controller and kept so it can be read back.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/calvinmclean/babyapi"

	"github.com/calvinmclean/bedlift"
)

const shutdownTimeout = 5 * time.Second

// Controller is the part of the console a remote client may use
type Controller interface {
	Press(bedlift.Button) error
	Release(bedlift.Button) error
	CycleMode() (bedlift.OperationMode, error)
	Touch() error
	ClearMessage() error
	Status() (string, error)
}

// Action is what an Event does to the controller
type Action string

const (
	ActionPress   Action = "press"
	ActionRelease Action = "release"
	ActionCycle   Action = "cycle"
	ActionTouch   Action = "touch"
	ActionClear   Action = "clear"
)

// Event is one console action. Mode is filled in after a cycle.
type Event struct {
	babyapi.DefaultResource

	Action Action    `json:"action"`
	Button string    `json:"button,omitempty"`
	Mode   string    `json:"mode,omitempty"`
	At     time.Time `json:"at"`

	ctrl Controller
}

// Bind applies a new event to the controller before it is stored
func (e *Event) Bind(r *http.Request) error {
	err := e.DefaultResource.Bind(r)
	if err != nil {
		return err
	}
	if r.Method != http.MethodPost {
		return errors.New("events cannot be changed")
	}
	if e.ctrl == nil {
		return errors.New("no controller")
	}

	e.At = time.Now()
	return e.apply()
}

func (e *Event) apply() error {
	switch e.Action {
	case ActionPress, ActionRelease:
		b, ok := bedlift.ParseButton(e.Button)
		if !ok {
			return fmt.Errorf("invalid button: %q", e.Button)
		}
		e.Button = b.String()
		if e.Action == ActionPress {
			return e.ctrl.Press(b)
		}
		return e.ctrl.Release(b)
	case ActionCycle:
		m, err := e.ctrl.CycleMode()
		if err != nil {
			return err
		}
		e.Mode = m.String()
		return nil
	case ActionTouch:
		return e.ctrl.Touch()
	case ActionClear:
		return e.ctrl.ClearMessage()
	default:
		return fmt.Errorf("invalid action: %q", e.Action)
	}
}

type Server struct {
	api    *babyapi.API[*Event]
	ctrl   Controller
	logger *slog.Logger
}

func New(ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	api := babyapi.NewAPI("Events", "/events", func() *Event {
		return &Event{ctrl: ctrl}
	})
	return &Server{api: api, ctrl: ctrl, logger: logger}
}

// Handler serves the events API and GET /status
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.status)
	mux.Handle("/", s.api.Router())
	return mux
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	status, err := s.ctrl.Status()
	if err != nil {
		s.logger.Warn("error reading status", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, status)
}

// Run serves on addr until ctx is done
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("error serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("error shutting down: %w", err)
	}
	return nil
}
