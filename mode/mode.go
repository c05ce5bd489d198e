// Package mode holds the operation mode state machine.
package mode

import (
	"log/slog"

	"github.com/calvinmclean/bedlift"
)

// ChangeFunc is called after the mode changes
type ChangeFunc func(from, to bedlift.OperationMode)

// Machine tracks the current operation mode. It is not safe for concurrent use; the
// event loop owns it.
type Machine struct {
	current   bedlift.OperationMode
	dev       bool
	listeners []ChangeFunc
	logger    *slog.Logger
}

// New creates a Machine starting at ModeUpDown. Dev-only modes are reachable only when
// dev is true.
func New(dev bool, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		current: bedlift.ModeUpDown,
		dev:     dev,
		logger:  logger,
	}
}

// Current returns the active mode
func (m *Machine) Current() bedlift.OperationMode {
	return m.current
}

// DevEnabled reports whether dev-only modes are reachable
func (m *Machine) DevEnabled() bool {
	return m.dev
}

// OnChange registers a listener for mode changes
func (m *Machine) OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	m.listeners = append(m.listeners, fn)
}

// Eligible reports whether mode can be selected by Cycle
func (m *Machine) Eligible(mode bedlift.OperationMode) bool {
	cfg, ok := mode.Config()
	if !ok {
		return false
	}
	return m.dev || !cfg.DevOnly
}

// Cycle advances to the next eligible mode, wrapping at the end of the table. If the scan
// comes back to the current mode without finding one, the mode is unchanged.
func (m *Machine) Cycle() bedlift.OperationMode {
	start := m.current
	if !start.Valid() {
		start = bedlift.ModeCount - 1
	}

	next := start
	for {
		next = (next + 1) % bedlift.ModeCount
		if m.Eligible(next) {
			break
		}
		if next == start {
			return m.current
		}
	}

	if next == m.current {
		return m.current
	}
	m.change(next)
	return m.current
}

// Set selects mode directly. It is meant for initialization; invalid modes are ignored.
func (m *Machine) Set(mode bedlift.OperationMode) {
	if !mode.Valid() || mode == m.current {
		return
	}
	m.change(mode)
}

func (m *Machine) change(to bedlift.OperationMode) {
	from := m.current
	m.current = to

	m.logger.Info("mode changed", "from", from.String(), "to", to.String())
	for _, fn := range m.listeners {
		fn(from, to)
	}
}
