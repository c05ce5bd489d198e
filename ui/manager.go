// Package ui composes the controller screen from four panels and redraws them on demand.
package ui

import (
	"log/slog"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/display"
)

// Manager owns the panels. Every method is a no-op until Init receives a surface. It is
// not safe for concurrent use; the event loop owns it.
type Manager struct {
	surface display.Surface
	layout  Layout

	statusBar    StatusBar
	modePanel    ModePanel
	levelDisplay LevelDisplay
	buttonPanel  ButtonPanel

	monitors *bedlift.MonitorStates
	logger   *slog.Logger
}

// NewManager creates a Manager drawing the given monitor values. monitors may be nil, in
// which case monitor updates are ignored.
func NewManager(monitors *bedlift.MonitorStates, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{monitors: monitors, logger: logger}
	m.statusBar.SetMonitors(monitors)
	m.SetMode(bedlift.ModeUpDown)
	return m
}

// Init computes the layout from the surface size and hands each panel its region.
func (m *Manager) Init(s display.Surface) error {
	if s == nil {
		return nil
	}

	layout := NewLayout(s.Width(), s.Height())
	err := layout.Validate(s.Width(), s.Height())
	if err != nil {
		return err
	}

	m.surface = s
	m.layout = layout
	m.statusBar.Init(s, layout.StatusBar)
	m.modePanel.Init(s, layout.ModePanel)
	m.levelDisplay.Init(s, layout.LevelDisplay)
	m.buttonPanel.Init(s, layout.ButtonPanel)

	m.logger.Info(
		"ui initialized",
		"status_bar", layout.StatusBar.String(),
		"mode_panel", layout.ModePanel.String(),
		"level_display", layout.LevelDisplay.String(),
		"button_panel", layout.ButtonPanel.String(),
	)
	return nil
}

func (m *Manager) Surface() display.Surface {
	return m.surface
}

func (m *Manager) Layout() Layout {
	return m.layout
}

// Refresh clears the screen and draws every panel
func (m *Manager) Refresh() {
	if m.surface == nil {
		return
	}
	m.surface.FillScreen(display.Black)
	m.statusBar.Draw()
	m.modePanel.Draw()
	m.levelDisplay.Draw()
	m.buttonPanel.Draw()
	m.flush()
}

func (m *Manager) RefreshStatusBar() {
	m.refresh(&m.statusBar)
}

func (m *Manager) RefreshModePanel() {
	m.refresh(&m.modePanel)
}

func (m *Manager) RefreshLevelDisplay() {
	m.refresh(&m.levelDisplay)
}

func (m *Manager) RefreshButtonPanel() {
	m.refresh(&m.buttonPanel)
}

func (m *Manager) refresh(p Panel) {
	if m.surface == nil {
		return
	}
	p.Draw()
	m.flush()
}

func (m *Manager) flush() {
	err := m.surface.Display()
	if err != nil {
		m.logger.Warn("error flushing display", "error", err)
	}
}

// SetMode updates the mode panel and the button icons. It does not redraw.
func (m *Manager) SetMode(mode bedlift.OperationMode) {
	m.modePanel.SetMode(mode)
	m.buttonPanel.SetMode(mode)
}

func (m *Manager) Mode() bedlift.OperationMode {
	return m.modePanel.Mode()
}

func (m *Manager) SetButtonState(b bedlift.Button, pressed bool) {
	m.buttonPanel.SetButtonState(b, pressed)
}

func (m *Manager) SetStatusMessage(msg string) {
	m.statusBar.SetMessage(msg)
}

func (m *Manager) StatusMessage() string {
	return m.statusBar.Message()
}

func (m *Manager) SetLevelAngle(pitch, roll float32) {
	m.levelDisplay.SetAngle(pitch, roll)
}

// SetMonitor updates a monitor value. It reports whether the value changed so callers
// only redraw the status bar when needed.
func (m *Manager) SetMonitor(mon bedlift.Monitor, v bool) bool {
	if m.monitors == nil || mon < 0 || mon >= bedlift.MonitorCount {
		return false
	}
	if m.monitors.Get(mon) == v {
		return false
	}
	m.monitors.Set(mon, v)
	return true
}

// Monitors returns the monitor values drawn on the status bar. It may be nil.
func (m *Manager) Monitors() *bedlift.MonitorStates {
	return m.monitors
}

func (m *Manager) StatusBar() *StatusBar {
	return &m.statusBar
}

func (m *Manager) ModePanel() *ModePanel {
	return &m.modePanel
}

func (m *Manager) LevelDisplay() *LevelDisplay {
	return &m.levelDisplay
}

func (m *Manager) ButtonPanel() *ButtonPanel {
	return &m.buttonPanel
}
