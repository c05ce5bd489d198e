// Package app wires the buttons, mode machine, screen and power governor together and
// runs the controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/actuator"
	"github.com/calvinmclean/bedlift/button"
	"github.com/calvinmclean/bedlift/display"
	"github.com/calvinmclean/bedlift/hal"
	"github.com/calvinmclean/bedlift/mode"
	"github.com/calvinmclean/bedlift/power"
	"github.com/calvinmclean/bedlift/ui"
)

// Hardware is what the controller runs on. Surface and Actuators are optional.
type Hardware struct {
	GPIO      hal.GPIO
	Waker     hal.Waker
	Clock     hal.Clock
	Surface   display.Surface
	Actuators actuator.Actuators
	Logger    *slog.Logger
}

// App is the controller. Everything except the power governor and the activity clock is
// owned by the event loop once Run has started.
type App struct {
	cfg Config

	gpio      hal.GPIO
	waker     hal.Waker
	clock     hal.Clock
	surface   display.Surface
	actuators actuator.Actuators
	logger    *slog.Logger

	devMode  bool
	monitors bedlift.MonitorStates
	ui       *ui.Manager
	modes    *mode.Machine

	queue     *button.Queue
	debouncer *button.Debouncer
	activity  *power.ActivityClock
	governor  *power.Governor
	loop      *EventLoop
	// runCtx is set by Run before the governor starts
	runCtx context.Context

	// screenMu serializes drawing between the event loop and the governor blanking the
	// screen before sleep
	screenMu sync.Mutex

	pressed   [bedlift.ButtonCount]bool
	spinOwner *bedlift.Button
	dropped   uint32
	booted    bool
}

// New creates the controller without touching hardware. Call Run to boot it.
func New(cfg Config, hw Hardware) (*App, error) {
	if hw.GPIO == nil {
		return nil, errors.New("gpio is required")
	}
	if hw.Waker == nil {
		return nil, errors.New("waker is required")
	}
	if hw.Clock == nil {
		hw.Clock = hal.SystemClock{}
	}
	if hw.Logger == nil {
		hw.Logger = slog.New(slog.DiscardHandler)
	}
	if _, ok := cfg.ButtonConfig(bedlift.ButtonUp); !ok {
		return nil, errors.New("UP button is not configured")
	}
	if _, ok := cfg.ButtonConfig(bedlift.ButtonMode); !ok {
		return nil, errors.New("MODE button is not configured")
	}
	if cfg.Power.WakePins == nil {
		cfg.Power.WakePins = cfg.WakePins()
	}

	a := &App{
		cfg:     cfg,
		gpio:    hw.GPIO,
		waker:   hw.Waker,
		clock:   hw.Clock,
		surface: hw.Surface,
		logger:  hw.Logger,
		queue:   button.NewQueue(cfg.QueueSize),
	}

	a.actuators = hw.Actuators
	if a.actuators == nil {
		rig, err := actuator.NewRig(actuator.DefaultRigConfig(), nil, nil, nil, a.logger.With("component", "actuators"))
		if err != nil {
			return nil, fmt.Errorf("error creating actuators: %w", err)
		}
		a.actuators = rig
	}

	var err error
	a.debouncer, err = button.NewDebouncer(a.gpio, a.clock, cfg.Debounce, cfg.Buttons)
	if err != nil {
		return nil, fmt.Errorf("error creating debouncer: %w", err)
	}

	full := cfg.Power.FullBrightness
	if full == 0 {
		full = power.DefaultConfig().FullBrightness
	}
	initial := full
	if cfg.StartupFade {
		initial = 0
	}
	var backlight display.Backlight
	if a.surface != nil {
		backlight = a.surface
	}
	a.activity = power.NewActivityClock(cfg.Power, a.clock, backlight, initial)

	a.governor, err = power.NewGovernor(cfg.Power, power.Dependencies{
		Activity: a.activity,
		GPIO:     a.gpio,
		Waker:    a.waker,
		Motors:   motorHalter{a},
		Screen:   blanker{a},
		Clock:    a.clock,
		Logger:   a.logger.With("component", "power"),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating governor: %w", err)
	}

	// the bed starts locked and still
	a.monitors.Lock = true
	a.monitors.Battery = true

	a.ui = ui.NewManager(&a.monitors, a.logger.With("component", "ui"))
	a.modes = mode.New(false, a.logger)
	a.loop = newEventLoop(a)

	return a, nil
}

// Boot detects dev mode, configures the buttons and draws the first screen. Run calls it.
func (a *App) Boot() error {
	if a.booted {
		return errors.New("already booted")
	}

	a.logger.Info("booting", "wake_cause", a.waker.WakeCause().String())

	up, _ := a.cfg.ButtonConfig(bedlift.ButtonUp)
	modeButton, _ := a.cfg.ButtonConfig(bedlift.ButtonMode)
	dev, err := DetectDevMode(a.gpio, a.clock, a.cfg.DevSettle, up, modeButton)
	if err != nil {
		return fmt.Errorf("error detecting dev mode: %w", err)
	}
	a.devMode = dev || a.cfg.ForceDevMode
	a.monitors.DevMode = a.devMode
	a.logger.Info("dev mode", "enabled", a.devMode)

	a.modes = mode.New(a.devMode, a.logger)
	a.modes.OnChange(a.onModeChange)

	err = a.debouncer.Configure(a.queue)
	if err != nil {
		return fmt.Errorf("error configuring buttons: %w", err)
	}
	a.debouncer.Sample()
	for b := range a.pressed {
		a.pressed[b] = a.debouncer.Pressed(bedlift.Button(b))
	}

	a.screenMu.Lock()
	err = a.ui.Init(a.surface)
	if err != nil {
		a.screenMu.Unlock()
		return fmt.Errorf("error initializing ui: %w", err)
	}
	a.ui.SetMode(a.modes.Current())
	if a.waker.WakeCause() == hal.WakeButton {
		a.ui.SetStatusMessage("Woke by button")
	}
	a.ui.Refresh()
	a.screenMu.Unlock()

	if a.cfg.StartupFade {
		a.activity.Fade(a.activity.Full())
	}

	a.booted = true
	return nil
}

// Run boots the controller and runs the event loop and the power governor until ctx is
// done. It returns power.ErrWoken if the controller slept and a wake pin rose.
func (a *App) Run(ctx context.Context) error {
	err := a.Boot()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.runCtx = ctx

	governorErr := make(chan error, 1)
	go func() {
		governorErr <- a.governor.Run(ctx)
		cancel()
	}()

	loopErr := a.loop.Run(ctx)
	cancel()
	err = <-governorErr

	if loopErr != nil {
		return loopErr
	}
	if err != nil && !errors.Is(err, power.ErrWoken) {
		a.logger.Error("power governor stopped", "error", err)
	}
	return err
}

// Loop returns the event loop for submitting work from other goroutines
func (a *App) Loop() *EventLoop {
	return a.loop
}

func (a *App) DevMode() bool {
	return a.devMode
}

func (a *App) Queue() *button.Queue {
	return a.queue
}

func (a *App) Activity() *power.ActivityClock {
	return a.activity
}

func (a *App) Governor() *power.Governor {
	return a.governor
}

// HandleTransition applies a debounced button change. It must run on the event loop.
func (a *App) HandleTransition(tr button.Transition) {
	if tr.Button < 0 || tr.Button >= bedlift.ButtonCount {
		return
	}
	a.logger.Debug("button", "transition", tr.String())

	// nothing runs on the controller while it sleeps, the wake press included
	if a.activity.State() == power.StateAsleep {
		return
	}
	a.activity.Touch()

	a.pressed[tr.Button] = tr.Pressed
	a.ui.SetButtonState(tr.Button, tr.Pressed)
	a.ui.RefreshButtonPanel()

	if tr.Button == bedlift.ButtonMode {
		if tr.Pressed {
			a.modes.Cycle()
		}
		return
	}

	current := a.modes.Current()
	if !current.Valid() {
		return
	}
	if h := behaviors[current].handler(tr.Button, tr.Pressed); h != nil {
		h(a, tr.Button)
	}
}

// Inject applies a button change that did not come from the GPIO. The debouncer's view of
// the pin is left alone.
func (a *App) Inject(b bedlift.Button, pressed bool) {
	a.HandleTransition(button.Transition{Button: b, Pressed: pressed, At: a.clock.Now()})
}

// CycleMode advances the mode as if MODE was pressed and released
func (a *App) CycleMode() bedlift.OperationMode {
	a.activity.Touch()
	return a.modes.Cycle()
}

// Touch counts as button activity without a transition
func (a *App) Touch() {
	a.activity.Touch()
}

func (a *App) SetLevelAngle(pitch, roll float32) {
	a.ui.SetLevelAngle(pitch, roll)
	a.ui.RefreshLevelDisplay()
}

func (a *App) LevelAngle() (pitch, roll float32) {
	return a.ui.LevelDisplay().Angle()
}

func (a *App) SetStatusMessage(msg string) {
	a.ui.SetStatusMessage(msg)
	a.ui.RefreshStatusBar()
}

// Mode returns the current operation mode
func (a *App) Mode() bedlift.OperationMode {
	return a.modes.Current()
}

// Monitors returns a copy of the status bar values
func (a *App) Monitors() bedlift.MonitorStates {
	return a.monitors
}

func (a *App) onModeChange(from, to bedlift.OperationMode) {
	if a.spinOwner != nil {
		a.haltMotors()
	}
	a.ui.SetMode(to)
	a.ui.RefreshModePanel()
	a.ui.RefreshButtonPanel()
}

// drive runs held-button actions
func (a *App) drive() {
	if a.actuators.Spinning() == actuator.DirectionNone {
		return
	}
	a.actuators.Drive()
}

func (a *App) haltMotors() {
	a.actuators.StopMotors()
	a.setMonitor(bedlift.MonitorMotors, false)
	a.actuators.Lock()
	a.setMonitor(bedlift.MonitorLock, true)
	a.spinOwner = nil
}

func (a *App) setMonitor(m bedlift.Monitor, v bool) {
	if a.ui.SetMonitor(m, v) {
		a.ui.RefreshStatusBar()
	}
}

// checkDropped logs edges lost to a full queue since the last check
func (a *App) checkDropped() {
	dropped := a.queue.Dropped()
	if dropped == a.dropped {
		return
	}
	a.logger.Warn("button queue full", "dropped", dropped-a.dropped, "total", dropped)
	a.dropped = dropped
}

// blanker clears the screen for the governor. It only takes the screen lock, so it never
// touches panel state.
type blanker struct {
	a *App
}

func (b blanker) Blank() {
	b.a.screenMu.Lock()
	defer b.a.screenMu.Unlock()

	if b.a.surface == nil {
		return
	}
	b.a.surface.FillScreen(display.Black)
	err := b.a.surface.Display()
	if err != nil {
		b.a.logger.Warn("error blanking display", "error", err)
	}
}

// motorHalter stops the motors for the governor. The rig belongs to the event loop, so
// once Run has started the halt is handed to the loop and the governor waits for it.
type motorHalter struct {
	a *App
}

func (h motorHalter) StopMotors() {
	if h.a.runCtx == nil {
		h.a.screenMu.Lock()
		defer h.a.screenMu.Unlock()
		h.a.haltMotors()
		return
	}

	err := h.a.loop.Do(h.a.runCtx, func(a *App) { a.haltMotors() })
	if err != nil {
		h.a.logger.Warn("error stopping motors before sleep", "error", err)
	}
}
