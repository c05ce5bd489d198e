// bedlift-bench runs the controller on a Linux board's GPIO header, with the console on
// stdin. There is no panel attached, so the screen is skipped.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/calvinmclean/bedlift/actuator"
	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/commands"
	"github.com/calvinmclean/bedlift/hal"
	"github.com/calvinmclean/bedlift/hal/periphgpio"
	"github.com/calvinmclean/bedlift/power"
	"github.com/calvinmclean/bedlift/server"
)

func main() {
	var (
		dev        bool
		motorPins  string
		configPath string
		httpAddr   string
		verbose    bool
	)
	flag.BoolVar(&dev, "dev", false, "Enable dev-only modes without holding UP and MODE at boot")
	flag.StringVar(&motorPins, "motor", "", "Four comma separated coil pins of a bench stepper. Example: \"5,6,13,19\"")
	flag.StringVar(&configPath, "config", "", "Optional YAML file with button pins, pin names, motor pins and timeouts")
	flag.StringVar(&httpAddr, "http", "", "Also serve the console over HTTP on this address. Example: \":8080\"")
	flag.BoolVar(&verbose, "v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var bench benchConfig
	if configPath != "" {
		var err error
		bench, err = loadBenchConfig(configPath)
		if err != nil {
			logger.Error("error loading config", "error", err)
			os.Exit(1)
		}
		if motorPins == "" {
			motorPins = bench.motorPins()
		}
	}

	gpio, err := periphgpio.New(periphgpio.Config{
		Names:  bench.names(),
		Logger: logger.With("component", "gpio"),
	})
	if err != nil {
		logger.Error("error opening gpio", "error", err)
		os.Exit(1)
	}
	defer gpio.Close()

	actuators, err := benchActuators(gpio, motorPins, logger)
	if err != nil {
		logger.Error("error creating actuators", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := app.DefaultConfig()
	bench.apply(&cfg)
	cfg.ForceDevMode = cfg.ForceDevMode || dev
	cfg.StartupFade = false

	// the console and the HTTP server outlive each boot
	current := &session{}
	console := commands.NewSessionController(current.get, bufio.NewReader(os.Stdin))
	go func() {
		err := commands.Run(ctx, console, os.Stdout)
		if err != nil {
			logger.Error("console stopped", "error", err)
		}
	}()
	if httpAddr != "" {
		go func() {
			err := server.New(console, logger.With("component", "http")).Run(ctx, httpAddr)
			if err != nil {
				logger.Error("http server stopped", "error", err)
			}
		}()
	}

	cause := hal.WakeColdBoot
	for {
		a, err := app.New(cfg, app.Hardware{
			GPIO:      gpio,
			Waker:     hal.NewEdgeWaker(gpio, cause),
			Actuators: actuators,
			Logger:    logger,
		})
		if err != nil {
			logger.Error("error creating controller", "error", err)
			os.Exit(1)
		}

		bootCtx, stop := context.WithCancel(ctx)
		current.set(a, bootCtx)

		// a sleeping controller only returns on wake
		runErr := make(chan error, 1)
		go func() {
			runErr <- a.Run(bootCtx)
		}()
		select {
		case <-ctx.Done():
			stop()
			return
		case err = <-runErr:
		}
		current.set(nil, nil)
		stop()
		if errors.Is(err, power.ErrWoken) {
			cause = hal.WakeButton
			continue
		}
		if err != nil {
			logger.Error("controller stopped", "error", err)
			os.Exit(1)
		}
		return
	}
}

var errNotRunning = errors.New("controller is not running")

// session is the controller boot that is running now
type session struct {
	mu  sync.Mutex
	app *app.App
	ctx context.Context
}

func (s *session) set(a *app.App, ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.app, s.ctx = a, ctx
}

func (s *session) get() (*app.App, context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.app == nil {
		return nil, nil, errNotRunning
	}
	return s.app, s.ctx, nil
}

// benchActuators drives one half-stepped motor on the given pins, or nothing
func benchActuators(gpio hal.GPIO, pins string, logger *slog.Logger) (*actuator.Rig, error) {
	var motors []actuator.Motor
	if pins != "" {
		parts := strings.Split(pins, ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("expected 4 motor pins, got %d", len(parts))
		}

		cfg := actuator.StepperConfig{
			StepMode:  actuator.StepModeHalf,
			StepDelay: 3 * time.Millisecond,
		}
		for i, part := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid motor pin %q: %w", part, err)
			}
			cfg.Pins[i] = hal.Pin(n)
		}

		stepper, err := actuator.NewStepper(gpio, hal.SystemClock{}, cfg)
		if err != nil {
			return nil, fmt.Errorf("error creating stepper: %w", err)
		}
		motors = append(motors, stepper)
	}

	return actuator.NewRig(actuator.DefaultRigConfig(), gpio, motors, nil, logger.With("component", "actuators"))
}
