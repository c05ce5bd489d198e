package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/hal"
)

// benchConfig is the optional YAML file describing how a bench board is wired.
//
//	buttons:
//	  up: 17
//	  mode: 27
//	  down: 22
//	pin_names:
//	  17: GPIO17
//	motor: [5, 6, 13, 19]
//	dim_after: 10s
//	sleep_after: 15s
type benchConfig struct {
	Buttons    map[string]uint8 `yaml:"buttons"`
	PinNames   map[uint8]string `yaml:"pin_names"`
	Motor      []uint8          `yaml:"motor"`
	DimAfter   time.Duration    `yaml:"dim_after"`
	SleepAfter time.Duration    `yaml:"sleep_after"`
	DevMode    bool             `yaml:"dev_mode"`
}

func loadBenchConfig(path string) (benchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return benchConfig{}, fmt.Errorf("error reading config: %w", err)
	}
	return parseBenchConfig(data)
}

func parseBenchConfig(data []byte) (benchConfig, error) {
	var cfg benchConfig
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return benchConfig{}, fmt.Errorf("error parsing config: %w", err)
	}

	err = cfg.validate()
	if err != nil {
		return benchConfig{}, err
	}
	return cfg, nil
}

func (c benchConfig) validate() error {
	for name := range c.Buttons {
		if _, ok := bedlift.ParseButton(name); !ok {
			return fmt.Errorf("unknown button %q", name)
		}
	}
	if len(c.Motor) != 0 && len(c.Motor) != 4 {
		return fmt.Errorf("expected 4 motor pins, got %d", len(c.Motor))
	}
	if c.DimAfter < 0 || c.SleepAfter < 0 {
		return errors.New("timeouts must be positive")
	}
	if c.DimAfter > 0 && c.SleepAfter > 0 && c.DimAfter >= c.SleepAfter {
		return errors.New("dim_after must be shorter than sleep_after")
	}
	return nil
}

// apply rewires cfg. Unset fields keep their defaults.
func (c benchConfig) apply(cfg *app.Config) {
	for name, pin := range c.Buttons {
		b, _ := bedlift.ParseButton(name)
		for i := range cfg.Buttons {
			if cfg.Buttons[i].Button == b {
				cfg.Buttons[i].Pin = hal.Pin(pin)
			}
		}
	}
	cfg.Power.WakePins = cfg.WakePins()

	if c.DimAfter > 0 {
		cfg.Power.DimAfter = c.DimAfter
	}
	if c.SleepAfter > 0 {
		cfg.Power.SleepAfter = c.SleepAfter
	}
	if c.DevMode {
		cfg.ForceDevMode = true
	}
}

func (c benchConfig) names() map[hal.Pin]string {
	if len(c.PinNames) == 0 {
		return nil
	}
	names := make(map[hal.Pin]string, len(c.PinNames))
	for pin, name := range c.PinNames {
		names[hal.Pin(pin)] = name
	}
	return names
}

func (c benchConfig) motorPins() string {
	parts := make([]string, 0, len(c.Motor))
	for _, p := range c.Motor {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ",")
}
