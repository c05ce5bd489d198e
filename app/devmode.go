package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/calvinmclean/bedlift/button"
	"github.com/calvinmclean/bedlift/hal"
)

// DetectDevMode samples UP and MODE once at boot. Both must read pressed for dev mode.
// Each pin is forced to its release pull first so a floating pin never reads pressed.
func DetectDevMode(gpio hal.GPIO, clock hal.Clock, settle time.Duration, up, mode button.Config) (bool, error) {
	if gpio == nil {
		return false, errors.New("gpio is required")
	}
	if clock == nil {
		clock = hal.SystemClock{}
	}

	for _, bc := range []button.Config{up, mode} {
		err := gpio.Configure(bc.Pin, hal.PinInput, bc.Pull())
		if err != nil {
			return false, fmt.Errorf("error configuring %s button: %w", bc.Button, err)
		}
	}

	clock.Sleep(settle)

	return up.IsPressed(gpio.Get(up.Pin)) && mode.IsPressed(gpio.Get(mode.Pin)), nil
}
