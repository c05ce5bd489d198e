//go:build tinygo

package main

import (
	"context"
	"errors"
	"log/slog"
	"machine"
	"time"

	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/commands"
	"github.com/calvinmclean/bedlift/firmware/device"
	"github.com/calvinmclean/bedlift/hal"
	"github.com/calvinmclean/bedlift/power"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/easystepper"
)

// Board wiring. Buttons use the app defaults: DOWN=0 (active low), MODE=1, UP=2.
const (
	pinTFTPower     machine.Pin = 7
	pinTFTSCK       machine.Pin = 36
	pinTFTSDO       machine.Pin = 35
	pinTFTCS        machine.Pin = 42
	pinTFTDC        machine.Pin = 40
	pinTFTReset     machine.Pin = 41
	pinTFTBacklight machine.Pin = 45

	pinMotorEnable machine.Pin = 15
)

var motorPins = [4][4]machine.Pin{
	{5, 6, 9, 10},
	{11, 12, 13, 14},
	{16, 17, 18, 21},
	{38, 39, 47, 48},
}

var solenoidPins = []machine.Pin{8, 3}

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	println("bedlift controller starting")

	stepperCfg := device.StepperConfig{EnablePin: pinMotorEnable}
	for _, pins := range motorPins {
		stepperCfg.Motors = append(stepperCfg.Motors, easystepper.DeviceConfig{
			Pin1:      pins[0],
			Pin2:      pins[1],
			Pin3:      pins[2],
			Pin4:      pins[3],
			StepCount: 200,
			RPM:       60,
			Mode:      easystepper.ModeFour,
		})
	}

	// No BacklightPWM on this board: dimming has no visible effect and only zero turns
	// the backlight off.
	d, err := device.New(
		device.DisplayConfig{
			SPI:          machine.SPI0,
			SCK:          pinTFTSCK,
			SDO:          pinTFTSDO,
			DC:           pinTFTDC,
			CS:           pinTFTCS,
			RST:          pinTFTReset,
			PowerPin:     pinTFTPower,
			BacklightPin: pinTFTBacklight,
			Width:        135,
			Height:       240,
			RowOffset:    40,
			ColumnOffset: 53,
			Rotation:     drivers.Rotation270,
		},
		stepperCfg,
		device.SolenoidConfig{Pins: solenoidPins},
		device.ServoConfig{},
		device.SleepConfig{PollInterval: 20 * time.Millisecond},
		logger,
	)
	if err != nil {
		panic(err)
	}

	cfg := app.DefaultConfig()
	cause := hal.WakeColdBoot
	for {
		a, err := app.New(cfg, d.Hardware(cause, logger))
		if err != nil {
			panic(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		go commands.Run(ctx, commands.NewLoopController(ctx, a.Loop(), machine.Serial), machine.Serial)

		err = a.Run(ctx)
		cancel()
		if !errors.Is(err, power.ErrWoken) {
			panic(err)
		}
		cause = hal.WakeButton
	}
}
