//go:build tinygo

package device

import (
	"machine"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/easystepper"
	"tinygo.org/x/drivers/servo"
)

// DisplayConfig wires the 240x135 ST7789 panel
type DisplayConfig struct {
	SPI *machine.SPI
	SCK machine.Pin
	SDO machine.Pin
	DC  machine.Pin
	CS  machine.Pin
	RST machine.Pin

	// PowerPin switches the panel supply. machine.NoPin if always on.
	PowerPin machine.Pin

	BacklightPin machine.Pin
	BacklightPWM servo.PWM

	// Panel size before rotation and the controller RAM offsets for it
	Width        int16
	Height       int16
	RowOffset    int16
	ColumnOffset int16
	Rotation     drivers.Rotation
}

// StepperConfig has one easystepper config per lift motor
type StepperConfig struct {
	Motors []easystepper.DeviceConfig
	// EnablePin powers the motor drivers. machine.NoPin if they are always powered.
	EnablePin machine.Pin
}

// SolenoidConfig lists the lock solenoid outputs. They are energized to unlock.
type SolenoidConfig struct {
	Pins []machine.Pin
}

// ServoConfig replaces the solenoids with a servo-driven latch when PWM is set
type ServoConfig struct {
	Pin machine.Pin
	PWM servo.PWM

	LockAngle   int
	UnlockAngle int
	// MoveDelay is how long the servo takes to reach an angle
	MoveDelay time.Duration
}

// SleepConfig sets how often wake pins are polled while asleep
type SleepConfig struct {
	PollInterval time.Duration
}
