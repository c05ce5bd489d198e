//go:build tinygo

package device

import (
	"errors"
	"machine"
	"time"

	"github.com/calvinmclean/bedlift/display"

	"tinygo.org/x/drivers/st7789"
)

// powerOnDelay lets the panel supply settle before reset
const powerOnDelay = 10 * time.Millisecond

// Display is the panel and its backlight, dimmed through PWM when BacklightPWM is set
type Display struct {
	cfg      DisplayConfig
	panel    st7789.Device
	canvas   *display.Canvas
	powerPin machine.Pin

	pwm       pwm
	channel   uint8
	backlight uint8
}

// pwm is the subset of a PWM peripheral the backlight uses
type pwm interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

func NewDisplay(cfg DisplayConfig) (*Display, error) {
	d := &Display{cfg: cfg, powerPin: cfg.PowerPin}
	d.Power(true)

	err := cfg.SPI.Configure(machine.SPIConfig{
		SCK:       cfg.SCK,
		SDO:       cfg.SDO,
		Mode:      0,
		Frequency: 40_000_000,
	})
	if err != nil {
		return nil, errors.New("error configuring SPI: " + err.Error())
	}

	d.panel = st7789.New(cfg.SPI, cfg.RST, cfg.DC, cfg.CS, machine.NoPin)
	d.configurePanel()

	if cfg.BacklightPWM != nil {
		d.pwm = cfg.BacklightPWM
		err = d.pwm.Configure(machine.PWMConfig{Period: 1e9 / 5000})
		if err != nil {
			return nil, errors.New("error configuring backlight: " + err.Error())
		}
		d.channel, err = d.pwm.Channel(cfg.BacklightPin)
		if err != nil {
			return nil, errors.New("error configuring backlight: " + err.Error())
		}
	} else if cfg.BacklightPin != machine.NoPin {
		cfg.BacklightPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		d.pwm = onOffBacklight(cfg.BacklightPin)
	}

	d.canvas = display.NewCanvas(&d.panel, d)
	return d, nil
}

func (d *Display) configurePanel() {
	d.panel.Configure(st7789.Config{
		Width:        d.cfg.Width,
		Height:       d.cfg.Height,
		Rotation:     d.cfg.Rotation,
		RowOffset:    d.cfg.RowOffset,
		ColumnOffset: d.cfg.ColumnOffset,
	})
}

// Wake powers the panel back on after sleep and configures it again
func (d *Display) Wake() {
	d.Power(true)
	d.configurePanel()
}

// Canvas is the drawing surface for the controller
func (d *Display) Canvas() *display.Canvas {
	return d.canvas
}

// SetBrightness sets the backlight duty. Without PWM any level above zero is fully on.
func (d *Display) SetBrightness(level uint8) {
	d.backlight = level
	if d.pwm == nil {
		return
	}
	d.pwm.Set(d.channel, d.pwm.Top()*uint32(level)/255)
}

// Power switches the panel supply. The panel must be configured again after power off.
func (d *Display) Power(on bool) {
	if d.powerPin == machine.NoPin {
		return
	}
	d.powerPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.powerPin.Set(on)
	if on {
		time.Sleep(powerOnDelay)
	}
}

// onOffBacklight drives a plain GPIO backlight as a two level PWM
type onOffBacklight machine.Pin

func (b onOffBacklight) Configure(machine.PWMConfig) error { return nil }
func (b onOffBacklight) Channel(machine.Pin) (uint8, error) { return 0, nil }
func (b onOffBacklight) Top() uint32 { return 255 }
func (b onOffBacklight) Set(_ uint8, value uint32) { machine.Pin(b).Set(value > 0) }
