package simulator

import (
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/bedlift/app"
)

// settings are the controller options that can be changed from the simulator window.
// Durations are kept as text so the form can bind to them.
type settings struct {
	ForceDevMode bool
	DimAfter     string
	SleepAfter   string
}

func settingsFromConfig(cfg app.Config) settings {
	return settings{
		ForceDevMode: cfg.ForceDevMode,
		DimAfter:     cfg.Power.DimAfter.String(),
		SleepAfter:   cfg.Power.SleepAfter.String(),
	}
}

// apply returns cfg with the settings applied
func (s settings) apply(cfg app.Config) (app.Config, error) {
	dim, err := time.ParseDuration(s.DimAfter)
	if err != nil {
		return cfg, fmt.Errorf("invalid dim timeout: %w", err)
	}
	sleep, err := time.ParseDuration(s.SleepAfter)
	if err != nil {
		return cfg, fmt.Errorf("invalid sleep timeout: %w", err)
	}
	if dim <= 0 || sleep <= 0 {
		return cfg, errors.New("timeouts must be positive")
	}
	if dim >= sleep {
		return cfg, errors.New("dim timeout must be shorter than sleep timeout")
	}

	cfg.ForceDevMode = s.ForceDevMode
	cfg.Power.DimAfter = dim
	cfg.Power.SleepAfter = sleep
	return cfg, nil
}

type ConfigWindow struct {
	app      fyne.App
	OnSubmit func(app.Config)
}

func NewConfigWindow(a fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: a,
	}
}

func (cw *ConfigWindow) loadFromPreferences(s *settings) {
	prefs := cw.app.Preferences()
	s.ForceDevMode = prefs.BoolWithFallback("forceDevMode", s.ForceDevMode)
	s.DimAfter = prefs.StringWithFallback("dimAfter", s.DimAfter)
	s.SleepAfter = prefs.StringWithFallback("sleepAfter", s.SleepAfter)
}

func (cw *ConfigWindow) saveToPreferences(s settings) {
	prefs := cw.app.Preferences()
	prefs.SetBool("forceDevMode", s.ForceDevMode)
	prefs.SetString("dimAfter", s.DimAfter)
	prefs.SetString("sleepAfter", s.SleepAfter)
}

// Load applies saved preferences to cfg. Invalid saved values are ignored.
func (cw *ConfigWindow) Load(cfg app.Config) app.Config {
	s := settingsFromConfig(cfg)
	cw.loadFromPreferences(&s)
	out, err := s.apply(cfg)
	if err != nil {
		return cfg
	}
	return out
}

func (cw *ConfigWindow) Show(cfg app.Config) {
	window := cw.app.NewWindow("Bed Lift - Settings")
	window.Resize(fyne.NewSize(360, 200))

	s := settingsFromConfig(cfg)

	devCheck := widget.NewCheckWithData("Force dev mode", binding.BindBool(&s.ForceDevMode))

	dimEntry := widget.NewEntry()
	dimEntry.Bind(binding.BindString(&s.DimAfter))

	sleepEntry := widget.NewEntry()
	sleepEntry.Bind(binding.BindString(&s.SleepAfter))

	submitButton := widget.NewButton("Apply and Reboot", func() {
		out, err := s.apply(cfg)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		cw.saveToPreferences(s)
		if cw.OnSubmit != nil {
			cw.OnSubmit(out)
		}
		window.Close()
	})

	form := container.NewVBox(
		widget.NewCard("Settings", "", container.NewVBox(
			devCheck,
			container.NewGridWithColumns(2,
				widget.NewLabel("Dim after:"),
				dimEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Sleep after:"),
				sleepEntry,
			),
		)),
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
			}),
			submitButton,
		),
	)

	window.SetContent(form)
	window.Show()
}
