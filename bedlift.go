package bedlift

import (
	"strings"

	"github.com/calvinmclean/bedlift/assets"
	"github.com/calvinmclean/bedlift/display"
)

// OperationMode is the mode shown on the mode panel. It selects what UP and DOWN do.
type OperationMode int

const (
	ModeUpDown OperationMode = iota
	ModeRoll
	ModePitch
	ModeTorsion
	ModeLevel
	ModeMotor1
	ModeMotor2
	ModeMotor3
	ModeMotor4

	// ModeCount is not a mode. It bounds the table and is never selected.
	ModeCount
)

// Valid reports whether m indexes the mode table
func (m OperationMode) Valid() bool {
	return m >= 0 && m < ModeCount
}

func (m OperationMode) String() string {
	if !m.Valid() {
		return "UNKNOWN"
	}
	return Modes[m].Name
}

// Config returns the mode's table entry. ok is false for out of range modes.
func (m OperationMode) Config() (ModeConfig, bool) {
	if !m.Valid() {
		return ModeConfig{}, false
	}
	return Modes[m], true
}

// ModeConfig describes how a mode is drawn and whether it is hidden outside dev mode
type ModeConfig struct {
	Name        string
	Icon        assets.Icon
	Rotation    display.Rotation
	DevOnly     bool
	ButtonIcons [ButtonCount]assets.Icon
	Background  display.Color
}

// Modes is indexed by OperationMode
var Modes = [ModeCount]ModeConfig{
	ModeUpDown: {
		Name:        "Up/Down",
		Icon:        assets.IconArrowsUpDown,
		Rotation:    display.Rotation0,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconCaretUp, assets.IconStack, assets.IconCaretDown},
		Background:  display.Black,
	},
	ModeRoll: {
		Name:        "Roll",
		Icon:        assets.IconRotate360,
		Rotation:    display.Rotation90,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconCaretRight, assets.IconStack, assets.IconCaretLeft},
		Background:  display.Black,
	},
	ModePitch: {
		Name:        "Pitch",
		Icon:        assets.IconView360,
		Rotation:    display.Rotation90,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconCaretUp, assets.IconStack, assets.IconCaretDown},
		Background:  display.Black,
	},
	ModeTorsion: {
		Name:        "Torsion",
		Icon:        assets.IconStretching,
		Rotation:    display.Rotation0,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconCaretRight, assets.IconStack, assets.IconCaretLeft},
		Background:  display.Black,
	},
	ModeLevel: {
		Name:        "Level",
		Icon:        assets.IconWand,
		Rotation:    display.Rotation0,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconSparkles, assets.IconStack, assets.IconHandMiddleFinger},
		Background:  display.Black,
	},
	ModeMotor1: {
		Name:        "Motor 1",
		Icon:        assets.IconBoxAlignBottomRight,
		Rotation:    display.Rotation0,
		DevOnly:     true,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconCaretUp, assets.IconStack, assets.IconCaretDown},
		Background:  display.DarkBlue,
	},
	ModeMotor2: {
		Name:        "Motor 2",
		Icon:        assets.IconBoxAlignBottomRight,
		Rotation:    display.Rotation90,
		DevOnly:     true,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconCaretUp, assets.IconStack, assets.IconCaretDown},
		Background:  display.DarkGreen,
	},
	ModeMotor3: {
		Name:        "Motor 3",
		Icon:        assets.IconBoxAlignBottomRight,
		Rotation:    display.Rotation270,
		DevOnly:     true,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconCaretUp, assets.IconStack, assets.IconCaretDown},
		Background:  display.DarkRed,
	},
	ModeMotor4: {
		Name:        "Motor 4",
		Icon:        assets.IconBoxAlignBottomRight,
		Rotation:    display.Rotation180,
		DevOnly:     true,
		ButtonIcons: [ButtonCount]assets.Icon{assets.IconCaretUp, assets.IconStack, assets.IconCaretDown},
		Background:  display.DarkCyan,
	},
}

// Button is the logical role of a physical button
type Button int

const (
	ButtonUp Button = iota
	ButtonMode
	ButtonDown

	ButtonCount
)

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "UP"
	case ButtonMode:
		return "MODE"
	case ButtonDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// ParseButton returns the button named name, ignoring case
func ParseButton(name string) (Button, bool) {
	for b := Button(0); b < ButtonCount; b++ {
		if strings.EqualFold(b.String(), name) {
			return b, true
		}
	}
	return 0, false
}

// Monitor is a subsystem shown as an icon on the status bar
type Monitor int

const (
	MonitorDevMode Monitor = iota
	MonitorMotors
	MonitorSensors
	MonitorLock
	MonitorBattery

	MonitorCount
)

func (m Monitor) String() string {
	if m < 0 || m >= MonitorCount {
		return "UNKNOWN"
	}
	return Monitors[m].Name
}

// MonitorConfig picks an icon for each value. IconNone hides the monitor for that value.
type MonitorConfig struct {
	Name      string
	IconTrue  assets.Icon
	IconFalse assets.Icon
}

// Icon returns the icon for the given value
func (c MonitorConfig) Icon(v bool) assets.Icon {
	if v {
		return c.IconTrue
	}
	return c.IconFalse
}

// Monitors is indexed by Monitor
var Monitors = [MonitorCount]MonitorConfig{
	MonitorDevMode: {Name: "Dev Mode", IconTrue: assets.IconHandMiddleFinger},
	MonitorMotors:  {Name: "Motors", IconTrue: assets.IconSettings},
	MonitorSensors: {Name: "Sensors", IconTrue: assets.IconRulerMeasure},
	MonitorLock:    {Name: "Lock", IconTrue: assets.IconLock, IconFalse: assets.IconLockOpen},
	MonitorBattery: {Name: "Battery", IconTrue: assets.IconBattery, IconFalse: assets.IconBatteryOff},
}

// MonitorStates holds the current value of every monitor
type MonitorStates struct {
	DevMode bool
	Motors  bool
	Sensors bool
	Lock    bool
	Battery bool
}

// Get returns the value of m. Unknown monitors read false.
func (s *MonitorStates) Get(m Monitor) bool {
	if s == nil {
		return false
	}
	switch m {
	case MonitorDevMode:
		return s.DevMode
	case MonitorMotors:
		return s.Motors
	case MonitorSensors:
		return s.Sensors
	case MonitorLock:
		return s.Lock
	case MonitorBattery:
		return s.Battery
	default:
		return false
	}
}

// Set updates the value of m. It is a no-op on a nil receiver or unknown monitor.
func (s *MonitorStates) Set(m Monitor, v bool) {
	if s == nil {
		return
	}
	switch m {
	case MonitorDevMode:
		s.DevMode = v
	case MonitorMotors:
		s.Motors = v
	case MonitorSensors:
		s.Sensors = v
	case MonitorLock:
		s.Lock = v
	case MonitorBattery:
		s.Battery = v
	}
}
