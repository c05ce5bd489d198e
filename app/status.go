package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/actuator"
	"github.com/calvinmclean/bedlift/hal"
	"github.com/calvinmclean/bedlift/power"
)

// Status is a snapshot of the controller for the debug console
type Status struct {
	Mode       bedlift.OperationMode
	DevMode    bool
	Power      power.State
	Brightness uint8
	Idle       time.Duration
	Pressed    [bedlift.ButtonCount]bool
	Monitors   bedlift.MonitorStates
	Message    string
	Spinning   actuator.Direction
	Dropped    uint32
	WakeCause  hal.WakeCause
}

// Status must run on the event loop
func (a *App) Status() Status {
	return Status{
		Mode:       a.modes.Current(),
		DevMode:    a.devMode,
		Power:      a.activity.State(),
		Brightness: a.activity.Brightness(),
		Idle:       a.activity.Idle(a.clock.Now()).Truncate(time.Millisecond),
		Pressed:    a.pressed,
		Monitors:   a.monitors,
		Message:    a.ui.StatusMessage(),
		Spinning:   a.actuators.Spinning(),
		Dropped:    a.queue.Dropped(),
		WakeCause:  a.waker.WakeCause(),
	}
}

func (s Status) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "mode=%s dev=%t\n", s.Mode, s.DevMode)
	fmt.Fprintf(&sb, "power=%s brightness=%d idle=%s\n", s.Power, s.Brightness, s.Idle)

	sb.WriteString("buttons=")
	for b := bedlift.Button(0); b < bedlift.ButtonCount; b++ {
		if b > 0 {
			sb.WriteString(",")
		}
		state := "up"
		if s.Pressed[b] {
			state = "down"
		}
		fmt.Fprintf(&sb, "%s:%s", b, state)
	}
	sb.WriteString("\n")

	sb.WriteString("monitors=")
	for m := bedlift.Monitor(0); m < bedlift.MonitorCount; m++ {
		if m > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%s:%t", m, s.Monitors.Get(m))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "spinning=%s dropped=%d wake=%s", s.Spinning, s.Dropped, s.WakeCause)
	if s.Message != "" {
		fmt.Fprintf(&sb, "\nmessage=%q", s.Message)
	}
	return sb.String()
}
