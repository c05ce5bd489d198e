// Package commands is the single-byte debug console. Each command is a flag byte
// followed by a fixed number of input bytes.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/calvinmclean/bedlift"
)

// idleDelay is how long to wait after a read finds no data
const idleDelay = 10 * time.Millisecond

type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, io.Writer, []byte) error
	Description string
}

// Controller is what the console can do to the bed lift
type Controller interface {
	Press(bedlift.Button) error
	Release(bedlift.Button) error
	CycleMode() (bedlift.OperationMode, error)
	Touch() error
	SetLevelAngle(pitch, roll float32) error
	ClearMessage() error
	Status() (string, error)

	// I/O
	ReadByte() (byte, error)
}

func buttonCommand(flag byte, b bedlift.Button, pressed bool) *Command {
	action, run := "Release", Controller.Release
	if pressed {
		action, run = "Press", Controller.Press
	}
	return &Command{
		Flag:      flag,
		InputSize: 0,
		Run: func(c Controller, _ io.Writer, _ []byte) error {
			return run(c, b)
		},
		Description: action + " the " + b.String() + " button.",
	}
}

var (
	PressUpCommand     = buttonCommand('U', bedlift.ButtonUp, true)
	ReleaseUpCommand   = buttonCommand('u', bedlift.ButtonUp, false)
	PressModeCommand   = buttonCommand('M', bedlift.ButtonMode, true)
	ReleaseModeCommand = buttonCommand('m', bedlift.ButtonMode, false)
	PressDownCommand   = buttonCommand('D', bedlift.ButtonDown, true)
	ReleaseDownCommand = buttonCommand('d', bedlift.ButtonDown, false)

	CycleCommand = &Command{
		Flag:      'C',
		InputSize: 0,
		Run: func(c Controller, out io.Writer, _ []byte) error {
			m, err := c.CycleMode()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "mode:", m.String())
			return nil
		},
		Description: "Cycle to the next mode without touching the buttons.",
	}
	StatusCommand = &Command{
		Flag:      'S',
		InputSize: 0,
		Run: func(c Controller, out io.Writer, _ []byte) error {
			status, err := c.Status()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, status)
			return nil
		},
		Description: "Print the current state.",
	}
	WakeCommand = &Command{
		Flag:      'W',
		InputSize: 0,
		Run: func(c Controller, _ io.Writer, _ []byte) error {
			return c.Touch()
		},
		Description: "Count as button activity. Restores a dimmed display.",
	}
	LevelCommand = &Command{
		Flag:      'L',
		InputSize: 4,
		Run: func(c Controller, _ io.Writer, b []byte) error {
			pitch, err := tenths(b[0], b[1])
			if err != nil {
				return err
			}
			roll, err := tenths(b[2], b[3])
			if err != nil {
				return err
			}
			return c.SetLevelAngle(pitch, roll)
		},
		Description: "Set the level angles in tenths. Input: pitch then roll, each '+' or '-' then 0-9.",
	}
	ClearMessageCommand = &Command{
		Flag:      'X',
		InputSize: 0,
		Run: func(c Controller, _ io.Writer, _ []byte) error {
			return c.ClearMessage()
		},
		Description: "Clear the status bar message.",
	}
	HelpCommand = &Command{
		Flag:        'H',
		InputSize:   0,
		Description: "Show all available commands and their descriptions.",
		Run: func(c Controller, out io.Writer, _ []byte) error {
			fmt.Fprintln(out, "Available Commands:")
			for _, cmd := range commands {
				fmt.Fprintln(out, flagString(cmd.Flag)+": "+cmd.Description)
			}
			return nil
		},
	}
)

var commands = []*Command{
	PressUpCommand,
	ReleaseUpCommand,
	PressModeCommand,
	ReleaseModeCommand,
	PressDownCommand,
	ReleaseDownCommand,
	CycleCommand,
	StatusCommand,
	WakeCommand,
	LevelCommand,
	ClearMessageCommand,
}

func flagString(flag byte) string {
	if flag >= 32 && flag <= 126 {
		return string(flag)
	}
	return "0x" + string("0123456789ABCDEF"[(flag>>4)&0xF]) + string("0123456789ABCDEF"[flag&0xF])
}

// tenths parses a sign and a digit into a value in tenths
func tenths(sign, digit byte) (float32, error) {
	if digit < '0' || digit > '9' {
		return 0, errors.New("invalid input: " + string([]byte{sign, digit}))
	}
	v := float32(digit-'0') / 10
	switch sign {
	case '+':
		return v, nil
	case '-':
		return -v, nil
	}
	return 0, errors.New("invalid input: " + string([]byte{sign, digit}))
}

// Lookup returns the command for flag
func Lookup(flag byte) (*Command, bool) {
	if flag == HelpCommand.Flag {
		return HelpCommand, true
	}
	for _, cmd := range commands {
		if cmd.Flag == flag {
			return cmd, true
		}
	}
	return nil, false
}

// Run reads commands from c until ctx is done or the input ends. Unknown flags are
// skipped and command errors are printed without stopping the console.
func Run(ctx context.Context, c Controller, out io.Writer) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		cmdIn, err := c.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			time.Sleep(idleDelay)
			continue
		}

		cmd, ok := Lookup(cmdIn)
		if !ok {
			continue
		}

		in := make([]byte, cmd.InputSize)
		for i := 0; i < int(cmd.InputSize); {
			if ctx.Err() != nil {
				return nil
			}
			b, err := c.ReadByte()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				time.Sleep(idleDelay)
				continue
			}

			in[i] = b
			i++
		}

		err = cmd.Run(c, out, in)
		if err != nil {
			fmt.Fprintln(out, "error:", err.Error())
		}
	}
}
