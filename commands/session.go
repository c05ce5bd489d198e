package commands

import (
	"context"
	"io"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/app"
)

// SessionFunc returns the controller boot that is running now and the context it runs in
type SessionFunc func() (*app.App, context.Context, error)

// SessionController sends commands to whichever controller boot is running, so a console
// or HTTP server can outlive the reboot that follows a wake
type SessionController struct {
	session SessionFunc
	in      io.ByteReader
}

var _ Controller = &SessionController{}

func NewSessionController(session SessionFunc, in io.ByteReader) *SessionController {
	return &SessionController{session: session, in: in}
}

func (c *SessionController) target() (*LoopController, error) {
	a, ctx, err := c.session()
	if err != nil {
		return nil, err
	}
	return NewLoopController(ctx, a.Loop(), c.in), nil
}

func (c *SessionController) Press(b bedlift.Button) error {
	t, err := c.target()
	if err != nil {
		return err
	}
	return t.Press(b)
}

func (c *SessionController) Release(b bedlift.Button) error {
	t, err := c.target()
	if err != nil {
		return err
	}
	return t.Release(b)
}

func (c *SessionController) CycleMode() (bedlift.OperationMode, error) {
	t, err := c.target()
	if err != nil {
		return 0, err
	}
	return t.CycleMode()
}

func (c *SessionController) Touch() error {
	t, err := c.target()
	if err != nil {
		return err
	}
	return t.Touch()
}

func (c *SessionController) SetLevelAngle(pitch, roll float32) error {
	t, err := c.target()
	if err != nil {
		return err
	}
	return t.SetLevelAngle(pitch, roll)
}

func (c *SessionController) ClearMessage() error {
	t, err := c.target()
	if err != nil {
		return err
	}
	return t.ClearMessage()
}

func (c *SessionController) Status() (string, error) {
	t, err := c.target()
	if err != nil {
		return "", err
	}
	return t.Status()
}

func (c *SessionController) ReadByte() (byte, error) {
	return c.in.ReadByte()
}
