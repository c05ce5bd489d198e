package commands

import (
	"context"
	"io"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/app"
)

// LoopController runs console commands on the event loop of a running controller
type LoopController struct {
	ctx  context.Context
	loop *app.EventLoop
	in   io.ByteReader
}

var _ Controller = &LoopController{}

func NewLoopController(ctx context.Context, loop *app.EventLoop, in io.ByteReader) *LoopController {
	return &LoopController{ctx, loop, in}
}

func (c *LoopController) do(fn func(*app.App)) error {
	return c.loop.Do(c.ctx, fn)
}

func (c *LoopController) Press(b bedlift.Button) error {
	return c.do(func(a *app.App) { a.Inject(b, true) })
}

func (c *LoopController) Release(b bedlift.Button) error {
	return c.do(func(a *app.App) { a.Inject(b, false) })
}

func (c *LoopController) CycleMode() (bedlift.OperationMode, error) {
	var m bedlift.OperationMode
	err := c.do(func(a *app.App) { m = a.CycleMode() })
	return m, err
}

func (c *LoopController) Touch() error {
	return c.do(func(a *app.App) { a.Touch() })
}

func (c *LoopController) SetLevelAngle(pitch, roll float32) error {
	return c.do(func(a *app.App) { a.SetLevelAngle(pitch, roll) })
}

func (c *LoopController) ClearMessage() error {
	return c.do(func(a *app.App) { a.SetStatusMessage("") })
}

func (c *LoopController) Status() (string, error) {
	var s string
	err := c.do(func(a *app.App) { s = a.Status().String() })
	return s, err
}

func (c *LoopController) ReadByte() (byte, error) {
	return c.in.ReadByte()
}
