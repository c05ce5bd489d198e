package ui

import (
	"errors"

	"github.com/calvinmclean/bedlift/assets"
	"github.com/calvinmclean/bedlift/display"
)

type call struct {
	op   string
	rect Rect
	text string
	rot  display.Rotation
	c    display.Color
}

// recorder is a Surface that records the calls the UI makes
type recorder struct {
	w, h       int16
	calls      []call
	flushes    int
	flushErr   error
	brightness uint8
	textColor  display.Color
}

var _ display.Surface = &recorder{}

func newRecorder() *recorder {
	return &recorder{w: ScreenWidth, h: ScreenHeight}
}

func (r *recorder) reset() {
	r.calls = nil
	r.flushes = 0
}

func (r *recorder) ops(op string) []call {
	var out []call
	for _, c := range r.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) strings() []string {
	var out []string
	for _, c := range r.ops("string") {
		out = append(out, c.text)
	}
	return out
}

func (r *recorder) Width() int16              { return r.w }
func (r *recorder) Height() int16             { return r.h }
func (r *recorder) SetRotation(display.Rotation) {}
func (r *recorder) SetBrightness(level uint8) { r.brightness = level }

func (r *recorder) FillScreen(c display.Color) {
	r.calls = append(r.calls, call{op: "screen", rect: Rect{W: r.w, H: r.h}, c: c})
}

func (r *recorder) FillRect(x, y, w, h int16, c display.Color) {
	r.calls = append(r.calls, call{op: "fill", rect: Rect{x, y, w, h}, c: c})
}

func (r *recorder) DrawRect(x, y, w, h int16, c display.Color) {
	r.calls = append(r.calls, call{op: "rect", rect: Rect{x, y, w, h}, c: c})
}

func (r *recorder) FillCircle(x, y, rad int16, c display.Color) {
	r.calls = append(r.calls, call{op: "fillcircle", rect: Rect{x - rad, y - rad, 2 * rad, 2 * rad}, c: c})
}

func (r *recorder) DrawCircle(x, y, rad int16, c display.Color) {
	r.calls = append(r.calls, call{op: "circle", rect: Rect{x - rad, y - rad, 2 * rad, 2 * rad}, c: c})
}

func (r *recorder) FillTriangle(x0, y0, x1, y1, x2, y2 int16, c display.Color) {
	r.calls = append(r.calls, call{op: "triangle", c: c})
}

func (r *recorder) DrawLine(x0, y0, x1, y1 int16, c display.Color) {
	r.calls = append(r.calls, call{op: "line", rect: Rect{x0, y0, x1 - x0, y1 - y0}, c: c})
}

func (r *recorder) DrawBitmap(x, y int16, b assets.Bitmap, rot display.Rotation, scale int16, c display.Color) {
	r.calls = append(r.calls, call{op: "bitmap", rect: Rect{x, y, b.Width * scale, b.Height * scale}, rot: rot, c: c})
}

func (r *recorder) SetTextColor(c display.Color) { r.textColor = c }
func (r *recorder) SetTextSize(uint8)            {}
func (r *recorder) SetTextDatum(display.Datum)   {}

func (r *recorder) DrawString(s string, x, y int16) {
	r.calls = append(r.calls, call{op: "string", rect: Rect{X: x, Y: y}, text: s, c: r.textColor})
}

func (r *recorder) Display() error {
	r.flushes++
	return r.flushErr
}

var errFlush = errors.New("flush failed")
