package display

import (
	"image/color"

	"github.com/calvinmclean/bedlift/assets"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// Backlight drives the panel backlight. Level 0 is off.
type Backlight interface {
	SetBrightness(level uint8)
}

type rectFiller interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

type rotator interface {
	SetRotation(rotation drivers.Rotation) error
}

type fontMetrics struct {
	font    tinyfont.Fonter
	ascent  int16
	descent int16
}

// size 1 is the small status font, anything larger uses freemono
var fonts = []fontMetrics{
	{font: &tinyfont.Picopixel, ascent: 5, descent: 1},
	{font: &freemono.Regular9pt7b, ascent: 11, descent: 4},
}

// Canvas implements Surface on a drivers.Displayer.
type Canvas struct {
	dev       drivers.Displayer
	backlight Backlight

	textColor Color
	textSize  uint8
	datum     Datum

	brightness uint8
}

var _ Surface = &Canvas{}

// NewCanvas wraps dev. bl may be nil for panels without a controllable backlight.
func NewCanvas(dev drivers.Displayer, bl Backlight) *Canvas {
	return &Canvas{
		dev:       dev,
		backlight: bl,
		textColor: White,
		textSize:  1,
		datum:     TopLeft,
	}
}

func (c *Canvas) Width() int16 {
	if c.dev == nil {
		return 0
	}
	w, _ := c.dev.Size()
	return w
}

func (c *Canvas) Height() int16 {
	if c.dev == nil {
		return 0
	}
	_, h := c.dev.Size()
	return h
}

// SetRotation is forwarded to the device when it supports rotation.
func (c *Canvas) SetRotation(r Rotation) {
	if rot, ok := c.dev.(rotator); ok {
		_ = rot.SetRotation(drivers.Rotation(r))
	}
}

func (c *Canvas) SetBrightness(level uint8) {
	c.brightness = level
	if c.backlight != nil {
		c.backlight.SetBrightness(level)
	}
}

// Brightness returns the last level passed to SetBrightness.
func (c *Canvas) Brightness() uint8 {
	return c.brightness
}

func (c *Canvas) FillScreen(col Color) {
	c.FillRect(0, 0, c.Width(), c.Height(), col)
}

func (c *Canvas) FillRect(x, y, w, h int16, col Color) {
	if c.dev == nil || w <= 0 || h <= 0 {
		return
	}
	x, y, w, h, ok := c.clip(x, y, w, h)
	if !ok {
		return
	}
	if f, ok := c.dev.(rectFiller); ok {
		_ = f.FillRectangle(x, y, w, h, col.RGBA())
		return
	}
	rgba := col.RGBA()
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			c.dev.SetPixel(i, j, rgba)
		}
	}
}

func (c *Canvas) DrawRect(x, y, w, h int16, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.FillRect(x, y, w, 1, col)
	c.FillRect(x, y+h-1, w, 1, col)
	c.FillRect(x, y, 1, h, col)
	c.FillRect(x+w-1, y, 1, h, col)
}

func (c *Canvas) FillCircle(x0, y0, r int16, col Color) {
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		dx := int16(0)
		for (dx+1)*(dx+1)+dy*dy <= r*r {
			dx++
		}
		c.FillRect(x0-dx, y0+dy, 2*dx+1, 1, col)
	}
}

func (c *Canvas) DrawCircle(x0, y0, r int16, col Color) {
	if r < 0 {
		return
	}
	x, y := r, int16(0)
	err := 1 - r
	for x >= y {
		c.pixel(x0+x, y0+y, col)
		c.pixel(x0+y, y0+x, col)
		c.pixel(x0-y, y0+x, col)
		c.pixel(x0-x, y0+y, col)
		c.pixel(x0-x, y0-y, col)
		c.pixel(x0-y, y0-x, col)
		c.pixel(x0+y, y0-x, col)
		c.pixel(x0+x, y0-y, col)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) FillTriangle(x0, y0, x1, y1, x2, y2 int16, col Color) {
	minX, maxX := min(x0, x1, x2), max(x0, x1, x2)
	minY, maxY := min(y0, y1, y2), max(y0, y1, y2)
	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		c.DrawLine(minX, minY, maxX, maxY, col)
		return
	}
	for y := minY; y <= maxY; y++ {
		start := int16(-1)
		for x := minX; x <= maxX+1; x++ {
			inside := x <= maxX && insideTriangle(x, y, x0, y0, x1, y1, x2, y2, area)
			if inside && start < 0 {
				start = x
			}
			if !inside && start >= 0 {
				c.FillRect(start, y, x-start, 1, col)
				start = -1
			}
		}
	}
}

func edge(ax, ay, bx, by, px, py int16) int32 {
	return int32(bx-ax)*int32(py-ay) - int32(by-ay)*int32(px-ax)
}

func insideTriangle(x, y, x0, y0, x1, y1, x2, y2 int16, area int32) bool {
	w0 := edge(x1, y1, x2, y2, x, y)
	w1 := edge(x2, y2, x0, y0, x, y)
	w2 := edge(x0, y0, x1, y1, x, y)
	if area < 0 {
		return w0 <= 0 && w1 <= 0 && w2 <= 0
	}
	return w0 >= 0 && w1 >= 0 && w2 >= 0
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int16, col Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := int16(1), int16(1)
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.pixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawBitmap draws the set pixels of b rotated clockwise by rot, each as a scale x scale block.
func (c *Canvas) DrawBitmap(x, y int16, b assets.Bitmap, rot Rotation, scale int16, col Color) {
	if scale <= 0 {
		scale = 1
	}
	for by := int16(0); by < b.Height; by++ {
		for bx := int16(0); bx < b.Width; bx++ {
			if !b.At(bx, by) {
				continue
			}
			px, py := rotatePoint(bx, by, b.Width, b.Height, rot)
			c.FillRect(x+px*scale, y+py*scale, scale, scale, col)
		}
	}
}

func rotatePoint(x, y, w, h int16, rot Rotation) (int16, int16) {
	switch rot % 4 {
	case Rotation90:
		return h - 1 - y, x
	case Rotation180:
		return w - 1 - x, h - 1 - y
	case Rotation270:
		return y, w - 1 - x
	default:
		return x, y
	}
}

func (c *Canvas) SetTextColor(col Color) {
	c.textColor = col
}

func (c *Canvas) SetTextSize(size uint8) {
	c.textSize = size
}

func (c *Canvas) SetTextDatum(d Datum) {
	c.datum = d
}

func (c *Canvas) DrawString(s string, x, y int16) {
	if c.dev == nil || s == "" {
		return
	}
	m := c.metrics()
	_, outbox := tinyfont.LineWidth(m.font, s)
	w := int16(outbox)

	switch c.datum {
	case TopCenter, MiddleCenter, BottomCenter:
		x -= w / 2
	}

	// tinyfont draws from the baseline
	switch c.datum {
	case TopLeft, TopCenter:
		y += m.ascent
	case MiddleLeft, MiddleCenter:
		y += m.ascent / 2
	case BottomCenter:
		y -= m.descent
	}

	tinyfont.WriteLine(c.dev, m.font, x, y, s, c.textColor.RGBA())
}

// TextWidth returns the rendered width of s at the current text size.
func (c *Canvas) TextWidth(s string) int16 {
	_, outbox := tinyfont.LineWidth(c.metrics().font, s)
	return int16(outbox)
}

func (c *Canvas) metrics() fontMetrics {
	if c.textSize <= 1 {
		return fonts[0]
	}
	return fonts[1]
}

func (c *Canvas) Display() error {
	if c.dev == nil {
		return nil
	}
	return c.dev.Display()
}

func (c *Canvas) pixel(x, y int16, col Color) {
	if c.dev == nil {
		return
	}
	w, h := c.dev.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.dev.SetPixel(x, y, col.RGBA())
}

func (c *Canvas) clip(x, y, w, h int16) (int16, int16, int16, int16, bool) {
	sw, sh := c.dev.Size()
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > sw {
		w = sw - x
	}
	if y+h > sh {
		h = sh - y
	}
	return x, y, w, h, w > 0 && h > 0
}

func abs(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
