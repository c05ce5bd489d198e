// Package display defines the drawing surface the UI renders onto and a Canvas that
// implements it on top of any tinygo drivers.Displayer.
package display

import (
	"image/color"

	"github.com/calvinmclean/bedlift/assets"
)

// Color is an RGB565 colour.
type Color uint16

// Color565 packs 8-bit channels into RGB565.
func Color565(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// RGBA expands the colour to 8-bit channels.
func (c Color) RGBA() color.RGBA {
	r := uint8((c >> 11) & 0x1F)
	g := uint8((c >> 5) & 0x3F)
	b := uint8(c & 0x1F)
	return color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 0xFF}
}

const (
	Black     Color = 0x0000
	White     Color = 0xFFFF
	DarkGrey  Color = 0x7BEF
	Grey      Color = 0xAD55
	LightGrey Color = 0xD69A
	Red       Color = 0xF800
	Green     Color = 0x07E0
	Blue      Color = 0x001F
	Cyan      Color = 0x07FF
	Magenta   Color = 0xF81F
	Yellow    Color = 0xFFE0
	DarkRed   Color = 0x7800
	DarkGreen Color = 0x03E0
	DarkBlue  Color = 0x000F
	DarkCyan  Color = 0x03EF
	Orange    Color = 0xFDA0
	Purple    Color = 0x780F
	Brown     Color = 0x9A60
	Pink      Color = 0xFE19
)

// Rotation is a clockwise quarter-turn count.
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Datum selects which point of a string the DrawString coordinates refer to.
type Datum uint8

const (
	TopLeft Datum = iota
	TopCenter
	MiddleLeft
	MiddleCenter
	BottomCenter
)

// Surface is the set of drawing primitives the UI consumes. Implementations own the pixel
// pipeline; callers never touch buffers directly.
type Surface interface {
	Width() int16
	Height() int16
	SetRotation(r Rotation)
	SetBrightness(level uint8)

	FillScreen(c Color)
	FillRect(x, y, w, h int16, c Color)
	DrawRect(x, y, w, h int16, c Color)
	FillCircle(x, y, r int16, c Color)
	DrawCircle(x, y, r int16, c Color)
	FillTriangle(x0, y0, x1, y1, x2, y2 int16, c Color)
	DrawLine(x0, y0, x1, y1 int16, c Color)
	DrawBitmap(x, y int16, b assets.Bitmap, rot Rotation, scale int16, c Color)

	SetTextColor(c Color)
	SetTextSize(size uint8)
	SetTextDatum(d Datum)
	DrawString(s string, x, y int16)

	// Display flushes pending drawing to the panel.
	Display() error
}
