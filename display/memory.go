package display

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"tinygo.org/x/drivers"
)

// Memory is an in-memory RGBA panel with a backlight level. The simulator renders it and
// tests inspect it.
type Memory struct {
	mu         sync.Mutex
	img        *image.RGBA
	brightness uint8
	flushes    int

	// OnDisplay is called after every Display, outside the lock.
	OnDisplay func()
}

var (
	_ drivers.Displayer = &Memory{}
	_ Backlight         = &Memory{}
)

// NewMemory returns a black panel of the given size.
func NewMemory(width, height int16) *Memory {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 0xFF}), image.Point{}, draw.Src)
	return &Memory{img: img}
}

func (m *Memory) Size() (x, y int16) {
	b := m.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (m *Memory) SetPixel(x, y int16, c color.RGBA) {
	m.mu.Lock()
	m.img.SetRGBA(int(x), int(y), c)
	m.mu.Unlock()
}

func (m *Memory) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	m.mu.Lock()
	r := image.Rect(int(x), int(y), int(x+width), int(y+height)).Intersect(m.img.Bounds())
	draw.Draw(m.img, r, image.NewUniform(c), image.Point{}, draw.Src)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Display() error {
	m.mu.Lock()
	m.flushes++
	m.mu.Unlock()
	if m.OnDisplay != nil {
		m.OnDisplay()
	}
	return nil
}

func (m *Memory) SetBrightness(level uint8) {
	m.mu.Lock()
	m.brightness = level
	m.mu.Unlock()
}

// Brightness returns the current backlight level.
func (m *Memory) Brightness() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.brightness
}

// Flushes counts calls to Display.
func (m *Memory) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// At returns the pixel at x, y.
func (m *Memory) At(x, y int) color.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.img.RGBAAt(x, y)
}

// Snapshot returns a copy of the panel with the backlight level applied, so a dimmed
// panel looks dim and a panel at level 0 is black.
func (m *Memory) Snapshot() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := image.NewRGBA(m.img.Bounds())
	level := uint32(m.brightness)
	for i := 0; i+3 < len(m.img.Pix); i += 4 {
		out.Pix[i] = uint8(uint32(m.img.Pix[i]) * level / 255)
		out.Pix[i+1] = uint8(uint32(m.img.Pix[i+1]) * level / 255)
		out.Pix[i+2] = uint8(uint32(m.img.Pix[i+2]) * level / 255)
		out.Pix[i+3] = 0xFF
	}
	return out
}
