package ui

import (
	"errors"
	"fmt"
)

const (
	ScreenWidth  int16 = 240
	ScreenHeight int16 = 135

	StatusBarHeight  int16 = 32
	ModePanelWidth   int16 = 70
	ButtonPanelWidth int16 = 50
)

// Rect is a screen region in pixels
type Rect struct {
	X, Y, W, H int16
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) Right() int16 {
	return r.X + r.W
}

func (r Rect) Bottom() int16 {
	return r.Y + r.H
}

// Center returns the middle pixel of the rect
func (r Rect) Center() (int16, int16) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Area() int32 {
	if r.Empty() {
		return 0
	}
	return int32(r.W) * int32(r.H)
}

// Overlaps reports whether r and o share at least one pixel
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies completely inside r
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d) %dx%d", r.X, r.Y, r.W, r.H)
}

// Layout positions the four panels. The button panel takes the full height on the right,
// the status bar runs along the top of the rest, and the mode panel and level display
// share the area below it.
type Layout struct {
	StatusBar    Rect
	ModePanel    Rect
	LevelDisplay Rect
	ButtonPanel  Rect
}

// NewLayout computes the layout for a screen of the given size
func NewLayout(width, height int16) Layout {
	content := width - ButtonPanelWidth
	main := height - StatusBarHeight

	return Layout{
		ButtonPanel:  Rect{X: content, Y: 0, W: ButtonPanelWidth, H: height},
		StatusBar:    Rect{X: 0, Y: 0, W: content, H: StatusBarHeight},
		ModePanel:    Rect{X: 0, Y: StatusBarHeight, W: ModePanelWidth, H: main},
		LevelDisplay: Rect{X: ModePanelWidth, Y: StatusBarHeight, W: content - ModePanelWidth, H: main},
	}
}

// Rects returns the panel rects in draw order
func (l Layout) Rects() []Rect {
	return []Rect{l.StatusBar, l.ModePanel, l.LevelDisplay, l.ButtonPanel}
}

// Validate checks that every panel is non-empty and on screen, that no two panels
// overlap, and that together they cover the whole screen.
func (l Layout) Validate(width, height int16) error {
	screen := Rect{W: width, H: height}
	if screen.Empty() {
		return errors.New("empty screen")
	}

	names := []string{"status bar", "mode panel", "level display", "button panel"}
	rects := l.Rects()

	var total int32
	for i, r := range rects {
		if r.Empty() {
			return fmt.Errorf("%s is empty: %s", names[i], r)
		}
		if !screen.Contains(r) {
			return fmt.Errorf("%s is off screen: %s", names[i], r)
		}
		for j := i + 1; j < len(rects); j++ {
			if r.Overlaps(rects[j]) {
				return fmt.Errorf("%s overlaps %s", names[i], names[j])
			}
		}
		total += r.Area()
	}

	if total != screen.Area() {
		return fmt.Errorf("panels cover %d of %d pixels", total, screen.Area())
	}
	return nil
}
