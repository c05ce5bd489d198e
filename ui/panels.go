package ui

import (
	"unicode/utf8"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/assets"
	"github.com/calvinmclean/bedlift/display"
)

const (
	StatusBarBackground = display.DarkGrey
	StatusBarText       = display.White

	ModePanelBorder = display.DarkGrey
	ModePanelText   = display.White
	ModeIconColor   = display.White

	LevelBackground = display.Black
	LevelBorder     = display.DarkGrey
	LevelCrosshair  = display.White
	LevelBubbleFill = display.DarkGrey
	LevelBubbleEdge = display.White
	LevelText       = display.White

	ButtonNormal      = display.DarkGrey
	ButtonPressed     = display.White
	ButtonBorder      = display.White
	ButtonText        = display.White
	ButtonTextPressed = display.Black
)

const (
	// MaxStatusMessage is the longest status message kept, in bytes
	MaxStatusMessage = 31

	statusIconScale  = 2
	statusIconGap    = 4
	modeIconScale    = 4
	buttonIconScale  = 3
	crosshairLength  = 10
	bubbleRadius     = 8
	bubblePixelScale = 20
)

// Panel is one region of the screen. Draw fully repaints the region and does nothing
// until Init has been given a surface.
type Panel interface {
	Init(s display.Surface, r Rect)
	Draw()
	Rect() Rect
}

type panel struct {
	surface display.Surface
	rect    Rect
}

func (p *panel) Init(s display.Surface, r Rect) {
	p.surface = s
	p.rect = r
}

func (p *panel) Rect() Rect {
	return p.rect
}

// drawIcon draws icon centred on (cx, cy). Missing icons draw nothing.
func (p *panel) drawIcon(icon assets.Icon, cx, cy int16, rot display.Rotation, scale int16, c display.Color) {
	bmp, ok := icon.Bitmap()
	if !ok {
		return
	}
	w, h := bmp.Width*scale, bmp.Height*scale
	if rot == display.Rotation90 || rot == display.Rotation270 {
		w, h = h, w
	}
	p.surface.DrawBitmap(cx-w/2, cy-h/2, bmp, rot, scale, c)
}

// StatusBar shows an icon per monitor and an optional message
type StatusBar struct {
	panel
	monitors *bedlift.MonitorStates
	message  string
}

var _ Panel = &StatusBar{}

// SetMonitors points the status bar at the monitor values it draws
func (s *StatusBar) SetMonitors(m *bedlift.MonitorStates) {
	s.monitors = m
}

// SetMessage replaces the message. Long messages are truncated.
func (s *StatusBar) SetMessage(msg string) {
	if len(msg) > MaxStatusMessage {
		// cut on a rune boundary
		end := MaxStatusMessage
		for end > 0 && !utf8.RuneStart(msg[end]) {
			end--
		}
		msg = msg[:end]
	}
	s.message = msg
}

func (s *StatusBar) Message() string {
	return s.message
}

// Icons returns the icons currently shown, left to right
func (s *StatusBar) Icons() []assets.Icon {
	var icons []assets.Icon
	for m := bedlift.Monitor(0); m < bedlift.MonitorCount; m++ {
		icon := bedlift.Monitors[m].Icon(s.monitors.Get(m))
		if icon == assets.IconNone {
			continue
		}
		icons = append(icons, icon)
	}
	return icons
}

func (s *StatusBar) Draw() {
	if s.surface == nil {
		return
	}
	r := s.rect
	s.surface.FillRect(r.X, r.Y, r.W, r.H, StatusBarBackground)

	size := int16(8 * statusIconScale)
	_, cy := r.Center()
	x := r.X + statusIconGap
	for _, icon := range s.Icons() {
		s.drawIcon(icon, x+size/2, cy, display.Rotation0, statusIconScale, StatusBarText)
		x += size + statusIconGap
	}

	if s.message == "" {
		return
	}
	s.surface.SetTextColor(StatusBarText)
	s.surface.SetTextSize(1)
	s.surface.SetTextDatum(display.MiddleLeft)
	s.surface.DrawString(s.message, x, cy)
}

// ModePanel shows the current mode icon and name
type ModePanel struct {
	panel
	mode bedlift.OperationMode
}

var _ Panel = &ModePanel{}

func (m *ModePanel) SetMode(mode bedlift.OperationMode) {
	m.mode = mode
}

func (m *ModePanel) Mode() bedlift.OperationMode {
	return m.mode
}

func (m *ModePanel) Draw() {
	if m.surface == nil {
		return
	}
	r := m.rect

	cfg, ok := m.mode.Config()
	background := display.Black
	if ok {
		background = cfg.Background
	}

	m.surface.FillRect(r.X, r.Y, r.W, r.H, background)
	m.surface.DrawRect(r.X, r.Y, r.W, r.H, ModePanelBorder)

	// icon in the top two thirds, name in the bottom third
	iconArea := r.H * 2 / 3
	cx := r.X + r.W/2
	if ok {
		m.drawIcon(cfg.Icon, cx, r.Y+iconArea/2, cfg.Rotation, modeIconScale, ModeIconColor)
	}

	m.surface.SetTextColor(ModePanelText)
	m.surface.SetTextSize(1)
	m.surface.SetTextDatum(display.MiddleCenter)
	m.surface.DrawString(m.mode.String(), cx, r.Y+iconArea+(r.H-iconArea)/2)
}

// LevelDisplay draws a crosshair and a bubble offset by the pitch and roll angles
type LevelDisplay struct {
	panel
	pitch float32
	roll  float32
}

var _ Panel = &LevelDisplay{}

func (l *LevelDisplay) SetAngle(pitch, roll float32) {
	l.pitch = pitch
	l.roll = roll
}

func (l *LevelDisplay) Angle() (pitch, roll float32) {
	return l.pitch, l.roll
}

// Bubble returns the bubble centre, kept inside the panel
func (l *LevelDisplay) Bubble() (int16, int16) {
	r := l.rect
	cx, cy := r.Center()
	return cx + scaleOffset(l.roll, r.W/2), cy + scaleOffset(l.pitch, r.H/2)
}

func scaleOffset(angle float32, limit int16) int16 {
	v := angle * bubblePixelScale
	switch {
	case v > float32(limit):
		return limit
	case v < -float32(limit):
		return -limit
	}
	return int16(v)
}

func (l *LevelDisplay) Draw() {
	if l.surface == nil {
		return
	}
	r := l.rect
	l.surface.FillRect(r.X, r.Y, r.W, r.H, LevelBackground)
	l.surface.DrawRect(r.X, r.Y, r.W, r.H, LevelBorder)

	cx, cy := r.Center()
	l.surface.DrawLine(cx-crosshairLength, cy, cx+crosshairLength, cy, LevelCrosshair)
	l.surface.DrawLine(cx, cy-crosshairLength, cx, cy+crosshairLength, LevelCrosshair)

	bx, by := l.Bubble()
	l.surface.FillCircle(bx, by, bubbleRadius, LevelBubbleFill)
	l.surface.DrawCircle(bx, by, bubbleRadius, LevelBubbleEdge)

	l.surface.SetTextColor(LevelText)
	l.surface.SetTextSize(1)
	l.surface.SetTextDatum(display.BottomCenter)
	l.surface.DrawString("LEVEL", cx, r.Bottom()-4)
}

// ButtonPanel shows what each button does in the current mode. Pressed buttons are
// drawn inverted.
type ButtonPanel struct {
	panel
	icons   [bedlift.ButtonCount]assets.Icon
	pressed [bedlift.ButtonCount]bool
}

var _ Panel = &ButtonPanel{}

// SetMode loads the button icons of mode. Unknown modes clear them.
func (b *ButtonPanel) SetMode(mode bedlift.OperationMode) {
	cfg, _ := mode.Config()
	b.icons = cfg.ButtonIcons
}

func (b *ButtonPanel) SetButtonState(button bedlift.Button, pressed bool) {
	if button < 0 || button >= bedlift.ButtonCount {
		return
	}
	b.pressed[button] = pressed
}

func (b *ButtonPanel) Pressed(button bedlift.Button) bool {
	if button < 0 || button >= bedlift.ButtonCount {
		return false
	}
	return b.pressed[button]
}

func (b *ButtonPanel) Icons() [bedlift.ButtonCount]assets.Icon {
	return b.icons
}

// ButtonRect returns the region of one button
// ButtonRect is the slot of button in the panel. The last slot takes the rows left over
// when the height does not divide evenly.
func (b *ButtonPanel) ButtonRect(button bedlift.Button) Rect {
	h := b.rect.H / int16(bedlift.ButtonCount)
	r := Rect{X: b.rect.X, Y: b.rect.Y + int16(button)*h, W: b.rect.W, H: h}
	if button == bedlift.ButtonCount-1 {
		r.H = b.rect.H - int16(button)*h
	}
	return r
}

func (b *ButtonPanel) Draw() {
	if b.surface == nil {
		return
	}
	for button := bedlift.Button(0); button < bedlift.ButtonCount; button++ {
		b.drawButton(button)
	}
}

func (b *ButtonPanel) drawButton(button bedlift.Button) {
	r := b.ButtonRect(button)

	fill, fg := ButtonNormal, ButtonText
	if b.pressed[button] {
		fill, fg = ButtonPressed, ButtonTextPressed
	}

	b.surface.FillRect(r.X, r.Y, r.W, r.H, fill)
	b.surface.DrawRect(r.X, r.Y, r.W, r.H, ButtonBorder)

	cx, cy := r.Center()
	icon := b.icons[button]
	if _, ok := icon.Bitmap(); ok {
		b.drawIcon(icon, cx, cy, display.Rotation0, buttonIconScale, fg)
		return
	}

	// no icon for this button, fall back to its name
	b.surface.SetTextColor(fg)
	b.surface.SetTextSize(1)
	b.surface.SetTextDatum(display.MiddleCenter)
	b.surface.DrawString(button.String(), cx, cy)
}
