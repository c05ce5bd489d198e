package ui

import "testing"

func TestNewLayout(t *testing.T) {
	l := NewLayout(ScreenWidth, ScreenHeight)

	tests := []struct {
		name     string
		got      Rect
		expected Rect
	}{
		{"StatusBar", l.StatusBar, Rect{0, 0, 190, 32}},
		{"ModePanel", l.ModePanel, Rect{0, 32, 70, 103}},
		{"LevelDisplay", l.LevelDisplay, Rect{70, 32, 120, 103}},
		{"ButtonPanel", l.ButtonPanel, Rect{190, 0, 50, 135}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, tt.got)
			}
		})
	}

	err := l.Validate(ScreenWidth, ScreenHeight)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLayoutValidate(t *testing.T) {
	valid := NewLayout(ScreenWidth, ScreenHeight)

	tests := []struct {
		name   string
		modify func(l *Layout)
		err    string
	}{
		{
			"Overlap",
			func(l *Layout) { l.ModePanel.W += 1 },
			"mode panel overlaps level display",
		},
		{
			"Gap",
			func(l *Layout) { l.LevelDisplay.W -= 1 },
			"panels cover 32297 of 32400 pixels",
		},
		{
			"Empty",
			func(l *Layout) { l.StatusBar.H = 0 },
			"status bar is empty: (0,0) 190x0",
		},
		{
			"OffScreen",
			func(l *Layout) { l.ButtonPanel.X += 1 },
			"button panel is off screen: (191,0) 50x135",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := valid
			tt.modify(&l)

			err := l.Validate(ScreenWidth, ScreenHeight)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.err {
				t.Errorf("expected=%q, got=%q", tt.err, err.Error())
			}
		})
	}
}

func TestLayoutValidateEmptyScreen(t *testing.T) {
	err := NewLayout(0, 0).Validate(0, 0)
	if err == nil || err.Error() != "empty screen" {
		t.Errorf("expected=%q, got=%v", "empty screen", err)
	}
}

func TestRectOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"Adjacent", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, false},
		{"Shared", Rect{0, 0, 10, 10}, Rect{9, 9, 10, 10}, true},
		{"Inside", Rect{0, 0, 10, 10}, Rect{2, 2, 2, 2}, true},
		{"Empty", Rect{0, 0, 10, 10}, Rect{2, 2, 0, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Overlaps(tt.b) != tt.expected || tt.b.Overlaps(tt.a) != tt.expected {
				t.Errorf("expected=%t for %s and %s", tt.expected, tt.a, tt.b)
			}
		})
	}
}
