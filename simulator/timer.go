package simulator

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// timer shows a duration read from source, like time since the last button press
type timer struct {
	label  string
	source func() (time.Duration, bool)
	text   *canvas.Text
}

func newTimer(label string, source func() (time.Duration, bool)) *timer {
	return &timer{
		label:  label,
		source: source,
		text:   canvas.NewText(label+" --:--.---", nil),
	}
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

func (t *timer) Go(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(64 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			d, ok := t.source()
			text := t.label + " --:--.---"
			if ok {
				text = t.label + " " + formatDuration(d)
			}
			fyne.Do(func() {
				t.text.Text = text
				t.text.Refresh()
			})
		}
	}()
}
