// Package simulator runs the controller on virtual hardware in a desktop window. The
// panel is drawn from an in-memory display, the buttons drive virtual GPIO pins and
// sleeping blanks the window until a wake button is held.
package simulator

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/bedlift"
	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/commands"
	"github.com/calvinmclean/bedlift/server"
	"github.com/calvinmclean/bedlift/ui"
)

const (
	appID = "io.github.calvinmclean.bedlift"

	frameInterval = 20 * time.Millisecond
	logLines      = 200
)

type Simulator struct {
	cfg      app.Config
	scale    float32
	level    slog.Level
	httpAddr string
}

// New creates a simulator that draws the panel scale times its size
func New(cfg app.Config, scale float32, level slog.Level) *Simulator {
	if scale <= 0 {
		scale = 2
	}
	return &Simulator{cfg: cfg, scale: scale, level: level}
}

// WithHTTP also serves the console on addr while the window is open
func (s *Simulator) WithHTTP(addr string) *Simulator {
	s.httpAddr = addr
	return s
}

func (s *Simulator) Run(ctx context.Context) {
	application := fyneapp.NewWithID(appID)
	window := application.NewWindow("Bed Lift Simulator")

	logs := newLogBuffer(logLines)
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: s.level}))

	configWindow := NewConfigWindow(application)
	r := newRunner(configWindow.Load(s.cfg), logger)
	configWindow.OnSubmit = r.Restart

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var dirty atomic.Bool
	dirty.Store(true)
	r.mem.OnDisplay = func() { dirty.Store(true) }

	screen := canvas.NewImageFromImage(r.mem.Snapshot())
	screen.FillMode = canvas.ImageFillContain
	screen.ScaleMode = canvas.ImageScalePixels
	screen.SetMinSize(fyne.NewSize(float32(ui.ScreenWidth)*s.scale, float32(ui.ScreenHeight)*s.scale))

	stateLabel := widget.NewLabel(stateNone.String())
	idleTimer := newTimer("Idle", func() (time.Duration, bool) {
		a, _, err := r.session()
		if err != nil {
			return 0, false
		}
		return a.Activity().Idle(time.Now()), true
	})
	idleTimer.Go(ctx.Done())

	buttons := container.NewHBox()
	for _, b := range []bedlift.Button{bedlift.ButtonUp, bedlift.ButtonMode, bedlift.ButtonDown} {
		buttons.Add(widget.NewCheck("Hold "+b.String(), func(on bool) {
			err := r.SetButton(b, on)
			if err != nil {
				dialog.ShowError(err, window)
			}
		}))
	}

	consoleIn, consoleOut := io.Pipe()
	console := commands.NewSessionController(r.session, bufio.NewReader(consoleIn))
	go func() {
		_ = commands.Run(ctx, console, logs)
	}()
	if s.httpAddr != "" {
		go func() {
			err := server.New(console, logger.With("component", "http")).Run(ctx, s.httpAddr)
			if err != nil {
				logger.Error("http server stopped", "error", err)
			}
		}()
	}

	consoleEntry := widget.NewEntry()
	consoleEntry.SetPlaceHolder("Console command, H for help")
	consoleEntry.OnSubmitted = func(text string) {
		consoleEntry.SetText("")
		go func() {
			_, _ = io.WriteString(consoleOut, text)
		}()
	}

	logContent := widget.NewLabel("")
	logScroll := container.NewVScroll(logContent)
	logScroll.SetMinSize(fyne.NewSize(300, 120))
	logAccordion := widget.NewAccordion(
		widget.NewAccordionItem("Logs", logScroll),
	)

	settingsButton := widget.NewButton("Settings", func() {
		configWindow.Show(r.Config())
	})
	rebootButton := widget.NewButton("Reboot", func() {
		r.Restart(r.Config())
	})

	contentContainer := container.NewVBox(
		container.NewCenter(screen),
		container.NewHBox(
			container.NewPadded(stateLabel),
			container.NewPadded(idleTimer.text),
			layout.NewSpacer(),
			settingsButton,
			rebootButton,
		),
		buttons,
		consoleEntry,
		logAccordion,
	)

	go func() {
		err := r.Run(ctx)
		if err != nil {
			logger.Error("controller stopped", "error", err)
			fyne.Do(func() {
				dialog.ShowError(fmt.Errorf("controller stopped: %w", err), window)
			})
		}
	}()

	go refresh(ctx, r, logs, &dirty, panelWidgets{
		screen:     screen,
		state:      stateLabel,
		logContent: logContent,
		logScroll:  logScroll,
	})

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	window.SetContent(contentContainer)
	window.ShowAndRun()
	cancel()
	consoleOut.Close()
}

type panelWidgets struct {
	screen     *canvas.Image
	state      *widget.Label
	logContent *widget.Label
	logScroll  *container.Scroll
}

// refresh redraws the panel when it was flushed or its backlight changed
func refresh(ctx context.Context, r *runner, logs *logBuffer, dirty *atomic.Bool, w panelWidgets) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	lastBrightness := -1
	lastLogs := -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		brightness := int(r.mem.Brightness())
		var snapshot *image.RGBA
		if dirty.Swap(false) || brightness != lastBrightness {
			snapshot = r.mem.Snapshot()
		}
		lastBrightness = brightness

		st := r.State()
		text, version := logs.Text()
		logsChanged := version != lastLogs
		lastLogs = version

		fyne.Do(func() {
			w.state.SetText(st.String())
			if snapshot != nil {
				w.screen.Image = snapshot
				w.screen.Refresh()
			}
			if logsChanged {
				w.logContent.SetText(text)
				w.logScroll.ScrollToBottom()
			}
		})
	}
}
