// Package terminal shows a session in a full-screen terminal viewer.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"turtle/core"
	"turtle/history"
	"turtle/logging"
	"turtle/render"

	"github.com/gdamore/tcell/v2"
)

// Viewer steps through a session's program and draws the current canvas.
//
// Keys:
//
//	n, Right, Space  step forward
//	p, Left          step back
//	c                clear the history
//	r                run to the end of the program
//	a                start or stop autoplay
//	q, Esc, Ctrl-C   quit
type Viewer struct {
	screen   tcell.Screen
	session  *history.Session
	charset  render.Charset
	logger   *slog.Logger
	title    string
	message  string
	interval time.Duration
	playing  atomic.Bool
}

// tick marks interrupts posted by the autoplay ticker.
type tick struct{}

// Option configures a Viewer.
type Option func(*Viewer)

// WithCharset sets the glyphs used to draw the canvas.
func WithCharset(cs render.Charset) Option {
	return func(v *Viewer) { v.charset = cs }
}

// WithLogger sets the viewer logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithTitle sets the name shown in the status line.
func WithTitle(title string) Option {
	return func(v *Viewer) { v.title = title }
}

// WithAutoplay steps every interval from the start. Without it autoplay
// is off until toggled and uses a 500ms interval.
func WithAutoplay(interval time.Duration) Option {
	return func(v *Viewer) {
		if interval > 0 {
			v.interval = interval
			v.playing.Store(true)
		}
	}
}

// New creates a viewer on an initialized screen.
func New(screen tcell.Screen, s *history.Session, opts ...Option) *Viewer {
	v := &Viewer{
		screen:   screen,
		session:  s,
		charset:  render.Unicode,
		logger:   logging.Discard(),
		title:    "untitled",
		interval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Message returns the text of the last status message.
func (v *Viewer) Message() string { return v.message }

// Playing reports whether autoplay is on.
func (v *Viewer) Playing() bool { return v.playing.Load() }

// Run draws and handles events until the user quits or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-ticker.C:
				if v.playing.Load() {
					_ = v.screen.PostEvent(tcell.NewEventInterrupt(tick{}))
				}
			case <-done:
				return
			}
		}
	}()

	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(tick); !ok {
				return ctx.Err()
			}
			v.autoStep()
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return nil
			}
		}
		v.Draw()
	}
}

// HandleKey applies a key press. It reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRight:
		v.report(v.session.Step())
		return false
	case tcell.KeyLeft:
		v.report(v.session.Previous())
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'n', ' ':
		v.report(v.session.Step())
	case 'p':
		v.report(v.session.Previous())
	case 'c':
		v.session.Clear()
		v.message = "cleared"
	case 'r':
		v.report(v.session.RunAll())
	case 'a':
		v.playing.Store(!v.playing.Load())
		if v.playing.Load() {
			v.message = "playing"
		} else {
			v.message = "paused"
		}
	}
	return false
}

// autoStep advances one instruction and stops autoplay at the end.
func (v *Viewer) autoStep() {
	if !v.playing.Load() {
		return
	}
	_, err := v.session.Step()
	v.report(nil, err)
	if errors.Is(err, history.ErrProgramEnd) {
		v.playing.Store(false)
	}
}

func (v *Viewer) report(_ any, err error) {
	switch {
	case err == nil:
		applied := v.session.Applied()
		if len(applied) > 0 {
			v.message = applied[len(applied)-1]
		} else {
			v.message = ""
		}
	case errors.Is(err, history.ErrProgramEnd):
		v.message = "end of program"
	default:
		v.message = err.Error()
		v.logger.Warn("viewer action failed", "error", err)
	}
}

// Draw renders the current canvas and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w <= 0 || h <= 1 {
		v.screen.Show()
		return
	}

	c := v.session.Current()
	if g := render.Rasterize(c, w, h-1, v.charset); g != nil {
		for row := 0; row < h-1; row++ {
			for col := 0; col < w; col++ {
				cell := g.Get(col, row)
				style := tcell.StyleDefault.Foreground(tcellColor(cell.Fg)).Background(tcellColor(cell.Bg))
				v.screen.SetContent(col, row, cell.Rune, nil, style)
			}
		}
	}

	pos, _ := v.session.Stats()
	status := fmt.Sprintf(" %s | step %d/%d | segments %d | areas %d | %s",
		v.title, pos, len(v.session.Instructions()), c.NumSegments(), c.NumAreas(), v.message)
	runes := []rune(status)
	style := tcell.StyleDefault.Reverse(true)
	for col := 0; col < w; col++ {
		r := ' '
		if col < len(runes) {
			r = runes[col]
		}
		v.screen.SetContent(col, h-1, r, nil, style)
	}
	v.screen.Show()
}

func tcellColor(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
