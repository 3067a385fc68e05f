package engine

import (
	"fmt"
	"strings"

	"turtle/canvas"
	"turtle/core"
	"turtle/events"
	"turtle/geometry"
)

// Instruction is one validated command. Apply never fails: operands are
// checked when the instruction is parsed.
type Instruction interface {
	// Name returns the instruction keyword, e.g. "FORWARD".
	Name() string
	// String returns the canonical instruction text.
	String() string
	// Apply computes the next snapshot from c, reporting effects to sink.
	Apply(c *canvas.Canvas, sink events.Sink) *canvas.Canvas
}

// Move moves the cursor along its heading, drawing when the pen is down.
type Move struct {
	Distance int
	Backward bool
}

func (m Move) Name() string {
	if m.Backward {
		return "BACKWARD"
	}
	return "FORWARD"
}

func (m Move) String() string { return fmt.Sprintf("%s %d", m.Name(), m.Distance) }

func (m Move) Apply(c *canvas.Canvas, sink events.Sink) *canvas.Canvas {
	cur := c.Cursor()
	d := float64(m.Distance)
	if m.Backward {
		d = -d
	}
	dx, dy := geometry.Displacement(cur.Heading, d)
	from := cur.Position
	to := geometry.Clip(c.Bounds(), from, from.Add(dx, dy))
	cur.Position = to

	if cur.PenDown {
		seg := core.Segment{From: from, To: to, Color: cur.LineColor, Width: cur.PenWidth}
		cur.Plotted = true
		next, area, ok := c.WithCursor(cur).AddSegment(seg)
		if ok {
			sink.LineDrawn(seg)
			if area != nil {
				sink.AreaClosed(*area)
			}
			return next
		}
		// Nothing to draw: zero distance or already against the border.
	}
	cur.Plotted = false
	sink.CursorMoved(to)
	return c.WithCursor(cur)
}

// Rotate turns the cursor. LEFT is counterclockwise, RIGHT clockwise.
type Rotate struct {
	Degrees   int
	Clockwise bool
}

func (r Rotate) Name() string {
	if r.Clockwise {
		return "RIGHT"
	}
	return "LEFT"
}

func (r Rotate) String() string { return fmt.Sprintf("%s %d", r.Name(), r.Degrees) }

func (r Rotate) Apply(c *canvas.Canvas, _ events.Sink) *canvas.Canvas {
	delta := r.Degrees
	if r.Clockwise {
		delta = -delta
	}
	return c.WithCursor(c.Cursor().Turn(delta))
}

// ClearScreen erases the drawing and keeps the cursor.
type ClearScreen struct{}

func (ClearScreen) Name() string   { return "CLEARSCREEN" }
func (ClearScreen) String() string { return "CLEARSCREEN" }

func (ClearScreen) Apply(c *canvas.Canvas, sink events.Sink) *canvas.Canvas {
	sink.ScreenCleared()
	return c.Cleared()
}

// Home moves the cursor to the home point without drawing.
type Home struct{}

func (Home) Name() string   { return "HOME" }
func (Home) String() string { return "HOME" }

func (Home) Apply(c *canvas.Canvas, sink events.Sink) *canvas.Canvas {
	cur := c.Cursor()
	cur.Position = c.Home()
	cur.Plotted = false
	sink.CursorMoved(cur.Position)
	return c.WithCursor(cur)
}

// Pen lifts or lowers the pen.
type Pen struct {
	Down bool
}

func (p Pen) Name() string {
	if p.Down {
		return "PENDOWN"
	}
	return "PENUP"
}

func (p Pen) String() string { return p.Name() }

func (p Pen) Apply(c *canvas.Canvas, _ events.Sink) *canvas.Canvas {
	cur := c.Cursor()
	cur.PenDown = p.Down
	return c.WithCursor(cur)
}

// SetPenColor sets the color of lines drawn from now on.
type SetPenColor struct {
	Color core.Color
}

func (SetPenColor) Name() string { return "SETPENCOLOR" }

func (s SetPenColor) String() string { return colorText(s.Name(), s.Color) }

func (s SetPenColor) Apply(c *canvas.Canvas, _ events.Sink) *canvas.Canvas {
	cur := c.Cursor()
	cur.LineColor = s.Color
	return c.WithCursor(cur)
}

// SetFillColor sets the fill of areas closed from now on.
type SetFillColor struct {
	Color core.Color
}

func (SetFillColor) Name() string { return "SETFILLCOLOR" }

func (s SetFillColor) String() string { return colorText(s.Name(), s.Color) }

func (s SetFillColor) Apply(c *canvas.Canvas, _ events.Sink) *canvas.Canvas {
	cur := c.Cursor()
	cur.FillColor = s.Color
	return c.WithCursor(cur)
}

// SetScreenColor sets the canvas background.
type SetScreenColor struct {
	Color core.Color
}

func (SetScreenColor) Name() string { return "SETSCREENCOLOR" }

func (s SetScreenColor) String() string { return colorText(s.Name(), s.Color) }

func (s SetScreenColor) Apply(c *canvas.Canvas, sink events.Sink) *canvas.Canvas {
	sink.BackgroundChanged(s.Color)
	return c.WithBackground(s.Color)
}

// SetPenSize sets the stroke width.
type SetPenSize struct {
	Size int
}

func (SetPenSize) Name() string { return "SETPENSIZE" }

func (s SetPenSize) String() string { return fmt.Sprintf("%s %d", s.Name(), s.Size) }

func (s SetPenSize) Apply(c *canvas.Canvas, _ events.Sink) *canvas.Canvas {
	cur := c.Cursor()
	cur.PenWidth = s.Size
	return c.WithCursor(cur)
}

// Repeat runs Body Count times. Skipped holds the errors of body entries that
// were rejected while parsing; they take no part in execution.
type Repeat struct {
	Count   int
	Body    []Instruction
	Skipped []error
}

func (Repeat) Name() string { return "REPEAT" }

func (r Repeat) String() string {
	parts := make([]string, 0, len(r.Body)+4)
	parts = append(parts, r.Name(), fmt.Sprint(r.Count), "[")
	for _, in := range r.Body {
		parts = append(parts, in.String())
	}
	parts = append(parts, "]")
	return strings.Join(parts, " ")
}

// Apply runs the iterations on a draft of c, so the whole REPEAT copies the
// canvas once however many segments it draws.
func (r Repeat) Apply(c *canvas.Canvas, sink events.Sink) *canvas.Canvas {
	if c.IsDraft() {
		return r.run(c, sink)
	}
	return r.run(c.Draft(), sink).Publish()
}

func (r Repeat) run(c *canvas.Canvas, sink events.Sink) *canvas.Canvas {
	for range r.Count {
		for _, in := range r.Body {
			c = in.Apply(c, sink)
		}
	}
	return c
}

func colorText(name string, col core.Color) string {
	return fmt.Sprintf("%s %d %d %d", name, col.R, col.G, col.B)
}
