package core

// Cursor is the turtle: a directional drawing head with pen state.
type Cursor struct {
	Position  Point `json:"position"`
	Heading   int   `json:"heading"` // degrees in [0,360), counterclockwise from +x
	PenDown   bool  `json:"pen_down"`
	LineColor Color `json:"line_color"`
	FillColor Color `json:"fill_color"`
	PenWidth  int   `json:"pen_width"`
	// Plotted is true iff the most recent move drew a line.
	Plotted bool `json:"plotted"`
}

// NewCursor returns a cursor at p facing east with the pen down, black ink,
// white fill and a 1 unit pen.
func NewCursor(p Point) Cursor {
	return Cursor{
		Position:  p,
		PenDown:   true,
		LineColor: Black,
		FillColor: White,
		PenWidth:  1,
	}
}

// Turn returns the cursor rotated by delta degrees (positive is
// counterclockwise), with the heading wrapped into [0,360).
func (c Cursor) Turn(delta int) Cursor {
	c.Heading = WrapDegrees(c.Heading + delta)
	return c
}

// WrapDegrees maps any integer angle into [0,360).
func WrapDegrees(d int) int {
	d %= 360
	if d < 0 {
		d += 360
	}
	return d
}
