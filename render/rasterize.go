package render

import (
	"math"

	"turtle/canvas"
	"turtle/core"
)

// Rasterize draws a snapshot onto a cols x rows grid. Canvas y grows upward
// and grid rows grow downward, so the image is flipped vertically. Closed
// areas are filled first, then segments are drawn in order and the cursor is
// drawn last.
func Rasterize(c *canvas.Canvas, cols, rows int, cs Charset) *Grid {
	g := NewGrid(cols, rows, c.Background())
	if g == nil {
		return nil
	}
	m := mapping{w: c.Width(), h: c.Height(), cols: cols, rows: rows}

	for _, a := range c.Areas() {
		poly := a.Vertices()
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if inside(poly, m.centre(col, row)) {
					g.Fill(col, row, cs.Fill, a.Fill)
				}
			}
		}
	}

	for _, s := range c.Segments() {
		c1, r1 := m.cell(s.From)
		c2, r2 := m.cell(s.To)
		g.DrawLine(c1, r1, c2, r2, cs.lineRune(s), s.Color)
	}

	cur := c.Cursor()
	col, row := m.cell(cur.Position)
	g.stroke(col, row, cs.Arrow(cur.Heading), cur.LineColor)
	return g
}

// lineRune picks the glyph closest to the segment's slope.
func (cs Charset) lineRune(s core.Segment) rune {
	dx := s.To.X - s.From.X
	dy := s.To.Y - s.From.Y
	switch {
	case math.Abs(dy) <= math.Abs(dx)/2:
		return cs.Horizontal
	case math.Abs(dx) <= math.Abs(dy)/2:
		return cs.Vertical
	case (dx > 0) == (dy > 0):
		return cs.Rising
	default:
		return cs.Falling
	}
}

// mapping converts between canvas coordinates and grid cells.
type mapping struct {
	w, h       float64
	cols, rows int
}

func (m mapping) cell(p core.Point) (col, row int) {
	col = int(math.Floor(p.X * float64(m.cols) / m.w))
	row = m.rows - 1 - int(math.Floor(p.Y*float64(m.rows)/m.h))
	return min(max(col, 0), m.cols-1), min(max(row, 0), m.rows-1)
}

func (m mapping) centre(col, row int) core.Point {
	x := (float64(col) + 0.5) * m.w / float64(m.cols)
	y := (float64(m.rows-1-row) + 0.5) * m.h / float64(m.rows)
	return core.Point{X: x, Y: y}
}

// inside applies the even-odd rule.
func inside(poly []core.Point, p core.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
