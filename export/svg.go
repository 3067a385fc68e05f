package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"turtle/canvas"
	"turtle/core"

	svg "github.com/ajstarks/svgo"
)

// svgScale is the number of SVG user units per canvas unit. svgo takes
// integer coordinates, so positions are kept to 1/svgScale of a unit.
const svgScale = 100

// SVGExporter exports snapshots to SVG. Canvas y grows upward, SVG y grows
// downward, so every y is flipped.
type SVGExporter struct {
	// ShowCursor draws the turtle as a small triangle.
	ShowCursor bool
}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{ShowCursor: true}
}

// Export writes c as an SVG document
func (e *SVGExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	h := c.Height()
	unit := func(v float64) int { return int(math.Round(v * svgScale)) }
	flip := func(p core.Point) (int, int) { return unit(p.X), unit(h - p.Y) }

	var buf bytes.Buffer
	doc := svg.New(&buf)
	vw, vh := unit(c.Width()), unit(h)
	doc.Startview(int(math.Ceil(c.Width())), int(math.Ceil(h)), 0, 0, vw, vh)
	doc.Rect(0, 0, vw, vh, fill(c.Background()))

	for _, a := range c.Areas() {
		vs := a.Vertices()
		xs, ys := make([]int, len(vs)), make([]int, len(vs))
		for i, v := range vs {
			xs[i], ys[i] = flip(v)
		}
		doc.Polygon(xs, ys, fill(a.Fill))
	}

	for _, s := range c.Segments() {
		x1, y1 := flip(s.From)
		x2, y2 := flip(s.To)
		doc.Line(x1, y1, x2, y2,
			fmt.Sprintf(`stroke="%s"`, s.Color.Hex()),
			fmt.Sprintf(`stroke-width="%d"`, s.Width*svgScale),
			`stroke-linecap="round"`)
	}

	if e.ShowCursor {
		cur := c.Cursor()
		xs, ys := make([]int, 3), make([]int, 3)
		for i, p := range turtleShape(cur) {
			xs[i], ys[i] = flip(p)
		}
		doc.Polygon(xs, ys, fill(cur.LineColor))
	}

	doc.End()
	_, err := w.Write(buf.Bytes())
	return err
}

// turtleShape is a triangle pointing along the cursor heading.
func turtleShape(cur core.Cursor) [3]core.Point {
	rad := float64(cur.Heading) * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)
	p := cur.Position
	return [3]core.Point{
		{X: p.X + 1.5*dy, Y: p.Y - 1.5*dx},
		{X: p.X + 4*dx, Y: p.Y + 4*dy},
		{X: p.X - 1.5*dy, Y: p.Y + 1.5*dx},
	}
}

func fill(col core.Color) string {
	return fmt.Sprintf(`fill="%s"`, col.Hex())
}

// GetFileExtension returns the recommended file extension
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}
