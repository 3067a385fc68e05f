// Package core contains the fundamental value types shared by the turtle engine.
package core

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Point is a canvas coordinate. Coordinates are canonicalized to 2 decimal
// places on construction so that points can be compared with == and used as
// map keys.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt returns the canonical point for (x, y).
func Pt(x, y float64) Point {
	return Point{X: Round2(x), Y: Round2(y)}
}

// Round2 rounds v to 2 decimal places, half away from zero. Negative zero is
// folded into zero.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// Add returns p translated by (dx, dy), canonicalized.
func (p Point) Add(dx, dy float64) Point {
	return Pt(p.X+dx, p.Y+dy)
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

// Color is an RGB color with channels in [0,255].
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// NewColor validates the channels and returns the color.
func NewColor(r, g, b int) (Color, error) {
	for _, ch := range []struct {
		name  string
		value int
	}{{"red", r}, {"green", g}, {"blue", b}} {
		if ch.value < 0 || ch.value > 255 {
			return Color{}, &RangeError{Operand: ch.name, Value: ch.value, Min: 0, Max: 255}
		}
	}
	return Color{R: r, G: g, B: b}, nil
}

// Valid reports whether every channel is within [0,255].
func (c Color) Valid() bool {
	_, err := NewColor(c.R, c.G, c.B)
	return err == nil
}

// Colorful converts the color for blending and hex formatting.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// String returns the color as "rgb(r,g,b)".
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Segment is an undirected line between two points, drawn with a color and a
// stroke width.
type Segment struct {
	From  Point `json:"from"`
	To    Point `json:"to"`
	Color Color `json:"color"`
	Width int   `json:"width"`
}

// Degenerate reports whether both endpoints coincide.
func (s Segment) Degenerate() bool {
	return s.From == s.To
}

// Equal compares two segments ignoring endpoint order.
func (s Segment) Equal(o Segment) bool {
	if s.Color != o.Color || s.Width != o.Width {
		return false
	}
	return s.Joins(o.From, o.To)
}

// Joins reports whether the segment connects a and b, in either direction.
func (s Segment) Joins(a, b Point) bool {
	return (s.From == a && s.To == b) || (s.From == b && s.To == a)
}

// Touches reports whether p is one of the segment's endpoints.
func (s Segment) Touches(p Point) bool {
	return s.From == p || s.To == p
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.To.X-s.From.X, s.To.Y-s.From.Y)
}

// String returns a human readable representation.
func (s Segment) String() string {
	return fmt.Sprintf("%s-%s %s w%d", s.From, s.To, s.Color.Hex(), s.Width)
}

// ClosedArea is a simple polygon bounded by a cyclic sequence of segments.
type ClosedArea struct {
	Segments []Segment `json:"segments"`
	Fill     Color     `json:"fill"`
}

// Vertices returns the polygon's corners in boundary order.
func (a ClosedArea) Vertices() []Point {
	n := len(a.Segments)
	if n == 0 {
		return nil
	}
	// Walk from the first segment's endpoint that it does not share with the
	// second one.
	start := a.Segments[0].From
	if n > 1 && a.Segments[1].Touches(start) && !a.Segments[1].Touches(a.Segments[0].To) {
		start = a.Segments[0].To
	}
	out := make([]Point, 0, n)
	cur := start
	for _, s := range a.Segments {
		out = append(out, cur)
		if s.From == cur {
			cur = s.To
		} else {
			cur = s.From
		}
	}
	return out
}

// Contains reports whether the area is bounded by a segment equal to s.
func (a ClosedArea) Contains(s Segment) bool {
	for _, seg := range a.Segments {
		if seg.Equal(s) {
			return true
		}
	}
	return false
}

// Equal compares two areas as cyclic sequences of undirected segments. The
// boundary may start anywhere and run in either direction.
func (a ClosedArea) Equal(o ClosedArea) bool {
	if a.Fill != o.Fill || len(a.Segments) != len(o.Segments) {
		return false
	}
	n := len(a.Segments)
	if n == 0 {
		return true
	}
	for shift := 0; shift < n; shift++ {
		fwd, rev := true, true
		for i := 0; i < n && (fwd || rev); i++ {
			if !a.Segments[i].Equal(o.Segments[(shift+i)%n]) {
				fwd = false
			}
			if !a.Segments[i].Equal(o.Segments[(shift-i+n)%n]) {
				rev = false
			}
		}
		if fwd || rev {
			return true
		}
	}
	return false
}

// Bounds is the half-open rectangle [0,Width)x[0,Height).
type Bounds struct {
	Width, Height float64
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// MaxX returns the largest drawable x, the right border line.
func (b Bounds) MaxX() float64 { return b.Width - 1 }

// MaxY returns the largest drawable y, the top border line.
func (b Bounds) MaxY() float64 { return b.Height - 1 }
