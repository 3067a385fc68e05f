// Package geometry implements the floating point math behind turtle movement.
package geometry

import (
	"math"

	"turtle/core"
)

// Radians converts degrees to radians.
func Radians(deg int) float64 {
	return float64(deg) * math.Pi / 180
}

// Displacement returns the (dx, dy) travelled by moving distance units along
// heading, counterclockwise from +x with y pointing up.
func Displacement(heading int, distance float64) (dx, dy float64) {
	theta := Radians(heading)
	return distance * math.Cos(theta), distance * math.Sin(theta)
}

// Intersection returns the crossing point of the infinite lines through
// (a1,a2) and (b1,b2), rounded to 2 decimals. ok is false when the lines are
// parallel.
func Intersection(a1, a2, b1, b2 core.Point) (p core.Point, ok bool) {
	x1, y1, x2, y2 := a1.X, a1.Y, a2.X, a2.Y
	x3, y3, x4, y4 := b1.X, b1.Y, b2.X, b2.Y

	d := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if d == 0 {
		return core.Point{}, false
	}
	c1 := x1*y2 - y1*x2
	c2 := x3*y4 - y3*x4
	x := ((x3-x4)*c1 - (x1-x2)*c2) / d
	y := ((y3-y4)*c1 - (y1-y2)*c2) / d
	return core.Pt(x, y), true
}

// Edge is one border line of the canvas.
type Edge int

const (
	Top Edge = iota
	Bottom
	Right
	Left
)

// String returns the string representation of an Edge.
func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Endpoints returns the border line's two corners for bounds b.
func (e Edge) Endpoints(b core.Bounds) (core.Point, core.Point) {
	switch e {
	case Top:
		return core.Pt(0, b.MaxY()), core.Pt(b.MaxX(), b.MaxY())
	case Bottom:
		return core.Pt(0, 0), core.Pt(b.MaxX(), 0)
	case Right:
		return core.Pt(b.MaxX(), 0), core.Pt(b.MaxX(), b.MaxY())
	default:
		return core.Pt(0, 0), core.Pt(0, b.MaxY())
	}
}

// Crossed lists the border lines a projected position lies beyond.
func Crossed(b core.Bounds, p core.Point) []Edge {
	var edges []Edge
	if p.Y >= b.Height {
		edges = append(edges, Top)
	}
	if p.Y < 0 {
		edges = append(edges, Bottom)
	}
	if p.X >= b.Width {
		edges = append(edges, Right)
	}
	if p.X < 0 {
		edges = append(edges, Left)
	}
	return edges
}

// Clip stops a move from `from` to `to` at the border when `to` leaves the
// bounds. Among the crossed borders the one hit first along the travel
// direction wins. A border parallel to the travel falls back to clamping.
// Clip never wraps and always returns a point inside b.
func Clip(b core.Bounds, from, to core.Point) core.Point {
	edges := Crossed(b, to)
	if len(edges) == 0 {
		return to
	}

	best, found := core.Point{}, false
	bestDist := math.Inf(1)
	for _, e := range edges {
		e1, e2 := e.Endpoints(b)
		p, ok := Intersection(from, to, e1, e2)
		if !ok {
			continue
		}
		if d := math.Hypot(p.X-from.X, p.Y-from.Y); d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	if !found {
		best = to
	}
	return Clamp(b, best)
}

// Clamp pulls p onto the closed rectangle [0,MaxX]x[0,MaxY].
func Clamp(b core.Bounds, p core.Point) core.Point {
	return core.Pt(clamp(p.X, 0, b.MaxX()), clamp(p.Y, 0, b.MaxY()))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
