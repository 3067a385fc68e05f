// Package canvas holds the turtle's drawing state as immutable snapshots.
//
// A Canvas is never modified after it has been handed out: every operation
// that changes the drawing returns a new *Canvas and leaves the receiver
// untouched, so past snapshots can be kept in an undo stack without copying.
// Unchanged slices are shared between snapshots with their capacity clipped,
// which forces any later append to allocate.
//
// A draft, made with Draft, is the exception: it owns its storage outright,
// and snapshots derived from it update that storage in place until Publish
// turns the result back into an ordinary snapshot.
package canvas

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"turtle/core"
	"turtle/graph"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// MinSize is the smallest accepted width and height.
const MinSize = 2

// Canvas is one snapshot of the drawing.
type Canvas struct {
	bounds     core.Bounds
	origin     core.Point
	home       core.Point
	segments   []core.Segment
	claimed    []bool // parallel to segments
	areas      []core.ClosedArea
	background core.Color
	cursor     core.Cursor
	graph      *graph.CycleGraph
	ids        map[core.Point]int
	points     []core.Point // points[id-1]
	owned      bool         // draft: storage is private and updated in place
}

// Option customizes a new canvas.
type Option func(*Canvas)

// WithHome sets the home point. Defaults to the canvas centre.
func WithHome(p core.Point) Option {
	return func(c *Canvas) { c.home = p }
}

// WithOrigin sets the origin point. Defaults to (0,0).
func WithOrigin(p core.Point) Option {
	return func(c *Canvas) { c.origin = p }
}

// WithBackground sets the initial background color. Defaults to white.
func WithBackground(col core.Color) Option {
	return func(c *Canvas) { c.background = col }
}

// New creates a blank canvas of the given size with the cursor at home.
func New(width, height float64, opts ...Option) (*Canvas, error) {
	if width < MinSize || height < MinSize {
		return nil, fmt.Errorf("%w: %gx%g, both sides must be at least %d", ErrInvalidSize, width, height, MinSize)
	}
	c := &Canvas{
		bounds:     core.Bounds{Width: width, Height: height},
		origin:     core.Pt(0, 0),
		home:       core.Pt(width/2, height/2),
		background: core.White,
		graph:      graph.New(),
		ids:        make(map[core.Point]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.home = core.Pt(c.home.X, c.home.Y)
	c.origin = core.Pt(c.origin.X, c.origin.Y)
	if !c.bounds.Contains(c.home) {
		return nil, fmt.Errorf("%w: home %s", ErrOutOfBounds, c.home)
	}
	if !c.bounds.Contains(c.origin) {
		return nil, fmt.Errorf("%w: origin %s", ErrOutOfBounds, c.origin)
	}
	if !c.background.Valid() {
		return nil, fmt.Errorf("background %s: %w", c.background, core.ErrRange)
	}
	c.cursor = core.NewCursor(c.home)
	return c, nil
}

// Blank returns a fresh canvas with the same size, home and origin, drawn on
// bg.
func (c *Canvas) Blank(bg core.Color) *Canvas {
	n, _ := New(c.bounds.Width, c.bounds.Height, WithHome(c.home), WithOrigin(c.origin), WithBackground(bg))
	return n
}

// clone returns a shallow copy safe for appending. Unless c is a draft,
// callers must copy any slice, map or graph before writing into it.
func (c *Canvas) clone() *Canvas {
	n := *c
	if !c.owned {
		n.clip()
	}
	return &n
}

func (c *Canvas) clip() {
	c.segments = slices.Clip(c.segments)
	c.claimed = slices.Clip(c.claimed)
	c.areas = slices.Clip(c.areas)
	c.points = slices.Clip(c.points)
}

// Draft returns a private working copy of c. Snapshots derived from a draft
// share and update its storage, so only the latest one may be used; hand it
// to Publish when done.
func (c *Canvas) Draft() *Canvas {
	n := c.Clone()
	n.owned = true
	return n
}

// Publish turns a draft back into an immutable snapshot. Other snapshots are
// returned as is.
func (c *Canvas) Publish() *Canvas {
	if !c.owned {
		return c
	}
	n := *c
	n.owned = false
	n.clip()
	return &n
}

// IsDraft reports whether c came from Draft and has not been published.
func (c *Canvas) IsDraft() bool { return c.owned }

// Clone returns a deep copy that shares nothing with c.
func (c *Canvas) Clone() *Canvas {
	n := *c
	n.segments = slices.Clone(c.segments)
	n.claimed = slices.Clone(c.claimed)
	if c.areas != nil {
		n.areas = make([]core.ClosedArea, len(c.areas))
		for i, a := range c.areas {
			n.areas[i] = core.ClosedArea{Segments: slices.Clone(a.Segments), Fill: a.Fill}
		}
	}
	n.points = slices.Clone(c.points)
	n.ids = maps.Clone(c.ids)
	n.graph = c.graph.Clone()
	n.owned = false
	return &n
}

// Width returns the canvas width.
func (c *Canvas) Width() float64 { return c.bounds.Width }

// Height returns the canvas height.
func (c *Canvas) Height() float64 { return c.bounds.Height }

// Bounds returns the drawable rectangle.
func (c *Canvas) Bounds() core.Bounds { return c.bounds }

// Origin returns the origin point.
func (c *Canvas) Origin() core.Point { return c.origin }

// Home returns the home point.
func (c *Canvas) Home() core.Point { return c.home }

// Cursor returns the turtle state.
func (c *Canvas) Cursor() core.Cursor { return c.cursor }

// Background returns the background color.
func (c *Canvas) Background() core.Color { return c.background }

// Contains reports whether p lies inside the canvas.
func (c *Canvas) Contains(p core.Point) bool { return c.bounds.Contains(p) }

// Segments returns the drawn segments in drawing order.
func (c *Canvas) Segments() []core.Segment { return slices.Clone(c.segments) }

// Areas returns the closed areas in discovery order.
func (c *Canvas) Areas() []core.ClosedArea { return slices.Clone(c.areas) }

// NumSegments returns the number of drawn segments.
func (c *Canvas) NumSegments() int { return len(c.segments) }

// NumAreas returns the number of closed areas.
func (c *Canvas) NumAreas() int { return len(c.areas) }

// NumPoints returns the number of distinct segment endpoints seen.
func (c *Canvas) NumPoints() int { return len(c.points) }

// Claimed reports whether the i-th segment bounds a closed area.
func (c *Canvas) Claimed(i int) bool {
	return i >= 0 && i < len(c.claimed) && c.claimed[i]
}

// FreeSegments returns the segments not claimed by any closed area.
func (c *Canvas) FreeSegments() []core.Segment {
	var out []core.Segment
	for i, s := range c.segments {
		if !c.claimed[i] {
			out = append(out, s)
		}
	}
	return out
}

// SegmentsAt returns every segment with an endpoint at p.
func (c *Canvas) SegmentsAt(p core.Point) []core.Segment {
	p = core.Pt(p.X, p.Y)
	if !c.Contains(p) {
		return nil
	}
	var out []core.Segment
	for _, s := range c.segments {
		if s.Touches(p) {
			out = append(out, s)
		}
	}
	return out
}

// PointID returns the id assigned to p, in first-seen order starting at 1.
func (c *Canvas) PointID(p core.Point) (int, bool) {
	id, ok := c.ids[p]
	return id, ok
}

// PointByID is the inverse of PointID.
func (c *Canvas) PointByID(id int) (core.Point, bool) {
	if id < 1 || id > len(c.points) {
		return core.Point{}, false
	}
	return c.points[id-1], true
}

// Graph returns a copy of the cycle graph over unclaimed segments.
func (c *Canvas) Graph() *graph.CycleGraph { return c.graph.Clone() }

// WithCursor returns a snapshot with the cursor replaced.
func (c *Canvas) WithCursor(cur core.Cursor) *Canvas {
	n := c.clone()
	n.cursor = cur
	return n
}

// WithBackground returns a snapshot with a new background color.
func (c *Canvas) WithBackground(col core.Color) *Canvas {
	n := c.clone()
	n.background = col
	return n
}

// Cleared erases every segment, area and graph entry. The cursor and the
// background are kept.
func (c *Canvas) Cleared() *Canvas {
	n := c.clone()
	n.segments = nil
	n.claimed = nil
	n.areas = nil
	n.points = nil
	n.ids = make(map[core.Point]int)
	n.graph = graph.New()
	return n
}

// AddSegment appends s and looks for a loop closed by it. Degenerate
// segments are rejected and c is returned unchanged with ok false.
//
// When the new edge closes a loop, the loop's segments are claimed by a new
// ClosedArea filled with the cursor's fill color; claimed segments never take
// part in later searches. Only the first loop found by the traversal from the
// new segment's start point is reported.
func (c *Canvas) AddSegment(s core.Segment) (next *Canvas, area *core.ClosedArea, ok bool) {
	s.From = core.Pt(s.From.X, s.From.Y)
	s.To = core.Pt(s.To.X, s.To.Y)
	if s.Degenerate() {
		return c, nil, false
	}

	n := c.clone()
	n.segments = append(n.segments, s)
	n.claimed = append(n.claimed, false)
	if !c.owned {
		n.ids = maps.Clone(c.ids)
		n.graph = c.graph.Clone()
	}
	from := n.register(s.From)
	to := n.register(s.To)
	n.graph.AddEdge(from, to)

	cycle := n.graph.ExtractCycle(from)
	if len(cycle) == 0 {
		return n, nil, true
	}

	a := core.ClosedArea{Fill: n.cursor.FillColor}
	for i := range cycle {
		p, _ := n.PointByID(cycle[i])
		q, _ := n.PointByID(cycle[(i+1)%len(cycle)])
		idx := n.freeSegmentBetween(p, q)
		if idx < 0 {
			// The graph only holds edges of unclaimed segments.
			panic(fmt.Sprintf("canvas: no free segment between %s and %s", p, q))
		}
		n.claimed[idx] = true
		a.Segments = append(a.Segments, n.segments[idx])
	}
	n.areas = append(n.areas, a)
	return n, &a, true
}

// register assigns p the next id if it has none. Callers own c.ids.
func (c *Canvas) register(p core.Point) int {
	if id, ok := c.ids[p]; ok {
		return id
	}
	c.points = append(c.points, p)
	id := len(c.points)
	c.ids[p] = id
	return id
}

func (c *Canvas) freeSegmentBetween(p, q core.Point) int {
	for i, s := range c.segments {
		if !c.claimed[i] && s.Joins(p, q) {
			return i
		}
	}
	return -1
}

// String returns a multi-line summary of the snapshot.
func (c *Canvas) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "canvas %gx%g home=%s origin=%s background=%s\n",
		c.bounds.Width, c.bounds.Height, c.home, c.origin, c.background.Hex())
	cur := c.cursor
	fmt.Fprintf(&sb, "cursor %s heading=%d pen_down=%t line=%s fill=%s width=%d\n",
		cur.Position, cur.Heading, cur.PenDown, cur.LineColor.Hex(), cur.FillColor.Hex(), cur.PenWidth)
	fmt.Fprintf(&sb, "segments=%d areas=%d points=%d", len(c.segments), len(c.areas), len(c.points))
	return sb.String()
}
