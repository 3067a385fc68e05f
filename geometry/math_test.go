package geometry

import (
	"testing"

	"turtle/core"

	"github.com/stretchr/testify/assert"
)

func TestDisplacement(t *testing.T) {
	tests := []struct {
		heading  int
		distance float64
		dx, dy   float64
	}{
		{0, 3, 3, 0},
		{90, 3, 0, 3},
		{180, 2, -2, 0},
		{270, 4, 0, -4},
		{45, 10, 7.0710678, 7.0710678},
	}

	for _, tt := range tests {
		dx, dy := Displacement(tt.heading, tt.distance)
		assert.InDelta(t, tt.dx, dx, 1e-6, "heading %d", tt.heading)
		assert.InDelta(t, tt.dy, dy, 1e-6, "heading %d", tt.heading)
	}
}

func TestIntersection(t *testing.T) {
	p, ok := Intersection(core.Pt(0, 0), core.Pt(10, 10), core.Pt(0, 10), core.Pt(10, 0))
	assert.True(t, ok)
	assert.Equal(t, core.Pt(5, 5), p)

	_, ok = Intersection(core.Pt(0, 0), core.Pt(10, 0), core.Pt(0, 5), core.Pt(10, 5))
	assert.False(t, ok, "parallel lines never intersect")
}

func TestClip(t *testing.T) {
	b := core.Bounds{Width: 10, Height: 10}

	tests := []struct {
		name     string
		from, to core.Point
		want     core.Point
	}{
		{"Inside", core.Pt(5, 5), core.Pt(8, 5), core.Pt(8, 5)},
		{"RightBorderFromEdge", core.Pt(9, 5), core.Pt(59, 5), core.Pt(9, 5)},
		{"RightBorder", core.Pt(5, 5), core.Pt(20, 5), core.Pt(9, 5)},
		{"TopBorder", core.Pt(5, 5), core.Pt(5, 30), core.Pt(5, 9)},
		{"BottomBorder", core.Pt(5, 5), core.Pt(5, -3), core.Pt(5, 0)},
		{"LeftBorder", core.Pt(5, 5), core.Pt(-7, 5), core.Pt(0, 5)},
		{"Diagonal", core.Pt(5, 5), core.Pt(25, 15), core.Pt(9, 7)},
		{"CornerPicksFirstHit", core.Pt(5, 1), core.Pt(25, 41), core.Pt(9, 9)},
		{"BeyondBorderLineButInside", core.Pt(5, 5), core.Pt(9.5, 5), core.Pt(9.5, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clip(b, tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.True(t, b.Contains(got))
		})
	}
}

func TestCrossed(t *testing.T) {
	b := core.Bounds{Width: 10, Height: 10}
	assert.Empty(t, Crossed(b, core.Pt(0, 0)))
	assert.Equal(t, []Edge{Top, Right}, Crossed(b, core.Pt(10, 10)))
	assert.Equal(t, []Edge{Bottom, Left}, Crossed(b, core.Pt(-1, -1)))
	assert.Equal(t, "right", Right.String())
}
