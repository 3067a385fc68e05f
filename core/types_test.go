package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPt_Canonicalizes(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Point
	}{
		{"Exact", 5, 5, Point{5, 5}},
		{"RoundsDown", 1.004, 2.001, Point{1, 2}},
		{"RoundsUp", 1.006, 2.996, Point{1.01, 3}},
		{"NegativeZero", -0.001, -0.0, Point{0, 0}},
		{"FloatDrift", 0.1 + 0.2, 3 * 1.1, Point{0.3, 3.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pt(tt.x, tt.y))
		})
	}
}

func TestNewColor(t *testing.T) {
	c, err := NewColor(10, 20, 30)
	require.NoError(t, err)
	assert.Equal(t, Color{10, 20, 30}, c)
	assert.Equal(t, "#0a141e", c.Hex())

	for _, bad := range [][3]int{{256, 0, 0}, {0, -1, 0}, {0, 0, 300}} {
		_, err := NewColor(bad[0], bad[1], bad[2])
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRange), "want ErrRange for %v", bad)

		var re *RangeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, 255, re.Max)
	}
}

func TestSegment_UndirectedEquality(t *testing.T) {
	a, b := Pt(1, 1), Pt(4, 5)
	s1 := Segment{From: a, To: b, Color: Black, Width: 1}
	s2 := Segment{From: b, To: a, Color: Black, Width: 1}

	assert.True(t, s1.Equal(s2))
	assert.True(t, s2.Equal(s1))
	assert.False(t, s1.Equal(Segment{From: a, To: b, Color: White, Width: 1}))
	assert.False(t, s1.Equal(Segment{From: a, To: b, Color: Black, Width: 2}))
	assert.InDelta(t, 5.0, s1.Length(), 1e-9)
	assert.False(t, s1.Degenerate())
	assert.True(t, Segment{From: a, To: a}.Degenerate())
}

func square() []Segment {
	p := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	var out []Segment
	for i := range p {
		out = append(out, Segment{From: p[i], To: p[(i+1)%len(p)], Color: Black, Width: 1})
	}
	return out
}

func TestClosedArea_Equal(t *testing.T) {
	segs := square()
	a := ClosedArea{Segments: segs, Fill: White}

	rotated := ClosedArea{Segments: append(append([]Segment{}, segs[2:]...), segs[:2]...), Fill: White}
	assert.True(t, a.Equal(rotated))

	reversed := ClosedArea{Fill: White}
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		reversed.Segments = append(reversed.Segments, Segment{From: s.To, To: s.From, Color: s.Color, Width: s.Width})
	}
	assert.True(t, a.Equal(reversed))

	assert.False(t, a.Equal(ClosedArea{Segments: segs, Fill: Black}))
	assert.False(t, a.Equal(ClosedArea{Segments: segs[:3], Fill: White}))
}

func TestClosedArea_Vertices(t *testing.T) {
	a := ClosedArea{Segments: square()}
	assert.Equal(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}, a.Vertices())

	// Segments walked against their drawing direction.
	segs := square()
	segs[1] = Segment{From: segs[1].To, To: segs[1].From}
	b := ClosedArea{Segments: segs}
	assert.Equal(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}, b.Vertices())
}

func TestCursor_Turn(t *testing.T) {
	c := NewCursor(Pt(5, 5))
	assert.Equal(t, 90, c.Turn(90).Heading)
	assert.Equal(t, 270, c.Turn(-90).Heading)
	assert.Equal(t, 0, c.Turn(360).Heading)
	assert.Equal(t, 10, c.Turn(90).Turn(280).Heading)
	assert.Equal(t, 0, c.Heading, "the source cursor is untouched")
}
