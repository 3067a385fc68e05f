package canvas

import (
	"testing"

	"turtle/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(x1, y1, x2, y2 float64) core.Segment {
	return core.Segment{From: core.Pt(x1, y1), To: core.Pt(x2, y2), Color: core.Black, Width: 1}
}

func mustNew(t *testing.T, w, h float64, opts ...Option) *Canvas {
	t.Helper()
	c, err := New(w, h, opts...)
	require.NoError(t, err)
	return c
}

func addAll(t *testing.T, c *Canvas, segs ...core.Segment) (*Canvas, []*core.ClosedArea) {
	t.Helper()
	var areas []*core.ClosedArea
	for _, s := range segs {
		next, area, ok := c.AddSegment(s)
		require.True(t, ok, "segment %s rejected", s)
		c = next
		if area != nil {
			areas = append(areas, area)
		}
	}
	return c, areas
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		opts    []Option
		wantErr error
	}{
		{"Default", 10, 10, nil, nil},
		{"Smallest", 2, 2, nil, nil},
		{"TooNarrow", 1, 10, nil, ErrInvalidSize},
		{"TooShort", 10, 1.5, nil, ErrInvalidSize},
		{"HomeOutside", 10, 10, []Option{WithHome(core.Pt(10, 5))}, ErrOutOfBounds},
		{"OriginOutside", 10, 10, []Option{WithOrigin(core.Pt(-1, 0))}, ErrOutOfBounds},
		{"BadBackground", 10, 10, []Option{WithBackground(core.Color{R: 300})}, core.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.w, tt.h, tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, core.Pt(tt.w/2, tt.h/2), c.Home())
			assert.Equal(t, c.Home(), c.Cursor().Position)
			assert.Equal(t, core.White, c.Background())
			assert.Equal(t, 0, c.NumSegments())
		})
	}
}

func TestAddSegment_RejectsDegenerate(t *testing.T) {
	c := mustNew(t, 10, 10)
	next, area, ok := c.AddSegment(seg(3, 3, 3.001, 3))
	assert.False(t, ok)
	assert.Nil(t, area)
	assert.Same(t, c, next)
	assert.Equal(t, 0, next.NumSegments())
}

func TestAddSegment_AssignsIDsInFirstSeenOrder(t *testing.T) {
	c := mustNew(t, 100, 100)
	c, _ = addAll(t, c, seg(1, 1, 2, 2), seg(2, 2, 3, 1))

	for want, p := range []core.Point{core.Pt(1, 1), core.Pt(2, 2), core.Pt(3, 1)} {
		id, ok := c.PointID(p)
		require.True(t, ok)
		assert.Equal(t, want+1, id)
		back, ok := c.PointByID(id)
		require.True(t, ok)
		assert.Equal(t, p, back)
	}
	assert.Equal(t, 3, c.NumPoints())
	_, ok := c.PointByID(0)
	assert.False(t, ok)
}

func TestAddSegment_SquareClosesOneArea(t *testing.T) {
	c := mustNew(t, 100, 100)
	cur := c.Cursor()
	cur.FillColor = core.Color{R: 10, G: 20, B: 30}
	c = c.WithCursor(cur)

	square := []core.Segment{
		seg(10, 10, 20, 10),
		seg(20, 10, 20, 20),
		seg(20, 20, 10, 20),
		seg(10, 20, 10, 10),
	}

	for i, s := range square[:3] {
		var area *core.ClosedArea
		var ok bool
		c, area, ok = c.AddSegment(s)
		require.True(t, ok)
		assert.Nil(t, area, "segment %d must not close anything", i)
	}

	c, area, ok := c.AddSegment(square[3])
	require.True(t, ok)
	require.NotNil(t, area)

	assert.Len(t, area.Segments, 4)
	assert.Equal(t, core.Color{R: 10, G: 20, B: 30}, area.Fill)
	assert.True(t, area.Equal(core.ClosedArea{Segments: square, Fill: area.Fill}))
	assert.Equal(t, 1, c.NumAreas())
	assert.Empty(t, c.FreeSegments())
	for i := range square {
		assert.True(t, c.Claimed(i))
	}
	assert.Equal(t, 0, c.Graph().Edges(), "claimed segments leave the graph")
}

func TestAddSegment_ClaimedSegmentsAreNotReused(t *testing.T) {
	c := mustNew(t, 100, 100)
	// Two squares sharing the edge (20,10)-(20,20).
	c, areas := addAll(t, c,
		seg(10, 10, 20, 10), seg(20, 10, 20, 20), seg(20, 20, 10, 20), seg(10, 20, 10, 10),
		seg(20, 10, 30, 10), seg(30, 10, 30, 20), seg(30, 20, 20, 20),
	)
	require.Len(t, areas, 1, "the shared edge is already claimed")
	assert.Len(t, c.FreeSegments(), 3)

	// Redrawing the shared edge closes the second square.
	c, areas = addAll(t, c, seg(20, 20, 20, 10))
	require.Len(t, areas, 1)
	assert.Len(t, areas[0].Segments, 4)
	assert.Equal(t, 2, c.NumAreas())
	assert.Empty(t, c.FreeSegments())
}

func TestAddSegment_TriangleAfterTail(t *testing.T) {
	c := mustNew(t, 100, 100)
	c, areas := addAll(t, c,
		seg(0, 0, 10, 0),
		seg(10, 0, 20, 0),
		seg(20, 0, 15, 5),
		seg(15, 5, 10, 0),
	)
	require.Len(t, areas, 1)
	assert.Len(t, areas[0].Segments, 3)
	assert.False(t, c.Claimed(0), "the tail is not part of the triangle")
	assert.Len(t, c.FreeSegments(), 1)
}

func TestSnapshotsAreImmutable(t *testing.T) {
	base := mustNew(t, 100, 100)
	a, _ := addAll(t, base, seg(10, 10, 20, 10), seg(20, 10, 20, 20))
	before := a.Clone()

	b, _ := addAll(t, a, seg(20, 20, 10, 20), seg(10, 20, 10, 10))
	assert.Equal(t, 1, b.NumAreas())

	assert.Equal(t, before, a, "deriving b must not touch a")
	assert.Equal(t, 0, base.NumSegments())
	assert.Equal(t, 0, a.NumAreas())
	assert.Equal(t, 2, a.Graph().Edges())

	// Two siblings derived from the same parent do not share storage.
	s1, _, _ := a.AddSegment(seg(0, 0, 1, 1))
	s2, _, _ := a.AddSegment(seg(5, 5, 6, 6))
	assert.Equal(t, seg(0, 0, 1, 1), s1.Segments()[2])
	assert.Equal(t, seg(5, 5, 6, 6), s2.Segments()[2])
}

func TestCleared(t *testing.T) {
	c := mustNew(t, 100, 100)
	c, _ = addAll(t, c, seg(10, 10, 20, 10), seg(20, 10, 20, 20), seg(20, 20, 10, 10))
	c = c.WithBackground(core.Color{R: 1, G: 2, B: 3})
	cur := c.Cursor()

	cleared := c.Cleared()
	assert.Equal(t, 0, cleared.NumSegments())
	assert.Equal(t, 0, cleared.NumAreas())
	assert.Equal(t, 0, cleared.NumPoints())
	assert.Equal(t, 0, cleared.Graph().Edges())
	assert.Equal(t, cur, cleared.Cursor())
	assert.Equal(t, core.Color{R: 1, G: 2, B: 3}, cleared.Background())
	assert.Equal(t, 1, c.NumAreas(), "the source snapshot keeps its drawing")
}

func TestSegmentsAt(t *testing.T) {
	c := mustNew(t, 100, 100)
	c, _ = addAll(t, c, seg(10, 10, 20, 10), seg(20, 10, 20, 20), seg(50, 50, 60, 60))

	assert.Len(t, c.SegmentsAt(core.Pt(20, 10)), 2)
	assert.Len(t, c.SegmentsAt(core.Pt(60, 60)), 1)
	assert.Empty(t, c.SegmentsAt(core.Pt(15, 10)), "interior points are not endpoints")
	assert.Empty(t, c.SegmentsAt(core.Pt(500, 10)))
}

func TestBlank(t *testing.T) {
	c := mustNew(t, 40, 30, WithHome(core.Pt(3, 4)), WithOrigin(core.Pt(1, 1)))
	c, _ = addAll(t, c, seg(1, 1, 2, 2))
	c = c.WithBackground(core.Black)

	b := c.Blank(core.Color{R: 9, G: 9, B: 9})
	assert.Equal(t, 40.0, b.Width())
	assert.Equal(t, 30.0, b.Height())
	assert.Equal(t, core.Pt(3, 4), b.Home())
	assert.Equal(t, core.Pt(1, 1), b.Origin())
	assert.Equal(t, core.Color{R: 9, G: 9, B: 9}, b.Background())
	assert.Equal(t, 0, b.NumSegments())
	assert.Equal(t, core.Pt(3, 4), b.Cursor().Position)
}

func TestDraft_UpdatesInPlaceUntilPublished(t *testing.T) {
	base := mustNew(t, 100, 100)
	base, _ = addAll(t, base, seg(10, 10, 20, 10))
	before := base.Clone()

	d := base.Draft()
	require.True(t, d.IsDraft())
	d, areas := addAll(t, d, seg(20, 10, 20, 20), seg(20, 20, 10, 20), seg(10, 20, 10, 10))
	require.Len(t, areas, 1)
	assert.True(t, d.IsDraft(), "snapshots derived from a draft stay drafts")

	p := d.Publish()
	assert.False(t, p.IsDraft())
	assert.Equal(t, 4, p.NumSegments())
	assert.Equal(t, 1, p.NumAreas())
	assert.Equal(t, 0, p.Graph().Edges())
	assert.Equal(t, before, base, "drafting never touches the source snapshot")

	// A published snapshot is immutable again: siblings do not share storage.
	s1, _, _ := p.AddSegment(seg(0, 0, 1, 1))
	s2, _, _ := p.AddSegment(seg(5, 5, 6, 6))
	assert.Equal(t, seg(0, 0, 1, 1), s1.Segments()[4])
	assert.Equal(t, seg(5, 5, 6, 6), s2.Segments()[4])
	_, ok := s1.PointID(core.Pt(5, 5))
	assert.False(t, ok)
	assert.Equal(t, 4, p.NumSegments())
	assert.Same(t, p, p.Publish())
}
