package render

import (
	"strings"
	"testing"

	"turtle/canvas"
	"turtle/core"
	"turtle/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawn(t *testing.T, program ...string) *canvas.Canvas {
	t.Helper()
	c, err := canvas.New(10, 10)
	require.NoError(t, err)
	e := engine.New()
	for _, text := range program {
		c, _, err = e.Execute(c, text)
		require.NoError(t, err)
	}
	return c
}

func TestGrid_Basics(t *testing.T) {
	assert.Nil(t, NewGrid(0, 3, core.White))

	g := NewGrid(4, 2, core.Black)
	cols, rows := g.Size()
	assert.Equal(t, 4, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, "    \n    ", g.String())

	require.NoError(t, g.Set(1, 1, Cell{Rune: 'x'}))
	assert.ErrorIs(t, g.Set(4, 0, Cell{}), ErrOutOfBounds)
	assert.Equal(t, 'x', g.Get(1, 1).Rune)
	assert.Equal(t, ' ', g.Get(-1, 0).Rune)
	assert.Equal(t, core.Black, g.Get(9, 9).Bg)

	g.Clear()
	assert.Equal(t, []string{"    ", "    "}, g.Lines())
}

func TestGrid_DrawLine(t *testing.T) {
	tests := []struct {
		name           string
		c1, r1, c2, r2 int
		want           []string
	}{
		{"Horizontal", 0, 1, 3, 1, []string{"    ", "####", "    "}},
		{"Vertical", 2, 0, 2, 2, []string{"  # ", "  # ", "  # "}},
		{"Diagonal", 0, 0, 2, 2, []string{"#   ", " #  ", "  # "}},
		{"Clipped", -2, 0, 5, 0, []string{"####", "    ", "    "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(4, 3, core.White)
			g.DrawLine(tt.c1, tt.r1, tt.c2, tt.r2, '#', core.Black)
			assert.Equal(t, tt.want, g.Lines())
		})
	}
}

func TestRasterize_Line(t *testing.T) {
	c := drawn(t, "SETPENCOLOR 255 0 0", "FORWARD 3")
	g := Rasterize(c, 10, 10, ASCII)
	require.NotNil(t, g)

	lines := g.Lines()
	assert.Equal(t, "     ---> ", lines[4])
	for i, l := range lines {
		if i != 4 {
			assert.Equal(t, strings.Repeat(" ", 10), l, "row %d", i)
		}
	}
	assert.Equal(t, core.Color{R: 255}, g.Get(6, 4).Fg)
}

func TestRasterize_FilledSquare(t *testing.T) {
	c := drawn(t, "SETFILLCOLOR 0 0 255", "SETSCREENCOLOR 0 0 0", "REPEAT 4 [ FORWARD 3 LEFT 90 ]")
	require.Equal(t, 1, c.NumAreas())

	g := Rasterize(c, 10, 10, ASCII)
	assert.Equal(t, "     |--- ", g.Lines()[1])
	assert.Equal(t, "     |::| ", g.Lines()[2])
	assert.Equal(t, "     >--| ", g.Lines()[4])

	inner := g.Get(6, 3)
	assert.True(t, inner.Filled)
	assert.Equal(t, ':', inner.Rune)
	assert.Equal(t, core.Color{B: 255}, inner.Bg)

	outside := g.Get(1, 1)
	assert.False(t, outside.Filled)
	assert.Equal(t, core.Black, outside.Bg)
}

func TestRasterize_Scaled(t *testing.T) {
	c := drawn(t, "LEFT 90", "FORWARD 4")
	g := Rasterize(c, 5, 5, Unicode)
	// (5,5)-(5,9) lands in column 2, rows 2..0.
	assert.Equal(t, '↑', g.Get(2, 0).Rune)
	assert.Equal(t, '│', g.Get(2, 1).Rune)
	assert.Equal(t, '│', g.Get(2, 2).Rune)
	assert.Nil(t, Rasterize(c, 0, 0, Unicode))
}

func TestLineRune(t *testing.T) {
	seg := func(x1, y1, x2, y2 float64) core.Segment {
		return core.Segment{From: core.Pt(x1, y1), To: core.Pt(x2, y2)}
	}
	assert.Equal(t, '-', ASCII.lineRune(seg(0, 0, 5, 1)))
	assert.Equal(t, '|', ASCII.lineRune(seg(0, 0, 1, -5)))
	assert.Equal(t, '/', ASCII.lineRune(seg(0, 0, 3, 3)))
	assert.Equal(t, '/', ASCII.lineRune(seg(3, 3, 0, 0)))
	assert.Equal(t, '\\', ASCII.lineRune(seg(0, 3, 3, 0)))
}

func TestArrow(t *testing.T) {
	tests := map[int]rune{0: '→', 45: '↗', 90: '↑', 180: '←', 270: '↓', 350: '→', 300: '↘'}
	for heading, want := range tests {
		assert.Equal(t, want, Unicode.Arrow(heading), "heading %d", heading)
	}
}

func TestDetectCharset(t *testing.T) {
	t.Setenv("TURTLE_TERMINAL_MODE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_CTYPE", "")
	t.Setenv("TERM", "xterm-256color")

	t.Setenv("LANG", "en_US.UTF-8")
	assert.Equal(t, "unicode", DetectCharset().Name)

	t.Setenv("LANG", "C")
	assert.Equal(t, "ascii", DetectCharset().Name)

	t.Setenv("TURTLE_TERMINAL_MODE", "unicode")
	assert.Equal(t, "unicode", DetectCharset().Name)
}

func TestColoredString(t *testing.T) {
	g := NewGrid(3, 2, core.White)
	require.NoError(t, g.Set(0, 0, Cell{Rune: 'x', Fg: core.Color{R: 255}, Bg: core.White}))

	plain := ansiStyle(core.Black, core.White)
	want := ansiStyle(core.Color{R: 255}, core.White) + "x" + plain + "  " + Reset + "\n" +
		plain + "   " + Reset
	assert.Equal(t, want, g.ColoredString())
}
