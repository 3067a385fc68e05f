// Package render rasterizes canvas snapshots onto a character grid.
package render

import (
	"errors"
	"strings"

	"turtle/core"
)

// ErrOutOfBounds is returned when a cell lies outside the grid.
var ErrOutOfBounds = errors.New("cell out of bounds")

// Cell is one character position of the grid.
type Cell struct {
	Rune   rune
	Fg     core.Color
	Bg     core.Color
	Filled bool // inside a closed area
}

// Grid is a rows x cols matrix of cells.
//
// Coordinate system:
//   - (0,0) is the top-left cell
//   - col increases rightward
//   - row increases downward
//
// Grid is not safe for concurrent writes.
type Grid struct {
	cells [][]Cell
	cols  int
	rows  int
	bg    core.Color
}

// NewGrid creates a grid of blank cells on the given background. It returns
// nil when either dimension is not positive.
func NewGrid(cols, rows int, bg core.Color) *Grid {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	g := &Grid{cols: cols, rows: rows, bg: bg}
	g.cells = make([][]Cell, rows)
	for r := range g.cells {
		g.cells[r] = make([]Cell, cols)
	}
	g.Clear()
	return g
}

// Size returns the number of columns and rows.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// Background returns the grid background color.
func (g *Grid) Background() core.Color { return g.bg }

// Get returns the cell at (col, row), or a blank cell when out of bounds.
func (g *Grid) Get(col, row int) Cell {
	if !g.inside(col, row) {
		return Cell{Rune: ' ', Bg: g.bg}
	}
	return g.cells[row][col]
}

// Set replaces the cell at (col, row).
func (g *Grid) Set(col, row int, c Cell) error {
	if !g.inside(col, row) {
		return ErrOutOfBounds
	}
	g.cells[row][col] = c
	return nil
}

// Clear resets every cell to a blank on the background.
func (g *Grid) Clear() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = Cell{Rune: ' ', Bg: g.bg}
		}
	}
}

// String returns the grid runes as lines joined by newlines.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

// Lines returns one string per row.
func (g *Grid) Lines() []string {
	out := make([]string, g.rows)
	var sb strings.Builder
	for r, row := range g.cells {
		sb.Reset()
		sb.Grow(g.cols)
		for _, c := range row {
			sb.WriteRune(c.Rune)
		}
		out[r] = sb.String()
	}
	return out
}

// DrawLine draws a line between two cells using Bresenham's algorithm. Cells
// outside the grid are skipped. The background of filled cells is kept.
func (g *Grid) DrawLine(c1, r1, c2, r2 int, ch rune, fg core.Color) {
	dx := abs(c2 - c1)
	dy := abs(r2 - r1)

	c, r := c1, r1

	cInc := 1
	if c1 > c2 {
		cInc = -1
	}

	rInc := 1
	if r1 > r2 {
		rInc = -1
	}

	if dx > dy {
		err := dx / 2
		for c != c2 {
			g.stroke(c, r, ch, fg)
			err -= dy
			if err < 0 {
				r += rInc
				err += dx
			}
			c += cInc
		}
	} else {
		err := dy / 2
		for r != r2 {
			g.stroke(c, r, ch, fg)
			err -= dx
			if err < 0 {
				c += cInc
				err += dy
			}
			r += rInc
		}
	}

	g.stroke(c2, r2, ch, fg)
}

// Fill paints the background of a cell and marks it as filled.
func (g *Grid) Fill(col, row int, ch rune, bg core.Color) {
	if !g.inside(col, row) {
		return
	}
	g.cells[row][col] = Cell{Rune: ch, Fg: bg, Bg: bg, Filled: true}
}

// stroke sets the rune and foreground of a cell, keeping its background.
func (g *Grid) stroke(col, row int, ch rune, fg core.Color) {
	if !g.inside(col, row) {
		return
	}
	cell := &g.cells[row][col]
	cell.Rune = ch
	cell.Fg = fg
}

func (g *Grid) inside(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
