package render

import (
	"fmt"
	"strings"

	"turtle/core"
)

// Reset clears all ANSI attributes.
const Reset = "\033[0m"

// ansiStyle returns the 24-bit escape sequence for a foreground and
// background pair.
func ansiStyle(fg, bg core.Color) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm", fg.R, fg.G, fg.B, bg.R, bg.G, bg.B)
}

// ColoredString returns the grid with 24-bit ANSI colors. Escape sequences
// are only written when the style changes, and every line ends reset.
func (g *Grid) ColoredString() string {
	var sb strings.Builder
	for r, row := range g.cells {
		current := ""
		for _, c := range row {
			style := ansiStyle(c.Fg, c.Bg)
			if style != current {
				sb.WriteString(style)
				current = style
			}
			sb.WriteRune(c.Rune)
		}
		sb.WriteString(Reset)
		if r < g.rows-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
