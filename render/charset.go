package render

import (
	"os"
	"strings"
)

// Charset holds the glyphs used to draw a canvas.
type Charset struct {
	Name       string
	Horizontal rune
	Vertical   rune
	Rising     rune // lower-left to upper-right
	Falling    rune // upper-left to lower-right
	Fill       rune
	// Arrows is indexed by heading octant: east, north-east, north, ...
	Arrows [8]rune
}

// Built-in charsets.
var (
	Unicode = Charset{
		Name:       "unicode",
		Horizontal: '─',
		Vertical:   '│',
		Rising:     '╱',
		Falling:    '╲',
		Fill:       '░',
		Arrows:     [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'},
	}
	ASCII = Charset{
		Name:       "ascii",
		Horizontal: '-',
		Vertical:   '|',
		Rising:     '/',
		Falling:    '\\',
		Fill:       ':',
		Arrows:     [8]rune{'>', '/', '^', '\\', '<', '/', 'v', '\\'},
	}
)

// Arrow returns the cursor glyph for a heading in degrees.
func (cs Charset) Arrow(heading int) rune {
	h := ((heading % 360) + 360) % 360
	return cs.Arrows[((h+22)%360)/45]
}

// DetectCharset picks a charset for the current terminal. TURTLE_TERMINAL_MODE
// set to "ascii" or "unicode" overrides detection.
func DetectCharset() Charset {
	switch os.Getenv("TURTLE_TERMINAL_MODE") {
	case "ascii":
		return ASCII
	case "unicode":
		return Unicode
	}
	term := os.Getenv("TERM")
	if term == "linux" || term == "dumb" || !utf8Locale() {
		return ASCII
	}
	return Unicode
}

// utf8Locale checks whether the locale uses UTF-8, e.g. "en_US.UTF-8@euro".
func utf8Locale() bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := os.Getenv(env)
		if value == "" {
			continue
		}
		_, charset, ok := strings.Cut(value, ".")
		if !ok {
			return false
		}
		charset, _, _ = strings.Cut(charset, "@")
		return strings.EqualFold(charset, "UTF-8") || strings.EqualFold(charset, "UTF8")
	}
	return false
}
