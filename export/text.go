package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"turtle/canvas"
	"turtle/core"
)

// TextExporter writes every segment not bounding a closed area, one per line,
// followed by one line per closed area.
type TextExporter struct{}

// NewTextExporter creates a new text exporter
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export writes the text listing
func (e *TextExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	bw := bufio.NewWriter(w)
	for _, s := range c.FreeSegments() {
		fmt.Fprintf(bw, "LINE %s\n", formatSegment(s))
	}
	for _, a := range c.Areas() {
		fmt.Fprintf(bw, "AREA %s %s\n", a.Fill.Hex(), formatArea(a))
	}
	return bw.Flush()
}

func formatSegment(s core.Segment) string {
	return fmt.Sprintf("%s %s %s %d", s.From, s.To, s.Color.Hex(), s.Width)
}

func formatArea(a core.ClosedArea) string {
	parts := make([]string, len(a.Segments))
	for i, s := range a.Segments {
		parts[i] = "[" + formatSegment(s) + "]"
	}
	return strings.Join(parts, " ")
}

// GetFileExtension returns the recommended file extension
func (e *TextExporter) GetFileExtension() string {
	return ".out.txt"
}

// GetFormatName returns the format name
func (e *TextExporter) GetFormatName() string {
	return "Text"
}
