package export

import (
	"io"
	"math"

	"turtle/canvas"
	"turtle/render"
)

// ASCIIExporter exports snapshots to ASCII/Unicode art format
type ASCIIExporter struct {
	Charset render.Charset
	// MaxCols and MaxRows cap the grid; one cell per canvas unit otherwise.
	MaxCols, MaxRows int
	// Color adds 24-bit ANSI escapes for terminal output.
	Color bool
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{
		Charset: render.ASCII,
		MaxCols: 120,
		MaxRows: 60,
	}
}

// Export writes the rasterized canvas
func (e *ASCIIExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	cols := min(int(math.Ceil(c.Width())), e.MaxCols)
	rows := min(int(math.Ceil(c.Height())), e.MaxRows)
	g := render.Rasterize(c, cols, rows, e.Charset)
	out := g.String()
	if e.Color {
		out = g.ColoredString()
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
