package export

import (
	"fmt"
	"io"

	"turtle/canvas"
	"turtle/core"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter draws the snapshot on a single page sized to the canvas.
type PDFExporter struct {
	// Scale is the number of points per canvas unit.
	Scale float64
}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{Scale: 4}
}

// Export writes c as a PDF document
func (e *PDFExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	k := e.Scale
	wd, ht := c.Width()*k, c.Height()*k
	xy := func(p core.Point) (float64, float64) { return p.X * k, ht - p.Y*k }

	p := gofpdf.New("P", "pt", "", "")
	p.SetTitle("turtle canvas", true)
	p.AddPageFormat("P", gofpdf.SizeType{Wd: wd, Ht: ht})

	bg := c.Background()
	p.SetFillColor(bg.R, bg.G, bg.B)
	p.Rect(0, 0, wd, ht, "F")

	for _, a := range c.Areas() {
		var pts []gofpdf.PointType
		for _, v := range a.Vertices() {
			x, y := xy(v)
			pts = append(pts, gofpdf.PointType{X: x, Y: y})
		}
		p.SetFillColor(a.Fill.R, a.Fill.G, a.Fill.B)
		p.Polygon(pts, "F")
	}

	p.SetLineCapStyle("round")
	for _, s := range c.Segments() {
		p.SetDrawColor(s.Color.R, s.Color.G, s.Color.B)
		p.SetLineWidth(float64(s.Width) * k / 4)
		x1, y1 := xy(s.From)
		x2, y2 := xy(s.To)
		p.Line(x1, y1, x2, y2)
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// GetFileExtension returns the recommended file extension
func (e *PDFExporter) GetFileExtension() string {
	return ".pdf"
}

// GetFormatName returns the format name
func (e *PDFExporter) GetFormatName() string {
	return "PDF"
}
