package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"turtle/canvas"
	"turtle/core"

	"golang.org/x/image/vector"
)

// PNGExporter rasterizes the snapshot with anti-aliased fills and strokes.
type PNGExporter struct {
	// Scale is the number of pixels per canvas unit.
	Scale float64
}

// NewPNGExporter creates a new PNG exporter
func NewPNGExporter() *PNGExporter {
	return &PNGExporter{Scale: 4}
}

// Export writes c as a PNG image
func (e *PNGExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	k := e.Scale
	wd := int(math.Ceil(c.Width() * k))
	ht := int(math.Ceil(c.Height() * k))
	xy := func(p core.Point) (float32, float32) {
		return float32(p.X * k), float32(float64(ht) - p.Y*k)
	}

	img := image.NewRGBA(image.Rect(0, 0, wd, ht))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgba(c.Background())), image.Point{}, draw.Src)

	ras := vector.NewRasterizer(wd, ht)
	for _, a := range c.Areas() {
		ras.Reset(wd, ht)
		for i, v := range a.Vertices() {
			x, y := xy(v)
			if i == 0 {
				ras.MoveTo(x, y)
			} else {
				ras.LineTo(x, y)
			}
		}
		ras.ClosePath()
		ras.Draw(img, img.Bounds(), image.NewUniform(rgba(a.Fill)), image.Point{})
	}

	for _, s := range c.Segments() {
		ras.Reset(wd, ht)
		x1, y1 := xy(s.From)
		x2, y2 := xy(s.To)
		stroke(ras, x1, y1, x2, y2, float32(float64(s.Width)*k/4))
		ras.Draw(img, img.Bounds(), image.NewUniform(rgba(s.Color)), image.Point{})
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// stroke adds the rectangle of a line with the given width to the path.
func stroke(ras *vector.Rasterizer, x1, y1, x2, y2, width float32) {
	dx, dy := x2-x1, y2-y1
	n := float32(math.Hypot(float64(dx), float64(dy)))
	if n == 0 {
		return
	}
	half := max(width, 1) / 2
	// Unit normal scaled to half the stroke width.
	nx, ny := -dy/n*half, dx/n*half
	ras.MoveTo(x1+nx, y1+ny)
	ras.LineTo(x2+nx, y2+ny)
	ras.LineTo(x2-nx, y2-ny)
	ras.LineTo(x1-nx, y1-ny)
	ras.ClosePath()
}

func rgba(c core.Color) color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}

// GetFileExtension returns the recommended file extension
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG"
}
