// Package export writes canvas snapshots in text and image formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"turtle/canvas"
)

// ErrNilCanvas is returned when there is nothing to export.
var ErrNilCanvas = errors.New("canvas is nil")

// Format represents an export format
type Format string

const (
	// FormatText lists free segments then closed areas, one per line
	FormatText Format = "text"
	// FormatJSON exports the full snapshot as JSON
	FormatJSON Format = "json"
	// FormatSVG exports to an SVG document
	FormatSVG Format = "svg"
	// FormatASCII exports to ASCII/Unicode art
	FormatASCII Format = "ascii"
	// FormatPDF exports to a single page PDF
	FormatPDF Format = "pdf"
	// FormatPNG exports to a PNG image
	FormatPNG Format = "png"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export writes the canvas to w in the target format
	Export(w io.Writer, c *canvas.Canvas) error
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatText:
		return NewTextExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatASCII:
		return NewASCIIExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	case FormatPNG:
		return NewPNGExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "txt", "logo":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "svg":
		return FormatSVG, nil
	case "ascii", "art":
		return FormatASCII, nil
	case "pdf":
		return FormatPDF, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatText,
		FormatJSON,
		FormatSVG,
		FormatASCII,
		FormatPDF,
		FormatPNG,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatText:  "Segments and closed areas, one per line",
		FormatJSON:  "Full snapshot as JSON",
		FormatSVG:   "Scalable vector graphics",
		FormatASCII: "ASCII/Unicode art",
		FormatPDF:   "Single page PDF",
		FormatPNG:   "PNG raster image",
	}
}

// ContentType returns the MIME type of a format.
func ContentType(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}
