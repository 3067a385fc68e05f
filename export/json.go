package export

import (
	"encoding/json"
	"io"

	"turtle/canvas"
	"turtle/core"
)

// Document is the JSON shape of a snapshot.
type Document struct {
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Home       core.Point        `json:"home"`
	Origin     core.Point        `json:"origin"`
	Background core.Color        `json:"background"`
	Cursor     core.Cursor       `json:"cursor"`
	Segments   []core.Segment    `json:"segments"`
	Areas      []core.ClosedArea `json:"areas"`
}

// NewDocument captures c.
func NewDocument(c *canvas.Canvas) Document {
	d := Document{
		Width:      c.Width(),
		Height:     c.Height(),
		Home:       c.Home(),
		Origin:     c.Origin(),
		Background: c.Background(),
		Cursor:     c.Cursor(),
		Segments:   c.Segments(),
		Areas:      c.Areas(),
	}
	if d.Segments == nil {
		d.Segments = []core.Segment{}
	}
	if d.Areas == nil {
		d.Areas = []core.ClosedArea{}
	}
	return d
}

// JSONExporter exports snapshots to JSON format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export writes c as indented JSON
func (e *JSONExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(c))
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
