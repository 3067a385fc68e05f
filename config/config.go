// Package config loads turtle settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"turtle/canvas"
	"turtle/core"
	"turtle/engine"
	"turtle/export"
	"turtle/logging"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full turtle configuration.
type Config struct {
	Canvas CanvasConfig   `yaml:"canvas"`
	Engine EngineConfig   `yaml:"engine"`
	Log    logging.Config `yaml:"log"`
	Export ExportConfig   `yaml:"export"`
	Viewer ViewerConfig   `yaml:"viewer"`
	Server ServerConfig   `yaml:"server"`
}

// CanvasConfig describes the drawing area. Home defaults to the centre.
type CanvasConfig struct {
	Width      float64 `yaml:"width" validate:"gte=2"`
	Height     float64 `yaml:"height" validate:"gte=2"`
	Home       *Point  `yaml:"home,omitempty"`
	Origin     *Point  `yaml:"origin,omitempty"`
	Background RGB     `yaml:"background"`
}

// Point is a canvas position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// RGB is a color with channels in 0..255.
type RGB struct {
	R int `yaml:"r" validate:"gte=0,lte=255"`
	G int `yaml:"g" validate:"gte=0,lte=255"`
	B int `yaml:"b" validate:"gte=0,lte=255"`
}

// Color converts to a core.Color.
func (c RGB) Color() core.Color {
	return core.Color{R: c.R, G: c.G, B: c.B}
}

// EngineConfig bounds instruction execution.
type EngineConfig struct {
	// MaxSteps caps how many instructions one REPEAT may unroll to.
	MaxSteps int `yaml:"max_steps" validate:"gte=1"`
}

// ExportConfig selects how `run` writes its result.
type ExportConfig struct {
	Format string `yaml:"format" validate:"format"`
	// Dir is where output files go. Empty means next to the program.
	Dir string `yaml:"dir"`
}

// ViewerConfig configures the terminal viewer.
type ViewerConfig struct {
	Charset string `yaml:"charset" validate:"oneof=auto unicode ascii"`
}

// ServerConfig configures `serve`.
type ServerConfig struct {
	Addr         string `yaml:"addr" validate:"required,hostname_port"`
	MaxSessions  int    `yaml:"max_sessions" validate:"gte=1"`
	HistoryLimit int    `yaml:"history_limit" validate:"gte=0"`
	MDNS         bool   `yaml:"mdns"`
	Instance     string `yaml:"instance"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("format", validateFormat)
	validate.RegisterStructValidation(validateCanvas, CanvasConfig{})
}

func validateFormat(fl validator.FieldLevel) bool {
	_, err := export.ParseFormat(fl.Field().String())
	return err == nil
}

func validateCanvas(sl validator.StructLevel) {
	c := sl.Current().Interface().(CanvasConfig)
	b := core.Bounds{Width: c.Width, Height: c.Height}
	if c.Home != nil && !b.Contains(core.Pt(c.Home.X, c.Home.Y)) {
		sl.ReportError(c.Home, "Home", "home", "inside", "")
	}
	if c.Origin != nil && !b.Contains(core.Pt(c.Origin.X, c.Origin.Y)) {
		sl.ReportError(c.Origin, "Origin", "origin", "inside", "")
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:      100,
			Height:     100,
			Background: RGB{255, 255, 255},
		},
		Engine: EngineConfig{MaxSteps: engine.DefaultMaxSteps},
		Log:    logging.Config{Level: "info"},
		Export: ExportConfig{Format: string(export.FormatText)},
		Viewer: ViewerConfig{Charset: "auto"},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			MaxSessions:  64,
			HistoryLimit: 1000,
			Instance:     "turtle",
		},
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the file at path over Default and validates the result. An
// empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse the config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewCanvas builds the initial canvas described by c.
func (c CanvasConfig) NewCanvas() (*canvas.Canvas, error) {
	opts := []canvas.Option{canvas.WithBackground(c.Background.Color())}
	if c.Home != nil {
		opts = append(opts, canvas.WithHome(core.Pt(c.Home.X, c.Home.Y)))
	}
	if c.Origin != nil {
		opts = append(opts, canvas.WithOrigin(core.Pt(c.Origin.X, c.Origin.Y)))
	}
	return canvas.New(c.Width, c.Height, opts...)
}
