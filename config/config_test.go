package config

import (
	"os"
	"path/filepath"
	"testing"

	"turtle/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	c, err := cfg.Canvas.NewCanvas()
	require.NoError(t, err)
	assert.Equal(t, core.Pt(50, 50), c.Home())
	assert.Equal(t, core.White, c.Background())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turtle.yaml")
	data := `
canvas:
  width: 40
  height: 30
  home: {x: 5, y: 6}
  background: {r: 10, g: 20, b: 30}
engine:
  max_steps: 500
log:
  level: debug
export:
  format: svg
server:
  addr: "0.0.0.0:9000"
  mdns: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Canvas.Width)
	assert.Equal(t, &Point{X: 5, Y: 6}, cfg.Canvas.Home)
	assert.Equal(t, 500, cfg.Engine.MaxSteps)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "svg", cfg.Export.Format)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.True(t, cfg.Server.MDNS)
	assert.Equal(t, 64, cfg.Server.MaxSessions, "unset keys keep their default")
	assert.Equal(t, "auto", cfg.Viewer.Charset)

	c, err := cfg.Canvas.NewCanvas()
	require.NoError(t, err)
	assert.Equal(t, core.Pt(5, 6), c.Cursor().Position)
	assert.Equal(t, core.Color{R: 10, G: 20, B: 30}, c.Background())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"SmallCanvas", "canvas: {width: 1}", "Width"},
		{"ChannelRange", "canvas: {background: {r: 256}}", "R"},
		{"HomeOutside", "canvas: {width: 10, height: 10, home: {x: 11, y: 2}}", "Home"},
		{"OriginOutside", "canvas: {origin: {x: -1, y: 0}}", "Origin"},
		{"LogLevel", "log: {level: loud}", "Level"},
		{"Format", "export: {format: gif}", "Format"},
		{"Charset", "viewer: {charset: ebcdic}", "Charset"},
		{"MaxSessions", "server: {max_sessions: 0}", "MaxSessions"},
		{"MaxSteps", "engine: {max_steps: 0}", "MaxSteps"},
		{"Addr", "server: {addr: nowhere}", "Addr"},
		{"UnknownKey", "canvas: {depth: 3}", "depth"},
		{"NotYAML", "canvas: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read")
}
