package events

import (
	"bytes"
	"log/slog"
	"testing"

	"turtle/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emitAll(s Sink) {
	s.CursorMoved(core.Pt(1, 2))
	s.LineDrawn(core.Segment{From: core.Pt(0, 0), To: core.Pt(1, 0), Color: core.Black, Width: 1})
	s.AreaClosed(core.ClosedArea{Fill: core.White})
	s.BackgroundChanged(core.Color{R: 1})
	s.ScreenCleared()
}

func TestRecorder(t *testing.T) {
	var r Recorder
	emitAll(r.Sink())

	assert.Equal(t, []Kind{
		KindCursorMoved, KindLineDrawn, KindAreaClosed, KindBackgroundChanged, KindScreenCleared,
	}, r.Kinds())

	evs := r.Events()
	require.Len(t, evs, 5)
	assert.Equal(t, core.Pt(1, 2), *evs[0].Point)
	assert.Equal(t, core.Pt(1, 0), evs[1].Segment.To)
	assert.Equal(t, core.Color{R: 1}, *evs[3].Background)

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestFanoutAndReplay(t *testing.T) {
	var a, b Recorder
	emitAll(Fanout{a.Sink(), Nop{}, b.Sink()})
	assert.Equal(t, a.Events(), b.Events())

	var c Recorder
	for _, e := range a.Events() {
		e.Replay(c.Sink())
	}
	assert.Equal(t, a.Events(), c.Events())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	emitAll(LogSink{Logger: logger})

	out := buf.String()
	for _, msg := range []string{"cursor moved", "line drawn", "area closed", "background changed", "screen cleared"} {
		assert.Contains(t, out, msg)
	}
	assert.Contains(t, out, "color=#000000")

	// Info level hides the events.
	buf.Reset()
	emitAll(LogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	assert.Empty(t, buf.String())

	assert.NotPanics(t, func() { emitAll(LogSink{}) })
}
