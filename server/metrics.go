package server

import (
	"errors"
	"strings"

	"turtle/core"
	"turtle/engine"
	"turtle/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values for turtle_instructions_total.
const (
	resultOK          = "ok"
	resultSyntaxError = "syntax_error"
	resultRangeError  = "range_error"
)

// Metrics holds the service collectors.
type Metrics struct {
	instructions   *prometheus.CounterVec
	segmentsDrawn  prometheus.Counter
	areasClosed    prometheus.Counter
	sessionsActive prometheus.Gauge
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		instructions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "turtle_instructions_total",
			Help: "Instructions executed, by instruction name and result.",
		}, []string{"instruction", "result"}),
		segmentsDrawn: f.NewCounter(prometheus.CounterOpts{
			Name: "turtle_segments_drawn_total",
			Help: "Segments added to any canvas.",
		}),
		areasClosed: f.NewCounter(prometheus.CounterOpts{
			Name: "turtle_areas_closed_total",
			Help: "Closed areas discovered on any canvas.",
		}),
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "turtle_sessions_active",
			Help: "Sessions currently held by the server.",
		}),
	}
}

// observe counts one executed instruction.
func (m *Metrics) observe(text string, err error) {
	result := resultOK
	switch {
	case errors.Is(err, core.ErrSyntax):
		result = resultSyntaxError
	case errors.Is(err, core.ErrRange):
		result = resultRangeError
	case err != nil:
		return
	}
	m.instructions.WithLabelValues(instructionLabel(text), result).Inc()
}

// Sink returns an event sink feeding the drawing counters.
func (m *Metrics) Sink() events.Sink {
	return events.Func(func(e events.Event) {
		switch e.Kind {
		case events.KindLineDrawn:
			m.segmentsDrawn.Inc()
		case events.KindAreaClosed:
			m.areasClosed.Inc()
		}
	})
}

var known = func() map[string]bool {
	m := make(map[string]bool)
	for _, n := range engine.Names() {
		m[n] = true
	}
	return m
}()

// instructionLabel keeps the label set bounded to the known names.
func instructionLabel(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "unknown"
	}
	name := strings.ToUpper(fields[0])
	if !known[name] {
		return "unknown"
	}
	return name
}
