// Package events defines the sink the engine reports drawing progress to.
package events

import (
	"context"
	"log/slog"
	"sync"

	"turtle/core"
)

// Sink receives notifications while instructions execute. Calls are
// synchronous and happen in the order the effects occur.
type Sink interface {
	CursorMoved(p core.Point)
	LineDrawn(s core.Segment)
	AreaClosed(a core.ClosedArea)
	BackgroundChanged(c core.Color)
	ScreenCleared()
}

// Kind identifies an event.
type Kind string

const (
	KindCursorMoved       Kind = "cursor_moved"
	KindLineDrawn         Kind = "line_drawn"
	KindAreaClosed        Kind = "area_closed"
	KindBackgroundChanged Kind = "background_changed"
	KindScreenCleared     Kind = "screen_cleared"
)

// Event is a sink call captured as a value. Only the field matching Kind is
// set.
type Event struct {
	Kind       Kind             `json:"kind"`
	Point      *core.Point      `json:"point,omitempty"`
	Segment    *core.Segment    `json:"segment,omitempty"`
	Area       *core.ClosedArea `json:"area,omitempty"`
	Background *core.Color      `json:"background,omitempty"`
}

// Replay delivers e to s.
func (e Event) Replay(s Sink) {
	switch e.Kind {
	case KindCursorMoved:
		s.CursorMoved(*e.Point)
	case KindLineDrawn:
		s.LineDrawn(*e.Segment)
	case KindAreaClosed:
		s.AreaClosed(*e.Area)
	case KindBackgroundChanged:
		s.BackgroundChanged(*e.Background)
	case KindScreenCleared:
		s.ScreenCleared()
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) CursorMoved(core.Point)       {}
func (Nop) LineDrawn(core.Segment)       {}
func (Nop) AreaClosed(core.ClosedArea)   {}
func (Nop) BackgroundChanged(core.Color) {}
func (Nop) ScreenCleared()               {}

// Fanout forwards every event to each sink in order.
type Fanout []Sink

func (f Fanout) CursorMoved(p core.Point) {
	for _, s := range f {
		s.CursorMoved(p)
	}
}

func (f Fanout) LineDrawn(seg core.Segment) {
	for _, s := range f {
		s.LineDrawn(seg)
	}
}

func (f Fanout) AreaClosed(a core.ClosedArea) {
	for _, s := range f {
		s.AreaClosed(a)
	}
}

func (f Fanout) BackgroundChanged(c core.Color) {
	for _, s := range f {
		s.BackgroundChanged(c)
	}
}

func (f Fanout) ScreenCleared() {
	for _, s := range f {
		s.ScreenCleared()
	}
}

// Func adapts a function to a Sink by capturing each call as an Event.
type Func func(Event)

func (f Func) CursorMoved(p core.Point) { f(Event{Kind: KindCursorMoved, Point: &p}) }
func (f Func) LineDrawn(s core.Segment) { f(Event{Kind: KindLineDrawn, Segment: &s}) }
func (f Func) AreaClosed(a core.ClosedArea) {
	f(Event{Kind: KindAreaClosed, Area: &a})
}
func (f Func) BackgroundChanged(c core.Color) {
	f(Event{Kind: KindBackgroundChanged, Background: &c})
}
func (f Func) ScreenCleared() { f(Event{Kind: KindScreenCleared}) }

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Sink returns the recorder as a Sink.
func (r *Recorder) Sink() Sink {
	return Func(r.record)
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// LogSink writes each event to a structured logger at debug level.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) log(msg string, args ...any) {
	if l.Logger == nil {
		return
	}
	l.Logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}

func (l LogSink) CursorMoved(p core.Point) {
	l.log("cursor moved", "position", p.String())
}

func (l LogSink) LineDrawn(s core.Segment) {
	l.log("line drawn", "from", s.From.String(), "to", s.To.String(), "color", s.Color.Hex(), "width", s.Width)
}

func (l LogSink) AreaClosed(a core.ClosedArea) {
	l.log("area closed", "segments", len(a.Segments), "fill", a.Fill.Hex())
}

func (l LogSink) BackgroundChanged(c core.Color) {
	l.log("background changed", "color", c.Hex())
}

func (l LogSink) ScreenCleared() {
	l.log("screen cleared")
}
