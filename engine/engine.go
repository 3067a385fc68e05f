// Package engine interprets turtle instructions against canvas snapshots.
//
// Each instruction is a value of one variant of the Instruction sum type,
// parsed and validated up front. Applying it to a snapshot is a pure
// function returning the next snapshot; effects are reported to an injected
// events.Sink while the new snapshot is built.
package engine

import (
	"log/slog"
	"strings"

	"turtle/canvas"
	"turtle/events"
	"turtle/logging"
)

// Engine applies instructions and reports their effects.
type Engine struct {
	sink     events.Sink
	logger   *slog.Logger
	maxSteps int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the sink notified of cursor moves, lines, areas, background
// changes and clears.
func WithSink(s events.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithLogger sets the logger for executed and rejected instructions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxSteps bounds how many instructions one instruction may unroll to.
// Larger REPEATs are rejected with a *core.RangeError. Defaults to
// DefaultMaxSteps.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// New creates an engine. Without options it reports to nowhere.
func New(opts ...Option) *Engine {
	e := &Engine{
		sink:     events.Nop{},
		logger:   logging.Discard(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sink returns the engine's event sink.
func (e *Engine) Sink() events.Sink { return e.sink }

// Apply runs a parsed instruction on c and returns the new snapshot.
func (e *Engine) Apply(c *canvas.Canvas, in Instruction) *canvas.Canvas {
	for _, err := range Skipped(in) {
		e.logger.Warn("skipped repeated instruction", "instruction", in.String(), "error", err)
	}
	next := in.Apply(c, e.sink)
	cur := next.Cursor()
	e.logger.Info("executed instruction",
		"instruction", in.String(),
		"position", cur.Position.String(),
		"heading", cur.Heading,
		"segments", next.NumSegments(),
		"areas", next.NumAreas())
	return next
}

// Execute parses text and applies it. On error c is returned unchanged with
// a *core.SyntaxError or *core.RangeError.
func (e *Engine) Execute(c *canvas.Canvas, text string) (*canvas.Canvas, Instruction, error) {
	in, err := parse(text, e.maxSteps)
	if err != nil {
		e.logger.Warn("rejected instruction", "instruction", strings.TrimSpace(text), "error", err)
		return c, nil, err
	}
	return e.Apply(c, in), in, nil
}

// ExecuteArgs is Execute for a name and already split operands.
func (e *Engine) ExecuteArgs(c *canvas.Canvas, name string, operands ...string) (*canvas.Canvas, error) {
	next, _, err := e.Execute(c, strings.Join(append([]string{name}, operands...), " "))
	return next, err
}

// Skipped collects the rejected body entries of in and of any REPEAT nested
// inside it.
func Skipped(in Instruction) []error {
	r, ok := in.(Repeat)
	if !ok {
		return nil
	}
	errs := append([]error(nil), r.Skipped...)
	for _, b := range r.Body {
		errs = append(errs, Skipped(b)...)
	}
	return errs
}
