// Package history keeps a session's canvas snapshots for undo and redo.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"turtle/canvas"
	"turtle/core"
	"turtle/engine"
	"turtle/logging"
)

// Navigation errors. They are informational: the session is unchanged.
var (
	ErrNoPrevious = errors.New("no previous canvas")
	ErrNoNext     = errors.New("no next canvas")
	ErrProgramEnd = errors.New("end of program")
)

// frame is a snapshot together with the instruction that leads away from it
// (undo stack) or to it (redo stack).
type frame struct {
	canvas      *canvas.Canvas
	instruction string
}

// Session is a linear history of canvas snapshots with a current pointer.
// All methods are safe for concurrent use; each one runs to completion
// before the next is accepted.
type Session struct {
	mu      sync.Mutex
	engine  *engine.Engine
	logger  *slog.Logger
	limit   int
	screen  core.Color // background restored by Clear
	current *canvas.Canvas
	undo    []frame // top is the last element
	redo    []frame
	program []string
	applied []string
}

// Option configures a Session.
type Option func(*Session)

// WithEngine sets the engine used to execute instructions.
func WithEngine(e *engine.Engine) Option {
	return func(s *Session) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLimit caps the undo stack. The oldest snapshots are dropped first.
// Zero means no limit.
func WithLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// New starts a session at c with empty stacks.
func New(c *canvas.Canvas, opts ...Option) *Session {
	s := &Session{
		engine:  engine.New(),
		logger:  logging.Discard(),
		current: c,
		screen:  c.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the current snapshot.
func (s *Session) Current() *canvas.Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// HasPrevious reports whether Previous would move.
func (s *Session) HasPrevious() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// HasNext reports whether Next would move.
func (s *Session) HasNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// Stats returns the number of instructions applied along the current path and
// that number plus the steps that Next could redo. With WithLimit, current
// may exceed the snapshots Previous can still reach.
func (s *Session) Stats() (current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applied), len(s.applied) + len(s.redo)
}

// Instructions returns the loaded program.
func (s *Session) Instructions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.program)
}

// Applied returns the instructions along the path to the current snapshot.
func (s *Session) Applied() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.applied)
}

// Execute runs one instruction. On success the previous snapshot is pushed
// onto the undo stack and the redo stack is emptied. A rejected instruction
// leaves the session untouched and returns a *core.SyntaxError or
// *core.RangeError.
func (s *Session) Execute(text string) (*canvas.Canvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(text)
}

func (s *Session) execute(text string) (*canvas.Canvas, error) {
	next, in, err := s.engine.Execute(s.current, text)
	if err != nil {
		return s.current, err
	}
	s.push(in.String(), next)
	return s.current, nil
}

func (s *Session) push(instruction string, next *canvas.Canvas) {
	s.undo = append(s.undo, frame{canvas: s.current, instruction: instruction})
	if s.limit > 0 && len(s.undo) > s.limit {
		s.undo = slices.Delete(s.undo, 0, len(s.undo)-s.limit)
	}
	s.redo = nil
	s.current = next
	s.applied = append(s.applied, instruction)
}

// Previous steps back one snapshot.
func (s *Session) Previous() (*canvas.Canvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		s.logger.Info("no previous canvas")
		return s.current, ErrNoPrevious
	}
	top := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, frame{canvas: s.current, instruction: top.instruction})
	s.current = top.canvas
	s.applied = s.applied[:len(s.applied)-1]
	return s.current, nil
}

// Next steps forward one snapshot undone by Previous.
func (s *Session) Next() (*canvas.Canvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next()
}

func (s *Session) next() (*canvas.Canvas, error) {
	if len(s.redo) == 0 {
		s.logger.Info("no next canvas")
		return s.current, ErrNoNext
	}
	top := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, frame{canvas: s.current, instruction: top.instruction})
	s.current = top.canvas
	s.applied = append(s.applied, top.instruction)
	return s.current, nil
}

// Clear replaces the history with a single blank canvas of the same size,
// painted with the session's starting background. The loaded program is kept
// and stepping restarts from its beginning.
func (s *Session) Clear() *canvas.Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.logger.Info("history cleared")
	return s.current
}

func (s *Session) clear() {
	s.current = s.current.Blank(s.screen)
	s.undo = nil
	s.redo = nil
	s.applied = nil
}

// Load replaces the program and clears the history.
func (s *Session) Load(program []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = slices.Clone(program)
	s.clear()
	s.logger.Info("program loaded", "instructions", len(program))
}

// Step advances through the loaded program. A snapshot undone by Previous is
// restored first; otherwise the program instruction at the current path
// length is executed. An instruction that is rejected still occupies its step
// with an unchanged snapshot, so stepping never stalls, and its error is
// returned. ErrProgramEnd is returned once the program is exhausted.
func (s *Session) Step() (*canvas.Canvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step()
}

func (s *Session) step() (*canvas.Canvas, error) {
	if len(s.redo) > 0 {
		return s.next()
	}
	pos := len(s.applied)
	if pos >= len(s.program) {
		return s.current, ErrProgramEnd
	}
	text := s.program[pos]
	next, in, err := s.engine.Execute(s.current, text)
	if err != nil {
		s.push(text, s.current)
		return s.current, fmt.Errorf("step %d: %w", pos+1, err)
	}
	s.push(in.String(), next)
	return s.current, nil
}

// RunAll steps to the end of the program. Rejected instructions are skipped
// and their errors joined into the result.
func (s *Session) RunAll() (*canvas.Canvas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for {
		_, err := s.step()
		if errors.Is(err, ErrProgramEnd) {
			break
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return s.current, errors.Join(errs...)
}
