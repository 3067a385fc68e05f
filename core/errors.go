package core

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors unwrap to one of these.
var (
	ErrSyntax = errors.New("syntax error")
	ErrRange  = errors.New("value out of range")
)

// SyntaxError reports an unknown instruction, a wrong operand count or a
// non-numeric operand.
type SyntaxError struct {
	Instruction string
	Reason      string
}

func (e *SyntaxError) Error() string {
	if e.Instruction == "" {
		return fmt.Sprintf("syntax error: %s", e.Reason)
	}
	return fmt.Sprintf("syntax error in %q: %s", e.Instruction, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// RangeError reports an operand outside its accepted interval.
type RangeError struct {
	Instruction string
	Operand     string
	Value       int
	Min, Max    int
	// Unbounded marks intervals with no upper limit.
	Unbounded bool
}

func (e *RangeError) Error() string {
	bounds := fmt.Sprintf("[%d,%d]", e.Min, e.Max)
	if e.Unbounded {
		bounds = fmt.Sprintf(">= %d", e.Min)
	}
	if e.Instruction == "" {
		return fmt.Sprintf("%s %d out of range %s", e.Operand, e.Value, bounds)
	}
	return fmt.Sprintf("%s: %s %d out of range %s", e.Instruction, e.Operand, e.Value, bounds)
}

func (e *RangeError) Unwrap() error { return ErrRange }
