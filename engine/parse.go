package engine

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"turtle/core"
	"turtle/script"
)

// entry describes one instruction keyword: how many integer operands it takes
// and how to build the instruction from them.
type entry struct {
	arity int
	build func(args []int) (Instruction, error)
}

var table = map[string]entry{
	"FORWARD":     {1, func(a []int) (Instruction, error) { return move(a[0], false) }},
	"BACKWARD":    {1, func(a []int) (Instruction, error) { return move(a[0], true) }},
	"LEFT":        {1, func(a []int) (Instruction, error) { return rotate(a[0], false) }},
	"RIGHT":       {1, func(a []int) (Instruction, error) { return rotate(a[0], true) }},
	"CLEARSCREEN": {0, func([]int) (Instruction, error) { return ClearScreen{}, nil }},
	"HOME":        {0, func([]int) (Instruction, error) { return Home{}, nil }},
	"PENUP":       {0, func([]int) (Instruction, error) { return Pen{Down: false}, nil }},
	"PENDOWN":     {0, func([]int) (Instruction, error) { return Pen{Down: true}, nil }},
	"SETPENCOLOR": {3, func(a []int) (Instruction, error) {
		col, err := core.NewColor(a[0], a[1], a[2])
		return SetPenColor{Color: col}, err
	}},
	"SETFILLCOLOR": {3, func(a []int) (Instruction, error) {
		col, err := core.NewColor(a[0], a[1], a[2])
		return SetFillColor{Color: col}, err
	}},
	"SETSCREENCOLOR": {3, func(a []int) (Instruction, error) {
		col, err := core.NewColor(a[0], a[1], a[2])
		return SetScreenColor{Color: col}, err
	}},
	"SETPENSIZE": {1, func(a []int) (Instruction, error) {
		if a[0] < 1 {
			return nil, &core.RangeError{Operand: "pen size", Value: a[0], Min: 1, Unbounded: true}
		}
		return SetPenSize{Size: a[0]}, nil
	}},
}

const repeatName = "REPEAT"

// DefaultMaxSteps bounds how many instructions a single instruction may
// expand to once its REPEATs are unrolled.
const DefaultMaxSteps = 100_000

// Names returns every supported instruction keyword, sorted.
func Names() []string {
	names := []string{repeatName}
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func move(d int, backward bool) (Instruction, error) {
	if d < 0 {
		return nil, &core.RangeError{Operand: "distance", Value: d, Min: 0, Unbounded: true}
	}
	return Move{Distance: d, Backward: backward}, nil
}

func rotate(deg int, clockwise bool) (Instruction, error) {
	if deg < 0 || deg > 360 {
		return nil, &core.RangeError{Operand: "angle", Value: deg, Min: 0, Max: 360}
	}
	return Rotate{Degrees: deg, Clockwise: clockwise}, nil
}

// Parse reads a single instruction. Keywords are case-insensitive. Errors are
// *core.SyntaxError or *core.RangeError. A REPEAT expanding to more than
// DefaultMaxSteps instructions is a range error.
func Parse(text string) (Instruction, error) {
	return parse(text, DefaultMaxSteps)
}

func parse(text string, limit int) (Instruction, error) {
	groups, err := script.Group(script.Fields(text))
	if err != nil {
		return nil, withInstruction(err, text)
	}
	switch len(groups) {
	case 0:
		return nil, &core.SyntaxError{Reason: "empty instruction"}
	case 1:
		return parseTokens(groups[0], limit)
	default:
		return nil, &core.SyntaxError{Instruction: text, Reason: fmt.Sprintf("%d instructions where one was expected", len(groups))}
	}
}

// ParseArgs is Parse for a name and operands that are already split.
func ParseArgs(name string, operands ...string) (Instruction, error) {
	return Parse(strings.Join(append([]string{name}, operands...), " "))
}

func parseTokens(tokens []string, limit int) (Instruction, error) {
	text := strings.Join(tokens, " ")
	name := strings.ToUpper(tokens[0])
	if name == repeatName {
		return parseRepeat(text, tokens[1:], limit)
	}

	e, ok := table[name]
	if !ok {
		return nil, &core.SyntaxError{Instruction: text, Reason: "unknown instruction " + strconv.Quote(tokens[0])}
	}
	args, err := integers(text, tokens[1:], e.arity)
	if err != nil {
		return nil, err
	}
	in, err := e.build(args)
	if err != nil {
		return nil, withInstruction(err, text)
	}
	return in, nil
}

func parseRepeat(text string, rest []string, limit int) (Instruction, error) {
	if len(rest) < 3 || rest[1] != script.Open || rest[len(rest)-1] != script.Close {
		return nil, &core.SyntaxError{Instruction: text, Reason: "expected REPEAT count [ instructions ]"}
	}
	counts, err := integers(text, rest[:1], 1)
	if err != nil {
		return nil, err
	}
	if counts[0] < 0 {
		return nil, &core.RangeError{Instruction: text, Operand: "count", Value: counts[0], Min: 0, Unbounded: true}
	}

	groups, err := script.Group(rest[2 : len(rest)-1])
	if err != nil {
		return nil, withInstruction(err, text)
	}
	r := Repeat{Count: counts[0]}
	for _, g := range groups {
		in, err := parseTokens(g, limit)
		if err != nil {
			r.Skipped = append(r.Skipped, err)
			continue
		}
		r.Body = append(r.Body, in)
	}
	if body := bodySteps(r.Body, limit); r.Count > limit/body {
		return nil, &core.RangeError{Instruction: text, Operand: "count", Value: r.Count, Min: 0, Max: limit / body}
	}
	return r, nil
}

// Steps returns how many instructions in runs once unrolled.
func Steps(in Instruction) int {
	r, ok := in.(Repeat)
	if !ok {
		return 1
	}
	return r.Count * bodySteps(r.Body, math.MaxInt)
}

// bodySteps counts one pass over body, at least 1 so an empty body still
// costs its iterations. Results above limit are reported as limit+1.
func bodySteps(body []Instruction, limit int) int {
	n := 0
	for _, in := range body {
		n += Steps(in)
		if n > limit {
			return limit + 1
		}
	}
	return max(n, 1)
}

func integers(text string, tokens []string, arity int) ([]int, error) {
	if len(tokens) != arity {
		return nil, &core.SyntaxError{Instruction: text, Reason: fmt.Sprintf("expected %d operands, got %d", arity, len(tokens))}
	}
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &core.SyntaxError{Instruction: text, Reason: fmt.Sprintf("operand %q is not an integer", tok)}
		}
		out[i] = v
	}
	return out, nil
}

// withInstruction stamps the instruction text onto a core error.
func withInstruction(err error, text string) error {
	switch e := err.(type) {
	case *core.SyntaxError:
		if e.Instruction == "" {
			c := *e
			c.Instruction = text
			return &c
		}
	case *core.RangeError:
		if e.Instruction == "" {
			c := *e
			c.Instruction = text
			return &c
		}
	}
	return err
}
