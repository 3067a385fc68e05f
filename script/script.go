// Package script turns program text into instruction strings.
//
// Program text is a whitespace separated stream of tokens. A word token starts
// a new instruction, numeric tokens attach to the instruction before them, and
// a bracketed list belongs to the instruction that opened it. Brackets are
// tokens of their own even when written against a word, so "[FORWARD 10]" and
// "[ FORWARD 10 ]" read the same. A '#' starts a comment that runs to the end
// of the line.
package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"turtle/core"
)

// Token is one lexeme and the line it was read from, counting from 1.
type Token struct {
	Text string
	Line int
}

// Open and Close delimit a bracketed list.
const (
	Open  = "["
	Close = "]"
)

// Tokenize splits program text into tokens.
func Tokenize(text string) []Token {
	var tokens []Token
	for i, line := range strings.Split(text, "\n") {
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.ReplaceAll(line, Open, " "+Open+" ")
		line = strings.ReplaceAll(line, Close, " "+Close+" ")
		for _, f := range strings.Fields(line) {
			tokens = append(tokens, Token{Text: f, Line: i + 1})
		}
	}
	return tokens
}

// Fields splits a single instruction string into token texts.
func Fields(instruction string) []string {
	toks := Tokenize(instruction)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

// IsNumber reports whether text reads as a number.
func IsNumber(text string) bool {
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}

// Group partitions instruction tokens into instructions.
func Group(tokens []string) ([][]string, error) {
	toks := make([]Token, len(tokens))
	for i, t := range tokens {
		toks[i] = Token{Text: t}
	}
	groups, err := group(toks)
	if err != nil {
		return nil, err
	}
	return texts(groups), nil
}

// Split turns program text into one string per top-level instruction, tokens
// joined by single spaces. Errors carry the offending line.
func Split(text string) ([]string, error) {
	groups, err := group(Tokenize(text))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(groups))
	for i, g := range texts(groups) {
		out[i] = strings.Join(g, " ")
	}
	return out, nil
}

func group(tokens []Token) ([][]Token, error) {
	var (
		groups [][]Token
		opened []Token
	)
	for _, tok := range tokens {
		switch {
		case tok.Text == Open:
			if len(groups) == 0 {
				return nil, lineError(tok, &core.SyntaxError{Reason: "list without an instruction"})
			}
			opened = append(opened, tok)
		case tok.Text == Close:
			if len(opened) == 0 {
				return nil, lineError(tok, &core.SyntaxError{Reason: "unexpected " + Close})
			}
			opened = opened[:len(opened)-1]
		case len(opened) == 0 && !IsNumber(tok.Text):
			groups = append(groups, nil)
		case len(groups) == 0:
			return nil, lineError(tok, &core.SyntaxError{Instruction: tok.Text, Reason: "a number is not an instruction"})
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], tok)
	}
	if len(opened) > 0 {
		return nil, lineError(opened[len(opened)-1], &core.SyntaxError{Reason: "unclosed " + Open})
	}
	return groups, nil
}

func lineError(tok Token, err error) error {
	if tok.Line == 0 {
		return err
	}
	return fmt.Errorf("line %d: %w", tok.Line, err)
}

func texts(groups [][]Token) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = make([]string, len(g))
		for j, t := range g {
			out[i][j] = t.Text
		}
	}
	return out
}

// Load reads a whole program from r and splits it.
func Load(r io.Reader) ([]string, error) {
	var sb strings.Builder
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		sb.WriteString(sc.Text())
		sb.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return Split(sb.String())
}
