package script

import (
	"errors"
	"strings"
	"testing"

	"turtle/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	toks := Tokenize("REPEAT 4 [FORWARD 10 RIGHT 90]  # square\nHOME")
	var got []string
	for _, tok := range toks {
		got = append(got, tok.Text)
	}
	assert.Equal(t, []string{"REPEAT", "4", "[", "FORWARD", "10", "RIGHT", "90", "]", "HOME"}, got)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[len(toks)-1].Line)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		program string
		want    []string
	}{
		{
			name:    "OnePerLine",
			program: "FORWARD 10\nLEFT 90\nFORWARD 10\n",
			want:    []string{"FORWARD 10", "LEFT 90", "FORWARD 10"},
		},
		{
			name:    "SameLine",
			program: "PENUP FORWARD 5 PENDOWN SETPENCOLOR 255 0 0",
			want:    []string{"PENUP", "FORWARD 5", "PENDOWN", "SETPENCOLOR 255 0 0"},
		},
		{
			name:    "Repeat",
			program: "REPEAT 4 [ FORWARD 10 RIGHT 90 ] HOME",
			want:    []string{"REPEAT 4 [ FORWARD 10 RIGHT 90 ]", "HOME"},
		},
		{
			name:    "RepeatAcrossLines",
			program: "REPEAT 2 [\n  FORWARD 1\n  REPEAT 3 [LEFT 120]\n]\n",
			want:    []string{"REPEAT 2 [ FORWARD 1 REPEAT 3 [ LEFT 120 ] ]"},
		},
		{
			name:    "Comments",
			program: "# header\nFORWARD 1 # go\n\n",
			want:    []string{"FORWARD 1"},
		},
		{
			name:    "Empty",
			program: "  \n# nothing\n",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.program)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		program string
		line    string
	}{
		{"LeadingNumber", "10 FORWARD", "line 1"},
		{"UnexpectedClose", "FORWARD 1\n]", "line 2"},
		{"Unclosed", "HOME\nREPEAT 2 [ FORWARD 1", "line 2"},
		{"ListWithoutInstruction", "[ FORWARD 1 ]", "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.program)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrSyntax)
			var se *core.SyntaxError
			assert.True(t, errors.As(err, &se))
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestGroup(t *testing.T) {
	groups, err := Group(Fields("REPEAT 3 [FORWARD 10] LEFT 90"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"REPEAT", "3", "[", "FORWARD", "10", "]"}, {"LEFT", "90"}}, groups)

	_, err = Group([]string{"]"})
	assert.ErrorIs(t, err, core.ErrSyntax)
	assert.NotContains(t, err.Error(), "line")
}

func TestLoad(t *testing.T) {
	got, err := Load(strings.NewReader("FORWARD 10\r\nRIGHT 90"))
	require.NoError(t, err)
	assert.Equal(t, []string{"FORWARD 10", "RIGHT 90"}, got)
}
