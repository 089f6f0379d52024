package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"no comment", `a=1`, `a=1`},
		{"trailing comment", "a=1 {set a}", "a=1"},
		{"leading comment", "{note} print a", "print a"},
		{"middle comment", "a={one}1", "a=1"},
		{"two comments", "{x}a=1{y}", "a=1"},
		{"non greedy", "a=1 {x} + {y}", "a=1  +"},
		{"unterminated", "a=1 {never closed", "a=1"},
		{"brace in string", `print "{not a comment}"`, `print "{not a comment}"`},
		{"comment only", "{just a comment}", ""},
		{"indent kept", "..a=1 {c}", "..a=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripComments(tt.input)
			if result != tt.expect {
				t.Errorf("StripComments(%q) = %q, want %q", tt.input, result, tt.expect)
			}
		})
	}
}

func TestSplitIndent(t *testing.T) {
	indent, code := SplitIndent("..print a")
	assert.Equal(t, 2, indent)
	assert.Equal(t, "print a", code)

	indent, code = SplitIndent("a=1")
	assert.Equal(t, 0, indent)
	assert.Equal(t, "a=1", code)

	indent, code = SplitIndent("... ")
	assert.Equal(t, 3, indent)
	assert.Equal(t, "", code)
}

func TestSplit(t *testing.T) {
	l := Split(".a=a+1 {bump}\r\n", 4)
	assert.Equal(t, Line{Indent: 1, Code: "a=a+1", Number: 4}, l)
	assert.Equal(t, ".a=a+1", l.Source())
	assert.False(t, l.Empty())
	assert.True(t, Split("{c}", 1).Empty())
}

func TestSplitSource(t *testing.T) {
	lines := SplitSource("a=1\nwhile a<3\n.a=a+1\n")
	if assert.Len(t, lines, 3) {
		assert.Equal(t, 1, lines[0].Number)
		assert.Equal(t, "while a<3", lines[1].Code)
		assert.Equal(t, 1, lines[2].Indent)
		assert.Equal(t, 3, lines[2].Number)
	}
	assert.Empty(t, SplitSource(""))
}

func TestIsIdent(t *testing.T) {
	for _, name := range []string{"a", "_x", "abc_9", "A1"} {
		assert.True(t, IsIdent(name), name)
	}
	for _, name := range []string{"", "1a", "a-b", "a b", "a.b", "é"} {
		assert.False(t, IsIdent(name), name)
	}
}

func TestStartsWithWord(t *testing.T) {
	assert.True(t, StartsWithWord("print", "print"))
	assert.True(t, StartsWithWord("print a", "print"))
	assert.True(t, StartsWithWord(`print"x"`, "print"))
	assert.True(t, StartsWithWord("print(a)", "print"))
	assert.False(t, StartsWithWord("printer", "print"))
	assert.False(t, StartsWithWord("prin", "print"))
}

func TestKeywordArg(t *testing.T) {
	assert.Equal(t, "a<3", KeywordArg("while a<3", "while"))
	assert.Equal(t, "a<3", KeywordArg("whilea<3", "while"))
	assert.Equal(t, "5", KeywordArg("goto5", "goto"))
	assert.True(t, HasKeyword("goto 5", "goto"))
}
