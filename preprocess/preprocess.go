// Package preprocess turns raw Guython source lines into (indent, code)
// pairs. It strips {bracketed} comments, counts the leading indent markers
// and trims what is left. It never looks past a single physical line.
package preprocess

import (
	"strings"

	"github.com/rubiojr/guython/scanner"
)

const (
	// IndentMarker is the reserved leading character whose run length
	// encodes nesting depth.
	IndentMarker = '.'
	// CommentOpen and CommentClose delimit an inline comment span.
	CommentOpen  = '{'
	CommentClose = '}'
)

// Keywords are statement words that can never be used as variable or
// function names.
var Keywords = map[string]bool{
	"import": true, "print": true, "if": true, "while": true,
	"def": true, "goto": true, "input": true, "printinput": true,
	"and": true, "or": true, "not": true,
	"True": true, "False": true, "true": true, "false": true,
}

// Line is one physical source line after preprocessing.
type Line struct {
	// Indent is the number of leading indent markers.
	Indent int
	// Code is the statement text with comments and indent removed.
	Code string
	// Number is the 1-based source line, 0 when unknown.
	Number int
}

// Empty reports whether the line carries no statement.
func (l Line) Empty() bool { return l.Code == "" }

// Source rebuilds the line text with its indent materialized.
func (l Line) Source() string {
	return strings.Repeat(string(IndentMarker), l.Indent) + l.Code
}

// StripComments removes {comment} spans from line, respecting string
// boundaries. A span is closed by the next '}' on the same line; an
// unterminated span drops the rest of the line. The result is trimmed.
func StripComments(line string) string {
	var sb strings.Builder
	rest := line
	for {
		open := scanner.IndexInCode(rest, CommentOpen)
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:open])
		end := strings.IndexByte(rest[open+1:], CommentClose)
		if end < 0 {
			break
		}
		rest = rest[open+end+2:]
	}
	return strings.TrimSpace(sb.String())
}

// SplitIndent counts the leading indent markers of an already stripped
// line and returns the depth with the remaining trimmed code.
func SplitIndent(line string) (int, string) {
	indent := 0
	for indent < len(line) && line[indent] == IndentMarker {
		indent++
	}
	return indent, strings.TrimSpace(line[indent:])
}

// Split preprocesses one raw source line.
func Split(raw string, number int) Line {
	raw = strings.TrimRight(raw, "\r\n")
	indent, code := SplitIndent(StripComments(raw))
	return Line{Indent: indent, Code: code, Number: number}
}

// SplitSource splits a whole source text into preprocessed lines, one per
// physical line, numbered from 1.
func SplitSource(src string) []Line {
	raw := SourceLines(src)
	lines := make([]Line, len(raw))
	for i, r := range raw {
		lines[i] = Split(r, i+1)
	}
	return lines
}

// SourceLines splits src into physical lines without preprocessing them.
// A trailing newline does not produce an extra empty line.
func SourceLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.TrimSuffix(src, "\n")
	if src == "" {
		return nil
	}
	return strings.Split(src, "\n")
}

// IsIdent reports whether name is syntactically an identifier:
// a letter or underscore followed by letters, digits or underscores.
func IsIdent(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// HasKeyword reports whether code starts with kw. Statement keywords may
// be glued to their argument (`whilea<3`, `goto5`).
func HasKeyword(code, kw string) bool {
	return strings.HasPrefix(code, kw)
}

// KeywordArg returns the text following kw with surrounding spaces removed.
func KeywordArg(code, kw string) string {
	return strings.TrimSpace(strings.TrimPrefix(code, kw))
}

// StartsWithWord reports whether code starts with kw followed by the end of
// the line or a character that cannot continue an identifier.
func StartsWithWord(code, kw string) bool {
	if !strings.HasPrefix(code, kw) {
		return false
	}
	if len(code) == len(kw) {
		return true
	}
	c := code[len(kw)]
	return !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}
