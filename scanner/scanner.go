// Package scanner provides quote-aware scanning for Guython source lines.
// It tracks double-quoted and single-quoted string literals plus escape
// sequences so the preprocessor, the statement classifier and the print
// tokenizer never have to re-implement that bookkeeping.
package scanner

import "strings"

// closingKind tracks which type of string delimiter was just closed.
type closingKind byte

const (
	noClosing     closingKind = iota
	closingDouble             // just closed a "..." string
	closingSingle             // just closed a '...' string
)

// CodeScanner iterates byte-by-byte over a line, tracking string literal
// boundaries and escape sequences. Callers check InString() instead of
// maintaining their own inDouble/inSingle/escaped flags.
//
// InString() returns true for the entire string span including both
// opening and closing delimiters.
type CodeScanner struct {
	src     string
	pos     int
	inDbl   bool
	inSgl   bool
	escaped bool
	closing closingKind
}

// New creates a CodeScanner for the given text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1}
}

// Next advances to the next byte, updating string/escape state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]

	if s.escaped {
		s.escaped = false
		return ch, true
	}
	if ch == '\\' && (s.inDbl || s.inSgl) {
		s.escaped = true
		return ch, true
	}
	if ch == '"' && !s.inSgl {
		if s.inDbl {
			s.closing = closingDouble
		}
		s.inDbl = !s.inDbl
	} else if ch == '\'' && !s.inDbl {
		if s.inSgl {
			s.closing = closingSingle
		}
		s.inSgl = !s.inSgl
	}

	return ch, true
}

// InString reports whether the current position is inside a string literal,
// including both opening and closing delimiters.
func (s *CodeScanner) InString() bool {
	return s.inDbl || s.inSgl || s.closing != noClosing
}

// InCode reports whether the current position is outside all string literals.
func (s *CodeScanner) InCode() bool { return !s.InString() }

// Unterminated reports whether a string literal is still open.
func (s *CodeScanner) Unterminated() bool { return s.inDbl || s.inSgl }

// Pos returns the current byte offset (the position of the last byte
// returned by Next). Returns -1 before the first call to Next.
func (s *CodeScanner) Pos() int { return s.pos }

// Src returns the full text being scanned.
func (s *CodeScanner) Src() string { return s.src }

// Peek returns the next byte without advancing, or (0, false) at end.
func (s *CodeScanner) Peek() (byte, bool) {
	if s.pos+1 >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos+1], true
}

// LookingAt checks if src[pos:] starts with the given prefix.
func (s *CodeScanner) LookingAt(prefix string) bool {
	if s.pos < 0 {
		return strings.HasPrefix(s.src, prefix)
	}
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// IsOpenBracket reports whether ch opens a parenthesised group.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '['
}

// IsCloseBracket reports whether ch closes a parenthesised group.
func IsCloseBracket(ch byte) bool {
	return ch == ')' || ch == ']'
}

// IndexInCode returns the offset of the first ch in s that lies outside
// every string literal, or -1.
func IndexInCode(s string, ch byte) int {
	sc := New(s)
	for c, ok := sc.Next(); ok; c, ok = sc.Next() {
		if c == ch && sc.InCode() {
			return sc.Pos()
		}
	}
	return -1
}

// FindTopLevel scans s for a byte matching pred at bracket depth 0,
// outside all string literals. Returns the byte offset or -1.
func FindTopLevel(s string, pred func(ch byte, pos int, src string) bool) int {
	depth := 0
	sc := New(s)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			continue
		}
		if IsOpenBracket(ch) {
			depth++
		} else if IsCloseBracket(ch) {
			depth--
		}
		if depth == 0 && pred(ch, sc.Pos(), s) {
			return sc.Pos()
		}
	}
	return -1
}

// FindAllTopLevel is like FindTopLevel but returns all matching positions.
func FindAllTopLevel(s string, pred func(ch byte, pos int, src string) bool) []int {
	var positions []int
	depth := 0
	sc := New(s)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			continue
		}
		if IsOpenBracket(ch) {
			depth++
		} else if IsCloseBracket(ch) {
			depth--
		}
		if depth == 0 && pred(ch, sc.Pos(), s) {
			positions = append(positions, sc.Pos())
		}
	}
	return positions
}

// SplitTopLevel splits s on every top-level occurrence of sep.
// Separators inside quotes or parentheses are kept.
func SplitTopLevel(s string, sep byte) []string {
	cuts := FindAllTopLevel(s, func(ch byte, _ int, _ string) bool { return ch == sep })
	parts := make([]string, 0, len(cuts)+1)
	start := 0
	for _, c := range cuts {
		parts = append(parts, s[start:c])
		start = c + 1
	}
	return append(parts, s[start:])
}

// FindAssign returns the offset of the first top-level bare '=' in s,
// ignoring '==', '!=', '<=' and '>='. Returns -1 if there is none.
func FindAssign(s string) int {
	return FindTopLevel(s, func(ch byte, pos int, src string) bool {
		if ch != '=' {
			return false
		}
		if pos+1 < len(src) && src[pos+1] == '=' {
			return false
		}
		if pos > 0 {
			switch src[pos-1] {
			case '=', '!', '<', '>':
				return false
			}
		}
		return true
	})
}

// IsInsideString reports whether byte offset pos in s falls inside a
// string literal. It checks the string state just before pos, so opening
// delimiters return false and closing delimiters return true.
func IsInsideString(s string, pos int) bool {
	sc := New(s)
	for i := 0; i < pos; i++ {
		if _, ok := sc.Next(); !ok {
			return false
		}
	}
	return sc.inDbl || sc.inSgl
}

// Segment is a piece of a line that is either a complete quoted literal
// (delimiters included) or the code between literals.
type Segment struct {
	Text   string
	Quoted bool
}

// Segments splits s into alternating code and quoted-literal segments.
// Whitespace-only code segments are dropped. An unterminated literal runs
// to the end of s.
func Segments(s string) []Segment {
	var segs []Segment
	add := func(text string, quoted bool) {
		if !quoted && strings.TrimSpace(text) == "" {
			return
		}
		segs = append(segs, Segment{Text: text, Quoted: quoted})
	}
	start := 0
	inLit := false
	sc := New(s)
	for _, ok := sc.Next(); ok; _, ok = sc.Next() {
		switch {
		case !inLit && sc.Unterminated():
			add(s[start:sc.Pos()], false)
			start = sc.Pos()
			inLit = true
		case inLit && !sc.Unterminated():
			add(s[start:sc.Pos()+1], true)
			start = sc.Pos() + 1
			inLit = false
		}
	}
	add(s[start:], inLit)
	return segs
}
