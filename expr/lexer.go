package expr

import (
	"fmt"
	"strings"

	"github.com/rubiojr/guython/errs"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokFloat
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokDot
)

type token struct {
	kind tokenKind
	text string // raw text; decoded payload for strings
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of expression"
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	}
	return fmt.Sprintf("%q", t.text)
}

// operators lists every operator symbol the lexer accepts, longest first.
var operators = []string{"**", "//", "==", "!=", "<=", ">=", "+", "-", "*", "/", "%", "^", "<", ">"}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

// lex splits src into tokens. Characters outside the grammar fail with
// RuntimeError(UnsupportedExpression); broken literals with InvalidExpression.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isDigit(c) || c == '.' && i+1 < len(src) && isDigit(src[i+1]) && !afterOperand(toks):
			tok, n, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = n
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case c == '"' || c == '\'':
			s, n, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: s, pos: i})
			i = n
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case c == '.':
			toks = append(toks, token{kind: tokDot, text: ".", pos: i})
			i++
		default:
			op := matchOperator(src[i:])
			if op == "" {
				return nil, unsupportedChar(src, i)
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

// afterOperand reports whether the previous token ends an operand, in
// which case a '.' is attribute access rather than the start of a number.
func afterOperand(toks []token) bool {
	if len(toks) == 0 {
		return false
	}
	switch toks[len(toks)-1].kind {
	case tokIdent, tokRParen, tokInt, tokFloat, tokString:
		return true
	}
	return false
}

func matchOperator(s string) string {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

func unsupportedChar(src string, i int) error {
	c := src[i]
	switch c {
	case '=':
		return errs.Runtimef(errs.UnsupportedExpression, "assignment is not allowed inside an expression: %q", src)
	case '[', ']', '{', '}':
		return errs.Runtimef(errs.UnsupportedExpression, "collections are not supported: %q", src)
	}
	return errs.Runtimef(errs.UnsupportedExpression, "unsupported character %q in %q", rune(c), src)
}

func lexNumber(src string, start int) (token, int, error) {
	i := start
	kind := tokInt
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		kind = tokFloat
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			kind = tokFloat
			i = j
			for i < len(src) && isDigit(src[i]) {
				i++
			}
		}
	}
	if i < len(src) && isIdentStart(src[i]) {
		return token{}, 0, errs.Runtimef(errs.InvalidExpression, "invalid number literal %q", src[start:i+1])
	}
	return token{kind: kind, text: src[start:i], pos: start}, i, nil
}

func lexString(src string, start int) (string, int, error) {
	quote := src[start]
	var sb strings.Builder
	for i := start + 1; i < len(src); i++ {
		c := src[i]
		if c == quote {
			return sb.String(), i + 1, nil
		}
		if c != '\\' || i+1 >= len(src) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch src[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '\'', '"':
			sb.WriteByte(src[i])
		default:
			sb.WriteByte('\\')
			sb.WriteByte(src[i])
		}
	}
	return "", 0, errs.Runtimef(errs.InvalidExpression, "unterminated string literal in %q", src)
}
