package expr

import (
	"strconv"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/value"
)

// Node is a parsed expression.
type Node interface{ node() }

// Lit is a literal value.
type Lit struct{ Val value.Value }

// Name is an identifier reference.
type Name struct{ Name string }

// Attr is `X.Name` access on a namespace.
type Attr struct {
	X    Node
	Name string
}

// Call is a function call.
type Call struct {
	Fn   Node
	Args []Node
}

// Unary is prefix `-` or `+`.
type Unary struct {
	Op string
	X  Node
}

// Not is logical negation.
type Not struct{ X Node }

// Binary is an arithmetic operator application.
type Binary struct {
	Op   string
	L, R Node
}

// Logic is a short-circuit `and`/`or`.
type Logic struct {
	Op   string
	L, R Node
}

// Compare is a comparison chain `a < b <= c`.
type Compare struct {
	First Node
	Ops   []value.CmpOp
	Rest  []Node
}

func (*Lit) node()     {}
func (*Name) node()    {}
func (*Attr) node()    {}
func (*Call) node()    {}
func (*Unary) node()   {}
func (*Not) node()     {}
func (*Binary) node()  {}
func (*Logic) node()   {}
func (*Compare) node() {}

// maxDepth bounds parser recursion on pathological input.
const maxDepth = 200

type parser struct {
	src   string
	toks  []token
	pos   int
	depth int
}

// Parse parses a single expression.
func Parse(src string) (Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	if p.peek().kind == tokEOF {
		return nil, errs.Runtimef(errs.InvalidExpression, "empty expression")
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) isWord(w string) bool {
	t := p.peek()
	return t.kind == tokIdent && t.text == w
}

func (p *parser) unexpected(t token) error {
	return errs.Runtimef(errs.InvalidExpression, "invalid expression %q: unexpected %s", p.src, t)
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return errs.Runtimef(errs.InvalidExpression, "expression nested too deeply")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isWord("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logic{Op: "or", L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isWord("and") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Logic{Op: "and", L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if !p.isWord("not") {
		return p.parseComparison()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.next()
	x, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	return &Not{X: x}, nil
}

func (p *parser) parseComparison() (Node, error) {
	first, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	var cmp *Compare
	for {
		op, ok := p.isOp("==", "!=", "<", "<=", ">", ">=")
		if !ok {
			break
		}
		p.next()
		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if cmp == nil {
			cmp = &Compare{First: first}
		}
		cmp.Ops = append(cmp.Ops, value.CmpOp(op))
		cmp.Rest = append(cmp.Rest, right)
	}
	if cmp == nil {
		return first, nil
	}
	return cmp, nil
}

func (p *parser) parseSum() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp("+", "-")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp("*", "/", "//", "%")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
}

func (p *parser) parseUnary() (Node, error) {
	op, ok := p.isOp("-", "+")
	if !ok {
		return p.parsePower()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.next()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Unary{Op: op, X: x}, nil
}

// parsePower handles `**` and `^`: right-associative, and the exponent may
// carry its own unary sign (`2**-1`).
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	op, ok := p.isOp("**", "^")
	if !ok {
		return base, nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: op, L: base, R: exp}, nil
}

func (p *parser) parsePostfix() (Node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokDot:
			p.next()
			t := p.next()
			if t.kind != tokIdent {
				return nil, p.unexpected(t)
			}
			n = &Attr{X: n, Name: t.text}
		case tokLParen:
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			n = &Call{Fn: n, Args: args}
		default:
			return n, nil
		}
	}
}

func (p *parser) parseArgs() ([]Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	var args []Node
	if p.peek().kind == tokRParen {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		t := p.next()
		switch t.kind {
		case tokRParen:
			return args, nil
		case tokComma:
			if p.peek().kind == tokRParen {
				p.next()
				return args, nil
			}
		default:
			return nil, p.unexpected(t)
		}
	}
}

func (p *parser) parseAtom() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(t.text, 64)
			if ferr != nil {
				return nil, errs.Runtimef(errs.InvalidExpression, "invalid integer literal %q", t.text)
			}
			return &Lit{Val: value.Float(f)}, nil
		}
		return &Lit{Val: value.Int(i)}, nil
	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, errs.Runtimef(errs.InvalidExpression, "invalid float literal %q", t.text)
		}
		return &Lit{Val: value.Float(f)}, nil
	case tokString:
		return &Lit{Val: value.String(t.text)}, nil
	case tokIdent:
		switch t.text {
		case "True", "true":
			return &Lit{Val: value.Bool(true)}, nil
		case "False", "false":
			return &Lit{Val: value.Bool(false)}, nil
		case "and", "or", "not":
			return nil, p.unexpected(t)
		}
		return &Name{Name: t.text}, nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			if c.kind == tokComma {
				return nil, errs.Runtimef(errs.UnsupportedExpression, "tuples are not supported: %q", p.src)
			}
			return nil, p.unexpected(c)
		}
		return n, nil
	}
	return nil, p.unexpected(t)
}
