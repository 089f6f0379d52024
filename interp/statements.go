package interp

import (
	"strings"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/preprocess"
	"github.com/rubiojr/guython/scanner"
)

// exec is the dispatcher: it closes the blocks the line ends, lets open
// blocks capture or skip it, and otherwise runs it as a statement.
func (in *Interpreter) exec(sc *scope, l preprocess.Line) (*Jump, error) {
	if l.Empty() {
		return nil, nil
	}
	in.tracef("line %d: indent=%d code=%q", l.Number, l.Indent, l.Code)
	if j, err := in.closeFrames(sc, l.Indent); j != nil || err != nil {
		return j, err
	}
	if in.route(sc, l) {
		return nil, nil
	}
	return in.statement(sc, l)
}

// statementKeywords start lines that are never assignments, even when they
// contain a bare '='.
var statementKeywords = []string{"def", "while", "if", "goto", "import", "print", "input"}

func startsWithStatement(code string) bool {
	for _, kw := range statementKeywords {
		if strings.HasPrefix(code, kw) {
			return true
		}
	}
	return false
}

// statement classifies one executable line and runs its handler.
func (in *Interpreter) statement(sc *scope, l preprocess.Line) (*Jump, error) {
	code := l.Code
	if eq := scanner.FindAssign(code); eq >= 0 {
		lhs := strings.TrimSpace(code[:eq])
		rhs := strings.TrimSpace(code[eq+1:])
		switch {
		case preprocess.IsIdent(lhs):
			return nil, in.assign(lhs, rhs)
		case !startsWithStatement(code):
			return nil, errs.Syntaxf(errs.InvalidName, "cannot assign to '%s'", lhs)
		}
	}

	switch {
	case preprocess.HasKeyword(code, "def"):
		return nil, in.define(sc, l)
	case preprocess.HasKeyword(code, "while"):
		return nil, in.openWhile(sc, l)
	case preprocess.HasKeyword(code, "if"):
		return nil, in.openIf(sc, l)
	case preprocess.HasKeyword(code, "goto"):
		n, err := parseGoto(code)
		if err != nil {
			return nil, err
		}
		return &Jump{Target: n, From: l.Number}, nil
	case preprocess.StartsWithWord(code, "import"):
		return nil, in.importModule(preprocess.KeywordArg(code, "import"))
	case isPrintInput(code):
		return nil, in.printInput()
	case preprocess.StartsWithWord(code, "print"):
		return nil, in.print(preprocess.KeywordArg(code, "print"))
	case isInput(code):
		prompt, err := in.prompt(code)
		if err != nil {
			return nil, err
		}
		s, err := in.readLine(prompt)
		if err != nil {
			return nil, err
		}
		in.println(s)
		return nil, nil
	}

	if name, ok := invocationName(code); ok {
		return in.invoke(name)
	}

	v, err := in.eval.Evaluate(code)
	if err != nil {
		return nil, err
	}
	in.println(v.String())
	return nil, nil
}

func (in *Interpreter) assign(name, rhs string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if isInput(rhs) {
		return in.inputAssign(name, rhs)
	}
	v, err := in.eval.Evaluate(rhs)
	if err != nil {
		return err
	}
	in.tracef("set %s = %s", name, v.Repr())
	return in.env.Set(name, v)
}

func (in *Interpreter) define(sc *scope, l preprocess.Line) error {
	name, err := parseDefinition(l.Code)
	if err != nil {
		return err
	}
	sc.pending = &Function{Name: name, Line: l.Number, Indent: l.Indent}
	in.tracef("capturing function %s_", name)
	return nil
}

func (in *Interpreter) openWhile(sc *scope, l preprocess.Line) error {
	cond := preprocess.KeywordArg(l.Code, "while")
	if cond == "" {
		return errs.Syntaxf(errs.MissingCondition, "while without a condition")
	}
	sc.push(&Frame{Kind: WhileFrame, Indent: l.Indent, Line: l.Number, Cond: cond})
	in.tracef("open while %q", cond)
	return nil
}

// openIf pushes the frame before reporting a failed condition, so the block
// is skipped as if the condition were false.
func (in *Interpreter) openIf(sc *scope, l preprocess.Line) error {
	cond := preprocess.KeywordArg(l.Code, "if")
	if cond == "" {
		sc.push(&Frame{Kind: IfFrame, Indent: l.Indent, Line: l.Number})
		return errs.Syntaxf(errs.MissingCondition, "if without a condition")
	}
	v, err := in.eval.Evaluate(cond)
	active := err == nil && v.Truthy()
	sc.push(&Frame{Kind: IfFrame, Indent: l.Indent, Line: l.Number, Active: active})
	in.tracef("if %q is %t", cond, active)
	return err
}
