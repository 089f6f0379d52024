// Package expr is the restricted expression evaluator. Expressions are
// parsed into a small tree and walked against an allow-list: arithmetic and
// comparison operators, boolean logic, literals, variables, namespace
// attributes and calls to the functions registered in package builtins.
// Anything else is refused before it can run.
package expr

import (
	"strings"

	"github.com/rubiojr/guython/builtins"
	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/value"
)

// Env resolves variable names.
type Env interface {
	Lookup(name string) (value.Value, bool)
}

// MapEnv is an Env backed by a plain map.
type MapEnv map[string]value.Value

// Lookup implements Env.
func (m MapEnv) Lookup(name string) (value.Value, bool) {
	v, ok := m[name]
	return v, ok
}

type binaryFunc func(a, b value.Value) (value.Value, error)

// binaryOps is the operator allow-list. An operator missing here is
// rejected even if the parser produced it.
var binaryOps = map[string]binaryFunc{
	"+":  value.Add,
	"-":  value.Sub,
	"*":  value.Mul,
	"/":  value.Div,
	"//": value.FloorDiv,
	"%":  value.Mod,
	"**": value.Pow,
	"^":  value.Pow,
}

// Evaluator evaluates expression text against an environment.
type Evaluator struct {
	Env Env
}

// New returns an Evaluator reading variables from env.
func New(env Env) *Evaluator {
	if env == nil {
		env = MapEnv{}
	}
	return &Evaluator{Env: env}
}

// Evaluate parses and evaluates text.
func (e *Evaluator) Evaluate(text string) (value.Value, error) {
	text = strings.TrimSpace(text)
	n, err := Parse(text)
	if err != nil {
		return value.Value{}, err
	}
	return e.Eval(n)
}

// Eval evaluates a parsed tree.
func (e *Evaluator) Eval(n Node) (value.Value, error) {
	switch n := n.(type) {
	case *Lit:
		return n.Val, nil
	case *Name:
		return e.lookup(n.Name)
	case *Attr:
		return e.attr(n)
	case *Call:
		return e.call(n)
	case *Unary:
		x, err := e.Eval(n.X)
		if err != nil {
			return value.Value{}, err
		}
		if n.Op == "-" {
			return value.Neg(x)
		}
		return value.Pos(x)
	case *Not:
		x, err := e.Eval(n.X)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(!x.Truthy()), nil
	case *Binary:
		fn, ok := binaryOps[n.Op]
		if !ok {
			return value.Value{}, errs.Runtimef(errs.UnsupportedExpression, "operator %q is not supported", n.Op)
		}
		l, err := e.Eval(n.L)
		if err != nil {
			return value.Value{}, err
		}
		r, err := e.Eval(n.R)
		if err != nil {
			return value.Value{}, err
		}
		return fn(l, r)
	case *Logic:
		l, err := e.Eval(n.L)
		if err != nil {
			return value.Value{}, err
		}
		if (n.Op == "and") != l.Truthy() {
			return l, nil
		}
		return e.Eval(n.R)
	case *Compare:
		return e.compare(n)
	}
	return value.Value{}, errs.Runtimef(errs.UnsupportedExpression, "unsupported expression node %T", n)
}

func (e *Evaluator) lookup(name string) (value.Value, error) {
	if v, ok := e.Env.Lookup(name); ok {
		return v, nil
	}
	if v, ok := builtins.Constant(name); ok {
		return v, nil
	}
	if _, ok := builtins.Func(name); ok {
		return value.Value{}, errs.Runtimef(errs.UnsupportedExpression, "function %s cannot be used as a value", name)
	}
	return value.Value{}, errs.Runtimef(errs.UndefinedVariable, "name '%s' is not defined", name)
}

func (e *Evaluator) attr(n *Attr) (value.Value, error) {
	if strings.HasPrefix(n.Name, "_") {
		return value.Value{}, errs.Securityf(errs.ForbiddenAttribute, "access to attribute '%s' is not allowed", n.Name)
	}
	x, err := e.Eval(n.X)
	if err != nil {
		return value.Value{}, err
	}
	ns := x.AsNamespace()
	if x.Kind() != value.NamespaceKind || ns == nil {
		return value.Value{}, errs.Securityf(errs.ForbiddenAttribute, "attribute access on %s is not allowed", x.Kind())
	}
	v, ok := ns.Get(n.Name)
	if !ok {
		return value.Value{}, errs.Runtimef(errs.UndefinedAttribute, "module '%s' has no attribute '%s'", ns.Name, n.Name)
	}
	return v, nil
}

// call only dispatches to allow-listed functions named directly. The target
// is checked before any argument is evaluated.
func (e *Evaluator) call(n *Call) (value.Value, error) {
	name, ok := n.Fn.(*Name)
	if !ok {
		return value.Value{}, errs.Securityf(errs.ForbiddenCall, "only calls to allowed functions are permitted")
	}
	fn, ok := builtins.Func(name.Name)
	if !ok {
		return value.Value{}, errs.Securityf(errs.ForbiddenCall, "call to '%s' is not allowed", name.Name)
	}
	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := e.Eval(a)
		if err != nil {
			return value.Value{}, err
		}
		args = append(args, v)
	}
	return fn.Call(args)
}

// compare evaluates a chain left to right, stopping at the first false link
// without evaluating the remaining operands.
func (e *Evaluator) compare(n *Compare) (value.Value, error) {
	left, err := e.Eval(n.First)
	if err != nil {
		return value.Value{}, err
	}
	for i, op := range n.Ops {
		right, err := e.Eval(n.Rest[i])
		if err != nil {
			return value.Value{}, err
		}
		ok, err := value.Compare(op, left, right)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.Bool(false), nil
		}
		left = right
	}
	return value.Bool(true), nil
}
