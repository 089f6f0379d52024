// Package builtins holds the fixed allow-list of functions and constants an
// expression may reach. Entries are registered from init functions in this
// package only; nothing can be added once the program is running.
package builtins

import (
	"fmt"
	"sort"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/value"
)

// ArgType represents the expected type of a function argument.
type ArgType int

const (
	// Any accepts every value.
	Any ArgType = iota
	// Number accepts Int, Float and Bool.
	Number
	// Int accepts Int and Bool.
	Int
	// String accepts String.
	String
)

func (t ArgType) String() string {
	switch t {
	case Number:
		return "number"
	case Int:
		return "int"
	case String:
		return "str"
	}
	return "any"
}

// FuncDef describes an allow-listed function.
type FuncDef struct {
	// Name is the name scripts call the function by.
	Name string
	// Args lists the expected argument types, checked before Impl runs.
	Args []ArgType
	// Optional is how many trailing entries of Args may be omitted.
	Optional int
	// Variadic, when true, accepts any number of extra arguments of the
	// last type in Args.
	Variadic bool
	// Doc is a one-line description.
	Doc string
	// Impl receives the already checked arguments.
	Impl func(args []value.Value) (value.Value, error)
}

// Const describes an allow-listed constant.
type Const struct {
	Name  string
	Value value.Value
	Doc   string
}

var (
	funcs  = make(map[string]*FuncDef)
	consts = make(map[string]*Const)
)

func register(f *FuncDef) {
	funcs[f.Name] = f
}

func registerConst(c *Const) {
	consts[c.Name] = c
}

// Func returns an allow-listed function by name.
func Func(name string) (*FuncDef, bool) {
	f, ok := funcs[name]
	return f, ok
}

// Constant returns an allow-listed constant by name.
func Constant(name string) (value.Value, bool) {
	c, ok := consts[name]
	if !ok {
		return value.Value{}, false
	}
	return c.Value, true
}

// Reserved reports whether name belongs to the allow-list, which makes it
// unavailable as a variable or function name.
func Reserved(name string) bool {
	_, f := funcs[name]
	_, c := consts[name]
	return f || c
}

// Names returns sorted names of all functions and constants.
func Names() []string {
	names := make([]string, 0, len(funcs)+len(consts))
	for name := range funcs {
		names = append(names, name)
	}
	for name := range consts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Funcs returns the function definitions sorted by name.
func Funcs() []*FuncDef {
	defs := make([]*FuncDef, 0, len(funcs))
	for _, f := range funcs {
		defs = append(defs, f)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Consts returns the constant definitions sorted by name.
func Consts() []*Const {
	defs := make([]*Const, 0, len(consts))
	for _, c := range consts {
		defs = append(defs, c)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Signature renders a call signature such as "round(number, [int])".
func (f *FuncDef) Signature() string {
	sig := f.Name + "("
	required := len(f.Args) - f.Optional
	for i, a := range f.Args {
		if i > 0 {
			sig += ", "
		}
		if i >= required {
			sig += "[" + a.String() + "]"
		} else {
			sig += a.String()
		}
	}
	if f.Variadic {
		sig += ", ..."
	}
	return sig + ")"
}

// Call checks args against the definition and runs it. Failures inside
// the implementation surface as RuntimeError(BuiltinFailed) unless they are
// already classified.
func (f *FuncDef) Call(args []value.Value) (value.Value, error) {
	minArgs := len(f.Args) - f.Optional
	if len(args) < minArgs || (!f.Variadic && len(args) > len(f.Args)) {
		return value.Value{}, errs.Runtimef(errs.BuiltinFailed, "%s expects %s, got %d argument(s)", f.Name, f.arity(), len(args))
	}
	for i, a := range args {
		t := Any
		switch {
		case i < len(f.Args):
			t = f.Args[i]
		case len(f.Args) > 0:
			t = f.Args[len(f.Args)-1]
		}
		if !accepts(t, a) {
			return value.Value{}, errs.Runtimef(errs.TypeMismatch, "%s() argument %d must be %s, not '%s'", f.Name, i+1, t, a.Kind())
		}
	}
	v, err := f.Impl(args)
	if err != nil {
		return value.Value{}, errs.Wrap(errs.BuiltinFailed, err, "%s()", f.Name)
	}
	return v, nil
}

func (f *FuncDef) arity() string {
	minArgs := len(f.Args) - f.Optional
	switch {
	case f.Variadic:
		return fmt.Sprintf("at least %d", minArgs)
	case f.Optional > 0:
		return fmt.Sprintf("%d to %d", minArgs, len(f.Args))
	}
	return fmt.Sprintf("%d", minArgs)
}

func accepts(t ArgType, v value.Value) bool {
	switch t {
	case Number:
		return v.IsNumeric()
	case Int:
		return v.Kind() == value.IntKind || v.Kind() == value.BoolKind
	case String:
		return v.Kind() == value.StringKind
	}
	return true
}
