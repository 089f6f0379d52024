package interp

import (
	"sort"

	"github.com/rubiojr/guython/builtins"
	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/preprocess"
	"github.com/rubiojr/guython/value"
)

// Env is the single global variable environment. Function calls and loop
// replays read and write the same Env; there is no call-local scoping.
type Env struct {
	vars map[string]value.Value
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]value.Value)}
}

// ValidateName reports SyntaxError(InvalidName) unless name is an
// identifier that is neither a keyword nor an allow-listed builtin.
func ValidateName(name string) error {
	switch {
	case !preprocess.IsIdent(name):
		return errs.Syntaxf(errs.InvalidName, "invalid name '%s'", name)
	case preprocess.Keywords[name]:
		return errs.Syntaxf(errs.InvalidName, "'%s' is a reserved keyword", name)
	case builtins.Reserved(name):
		return errs.Syntaxf(errs.InvalidName, "'%s' is a builtin name", name)
	}
	return nil
}

// Lookup returns a variable without failing.
func (e *Env) Lookup(name string) (value.Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Get returns a variable or RuntimeError(UndefinedVariable).
func (e *Env) Get(name string) (value.Value, error) {
	v, ok := e.vars[name]
	if !ok {
		return value.Value{}, errs.Runtimef(errs.UndefinedVariable, "name '%s' is not defined", name)
	}
	return v, nil
}

// Set binds name after validating it.
func (e *Env) Set(name string, v value.Value) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	e.vars[name] = v
	return nil
}

// Names returns the sorted variable names.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the current bindings.
func (e *Env) Snapshot() map[string]value.Value {
	cp := make(map[string]value.Value, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return cp
}

// Len returns the number of bound variables.
func (e *Env) Len() int { return len(e.vars) }
