package interp

import (
	"sort"
	"strings"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/preprocess"
)

// Function is a captured definition: the verbatim body lines of a
// `def<name>_` block, replayed in full on every call.
type Function struct {
	Name string
	// Line is where the definition opened.
	Line int
	// Indent is the indent of the def line; body lines are deeper.
	Indent int
	Body   []preprocess.Line
}

// FunctionTable maps names to committed definitions. Redefining a name
// replaces the previous body.
type FunctionTable struct {
	defs map[string]*Function
}

// NewFunctionTable returns an empty table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{defs: make(map[string]*Function)}
}

// Define commits f.
func (t *FunctionTable) Define(f *Function) {
	t.defs[f.Name] = f
}

// Lookup returns a definition.
func (t *FunctionTable) Lookup(name string) (*Function, bool) {
	f, ok := t.defs[name]
	return f, ok
}

// Names returns the sorted function names.
func (t *FunctionTable) Names() []string {
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of definitions.
func (t *FunctionTable) Len() int { return len(t.defs) }

// glued lists statement keywords that may be written without a space before
// their argument. A function named with one of these prefixes could never
// be invoked, since `ifx_` reads as an if statement.
var glued = []string{"def", "while", "if", "goto"}

// parseDefinition extracts the function name from `def<name>_`.
func parseDefinition(code string) (string, error) {
	rest := preprocess.KeywordArg(code, "def")
	if !strings.HasSuffix(rest, "_") {
		return "", errs.Syntaxf(errs.BadDefinition, "invalid function definition %q, expected def<name>_", code)
	}
	name := strings.TrimSpace(strings.TrimSuffix(rest, "_"))
	if name == "" {
		return "", errs.Syntaxf(errs.BadDefinition, "function definition without a name")
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	for _, kw := range glued {
		if strings.HasPrefix(name, kw) {
			return "", errs.Syntaxf(errs.InvalidName, "function name '%s' starts with the keyword '%s'", name, kw)
		}
	}
	return name, nil
}

// invocationName returns the function name of a `<name>_` statement.
func invocationName(code string) (string, bool) {
	if len(code) < 2 || !strings.HasSuffix(code, "_") {
		return "", false
	}
	name := strings.TrimSuffix(code, "_")
	if !preprocess.IsIdent(name) {
		return "", false
	}
	return name, true
}
