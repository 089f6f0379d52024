package interp

import (
	"errors"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/scanner"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/preprocess"
	codescan "github.com/rubiojr/guython/scanner"
	"github.com/rubiojr/guython/value"
)

// Module is a loaded source file: its top-level variables plus the
// assignments that failed and were left out.
type Module struct {
	Namespace *value.Namespace
	Skipped   scanner.ErrList
}

// ModuleName returns the namespace name for a module path: the file name
// without its extension.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadModule reads a .gy or .guy file into a namespace. Only top-level
// assignment lines run, in a fresh silent interpreter, so a module can
// never print, loop, jump or define functions in its importer.
func LoadModule(path string) (*Module, error) {
	if err := checkExt(path); err != nil {
		return nil, errs.Syntaxf(errs.BadImport, "%v", err)
	}
	name := ModuleName(path)
	if err := ValidateName(name); err != nil {
		return nil, errs.Syntaxf(errs.InvalidName, "invalid module name '%s'", name)
	}
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Runtimef(errs.ModuleNotFound, "module file not found: %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ModuleNotFound, err, "reading module %s", path)
	}

	mod := New(Options{Silent: true, Stdin: strings.NewReader("")})
	var skipped scanner.ErrList
	for _, l := range preprocess.SplitSource(string(src)) {
		if l.Indent > 0 || !isPlainAssignment(l.Code) {
			continue
		}
		if _, err := mod.RunLine(l.Source(), l.Number); err != nil {
			skipped = append(skipped, scanner.ErrWithPosition{
				Pos: token.Position{Filename: path, Line: l.Number},
				Err: err,
			})
		}
	}
	return &Module{
		Namespace: value.NewNamespace(name, mod.env.Snapshot()),
		Skipped:   skipped,
	}, nil
}

// isPlainAssignment matches `name=expr` lines that do not read input.
func isPlainAssignment(code string) bool {
	if code == "" || startsWithStatement(code) {
		return false
	}
	eq := codescan.FindAssign(code)
	if eq < 0 || !preprocess.IsIdent(strings.TrimSpace(code[:eq])) {
		return false
	}
	return !isInput(strings.TrimSpace(code[eq+1:]))
}

func (in *Interpreter) importModule(arg string) error {
	if arg == "" {
		return errs.Syntaxf(errs.BadImport, "import without a file name")
	}
	path := arg
	if !filepath.IsAbs(path) && in.opts.Dir != "" {
		path = filepath.Join(in.opts.Dir, path)
	}
	mod, err := LoadModule(path)
	if err != nil {
		return err
	}
	for _, e := range mod.Skipped {
		in.tracef("%s:%d: skipped assignment: %v", e.Pos.Filename, e.Pos.Line, e.Err)
	}
	ns := mod.Namespace
	in.tracef("imported module %s with %d variable(s)", ns.Name, ns.Len())
	return in.env.Set(ns.Name, value.NS(ns))
}
