// Package interp is the Guython execution engine. Source is consumed one
// physical line at a time: each line closes the blocks its indent ends, is
// captured or skipped by the blocks still open, or runs as a statement.
// While bodies and function bodies are buffered and replayed through the
// same dispatcher, and goto is a value returned to the program driver.
package interp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/expr"
	"github.com/rubiojr/guython/preprocess"
	"github.com/rubiojr/guython/value"
)

const (
	// DefaultMaxIterations bounds a single while loop.
	DefaultMaxIterations = 10000
	// DefaultMaxJumps bounds the gotos of one run.
	DefaultMaxJumps = 1000

	maxCallDepth = 1000
)

// Options configures an Interpreter. Zero values take defaults.
type Options struct {
	MaxIterations int
	MaxJumps      int
	// Debug writes [DEBUG] trace lines to Stderr.
	Debug bool
	// Silent suppresses all output, diagnostics included. Statements still
	// run and still return their errors.
	Silent bool
	// Dir resolves relative import paths. Defaults to the working directory.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// Interpreter runs Guython programs. It is not safe for concurrent use.
type Interpreter struct {
	opts  Options
	env   *Env
	funcs *FunctionTable
	eval  *expr.Evaluator
	top   *scope

	out    io.Writer
	errOut io.Writer
	stdin  *bufio.Reader
	debug  *log.Logger

	// program is the line array of the current Run.
	program []preprocess.Line
	jumps   int
	calls   int
	diags   []error
}

// halted wraps an error that stopped the program and was already reported.
type halted struct{ err error }

func (h *halted) Error() string { return h.err.Error() }
func (h *halted) Unwrap() error { return h.err }

// New returns an Interpreter with an empty environment.
func New(opts Options) *Interpreter {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.MaxJumps <= 0 {
		opts.MaxJumps = DefaultMaxJumps
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	in := &Interpreter{
		opts:   opts,
		env:    NewEnv(),
		funcs:  NewFunctionTable(),
		top:    &scope{},
		out:    opts.Stdout,
		errOut: opts.Stderr,
		stdin:  bufio.NewReader(opts.Stdin),
		debug:  log.New(opts.Stderr, "[DEBUG] ", 0),
	}
	if opts.Silent {
		in.out = io.Discard
		in.errOut = io.Discard
		in.debug.SetOutput(io.Discard)
	}
	in.eval = expr.New(in.env)
	return in
}

// SetDebug toggles the debug trace.
func (in *Interpreter) SetDebug(on bool) { in.opts.Debug = on }

// Debug reports whether the debug trace is on.
func (in *Interpreter) Debug() bool { return in.opts.Debug }

// Variables returns a copy of the global environment.
func (in *Interpreter) Variables() map[string]value.Value { return in.env.Snapshot() }

// Functions returns the sorted names of defined functions.
func (in *Interpreter) Functions() []string { return in.funcs.Names() }

// Function returns a committed definition.
func (in *Interpreter) Function(name string) (*Function, bool) { return in.funcs.Lookup(name) }

// Diagnostics returns every error reported so far, in order.
func (in *Interpreter) Diagnostics() []error { return in.diags }

// Depth returns how many blocks are open in the top-level scope.
func (in *Interpreter) Depth() int { return in.top.depth() }

// Evaluate evaluates an expression against the current environment.
func (in *Interpreter) Evaluate(text string) (value.Value, error) {
	return in.eval.Evaluate(text)
}

// RunFile runs a .gy or .guy source file. Imports resolve relative to the
// file's directory.
func (in *Interpreter) RunFile(path string) error {
	if err := checkExt(path); err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if in.opts.Dir == "" {
		in.opts.Dir = filepath.Dir(path)
	}
	return in.RunSource(string(src))
}

// RunSource splits src into lines and runs them.
func (in *Interpreter) RunSource(src string) error {
	return in.Run(preprocess.SplitSource(src))
}

// Run executes lines top to bottom, honoring jumps, then closes whatever
// is still open: a pending definition is committed and open loops run.
// Per-line errors are reported and execution continues; security errors
// and rejected jumps stop the run and are returned.
func (in *Interpreter) Run(lines []preprocess.Line) error {
	err := in.run(lines)
	if err != nil {
		in.top = &scope{}
	}
	return err
}

func (in *Interpreter) run(lines []preprocess.Line) error {
	in.program = lines
	in.jumps = 0
	sc := in.top
	ip := 0
	for {
		var (
			j   *Jump
			err error
		)
		if ip < len(lines) {
			j, err = in.runLine(sc, lines[ip])
			ip++
		} else {
			j, err = in.flush(sc)
			if j == nil && err == nil {
				return nil
			}
		}
		if err != nil {
			return unwrapHalt(err)
		}
		if j == nil {
			continue
		}
		if err := in.checkJump(sc, j); err != nil {
			return unwrapHalt(in.fail(err, j.From))
		}
		ip = j.Target - 1
	}
}

// RunLine preprocesses and runs a single line in the top-level scope.
// Unlike Run, errors are returned rather than reported, and a goto comes
// back as a Jump for the caller to act on.
func (in *Interpreter) RunLine(raw string, number int) (*Jump, error) {
	l := preprocess.Split(raw, number)
	j, err := in.exec(in.top, l)
	return j, errs.AtLine(err, number)
}

// Flush closes every block left open by RunLine.
func (in *Interpreter) Flush() error {
	j, err := in.flush(in.top)
	if err != nil {
		return unwrapHalt(err)
	}
	if j != nil {
		return errs.Runtimef(errs.JumpOutOfRange, "goto %d outside of a running program", j.Target)
	}
	return nil
}

// runLine executes one line and reports its error, if any. Only jumps and
// halting errors are returned.
func (in *Interpreter) runLine(sc *scope, l preprocess.Line) (*Jump, error) {
	j, err := in.exec(sc, l)
	if err != nil {
		return nil, in.fail(err, l.Number)
	}
	return j, nil
}

// fail reports err against line. An error that halts the program comes
// back marked, so outer levels pass it through without reporting twice.
func (in *Interpreter) fail(err error, line int) error {
	var h *halted
	if errors.As(err, &h) {
		return err
	}
	err = errs.AtLine(err, line)
	in.report(err, line)
	if stops(err) {
		return &halted{err: err}
	}
	return nil
}

func (in *Interpreter) report(err error, line int) {
	in.diags = append(in.diags, err)
	fmt.Fprintln(in.errOut, FormatError(err, line))
}

// FormatError renders a diagnostic the way the interpreter reports it.
func FormatError(err error, line int) string {
	if line > 0 {
		return fmt.Sprintf("Error on line %d: %v", line, err)
	}
	return fmt.Sprintf("Error: %v", err)
}

func unwrapHalt(err error) error {
	var h *halted
	if errors.As(err, &h) {
		return h.err
	}
	return err
}

func (in *Interpreter) println(s string) {
	fmt.Fprintln(in.out, s)
}

func (in *Interpreter) tracef(format string, args ...any) {
	if in.opts.Debug {
		in.debug.Printf(format, args...)
	}
}

func checkExt(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gy", ".guy":
		return nil
	}
	return fmt.Errorf("invalid file type %q: must be .gy or .guy", path)
}
