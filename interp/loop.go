package interp

import (
	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/preprocess"
)

// loop runs a closed while frame. The condition is evaluated before every
// iteration against the current environment; each iteration replays the
// buffered body in a fresh scope. At most MaxIterations iterations run.
func (in *Interpreter) loop(f *Frame) (*Jump, error) {
	for i := 0; ; i++ {
		cond, err := in.eval.Evaluate(f.Cond)
		if err != nil {
			return nil, err
		}
		if !cond.Truthy() {
			in.tracef("while at line %d done after %d iteration(s)", f.Line, i)
			return nil, nil
		}
		if i >= in.opts.MaxIterations {
			return nil, errs.Runtimef(errs.MaxIterationsExceeded, "while loop exceeded %d iterations", in.opts.MaxIterations)
		}
		in.tracef("while at line %d: iteration %d", f.Line, i+1)
		if j, err := in.replay(f.Body); j != nil || err != nil {
			return j, err
		}
	}
}

// replay runs body lines through the dispatcher in a nested scope that is
// flushed afterwards, so the caller's frames are untouched. Per-line errors
// are reported and skipped; only jumps and halting errors come back.
func (in *Interpreter) replay(body []preprocess.Line) (*Jump, error) {
	sc := &scope{}
	for _, l := range body {
		if j, err := in.runLine(sc, l); j != nil || err != nil {
			return j, err
		}
	}
	return in.flush(sc)
}

// invoke runs a committed function body.
func (in *Interpreter) invoke(name string) (*Jump, error) {
	f, ok := in.funcs.Lookup(name)
	if !ok {
		return nil, errs.Runtimef(errs.UndefinedFunction, "function '%s_' is not defined", name)
	}
	if in.calls >= maxCallDepth {
		return nil, errs.Runtimef(errs.CallDepthExceeded, "maximum call depth of %d exceeded calling %s_", maxCallDepth, name)
	}
	in.calls++
	defer func() { in.calls-- }()
	in.tracef("call %s_", name)
	return in.replay(f.Body)
}
