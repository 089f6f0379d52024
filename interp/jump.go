package interp

import (
	"strconv"
	"strings"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/preprocess"
)

// Jump is a goto signal. It is returned up through the dispatcher and
// every replay level until the program driver, the only place that moves
// the instruction pointer.
type Jump struct {
	// Target is the 1-based destination line.
	Target int
	// From is the line of the goto statement.
	From int
}

// parseGoto reads the target of `goto<digits>`.
func parseGoto(code string) (int, error) {
	arg := preprocess.KeywordArg(code, "goto")
	if arg == "" || strings.TrimLeft(arg, "0123456789") != "" {
		return 0, errs.Syntaxf(errs.BadGoto, "invalid goto %q, expected goto<line>", code)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errs.Syntaxf(errs.BadGoto, "goto target %s is too large", arg)
	}
	return n, nil
}

// checkJump validates j against the running program: the target must be a
// line of the program, the jump ceiling must not be passed, and the target
// may not sit inside a block that is still open in the driver scope.
func (in *Interpreter) checkJump(sc *scope, j *Jump) error {
	if j.Target < 1 || j.Target > len(in.program) {
		return errs.Runtimef(errs.JumpOutOfRange, "goto target %d is outside the program (1-%d)", j.Target, len(in.program))
	}
	in.jumps++
	if in.jumps > in.opts.MaxJumps {
		return errs.Runtimef(errs.JumpCeilingExceeded, "more than %d jumps", in.opts.MaxJumps)
	}
	target := in.program[j.Target-1]
	if open := sc.outermostIndent(); open >= 0 && target.Indent > open {
		return errs.Runtimef(errs.JumpIntoOpenBlock, "goto target %d is inside a block that is still open", j.Target)
	}
	in.tracef("jump %d from line %d to line %d", in.jumps, j.From, j.Target)
	return nil
}

// stops reports whether err ends the program instead of just its line.
func stops(err error) bool {
	if errs.IsSecurity(err) {
		return true
	}
	switch errs.CodeOf(err) {
	case errs.JumpOutOfRange, errs.JumpCeilingExceeded, errs.JumpIntoOpenBlock:
		return true
	}
	return false
}
