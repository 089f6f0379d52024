package interp

import (
	"github.com/rubiojr/guython/preprocess"
)

// FrameKind tags a block frame.
type FrameKind int

const (
	// IfFrame gates deeper lines on a condition evaluated once.
	IfFrame FrameKind = iota
	// WhileFrame buffers deeper lines for replay when the frame closes.
	WhileFrame
)

func (k FrameKind) String() string {
	if k == WhileFrame {
		return "while"
	}
	return "if"
}

// Frame is one open if or while block.
type Frame struct {
	Kind FrameKind
	// Indent is the opening line's indent. Lines deeper than Indent belong
	// to the block.
	Indent int
	// Line is the opening line number, used in diagnostics.
	Line int

	// Active is the evaluated if condition.
	Active bool

	// Cond is the while condition text, re-evaluated before each iteration.
	Cond string
	// Body holds the buffered while body in source order.
	Body []preprocess.Line
}

// scope is one block scope stack: the driver owns one, and every function
// call and loop iteration replays in a fresh one. Frames are ordered by
// strictly increasing Indent from bottom to top.
type scope struct {
	frames []*Frame
	// pending is the definition being captured, if any. It is always the
	// innermost open block.
	pending *Function
}

func (s *scope) push(f *Frame) { s.frames = append(s.frames, f) }

func (s *scope) top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *scope) pop() *Frame {
	f := s.top()
	if f != nil {
		s.frames = s.frames[:len(s.frames)-1]
	}
	return f
}

// depth counts open blocks including a pending definition.
func (s *scope) depth() int {
	n := len(s.frames)
	if s.pending != nil {
		n++
	}
	return n
}

// outermostIndent returns the indent of the outermost open block, or -1
// when none is open. Lines deeper than it belong to an open block.
func (s *scope) outermostIndent() int {
	if len(s.frames) > 0 {
		return s.frames[0].Indent
	}
	if s.pending != nil {
		return s.pending.Indent
	}
	return -1
}

// closeFrames ends every block whose scope stops before a line at indent:
// a pending definition is committed, if frames are dropped and while
// frames are popped and run, innermost first. Loop failures that do not
// halt are reported against the while line. A jump raised by a loop body
// stops the unwinding and leaves the outer frames open.
func (in *Interpreter) closeFrames(sc *scope, indent int) (*Jump, error) {
	if sc.pending != nil && indent <= sc.pending.Indent {
		in.commit(sc)
	}
	for {
		f := sc.top()
		if f == nil || f.Indent < indent {
			return nil, nil
		}
		sc.pop()
		in.tracef("close %s block from line %d", f.Kind, f.Line)
		if f.Kind != WhileFrame {
			continue
		}
		j, err := in.loop(f)
		if j != nil {
			return j, nil
		}
		if err != nil {
			if err = in.fail(err, f.Line); err != nil {
				return nil, err
			}
		}
	}
}

// flush closes everything left open in sc, as at the end of a program or a
// replayed body.
func (in *Interpreter) flush(sc *scope) (*Jump, error) {
	return in.closeFrames(sc, 0)
}

// commit moves a captured definition into the function table.
func (in *Interpreter) commit(sc *scope) {
	f := sc.pending
	sc.pending = nil
	in.funcs.Define(f)
	in.tracef("defined function %s_ with %d line(s)", f.Name, len(f.Body))
}

// route decides what happens to a line once frames deeper than it are
// closed. It reports true when the line was consumed by a block and must
// not be executed now.
func (in *Interpreter) route(sc *scope, l preprocess.Line) bool {
	if f := sc.pending; f != nil {
		f.Body = append(f.Body, l)
		return true
	}
	f := sc.top()
	if f == nil {
		return false
	}
	switch {
	case f.Kind == WhileFrame:
		f.Body = append(f.Body, l)
		return true
	case !f.Active:
		in.tracef("skip line %d in false if block", l.Number)
		return true
	}
	return false
}
