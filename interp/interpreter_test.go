package interp

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/value"
)

type result struct {
	in     *Interpreter
	stdout string
	stderr string
	err    error
}

func runWith(t *testing.T, opts Options, src string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &errOut
	if opts.Stdin == nil {
		opts.Stdin = strings.NewReader("")
	}
	in := New(opts)
	err := in.RunSource(src)
	return result{in: in, stdout: out.String(), stderr: errOut.String(), err: err}
}

func run(t *testing.T, src string) result {
	t.Helper()
	return runWith(t, Options{}, src)
}

func lines(ls ...string) string { return strings.Join(ls, "\n") + "\n" }

func variable(t *testing.T, in *Interpreter, name string) value.Value {
	t.Helper()
	v, ok := in.Variables()[name]
	require.True(t, ok, "variable %s not set", name)
	return v
}

func TestWhileLoop(t *testing.T) {
	r := run(t, lines(
		"a=1",
		"while a<=3",
		".print a",
		".a=a+1",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "1\n2\n3\n", r.stdout)
	assert.Empty(t, r.stderr)
	assert.Equal(t, value.Int(4), variable(t, r.in, "a"))
	assert.Equal(t, 0, r.in.Depth())
}

func TestWhileGluedCondition(t *testing.T) {
	r := run(t, lines(
		"a=0",
		"whilea<2",
		".a=a+1",
		"print a",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "2\n", r.stdout)
}

func TestFunctionDefinitionAndCall(t *testing.T) {
	r := run(t, lines(
		"def greet_",
		`.print "hi"`,
		"greet_",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "hi\n", r.stdout)
	assert.Equal(t, []string{"greet"}, r.in.Functions())
}

func TestUndefinedFunctionContinues(t *testing.T) {
	r := run(t, lines(
		"missing_",
		`print "after"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "after\n", r.stdout)
	assert.Contains(t, r.stderr, "Error on line 1: RuntimeError: function 'missing_' is not defined")
	diags := r.in.Diagnostics()
	require.Len(t, diags, 1)
	assert.True(t, errors.Is(diags[0], errs.ErrUndefinedFunction))
}

func TestFunctionEqualsInlinedBody(t *testing.T) {
	body := []string{
		"x=x*2",
		"if x>4",
		".y=x",
		"n=0",
		"while n<2",
		".n=n+1",
		".x=x+n",
	}
	inlined := run(t, lines(append([]string{"x=3"}, body...)...))
	require.NoError(t, inlined.err)

	def := []string{"def f_"}
	for _, l := range body {
		def = append(def, "."+l)
	}
	def = append(def, "x=3", "f_")
	called := run(t, lines(def...))
	require.NoError(t, called.err)

	assert.Equal(t, inlined.in.Variables(), called.in.Variables())
}

func TestFunctionSharesGlobalEnvironment(t *testing.T) {
	r := run(t, lines(
		"def bump_",
		".count=count+1",
		"count=0",
		"bump_",
		"bump_",
		"print count",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "2\n", r.stdout)
}

func TestIfFalseSkipsBody(t *testing.T) {
	r := run(t, lines(
		"x=0",
		"if x>1",
		".x=5",
		`.print "no"`,
		".if 1",
		`..print "nested"`,
		"print x",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "0\n", r.stdout)
}

func TestNestedIf(t *testing.T) {
	r := run(t, lines(
		"x=3",
		"if x>1",
		".if x>2",
		`..print "big"`,
		`.print "mid"`,
		`print "end"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "big\nmid\nend\n", r.stdout)
}

func TestIfMissingConditionSkipsBody(t *testing.T) {
	r := run(t, lines(
		"if",
		`.print "x"`,
		`print "y"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "y\n", r.stdout)
	assert.True(t, errors.Is(r.in.Diagnostics()[0], errs.ErrMissingCondition))
}

func TestIfConditionErrorSkipsBody(t *testing.T) {
	r := run(t, lines(
		"if nope",
		`.print "x"`,
		`print "y"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "y\n", r.stdout)
	assert.Contains(t, r.stderr, "Error on line 1: RuntimeError: name 'nope' is not defined")
}

func TestNestedLoops(t *testing.T) {
	r := run(t, lines(
		"i=0",
		"total=0",
		"while i<3",
		".j=0",
		".while j<2",
		"..total=total+1",
		"..j=j+1",
		".i=i+1",
		"print total",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "6\n", r.stdout)
}

func TestInnerLoopAtEndOfBody(t *testing.T) {
	r := run(t, lines(
		"i=0",
		"total=0",
		"while i<3",
		".i=i+1",
		".j=0",
		".while j<i",
		"..j=j+1",
		"..total=total+1",
		"print total",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "6\n", r.stdout)
}

func TestOpenLoopRunsAtEndOfProgram(t *testing.T) {
	r := run(t, lines(
		"i=0",
		"while i<2",
		".i=i+1",
		".print i",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "1\n2\n", r.stdout)
}

func TestDefinitionInsideLoopIsBuffered(t *testing.T) {
	r := run(t, lines(
		"i=0",
		"while i<2",
		".def hello_",
		`..print "hello"`,
		".hello_",
		".i=i+1",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "hello\nhello\n", r.stdout)
}

func TestMaxIterations(t *testing.T) {
	r := runWith(t, Options{MaxIterations: 50}, lines(
		"n=0",
		"while 1",
		".n=n+1",
		"print n",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "50\n", r.stdout)
	assert.Contains(t, r.stderr, "Error on line 2: RuntimeError: while loop exceeded 50 iterations")
	assert.True(t, errors.Is(r.in.Diagnostics()[0], errs.ErrMaxIterations))
}

func TestDefaultMaxIterations(t *testing.T) {
	r := run(t, lines(
		"n=0",
		"while n>=0",
		".n=n+1",
	))
	require.NoError(t, r.err)
	assert.Equal(t, value.Int(DefaultMaxIterations), variable(t, r.in, "n"))
}

func TestLoopConditionError(t *testing.T) {
	r := run(t, lines(
		"while nope<3",
		`.print "x"`,
		`print "done"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "done\n", r.stdout)
	assert.Contains(t, r.stderr, "Error on line 1:")
}

func TestGotoForward(t *testing.T) {
	r := run(t, lines(
		"goto 3",
		`print "skipped"`,
		`print "landed"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "landed\n", r.stdout)
}

func TestGotoBackwardLoop(t *testing.T) {
	r := run(t, lines(
		"i=0",
		"i=i+1",
		"if i<3",
		".goto2",
		"print i",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "3\n", r.stdout)
}

func TestGotoKeepsState(t *testing.T) {
	r := run(t, lines(
		"goto 4",
		"def f_",
		`.print "f"`,
		"x=1",
		"print x",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "1\n", r.stdout)
	assert.Empty(t, r.in.Functions())
}

func TestGotoOutOfLoop(t *testing.T) {
	r := run(t, lines(
		"i=0",
		"while i<10",
		".i=i+1",
		".if i==3",
		"..goto 7",
		`print "never"`,
		"print i",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "3\n", r.stdout)
}

func TestGotoOutOfRange(t *testing.T) {
	r := run(t, lines(
		"goto 10",
		`print "x"`,
	))
	assert.True(t, errors.Is(r.err, errs.ErrJumpOutOfRange), "%v", r.err)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "Error on line 1: RuntimeError: goto target 10 is outside the program (1-2)")

	r = run(t, "goto 0\n")
	assert.True(t, errors.Is(r.err, errs.ErrJumpOutOfRange))
}

func TestGotoCeiling(t *testing.T) {
	r := runWith(t, Options{MaxJumps: 5}, lines(
		"n=0",
		"n=n+1",
		"goto 2",
	))
	assert.True(t, errors.Is(r.err, errs.ErrJumpCeiling), "%v", r.err)
	assert.Equal(t, value.Int(6), variable(t, r.in, "n"))
}

func TestGotoIntoOpenBlock(t *testing.T) {
	r := run(t, lines(
		"x=1",
		"if x",
		".goto 4",
		`.print "in"`,
		`print "out"`,
	))
	assert.True(t, errors.Is(r.err, errs.ErrJumpIntoOpenBlock), "%v", r.err)
	assert.Empty(t, r.stdout)
}

func TestBadGoto(t *testing.T) {
	r := run(t, lines(
		"goto x",
		`print "ok"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "ok\n", r.stdout)
	assert.True(t, errors.Is(r.in.Diagnostics()[0], errs.ErrBadGoto))
}

func TestSecurityErrorHalts(t *testing.T) {
	r := run(t, lines(
		`print "a"`,
		`__import__("os")`,
		`print "b"`,
	))
	assert.True(t, errors.Is(r.err, errs.ErrForbiddenCall), "%v", r.err)
	assert.Equal(t, "a\n", r.stdout)
	assert.Contains(t, r.stderr, "Error on line 2: SecurityError:")
}

func TestSecurityErrorInFunctionReportedOnce(t *testing.T) {
	r := run(t, lines(
		"def bad_",
		`.open("x")`,
		"bad_",
		`print "after"`,
	))
	assert.True(t, errs.IsSecurity(r.err))
	assert.Empty(t, r.stdout)
	assert.Len(t, r.in.Diagnostics(), 1)
	assert.Equal(t, 1, strings.Count(r.stderr, "Error on line"))
	assert.Equal(t, 0, r.in.Depth())
}

func TestAssignmentErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"if=3", errs.ErrInvalidName},
		{"sqrt=3", errs.ErrInvalidName},
		{"1x=3", errs.ErrInvalidName},
		{"x=undefined", errs.ErrUndefinedVariable},
		{"x=1/0", errs.ErrDivisionByZero},
		{"def 1_", errs.ErrInvalidName},
		{"def f", errs.ErrBadDefinition},
		{"def iffy_", errs.ErrInvalidName},
		{"while", errs.ErrMissingCondition},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r := run(t, tt.line+"\n")
			require.NoError(t, r.err)
			diags := r.in.Diagnostics()
			require.Len(t, diags, 1, r.stderr)
			assert.True(t, errors.Is(diags[0], tt.want), "%v", diags[0])
		})
	}
}

func TestPrint(t *testing.T) {
	r := run(t, lines(
		"a=4",
		`print "a is " a`,
		`print "x", a, 1.0`,
		"print",
		`print "sum:", 1+2`,
		`print "it's " + "fine"`,
		`print max(1, a), "{not a comment}" {a comment}`,
		"print True, 7/2, 2^10",
	))
	require.NoError(t, r.err)
	assert.Equal(t, lines(
		"a is 4",
		"x 4 1.0",
		"",
		"sum: 3",
		"it's fine",
		"4 {not a comment}",
		"True 3.5 1024",
	), r.stdout)
}

func TestPrintFailsWhole(t *testing.T) {
	r := run(t, `print "a", nope`+"\n")
	require.NoError(t, r.err)
	assert.Empty(t, r.stdout)
	assert.True(t, errors.Is(r.in.Diagnostics()[0], errs.ErrUndefinedVariable))
}

func TestBareExpression(t *testing.T) {
	r := run(t, lines(
		"x=5",
		"x*2",
		`"hi"`,
		"nope",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "10\nhi\n", r.stdout)
	assert.Contains(t, r.stderr, "Error on line 4:")
}

func TestInput(t *testing.T) {
	r := runWith(t, Options{Stdin: strings.NewReader("42\nbob\n2.5\n")}, lines(
		`n=input"Number? "`,
		`name=input 'Name? '`,
		`f=input""`,
		"print n+1, name, f*2",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "Number? Name? 43 bob 5.0\n", r.stdout)
	assert.Equal(t, value.Int(42), variable(t, r.in, "n"))
	assert.Equal(t, value.String("bob"), variable(t, r.in, "name"))
}

func TestInputEOF(t *testing.T) {
	r := run(t, lines(
		`x=input"? "`,
		`print "[" + x + "]"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "? []\n", r.stdout)
}

func TestPrintInput(t *testing.T) {
	r := runWith(t, Options{Stdin: strings.NewReader("hello\nworld\n")}, lines(
		"printinput",
		"print input",
		`input"> "`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "hello\nworld\n> \n", r.stdout)
}

func TestComments(t *testing.T) {
	r := run(t, lines(
		"{header comment}",
		"x=1 {set x}",
		"{ unterminated comment swallows the rest x=2",
		"print x",
	))
	require.NoError(t, r.err)
	assert.Equal(t, "1\n", r.stdout)
}

func TestDebugTrace(t *testing.T) {
	r := runWith(t, Options{Debug: true}, "x=1\n")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "[DEBUG] set x = 1")

	r = run(t, "x=1\n")
	assert.NotContains(t, r.stderr, "[DEBUG]")
}

func TestSilent(t *testing.T) {
	r := runWith(t, Options{Silent: true}, lines(
		`print "x"`,
		"nope",
	))
	require.NoError(t, r.err)
	assert.Empty(t, r.stdout)
	assert.Empty(t, r.stderr)
	assert.Len(t, r.in.Diagnostics(), 1)
}

func TestCallDepth(t *testing.T) {
	r := run(t, lines(
		"def f_",
		".f_",
		"f_",
	))
	require.NoError(t, r.err)
	diags := r.in.Diagnostics()
	require.Len(t, diags, 1)
	assert.True(t, errors.Is(diags[0], errs.ErrCallDepth))
}

func TestDepthReturnsToBaseline(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	src := []string{
		"def f_",
		".while x<3",
		"..x=x+1",
		".if x",
		"..y=1",
		"x=0",
		"if 1",
	}
	for i, l := range src {
		j, err := in.RunLine(l, i+1)
		require.NoError(t, err)
		require.Nil(t, j)
	}
	require.Equal(t, 1, in.Depth())

	_, err := in.RunLine(".f_", len(src)+1)
	require.NoError(t, err)
	assert.Equal(t, 1, in.Depth())
	assert.Equal(t, value.Int(3), in.Variables()["x"])
	assert.Equal(t, value.Int(1), in.Variables()["y"])

	_, err = in.RunLine(".while 0", len(src)+2)
	require.NoError(t, err)
	assert.Equal(t, 2, in.Depth())

	require.NoError(t, in.Flush())
	assert.Equal(t, 0, in.Depth())
}

func TestRunLineReturnsJumpAndErrors(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	j, err := in.RunLine("goto 7", 3)
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.Equal(t, 7, j.Target)
	assert.Equal(t, 3, j.From)

	_, err = in.RunLine("x=nope", 4)
	require.Error(t, err)
	var ge *errs.Error
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, 4, ge.Line)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.gy")
	require.NoError(t, os.WriteFile(path, []byte(`print "hello"`+"\n"), 0o644))

	var out bytes.Buffer
	in := New(Options{Stdout: &out, Stderr: &bytes.Buffer{}})
	require.NoError(t, in.RunFile(path))
	assert.Equal(t, "hello\n", out.String())

	err := in.RunFile(filepath.Join(dir, "hello.py"))
	assert.ErrorContains(t, err, "must be .gy or .guy")

	err = in.RunFile(filepath.Join(dir, "missing.gy"))
	assert.Error(t, err)
}

func TestRunContinuesAfterHalt(t *testing.T) {
	var out bytes.Buffer
	in := New(Options{Stdout: &out, Stderr: &bytes.Buffer{}})
	err := in.RunSource("if 1\n.open(1)\n")
	require.Error(t, err)
	assert.Equal(t, 0, in.Depth())

	require.NoError(t, in.RunSource("print 1\n"))
	assert.Equal(t, "1\n", out.String())
}

func TestOversizedValuesFailTheLineOnly(t *testing.T) {
	r := run(t, lines(
		`x="ab"*(2**62)`,
		"print 9223372036854775807+1",
		"print 3037000500*3037000500",
		"y=int(1e300)",
		`print "after"`,
	))
	require.NoError(t, r.err)
	assert.Equal(t, "9.223372036854776e+18\n9.22337203700025e+18\nafter\n", r.stdout)
	assert.Contains(t, r.stderr, "Error on line 1: RuntimeError: repeated string is too long")
	assert.Contains(t, r.stderr, "Error on line 4:")
	assert.Len(t, r.in.Diagnostics(), 2)
}
