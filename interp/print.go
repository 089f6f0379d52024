package interp

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/preprocess"
	"github.com/rubiojr/guython/scanner"
	"github.com/rubiojr/guython/value"
)

// print renders comma-separated chunks joined by one space. A chunk that
// parses as one expression is evaluated whole; otherwise its quoted
// literals and the code between them are rendered and concatenated, so
// `print "a is " a` works. Nothing is written if any part fails.
func (in *Interpreter) print(args string) error {
	if args == "" {
		in.println("")
		return nil
	}
	chunks := scanner.SplitTopLevel(args, ',')
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		s, err := in.renderChunk(strings.TrimSpace(chunk))
		if err != nil {
			return err
		}
		out = append(out, s)
	}
	in.println(strings.Join(out, " "))
	return nil
}

func (in *Interpreter) renderChunk(chunk string) (string, error) {
	if chunk == "" {
		return "", nil
	}
	v, err := in.eval.Evaluate(chunk)
	if err == nil {
		return v.String(), nil
	}
	if !errors.Is(err, errs.ErrInvalidExpression) {
		return "", err
	}
	segs := scanner.Segments(chunk)
	if len(segs) < 2 {
		return "", err
	}
	var sb strings.Builder
	for _, seg := range segs {
		v, err := in.eval.Evaluate(seg.Text)
		if err != nil {
			return "", err
		}
		sb.WriteString(v.String())
	}
	return sb.String(), nil
}

// isPrintInput matches `printinput` and `print input`.
func isPrintInput(code string) bool {
	if code == "printinput" {
		return true
	}
	return preprocess.StartsWithWord(code, "print") && preprocess.KeywordArg(code, "print") == "input"
}

// isInput matches `input"prompt"` and `input 'prompt'`.
func isInput(code string) bool {
	arg := preprocess.KeywordArg(code, "input")
	return strings.HasPrefix(code, "input") && len(arg) >= 2 &&
		(arg[0] == '"' || arg[0] == '\'') && arg[len(arg)-1] == arg[0]
}

// prompt decodes the literal of an input statement.
func (in *Interpreter) prompt(code string) (string, error) {
	v, err := in.eval.Evaluate(preprocess.KeywordArg(code, "input"))
	if err != nil {
		return "", errs.Syntaxf(errs.InvalidExpression, "invalid input prompt in %q", code)
	}
	return v.String(), nil
}

// readLine writes prompt and reads one line from the input reader. End of
// input reads as an empty string.
func (in *Interpreter) readLine(prompt string) (string, error) {
	if prompt != "" && !in.opts.Silent {
		fmt.Fprint(in.out, prompt)
	}
	s, err := in.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errs.Wrap(errs.BuiltinFailed, err, "reading input")
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (in *Interpreter) printInput() error {
	s, err := in.readLine("")
	if err != nil {
		return err
	}
	in.println(s)
	return nil
}

// inputAssign stores the text read for `name=input"prompt"`, converted to
// Int or Float when it reads as a number.
func (in *Interpreter) inputAssign(name, rhs string) error {
	prompt, err := in.prompt(rhs)
	if err != nil {
		return err
	}
	s, err := in.readLine(prompt)
	if err != nil {
		return err
	}
	v := numeric(s)
	in.tracef("set %s = %s from input", name, v.Repr())
	return in.env.Set(name, v)
}

func numeric(s string) value.Value {
	t := strings.TrimSpace(s)
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return value.Int(i)
	}
	if strings.ContainsAny(t, "0123456789") && !strings.ContainsAny(t, "eEnNiI") {
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return value.Float(f)
		}
	}
	return value.String(s)
}
