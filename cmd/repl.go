package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/guython/interp"
	"github.com/rubiojr/guython/preprocess"
	"github.com/rubiojr/guython/scanner"
)

const (
	promptMain = ">>> "
	promptCont = "... "
)

const replHelp = `Commands:
  exit    leave the session
  debug   toggle the execution trace
  vars    list variables
  funcs   list defined functions
  help    show this message
A line opening a block (def, while, if) continues until a blank line.
`

func replAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	r := &repl{in: newInterpreter(cfg, os.Stdin), out: os.Stdout}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.History()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
				return
			}
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(r.out, "Guython %s. Type help for commands.\n", cmd.Root().Version)
	for {
		entry, ok := readEntry(ln)
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		if strings.TrimSpace(entry) == "" {
			continue
		}
		ln.AppendHistory(entry)
		if r.eval(entry) {
			return nil
		}
	}
}

// readEntry reads one line, or a whole block when the first line opens
// one. It returns false at end of input.
func readEntry(ln *liner.State) (string, bool) {
	line, err := ln.Prompt(promptMain)
	if errors.Is(err, io.EOF) {
		return "", false
	}
	if err != nil {
		// Ctrl-C drops the current line.
		return "", errors.Is(err, liner.ErrPromptAborted)
	}
	if !opensBlock(line) {
		return line, true
	}

	lines := []string{line}
	for {
		next, err := ln.Prompt(promptCont)
		if err != nil || strings.TrimSpace(next) == "" {
			break
		}
		lines = append(lines, next)
	}
	return strings.Join(lines, "\n"), true
}

// opensBlock reports whether a line starts a def, while or if block.
func opensBlock(line string) bool {
	code := preprocess.Split(line, 0).Code
	if code == "" || scanner.FindAssign(code) >= 0 {
		return false
	}
	for _, kw := range []string{"def", "while", "if"} {
		if preprocess.HasKeyword(code, kw) {
			return true
		}
	}
	return false
}

type repl struct {
	in  *interp.Interpreter
	out io.Writer
}

// eval runs a REPL command or a program entry and reports whether the
// session should end.
func (r *repl) eval(entry string) (exit bool) {
	switch strings.TrimSpace(entry) {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprint(r.out, replHelp)
	case "debug":
		r.in.SetDebug(!r.in.Debug())
		state := "off"
		if r.in.Debug() {
			state = "on"
		}
		fmt.Fprintf(r.out, "debug %s\n", state)
	case "vars":
		vars := r.in.Variables()
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(r.out, "%s = %s\n", name, vars[name].Repr())
		}
	case "funcs":
		for _, name := range r.in.Functions() {
			fmt.Fprintf(r.out, "%s_\n", name)
		}
	default:
		// Errors are reported by the interpreter. A halt only ends the entry.
		_ = r.in.RunSource(entry)
	}
	return false
}
