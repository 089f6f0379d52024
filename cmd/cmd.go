package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/rubiojr/guython/config"
	"github.com/rubiojr/guython/doc"
	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/interp"
)

// errReported marks a failure the interpreter already printed.
var errReported = errors.New("program halted")

// Execute runs the Guython CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "guython",
		Usage:                  "A line-oriented scripting language with dot indentation",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Sources: cli.EnvVars(config.EnvPath),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Trace execution to stderr",
				Sources: cli.EnvVars("GUYTHON_DEBUG"),
			},
			&cli.IntFlag{
				Name:    "max-iterations",
				Usage:   "Iteration ceiling for a single while loop",
				Sources: cli.EnvVars("GUYTHON_MAX_ITERATIONS"),
			},
			&cli.IntFlag{
				Name:    "max-jumps",
				Usage:   "Goto ceiling for one program run",
				Sources: cli.EnvVars("GUYTHON_MAX_JUMPS"),
			},
		},
		// Allow `guython script.gy` as shorthand for `guython run script.gy`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				return runAction(ctx, cmd)
			}
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return replAction(ctx, cmd)
			}
			return runStdin(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a .gy or .guy file",
				ArgsUsage: "<file.gy>",
				Action:    runAction,
			},
			{
				Name:   "repl",
				Usage:  "Start an interactive session",
				Action: replAction,
			},
			{
				Name:      "doc",
				Usage:     "Show documentation for a file, one of its symbols, or the builtins",
				ArgsUsage: "[file.gy | directory | builtin] [symbol]",
				Action:    docAction,
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Println(version)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "%s\n", paint(colorRed, "error: "+err.Error(), colorAuto()))
		}
		os.Exit(1)
	}
}

// settings merges the config file with command line flags. Flags win.
func settings(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("max-iterations") {
		cfg.MaxIterations = int(cmd.Int("max-iterations"))
	}
	if cmd.IsSet("max-jumps") {
		cfg.MaxJumps = int(cmd.Int("max-jumps"))
	}
	return cfg, cfg.Validate()
}

func newInterpreter(cfg *config.Config, stdin io.Reader) *interp.Interpreter {
	return interp.New(interp.Options{
		MaxIterations: cfg.MaxIterations,
		MaxJumps:      cfg.MaxJumps,
		Debug:         cfg.Debug,
		Stdout:        os.Stdout,
		Stderr:        stderrFor(cfg.Color),
		Stdin:         stdin,
	})
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: guython run <file.gy>")
	}
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	in := newInterpreter(cfg, os.Stdin)
	return finish(in.RunFile(cmd.Args().First()))
}

// runStdin runs a program piped on standard input. Input statements read
// an empty line.
func runStdin(cmd *cli.Command) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	in := newInterpreter(cfg, strings.NewReader(""))
	return finish(in.RunSource(string(src)))
}

// finish turns a halting interpreter error, which has already been
// reported on stderr, into a silent exit status.
func finish(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return errReported
	}
	return err
}

func docAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		fmt.Print(doc.FormatBuiltins())
		return nil
	}

	target := args[0]
	info, statErr := os.Stat(target)
	if statErr != nil {
		if out, ok := doc.FormatBuiltin(target); ok {
			fmt.Print(out)
			return nil
		}
		return fmt.Errorf("cannot access %s: %w", target, statErr)
	}

	var fd *doc.FileDoc
	var err error
	if info.IsDir() {
		fd, err = doc.ExtractDir(target, "")
	} else {
		if !doc.IsGuythonFile(target) {
			return fmt.Errorf("invalid file type %q: must be .gy or .guy", target)
		}
		fd, err = doc.ExtractFile(target)
	}
	if err != nil {
		return err
	}

	if len(args) > 1 {
		docStr, sig, found := doc.LookupSymbol(fd, args[1])
		if !found {
			return fmt.Errorf("symbol %q not found in %s", args[1], target)
		}
		fmt.Print(doc.FormatSymbol(docStr, sig))
		return nil
	}
	fmt.Print(doc.FormatFile(fd))
	return nil
}
