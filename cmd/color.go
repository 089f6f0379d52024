package cmd

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/rubiojr/guython/config"
)

const (
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
	colorReset = "\033[0m"
)

// useColor applies the color mode to f: always and never are absolute,
// auto colors a terminal unless NO_COLOR is set.
func useColor(f *os.File, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func colorAuto() bool { return useColor(os.Stderr, config.ColorAuto) }

func paint(color, s string, on bool) string {
	if !on {
		return s
	}
	return color + s + colorReset
}

// stderrFor returns the writer diagnostics go to.
func stderrFor(mode string) io.Writer {
	if !useColor(os.Stderr, mode) {
		return os.Stderr
	}
	return &colorWriter{w: os.Stderr}
}

// colorWriter paints each diagnostic line: errors red, debug trace gray.
// The interpreter emits one line per Write.
type colorWriter struct {
	w io.Writer
}

func (c *colorWriter) Write(p []byte) (int, error) {
	color := colorRed
	if bytes.HasPrefix(p, []byte("[DEBUG]")) {
		color = colorGray
	}
	line := bytes.TrimRight(p, "\n")
	var buf bytes.Buffer
	buf.Grow(len(p) + len(color) + len(colorReset))
	buf.WriteString(color)
	buf.Write(line)
	buf.WriteString(colorReset)
	buf.Write(p[len(line):])
	if _, err := c.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}
