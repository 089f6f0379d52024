package doc

import (
	"fmt"
	"strings"

	"github.com/rubiojr/guython/builtins"
)

// FormatFile formats a FileDoc for terminal display. Every function and
// variable is listed; only documented ones carry an indented doc line.
func FormatFile(fd *FileDoc) string {
	var sb strings.Builder

	if fd.Doc != "" {
		sb.WriteString(fd.Doc)
		sb.WriteString("\n\n")
	}

	for _, f := range fd.Funcs {
		writeEntry(&sb, fmt.Sprintf("def %s_", f.Name), f.Doc)
	}
	if len(fd.Funcs) > 0 && len(fd.Vars) > 0 {
		sb.WriteString("\n")
	}
	for _, v := range fd.Vars {
		writeEntry(&sb, fmt.Sprintf("%s = %s", v.Name, v.Expr), v.Doc)
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatSymbol formats a single symbol lookup result.
func FormatSymbol(docStr, signature string) string {
	var sb strings.Builder
	writeEntry(&sb, signature, docStr)
	return sb.String()
}

// FormatBuiltins lists the functions and constants expressions may use.
func FormatBuiltins() string {
	var sb strings.Builder

	sb.WriteString("Functions:\n")
	for _, f := range builtins.Funcs() {
		sb.WriteString(fmt.Sprintf("  %-22s %s\n", f.Signature(), f.Doc))
	}

	sb.WriteString("\nConstants:\n")
	for _, c := range builtins.Consts() {
		sb.WriteString(fmt.Sprintf("  %-22s %s\n", c.Name, c.Doc))
	}

	return sb.String()
}

// FormatBuiltin formats one allow-listed function or constant.
func FormatBuiltin(name string) (string, bool) {
	if f, ok := builtins.Func(name); ok {
		return FormatSymbol(f.Doc, f.Signature()), true
	}
	for _, c := range builtins.Consts() {
		if c.Name == name {
			return FormatSymbol(c.Doc, fmt.Sprintf("%s = %s", c.Name, c.Value.Repr())), true
		}
	}
	return "", false
}

func writeEntry(sb *strings.Builder, signature, docStr string) {
	sb.WriteString(signature)
	sb.WriteString("\n")
	if docStr != "" {
		sb.WriteString("    ")
		sb.WriteString(strings.ReplaceAll(docStr, "\n", "\n    "))
		sb.WriteString("\n")
	}
}
