// Package doc extracts documentation from Guython source files.
//
// Comments are {braced} spans, which the preprocessor throws away, so doc
// works on the raw source. Consecutive comment-only lines immediately
// before a top-level `def<name>_` or assignment (no blank line gap) are
// attached to it. A trailing comment on an assignment line documents that
// variable when no block precedes it. The first comment block before any
// code is the file doc.
package doc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rubiojr/guython/preprocess"
	"github.com/rubiojr/guython/scanner"
)

// FileDoc holds all extracted documentation for a single Guython file.
type FileDoc struct {
	Path  string
	Doc   string // file-level doc (first comment block before any code)
	Funcs []FuncDoc
	Vars  []VarDoc
}

// FuncDoc describes a documented function.
type FuncDoc struct {
	Name string // without the trailing underscore
	Doc  string
	Line int // 1-based line number of the def
}

// VarDoc describes a top-level variable, the same set an import exposes.
type VarDoc struct {
	Name string
	Expr string
	Doc  string
	Line int
}

// ExtractFile reads a Guython file and extracts all documentation.
func ExtractFile(path string) (*FileDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Extract(string(data), path), nil
}

// ExtractDir reads all Guython files in a directory (non-recursive). The
// entry file's doc becomes the top-level doc; other files contribute their
// functions and variables.
func ExtractDir(dir, entryFile string) (*FileDoc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	result := &FileDoc{Path: dir}
	entryBase := ""
	if entryFile != "" {
		entryBase = filepath.Base(entryFile)
		if fd, err := ExtractFile(entryFile); err == nil {
			result.Doc = fd.Doc
			result.Funcs = append(result.Funcs, fd.Funcs...)
			result.Vars = append(result.Vars, fd.Vars...)
		}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsGuythonFile(e.Name()) || e.Name() == entryBase {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		fd, err := ExtractFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		result.Funcs = append(result.Funcs, fd.Funcs...)
		result.Vars = append(result.Vars, fd.Vars...)
	}
	return result, nil
}

// Extract parses raw Guython source and returns structured documentation.
func Extract(src, path string) *FileDoc {
	fd := &FileDoc{Path: path}

	var block []string
	seenCode := false

	for i, raw := range preprocess.SourceLines(src) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(raw)

		if text, ok := commentLine(trimmed); ok {
			block = append(block, text)
			continue
		}

		l := preprocess.Split(raw, lineNum)
		if trimmed == "" {
			if len(block) > 0 && !seenCode {
				fd.Doc = strings.Join(block, "\n")
				seenCode = true
			}
			block = nil
			continue
		}
		if l.Empty() {
			continue
		}

		if !seenCode && len(block) > 0 {
			fd.Doc = strings.Join(block, "\n")
		}
		seenCode = true

		if l.Indent > 0 {
			block = nil
			continue
		}

		switch {
		case preprocess.HasKeyword(l.Code, "def"):
			if name := defName(l.Code); name != "" {
				fd.Funcs = append(fd.Funcs, FuncDoc{
					Name: name,
					Doc:  strings.Join(block, "\n"),
					Line: lineNum,
				})
			}
		default:
			if name, expr, ok := assignment(l.Code); ok {
				doc := strings.Join(block, "\n")
				if doc == "" {
					doc = trailingComment(trimmed)
				}
				fd.Vars = append(fd.Vars, VarDoc{Name: name, Expr: expr, Doc: doc, Line: lineNum})
			}
		}
		block = nil
	}
	return fd
}

// commentLine reports whether line holds nothing but {comments} and
// returns their text.
func commentLine(line string) (string, bool) {
	if !strings.HasPrefix(line, "{") || preprocess.StripComments(line) != "" {
		return "", false
	}
	var parts []string
	for _, seg := range strings.Split(line, "}") {
		seg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(seg), "{"))
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, " "), true
}

func trailingComment(line string) string {
	open := scanner.IndexInCode(line, preprocess.CommentOpen)
	if open < 0 {
		return ""
	}
	rest := line[open+1:]
	if end := strings.IndexByte(rest, preprocess.CommentClose); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// defName extracts the function name from `def<name>_`.
func defName(code string) string {
	rest := preprocess.KeywordArg(code, "def")
	if !strings.HasSuffix(rest, "_") {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSuffix(rest, "_"))
	if !preprocess.IsIdent(name) {
		return ""
	}
	return name
}

func assignment(code string) (name, expr string, ok bool) {
	eq := scanner.FindAssign(code)
	if eq < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(code[:eq])
	if !preprocess.IsIdent(name) || preprocess.Keywords[name] {
		return "", "", false
	}
	return name, strings.TrimSpace(code[eq+1:]), true
}

// IsGuythonFile returns true if the filename has a Guython extension.
func IsGuythonFile(name string) bool {
	return strings.HasSuffix(name, ".gy") || strings.HasSuffix(name, ".guy")
}

// LookupSymbol finds a function (with or without its trailing underscore)
// or a variable by name.
func LookupSymbol(fd *FileDoc, name string) (doc string, signature string, found bool) {
	fname := strings.TrimSuffix(name, "_")
	for _, f := range fd.Funcs {
		if f.Name == fname {
			return f.Doc, "def " + f.Name + "_", true
		}
	}
	for _, v := range fd.Vars {
		if v.Name == name {
			return v.Doc, v.Name + " = " + v.Expr, true
		}
	}
	return "", "", false
}
