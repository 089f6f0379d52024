// Package errs defines the Guython error taxonomy: syntax, runtime and
// security errors, each carrying a code from a closed set.
//
// Codes double as sentinels, so callers can write
//
//	errors.Is(err, errs.ErrUndefinedVariable)
//
// regardless of the message or wrapping.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the top-level error category.
type Kind int

const (
	Syntax Kind = iota
	Runtime
	Security
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Runtime:
		return "RuntimeError"
	case Security:
		return "SecurityError"
	}
	return "Error"
}

// Code identifies a specific failure.
type Code int

const (
	_ Code = iota
	InvalidName
	MissingCondition
	BadDefinition
	BadGoto
	BadImport

	UndefinedVariable
	UndefinedFunction
	UndefinedAttribute
	UnsupportedExpression
	InvalidExpression
	TypeMismatch
	DivisionByZero
	BuiltinFailed
	ModuleNotFound
	MaxIterationsExceeded
	JumpOutOfRange
	JumpCeilingExceeded
	JumpIntoOpenBlock
	CallDepthExceeded

	ForbiddenCall
	ForbiddenAttribute
)

var codeNames = map[Code]string{
	InvalidName:           "InvalidName",
	MissingCondition:      "MissingCondition",
	BadDefinition:         "BadDefinition",
	BadGoto:               "BadGoto",
	BadImport:             "BadImport",
	UndefinedVariable:     "UndefinedVariable",
	UndefinedFunction:     "UndefinedFunction",
	UndefinedAttribute:    "UndefinedAttribute",
	UnsupportedExpression: "UnsupportedExpression",
	InvalidExpression:     "InvalidExpression",
	TypeMismatch:          "TypeMismatch",
	DivisionByZero:        "DivisionByZero",
	BuiltinFailed:         "BuiltinFailed",
	ModuleNotFound:        "ModuleNotFound",
	MaxIterationsExceeded: "MaxIterationsExceeded",
	JumpOutOfRange:        "JumpOutOfRange",
	JumpCeilingExceeded:   "JumpCeilingExceeded",
	JumpIntoOpenBlock:     "JumpIntoOpenBlock",
	CallDepthExceeded:     "CallDepthExceeded",
	ForbiddenCall:         "ForbiddenCall",
	ForbiddenAttribute:    "ForbiddenAttribute",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is a classified Guython error.
type Error struct {
	Kind Kind
	Code Code
	Msg  string
	// Line is the 1-based source line, 0 when not yet known.
	Line int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code. A target with a zero code
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == 0 {
		return t.Kind == e.Kind
	}
	return t.Code == e.Code
}

func newf(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Syntaxf builds a SyntaxError.
func Syntaxf(code Code, format string, args ...any) *Error {
	return newf(Syntax, code, format, args...)
}

// Runtimef builds a RuntimeError.
func Runtimef(code Code, format string, args ...any) *Error {
	return newf(Runtime, code, format, args...)
}

// Securityf builds a SecurityError.
func Securityf(code Code, format string, args ...any) *Error {
	return newf(Security, code, format, args...)
}

// Wrap classifies err as a RuntimeError with code unless it already is a
// Guython error, in which case it is returned unchanged.
func Wrap(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) {
		return err
	}
	e := newf(Runtime, code, format, args...)
	e.Err = err
	return e
}

// AtLine stamps a line number on err if it is a Guython error without one.
func AtLine(err error, line int) error {
	var ge *Error
	if errors.As(err, &ge) && ge.Line == 0 {
		ge.Line = line
	}
	return err
}

// IsSecurity reports whether err is a SecurityError.
func IsSecurity(err error) bool {
	return errors.Is(err, ErrSecurity)
}

// CodeOf returns the code of a Guython error, or 0.
func CodeOf(err error) Code {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 0
}

// Sentinels for errors.Is.
var (
	ErrSyntax   = &Error{Kind: Syntax}
	ErrRuntime  = &Error{Kind: Runtime}
	ErrSecurity = &Error{Kind: Security}

	ErrInvalidName           = &Error{Kind: Syntax, Code: InvalidName}
	ErrMissingCondition      = &Error{Kind: Syntax, Code: MissingCondition}
	ErrBadDefinition         = &Error{Kind: Syntax, Code: BadDefinition}
	ErrBadGoto               = &Error{Kind: Syntax, Code: BadGoto}
	ErrBadImport             = &Error{Kind: Syntax, Code: BadImport}
	ErrUndefinedVariable     = &Error{Kind: Runtime, Code: UndefinedVariable}
	ErrUndefinedFunction     = &Error{Kind: Runtime, Code: UndefinedFunction}
	ErrUndefinedAttribute    = &Error{Kind: Runtime, Code: UndefinedAttribute}
	ErrUnsupportedExpression = &Error{Kind: Runtime, Code: UnsupportedExpression}
	ErrInvalidExpression     = &Error{Kind: Runtime, Code: InvalidExpression}
	ErrTypeMismatch          = &Error{Kind: Runtime, Code: TypeMismatch}
	ErrDivisionByZero        = &Error{Kind: Runtime, Code: DivisionByZero}
	ErrBuiltinFailed         = &Error{Kind: Runtime, Code: BuiltinFailed}
	ErrModuleNotFound        = &Error{Kind: Runtime, Code: ModuleNotFound}
	ErrMaxIterations         = &Error{Kind: Runtime, Code: MaxIterationsExceeded}
	ErrJumpOutOfRange        = &Error{Kind: Runtime, Code: JumpOutOfRange}
	ErrJumpCeiling           = &Error{Kind: Runtime, Code: JumpCeilingExceeded}
	ErrJumpIntoOpenBlock     = &Error{Kind: Runtime, Code: JumpIntoOpenBlock}
	ErrCallDepth             = &Error{Kind: Runtime, Code: CallDepthExceeded}
	ErrForbiddenCall         = &Error{Kind: Security, Code: ForbiddenCall}
	ErrForbiddenAttribute    = &Error{Kind: Security, Code: ForbiddenAttribute}
)
