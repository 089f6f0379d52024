package builtins

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/value"
)

func init() {
	register(&FuncDef{Name: "int", Args: []ArgType{Any}, Doc: "Convert n to an integer, truncating floats and parsing strings.", Impl: convInt})
	register(&FuncDef{Name: "float", Args: []ArgType{Any}, Doc: "Convert n to a float, parsing strings.", Impl: convFloat})
	register(&FuncDef{Name: "str", Args: []ArgType{Any}, Doc: "Return the printed form of v.", Impl: convStr})
	register(&FuncDef{Name: "len", Args: []ArgType{Any}, Doc: "Return the length of a string or the number of names in a namespace.", Impl: convLen})
}

func convInt(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.IntKind, value.BoolKind:
		return value.Int(v.AsInt()), nil
	case value.FloatKind:
		return value.IntFromFloat(v.AsFloat())
	case value.StringKind:
		s := strings.TrimSpace(v.AsString())
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return value.Value{}, errs.Runtimef(errs.BuiltinFailed, "invalid literal for int() with base 10: %s", v.Repr())
		}
		return value.Int(i), nil
	}
	return value.Value{}, errs.Runtimef(errs.TypeMismatch, "int() argument must be a string or a number, not '%s'", v.Kind())
}

func convFloat(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.IntKind, value.BoolKind, value.FloatKind:
		return value.Float(v.AsFloat()), nil
	case value.StringKind:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.AsString()), 64)
		if err != nil {
			return value.Value{}, errs.Runtimef(errs.BuiltinFailed, "could not convert string to float: %s", v.Repr())
		}
		return value.Float(f), nil
	}
	return value.Value{}, errs.Runtimef(errs.TypeMismatch, "float() argument must be a string or a number, not '%s'", v.Kind())
}

func convStr(args []value.Value) (value.Value, error) {
	return value.String(args[0].String()), nil
}

func convLen(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.StringKind:
		return value.Int(int64(utf8.RuneCountInString(v.AsString()))), nil
	case value.NamespaceKind:
		return value.Int(int64(v.AsNamespace().Len())), nil
	}
	return value.Value{}, errs.Runtimef(errs.TypeMismatch, "object of type '%s' has no len()", v.Kind())
}
