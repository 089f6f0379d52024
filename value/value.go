// Package value implements the Guython value model: a closed set of kinds
// (Int, Float, String, Bool, Namespace) with fixed coercion rules.
//
// Coercion rules, decided once:
//   - Bool takes part in arithmetic and ordering as Int 0 or 1.
//   - Int combined with Float promotes to Float.
//   - `/` always yields Float; `//` floors; `%` takes the sign of the divisor.
//   - String supports `+` with String and `*` with Int; anything else mixing a
//     String with a number is a TypeMismatch.
//   - `==` and `!=` between incompatible kinds are false and true; ordering
//     a String against a number is a TypeMismatch.
package value

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind enumerates the value variants.
type Kind int

const (
	IntKind Kind = iota
	FloatKind
	StringKind
	BoolKind
	NamespaceKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "str"
	case BoolKind:
		return "bool"
	case NamespaceKind:
		return "namespace"
	}
	return "unknown"
}

// Value is a tagged union. The zero Value is Int 0.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	ns   *Namespace
}

// Namespace is a read-only mapping of module-level names to values.
type Namespace struct {
	Name   string
	fields map[string]Value
}

// NewNamespace copies fields into a new namespace.
func NewNamespace(name string, fields map[string]Value) *Namespace {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &Namespace{Name: name, fields: cp}
}

// Get returns a field.
func (n *Namespace) Get(name string) (Value, bool) {
	v, ok := n.fields[name]
	return v, ok
}

// Names returns the sorted field names.
func (n *Namespace) Names() []string {
	names := make([]string, 0, len(n.fields))
	for k := range n.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields.
func (n *Namespace) Len() int { return len(n.fields) }

// Int builds an Int value.
func Int(i int64) Value { return Value{kind: IntKind, i: i} }

// Float builds a Float value.
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }

// String builds a String value.
func String(s string) Value { return Value{kind: StringKind, s: s} }

// Bool builds a Bool value.
func Bool(b bool) Value {
	if b {
		return Value{kind: BoolKind, i: 1}
	}
	return Value{kind: BoolKind}
}

// NS wraps a namespace.
func NS(n *Namespace) Value { return Value{kind: NamespaceKind, ns: n} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// AsInt returns the integer payload of an Int or Bool.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the payload of a numeric value as float64.
func (v Value) AsFloat() float64 {
	if v.kind == FloatKind {
		return v.f
	}
	return float64(v.i)
}

// AsString returns the payload of a String.
func (v Value) AsString() string { return v.s }

// AsBool returns the payload of a Bool.
func (v Value) AsBool() bool { return v.i != 0 }

// AsNamespace returns the payload of a Namespace, or nil.
func (v Value) AsNamespace() *Namespace { return v.ns }

// IsNumeric reports whether v takes part in arithmetic (Int, Float, Bool).
func (v Value) IsNumeric() bool {
	return v.kind == IntKind || v.kind == FloatKind || v.kind == BoolKind
}

// Truthy reports the boolean interpretation of v.
func (v Value) Truthy() bool {
	switch v.kind {
	case IntKind, BoolKind:
		return v.i != 0
	case FloatKind:
		return v.f != 0
	case StringKind:
		return v.s != ""
	}
	return true
}

// String renders v the way print shows it.
func (v Value) String() string {
	switch v.kind {
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return FormatFloat(v.f)
	case StringKind:
		return v.s
	case BoolKind:
		if v.i != 0 {
			return "True"
		}
		return "False"
	case NamespaceKind:
		var sb strings.Builder
		sb.WriteString("namespace(")
		for i, name := range v.ns.Names() {
			if i > 0 {
				sb.WriteString(", ")
			}
			f, _ := v.ns.Get(name)
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(f.Repr())
		}
		sb.WriteByte(')')
		return sb.String()
	}
	return "?"
}

// Repr renders v the way it would be written in source: strings quoted.
func (v Value) Repr() string {
	if v.kind == StringKind {
		return "'" + strings.ReplaceAll(v.s, "'", `\'`) + "'"
	}
	return v.String()
}

// FormatFloat renders f with the shortest representation that round-trips,
// always keeping a fractional part or exponent so it reads as a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
