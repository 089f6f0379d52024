package value

import (
	"math"
	"math/bits"
	"strings"

	"github.com/rubiojr/guython/errs"
)

// intLike reports whether v participates in integer arithmetic.
func intLike(v Value) bool { return v.kind == IntKind || v.kind == BoolKind }

func mismatch(op string, a, b Value) error {
	return errs.Runtimef(errs.TypeMismatch, "unsupported operand types for %s: '%s' and '%s'", op, a.kind, b.kind)
}

func numeric(op string, a, b Value) error {
	if a.IsNumeric() && b.IsNumeric() {
		return nil
	}
	return mismatch(op, a, b)
}

// Add implements `+`.
func Add(a, b Value) (Value, error) {
	if a.kind == StringKind && b.kind == StringKind {
		return String(a.s + b.s), nil
	}
	if err := numeric("+", a, b); err != nil {
		return Value{}, err
	}
	if intLike(a) && intLike(b) {
		if r, ok := addChecked(a.i, b.i); ok {
			return Int(r), nil
		}
	}
	return Float(a.AsFloat() + b.AsFloat()), nil
}

// Sub implements `-`.
func Sub(a, b Value) (Value, error) {
	if err := numeric("-", a, b); err != nil {
		return Value{}, err
	}
	if intLike(a) && intLike(b) {
		if r, ok := subChecked(a.i, b.i); ok {
			return Int(r), nil
		}
	}
	return Float(a.AsFloat() - b.AsFloat()), nil
}

// Mul implements `*`, including string repetition.
func Mul(a, b Value) (Value, error) {
	if a.kind == StringKind && intLike(b) {
		return repeat(a.s, b.i)
	}
	if intLike(a) && b.kind == StringKind {
		return repeat(b.s, a.i)
	}
	if err := numeric("*", a, b); err != nil {
		return Value{}, err
	}
	if intLike(a) && intLike(b) {
		if r, ok := mulChecked(a.i, b.i); ok {
			return Int(r), nil
		}
	}
	return Float(a.AsFloat() * b.AsFloat()), nil
}

// MaxStringLen bounds strings built by repetition.
const MaxStringLen = 1 << 28

func repeat(s string, n int64) (Value, error) {
	if n <= 0 || s == "" {
		return String(""), nil
	}
	if n > int64(MaxStringLen/len(s)) {
		return Value{}, errs.Runtimef(errs.TypeMismatch, "repeated string is too long (%d x %d bytes)", n, len(s))
	}
	return String(strings.Repeat(s, int(n))), nil
}

// Div implements true division `/`; the result is always a Float.
func Div(a, b Value) (Value, error) {
	if err := numeric("/", a, b); err != nil {
		return Value{}, err
	}
	if b.AsFloat() == 0 {
		return Value{}, errs.Runtimef(errs.DivisionByZero, "division by zero")
	}
	return Float(a.AsFloat() / b.AsFloat()), nil
}

// FloorDiv implements `//`, rounding toward negative infinity.
func FloorDiv(a, b Value) (Value, error) {
	if err := numeric("//", a, b); err != nil {
		return Value{}, err
	}
	if b.AsFloat() == 0 {
		return Value{}, errs.Runtimef(errs.DivisionByZero, "integer division or modulo by zero")
	}
	if intLike(a) && intLike(b) {
		q := a.i / b.i
		if a.i%b.i != 0 && (a.i < 0) != (b.i < 0) {
			q--
		}
		return Int(q), nil
	}
	return Float(math.Floor(a.AsFloat() / b.AsFloat())), nil
}

// Mod implements `%`; a non-zero result takes the sign of the divisor.
func Mod(a, b Value) (Value, error) {
	if err := numeric("%", a, b); err != nil {
		return Value{}, err
	}
	if b.AsFloat() == 0 {
		return Value{}, errs.Runtimef(errs.DivisionByZero, "integer division or modulo by zero")
	}
	if intLike(a) && intLike(b) {
		r := a.i % b.i
		if r != 0 && (r < 0) != (b.i < 0) {
			r += b.i
		}
		return Int(r), nil
	}
	y := b.AsFloat()
	r := math.Mod(a.AsFloat(), y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return Float(r), nil
}

// Pow implements `**` and `^`. Integer powers that overflow int64 fall back
// to Float.
func Pow(a, b Value) (Value, error) {
	if err := numeric("**", a, b); err != nil {
		return Value{}, err
	}
	if intLike(a) && intLike(b) {
		if b.i >= 0 {
			if r, ok := intPow(a.i, b.i); ok {
				return Int(r), nil
			}
			return Float(math.Pow(float64(a.i), float64(b.i))), nil
		}
		if a.i == 0 {
			return Value{}, errs.Runtimef(errs.DivisionByZero, "0 cannot be raised to a negative power")
		}
	}
	x, y := a.AsFloat(), b.AsFloat()
	if x == 0 && y < 0 {
		return Value{}, errs.Runtimef(errs.DivisionByZero, "0.0 cannot be raised to a negative power")
	}
	return Float(math.Pow(x, y)), nil
}

// intPow computes base**exp by squaring, reporting false on overflow.
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			r, ok := mulChecked(result, base)
			if !ok {
				return 0, false
			}
			result = r
		}
		exp >>= 1
		if exp > 0 {
			b, ok := mulChecked(base, base)
			if !ok {
				return 0, false
			}
			base = b
		}
	}
	return result, true
}

// addChecked and subChecked report false on int64 overflow. Callers then
// promote to Float, the same rule Pow applies.
func addChecked(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func subChecked(a, b int64) (int64, bool) {
	r := a - b
	if (b > 0 && r > a) || (b < 0 && r < a) {
		return 0, false
	}
	return r, true
}

func mulChecked(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	neg := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}
	hi, lo := bits.Mul64(ua, ub)
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	if neg {
		return -int64(lo), true
	}
	return int64(lo), true
}

// Neg implements unary minus.
func Neg(a Value) (Value, error) {
	switch {
	case intLike(a):
		if a.i == math.MinInt64 {
			return Float(-float64(a.i)), nil
		}
		return Int(-a.i), nil
	case a.kind == FloatKind:
		return Float(-a.f), nil
	}
	return Value{}, errs.Runtimef(errs.TypeMismatch, "bad operand type for unary -: '%s'", a.kind)
}

// Pos implements unary plus.
func Pos(a Value) (Value, error) {
	switch {
	case intLike(a):
		return Int(a.i), nil
	case a.kind == FloatKind:
		return a, nil
	}
	return Value{}, errs.Runtimef(errs.TypeMismatch, "bad operand type for unary +: '%s'", a.kind)
}

// Equal implements `==`. Numbers compare by value across kinds; other kinds
// are equal only to the same kind with the same payload.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		if intLike(a) && intLike(b) {
			return a.i == b.i
		}
		return a.AsFloat() == b.AsFloat()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case StringKind:
		return a.s == b.s
	case NamespaceKind:
		return a.ns == b.ns
	}
	return false
}

// CmpOp is a comparison operator.
type CmpOp string

const (
	Eq CmpOp = "=="
	Ne CmpOp = "!="
	Lt CmpOp = "<"
	Le CmpOp = "<="
	Gt CmpOp = ">"
	Ge CmpOp = ">="
)

// Compare applies a comparison operator. Only numbers with numbers and
// strings with strings can be ordered; equality never fails.
func Compare(op CmpOp, a, b Value) (bool, error) {
	switch op {
	case Eq:
		return Equal(a, b), nil
	case Ne:
		return !Equal(a, b), nil
	}
	if a.kind == StringKind && b.kind == StringKind {
		return order(op, strings.Compare(a.s, b.s), 0), nil
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return false, errs.Runtimef(errs.TypeMismatch, "'%s' not supported between instances of '%s' and '%s'", op, a.kind, b.kind)
	}
	if intLike(a) && intLike(b) {
		return order(op, a.i, b.i), nil
	}
	return order(op, a.AsFloat(), b.AsFloat()), nil
}

func order[T int | int64 | float64](op CmpOp, x, y T) bool {
	switch op {
	case Lt:
		return x < y
	case Le:
		return x <= y
	case Gt:
		return x > y
	case Ge:
		return x >= y
	}
	return false
}

// IntFromFloat truncates f toward zero. Infinities, NaN and values outside
// the int64 range are rejected rather than wrapped.
func IntFromFloat(f float64) (Value, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, errs.Runtimef(errs.BuiltinFailed, "cannot convert float %s to integer", FormatFloat(f))
	}
	t := math.Trunc(f)
	if t >= 1<<63 || t < -(1<<63) {
		return Value{}, errs.Runtimef(errs.BuiltinFailed, "float %s is too large to convert to integer", FormatFloat(f))
	}
	return Int(int64(t)), nil
}
