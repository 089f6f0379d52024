package builtins

import (
	"errors"
	"math"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/value"
)

var errDomain = errors.New("math domain error")

func init() {
	register(&FuncDef{Name: "abs", Args: []ArgType{Number}, Doc: "Return the absolute value of n.", Impl: mathAbs})
	register(&FuncDef{Name: "round", Args: []ArgType{Number, Int}, Optional: 1, Doc: "Round n half to even; with digits, round to that many decimals.", Impl: mathRound})
	register(&FuncDef{Name: "max", Args: []ArgType{Any}, Variadic: true, Doc: "Return the largest argument.", Impl: mathMax})
	register(&FuncDef{Name: "min", Args: []ArgType{Any}, Variadic: true, Doc: "Return the smallest argument.", Impl: mathMin})
	register(&FuncDef{Name: "sum", Args: []ArgType{Number}, Optional: 1, Variadic: true, Doc: "Return the sum of the arguments.", Impl: mathSum})
	register(&FuncDef{Name: "sqrt", Args: []ArgType{Number}, Doc: "Return the square root of n.", Impl: floatFn(sqrt)})
	register(&FuncDef{Name: "sin", Args: []ArgType{Number}, Doc: "Return the sine of n (radians).", Impl: floatFn(math.Sin)})
	register(&FuncDef{Name: "cos", Args: []ArgType{Number}, Doc: "Return the cosine of n (radians).", Impl: floatFn(math.Cos)})
	register(&FuncDef{Name: "tan", Args: []ArgType{Number}, Doc: "Return the tangent of n (radians).", Impl: floatFn(math.Tan)})

	registerConst(&Const{Name: "pi", Value: value.Float(math.Pi), Doc: "The value of Pi."})
	registerConst(&Const{Name: "e", Value: value.Float(math.E), Doc: "Euler's number."})
}

func floatFn(fn func(float64) float64) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		r := fn(args[0].AsFloat())
		if math.IsNaN(r) && !math.IsNaN(args[0].AsFloat()) {
			return value.Value{}, errDomain
		}
		return value.Float(r), nil
	}
}

func sqrt(x float64) float64 {
	if x < 0 {
		return math.NaN()
	}
	return math.Sqrt(x)
}

func mathAbs(args []value.Value) (value.Value, error) {
	v := args[0]
	if v.Kind() == value.FloatKind {
		return value.Float(math.Abs(v.AsFloat())), nil
	}
	if v.AsInt() < 0 {
		return value.Neg(v)
	}
	return value.Int(v.AsInt()), nil
}

func mathRound(args []value.Value) (value.Value, error) {
	v := args[0]
	if len(args) == 1 {
		if v.Kind() != value.FloatKind {
			return value.Int(v.AsInt()), nil
		}
		return value.IntFromFloat(math.RoundToEven(v.AsFloat()))
	}
	digits := args[1].AsInt()
	if v.Kind() != value.FloatKind {
		if digits >= 0 {
			return value.Int(v.AsInt()), nil
		}
		p := math.Pow(10, float64(-digits))
		return value.IntFromFloat(math.RoundToEven(float64(v.AsInt())/p) * p)
	}
	p := math.Pow(10, float64(digits))
	return value.Float(math.RoundToEven(v.AsFloat()*p) / p), nil
}

func mathMax(args []value.Value) (value.Value, error) { return extreme(value.Gt, "max", args) }

func mathMin(args []value.Value) (value.Value, error) { return extreme(value.Lt, "min", args) }

// extreme returns the first argument that beats every other under op.
func extreme(op value.CmpOp, name string, args []value.Value) (value.Value, error) {
	best := args[0]
	for _, a := range args[1:] {
		better, err := value.Compare(op, a, best)
		if err != nil {
			return value.Value{}, err
		}
		if better {
			best = a
		}
	}
	if best.Kind() == value.NamespaceKind {
		return value.Value{}, errs.Runtimef(errs.TypeMismatch, "%s() argument must be a number or string", name)
	}
	return best, nil
}

func mathSum(args []value.Value) (value.Value, error) {
	total := value.Int(0)
	for _, a := range args {
		var err error
		if total, err = value.Add(total, a); err != nil {
			return value.Value{}, err
		}
	}
	return total, nil
}
