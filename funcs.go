package formula

import (
	"math"
	"math/big"
)

// Func is a native function callable from formulas. Arguments arrive already
// evaluated, left to right. Call may return an error to abort evaluation; it
// must not modify args after returning.
type Func interface {
	Call(args []float64) (float64, error)
}

type funcOf func(args []float64) (float64, error)

func (f funcOf) Call(args []float64) (float64, error) {
	return f(args)
}

// FuncOf wraps a function of any number of arguments which may fail.
func FuncOf(f func(args []float64) (float64, error)) Func {
	return funcOf(f)
}

type monadic struct {
	f func(float64) float64
}

func (m monadic) Call(args []float64) (float64, error) {
	return m.f(arg(args, 0)), nil
}

// Monadic wraps a function of one variable into a Func. A missing argument is
// passed as NaN and extra arguments are ignored.
func Monadic(f func(float64) float64) Func {
	return monadic{f}
}

type variadic struct {
	f func(...float64) float64
}

func (v variadic) Call(args []float64) (float64, error) {
	return v.f(args...), nil
}

// Variadic wraps a function of any number of arguments which cannot fail.
func Variadic(f func(...float64) float64) Func {
	return variadic{f}
}

// arg returns args[i], or NaN if there are too few args.
func arg(args []float64, i int) float64 {
	if i >= len(args) {
		return math.NaN()
	}
	return args[i]
}

// Builtins returns a new copy of the functions available to every formula.
func Builtins() map[string]Func {
	m := make(map[string]Func, len(builtins))
	for k, v := range builtins {
		m[k] = v
	}
	return m
}

// builtin is a built-in function. big computes the same function for
// EvalBig.
type builtin struct {
	Func
	big func(ctx *bigctx, args []*big.Float) (*big.Float, error)
}

var builtins = map[string]Func{
	"abs":   &builtin{FuncOf(abs), bigabs},
	"round": &builtin{Monadic(round), biground},
	"floor": &builtin{Monadic(math.Floor), bigfloor},
	"ceil":  &builtin{Monadic(math.Ceil), bigceil},
	"min":   &builtin{Variadic(minimum), bigmin},
	"max":   &builtin{Variadic(maximum), bigmax},
	"clamp": &builtin{FuncOf(clamp), bigclamp},
}

func abs(args []float64) (float64, error) {
	x := arg(args, 0)
	if !finite(x) {
		return 0, &DomainError{Func: "abs", Arg: 1, X: x}
	}
	return math.Abs(x), nil
}

// clamp is min(max(value, lo), hi) for finite arguments.
func clamp(args []float64) (float64, error) {
	for i := 0; i < 3; i++ {
		if x := arg(args, i); !finite(x) {
			return 0, &DomainError{Func: "clamp", Arg: i + 1, X: x}
		}
	}
	return math.Min(math.Max(args[0], args[1]), args[2]), nil
}

// round rounds half toward positive infinity, so round(-2.5) is -2.
func round(x float64) float64 {
	r := math.Round(x)
	if r-x == -0.5 {
		return r + 1
	}
	return r
}

// minimum is the least of xs, +Inf for no arguments, or NaN if any is NaN.
func minimum(xs ...float64) float64 {
	r := math.Inf(1)
	for _, x := range xs {
		r = math.Min(r, x)
	}
	return r
}

// maximum is the greatest of xs, -Inf for no arguments, or NaN if any is NaN.
func maximum(xs ...float64) float64 {
	r := math.Inf(-1)
	for _, x := range xs {
		r = math.Max(r, x)
	}
	return r
}

func finite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
