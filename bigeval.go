package formula

import (
	"errors"
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// DefaultPrec is the precision EvalBig uses when given zero.
const DefaultPrec = 64

// EvalBig evaluates the formula like Eval, but computes with prec bits of
// mantissa instead of float64. Variables are still read as float64. Built-in
// functions are computed exactly; custom functions receive and return
// float64 values. An operation with no real result, such as 0/0 or a fraction
// power of a negative number, is a *DomainError.
func (f *Formula) EvalBig(vars Bindings, prec uint) (*big.Float, error) {
	if prec == 0 {
		prec = DefaultPrec
	}
	ctx := bigctx{evalctx: evalctx{vars: vars, funcs: f.funcs}, prec: prec}
	r, err := f.n.evalbig(&ctx)
	if err != nil {
		return nil, err
	}
	if r.IsInf() {
		return nil, &ResultError{Value: math.Inf(r.Sign())}
	}
	return r, nil
}

type bigctx struct {
	evalctx
	prec uint
}

func (ctx *bigctx) float() *big.Float {
	return new(big.Float).SetPrec(ctx.prec)
}

func (ctx *bigctx) set(x float64, op string) (*big.Float, error) {
	if math.IsNaN(x) {
		return nil, &DomainError{Func: op, X: x}
	}
	return ctx.float().SetFloat64(x), nil
}

func (n *node) evalbig(ctx *bigctx) (*big.Float, error) {
	switch n.kind {
	case nodeNum:
		if r, ok := ctx.float().SetString(n.name); ok {
			return r, nil
		}
		return ctx.float().SetFloat64(n.num), nil
	case nodeName:
		v, err := ctx.lookup(n.name)
		if err != nil {
			return nil, err
		}
		return ctx.float().SetFloat64(v), nil
	case nodeCall:
		fn := ctx.funcs[n.name]
		if fn == nil {
			return nil, &FuncError{Name: n.name}
		}
		args := make([]*big.Float, len(n.args))
		for i, a := range n.args {
			v, err := a.evalbig(ctx)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		if b, ok := fn.(*builtin); ok {
			return b.big(ctx, args)
		}
		fargs := make([]float64, len(args))
		for i, a := range args {
			fargs[i], _ = a.Float64()
		}
		r, err := fn.Call(fargs)
		if err != nil {
			return nil, err
		}
		return ctx.set(r, n.name)
	case nodeNeg:
		v, err := n.left.evalbig(ctx)
		if err != nil {
			return nil, err
		}
		return v.Neg(v), nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		l, err := n.left.evalbig(ctx)
		if err != nil {
			return nil, err
		}
		r, err := n.right.evalbig(ctx)
		if err != nil {
			return nil, err
		}
		z := ctx.float()
		switch n.kind {
		case nodeAdd:
			err = nanguard("+", func() { z.Add(l, r) })
		case nodeSub:
			err = nanguard("-", func() { z.Sub(l, r) })
		case nodeMul:
			err = nanguard("*", func() { z.Mul(l, r) })
		case nodeDiv:
			err = nanguard("/", func() { z.Quo(l, r) })
		default:
			return bigpow(ctx, l, r)
		}
		if err != nil {
			return nil, err
		}
		return z, nil
	default:
		panic("formula: invalid AST node " + n.kind.String())
	}
}

// nanguard runs f and converts a big.ErrNaN panic into a *DomainError.
// bigfloat panics with its own ErrNaN, which unwraps to big.ErrNaN.
func nanguard(op string, f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error)
		if !ok || !errors.As(e, new(big.ErrNaN)) {
			panic(r)
		}
		err = &DomainError{Func: op, X: math.NaN()}
	}()
	f()
	return nil
}

// bigpow computes x^y. Exponents that fit in an int64 are computed by
// repeated squaring. Others go through bigexp2. Infinite operands follow pow.
func bigpow(ctx *bigctx, x, y *big.Float) (*big.Float, error) {
	switch {
	case x.IsInf(), y.IsInf():
		xf, _ := x.Float64()
		yf, _ := y.Float64()
		return ctx.set(pow(xf, yf), "^")
	case y.Sign() == 0:
		return ctx.float().SetInt64(1), nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return ctx.float().SetInf(false), nil
		}
		return ctx.float(), nil
	}
	if k, acc := y.Int64(); acc == big.Exact {
		return powi(ctx, x, k), nil
	}
	neg := false
	if x.Sign() < 0 {
		if !y.IsInt() {
			xf, _ := x.Float64()
			return nil, &DomainError{Func: "^", Arg: 1, X: xf}
		}
		k, _ := y.Int(nil)
		neg = k.Bit(0) == 1
		x = new(big.Float).Abs(x)
	}
	var z *big.Float
	err := nanguard("^", func() { z = bigexp2(ctx, x, y) })
	if err != nil {
		return nil, err
	}
	if neg {
		z.Neg(z)
	}
	return z, nil
}

// bigexp2 computes x^y for positive finite x as 2^t with t = y*log2(x). The
// integer part of t becomes the binary exponent of the result, so bigfloat
// only ever sees arguments below 1 and the work depends on the precision
// alone.
func bigexp2(ctx *bigctx, x, y *big.Float) *big.Float {
	wp := ctx.prec + 128
	ln2 := bigfloat.Log(new(big.Float).SetPrec(wp), big.NewFloat(2))
	t := bigfloat.Log(new(big.Float).SetPrec(wp), x)
	t.Mul(t, y)
	t.Quo(t, ln2)
	switch tf, _ := t.Float64(); {
	case tf > big.MaxExp:
		return ctx.float().SetInf(false)
	case tf < big.MinExp-float64(ctx.prec):
		return ctx.float()
	}
	k, _ := t.Int(nil)
	if t.Sign() < 0 && !t.IsInt() {
		k.Sub(k, big.NewInt(1))
	}
	n := k.Int64()
	g := new(big.Float).SetPrec(wp).SetInt64(n)
	g.Sub(t, g)
	g.Mul(g, ln2)
	r := bigfloat.Exp(new(big.Float).SetPrec(wp), g)
	return ctx.float().SetMantExp(r, int(n))
}

// powi computes x^k for nonzero finite x.
func powi(ctx *bigctx, x *big.Float, k int64) *big.Float {
	u := uint64(k)
	if k < 0 {
		u = uint64(-(k + 1)) + 1
	}
	z := ctx.float().SetInt64(1)
	b := ctx.float().Set(x)
	for ; u > 0; u >>= 1 {
		if u&1 == 1 {
			z.Mul(z, b)
		}
		if u > 1 {
			b.Mul(b, b)
		}
	}
	if k < 0 {
		z.Quo(ctx.float().SetInt64(1), z)
	}
	return z
}

// bigarg returns args[i], or a *DomainError if there are too few args or
// args[i] is infinite.
func bigarg(fn string, args []*big.Float, i int) (*big.Float, error) {
	if i >= len(args) {
		return nil, &DomainError{Func: fn, Arg: i + 1, X: math.NaN()}
	}
	if args[i].IsInf() {
		return nil, &DomainError{Func: fn, Arg: i + 1, X: math.Inf(args[i].Sign())}
	}
	return args[i], nil
}

func bigabs(ctx *bigctx, args []*big.Float) (*big.Float, error) {
	x, err := bigarg("abs", args, 0)
	if err != nil {
		return nil, err
	}
	return ctx.float().Abs(x), nil
}

func bigfloor(ctx *bigctx, args []*big.Float) (*big.Float, error) {
	if len(args) == 0 {
		return nil, &DomainError{Func: "floor", Arg: 1, X: math.NaN()}
	}
	return floorbig(ctx, args[0]), nil
}

func bigceil(ctx *bigctx, args []*big.Float) (*big.Float, error) {
	if len(args) == 0 {
		return nil, &DomainError{Func: "ceil", Arg: 1, X: math.NaN()}
	}
	x := new(big.Float).Neg(args[0])
	z := floorbig(ctx, x)
	return z.Neg(z), nil
}

// biground rounds half toward positive infinity, like round.
func biground(ctx *bigctx, args []*big.Float) (*big.Float, error) {
	if len(args) == 0 {
		return nil, &DomainError{Func: "round", Arg: 1, X: math.NaN()}
	}
	x := args[0]
	z := floorbig(ctx, x)
	if x.IsInf() {
		return z, nil
	}
	frac := new(big.Float).SetPrec(x.Prec()).Sub(x, z)
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		z.Add(z, big.NewFloat(1))
	}
	return z, nil
}

func floorbig(ctx *bigctx, x *big.Float) *big.Float {
	z := ctx.float()
	if x.IsInf() || x.IsInt() {
		return z.Set(x)
	}
	t, _ := x.Int(nil)
	if x.Sign() < 0 {
		t.Sub(t, big.NewInt(1))
	}
	return z.SetInt(t)
}

func bigmin(ctx *bigctx, args []*big.Float) (*big.Float, error) {
	z := ctx.float().SetInf(false)
	for _, x := range args {
		if x.Cmp(z) < 0 {
			z.Set(x)
		}
	}
	return z, nil
}

func bigmax(ctx *bigctx, args []*big.Float) (*big.Float, error) {
	z := ctx.float().SetInf(true)
	for _, x := range args {
		if x.Cmp(z) > 0 {
			z.Set(x)
		}
	}
	return z, nil
}

func bigclamp(ctx *bigctx, args []*big.Float) (*big.Float, error) {
	for i := 0; i < 3; i++ {
		if _, err := bigarg("clamp", args, i); err != nil {
			return nil, err
		}
	}
	z := ctx.float().Set(args[0])
	if z.Cmp(args[1]) < 0 {
		z.Set(args[1])
	}
	if z.Cmp(args[2]) > 0 {
		z.Set(args[2])
	}
	return z, nil
}
