package formula

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// InfinitySentinel is the value of the name "infinity" in every formula,
// whatever the bindings say. It is finite so that formulas using it pass the
// result check.
const InfinitySentinel = 1e100

// evalctx holds what one evaluation needs. It lives only for one call.
type evalctx struct {
	vars  Bindings
	funcs map[string]Func
}

// eval computes the node's value. Both operands of every operator are always
// evaluated.
func (n *node) eval(ctx *evalctx) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		return ctx.lookup(n.name)
	case nodeCall:
		fn := ctx.funcs[n.name]
		if fn == nil {
			return 0, &FuncError{Name: n.name}
		}
		args := make([]float64, len(n.args))
		for i, a := range n.args {
			v, err := a.eval(ctx)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return fn.Call(args)
	case nodeNeg:
		v, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		l, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case nodeAdd:
			return l + r, nil
		case nodeSub:
			return l - r, nil
		case nodeMul:
			return l * r, nil
		case nodeDiv:
			return l / r, nil
		default:
			return pow(l, r), nil
		}
	default:
		panic("formula: invalid AST node " + n.kind.String())
	}
}

// lookup resolves a variable to a finite number.
func (ctx *evalctx) lookup(name string) (float64, error) {
	if name == "infinity" {
		return InfinitySentinel, nil
	}
	v, ok := Resolve(ctx.vars, name)
	if !ok {
		return 0, &NameError{Name: name}
	}
	x, ok := toFloat(v)
	if !ok || !finite(x) {
		return 0, &ValueError{Name: name, Value: v}
	}
	return x, nil
}

// pow is math.Pow except that (±1)^±Inf and 1^NaN are NaN.
func pow(x, y float64) float64 {
	switch {
	case math.IsNaN(y):
		return math.NaN()
	case math.IsInf(y, 0) && math.Abs(x) == 1:
		return math.NaN()
	}
	return math.Pow(x, y)
}

// toFloat converts a bound value to a number. Strings are trimmed and parsed
// as decimal numbers, with the empty string as zero. Booleans are 1 and 0,
// and nil is 0.
func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, true
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return x, true
	case json.Number:
		x, err := v.Float64()
		return x, err == nil
	case nil:
		return 0, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
