package formula

import (
	"strings"
)

// Formula is a compiled formula. It is immutable, so Eval and EvalBig are safe
// to call concurrently.
type Formula struct {
	// src is the trimmed source text.
	src string
	// n is the root node of the expression.
	n *node
	// funcs is this formula's own merge of the built-ins and custom functions.
	funcs map[string]Func
}

// Option is an option for compiling.
type Option interface {
	apply(funcs map[string]Func)
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
)

// WithFunc makes a custom function available to the formula, replacing any
// built-in with the same name. A nil fn removes the function instead.
func WithFunc(name string, fn Func) Option {
	return &funcopt{name, fn}
}

func (o *funcopt) apply(funcs map[string]Func) {
	setfunc(funcs, o.name, o.fn)
}

// WithFuncs is WithFunc for each entry of fns.
func WithFuncs(fns map[string]Func) Option {
	return funcsopt(fns)
}

func (o funcsopt) apply(funcs map[string]Func) {
	for k, v := range o {
		setfunc(funcs, k, v)
	}
}

func setfunc(funcs map[string]Func, name string, fn Func) {
	if fn == nil {
		delete(funcs, name)
		return
	}
	funcs[name] = fn
}

// Compile parses a formula so it can be evaluated against many sets of
// bindings. Leading and trailing whitespace is ignored. The options are
// applied in order over the built-in functions.
func Compile(src string, opts ...Option) (*Formula, error) {
	src = strings.TrimSpace(src)
	n, err := parse(src)
	if err != nil {
		return nil, err
	}
	funcs := Builtins()
	for _, opt := range opts {
		opt.apply(funcs)
	}
	return &Formula{src: src, n: n, funcs: funcs}, nil
}

// MustCompile is like Compile but panics if the formula cannot be parsed.
func MustCompile(src string, opts ...Option) *Formula {
	f, err := Compile(src, opts...)
	if err != nil {
		panic("formula: Compile(" + quote(src) + "): " + err.Error())
	}
	return f
}

// Eval evaluates the formula with the given bindings, which may be nil. The
// result is always finite; a formula that produces an infinite or NaN value
// returns a *ResultError. Intermediate values may be non-finite.
func (f *Formula) Eval(vars Bindings) (float64, error) {
	ctx := evalctx{vars: vars, funcs: f.funcs}
	r, err := f.n.eval(&ctx)
	if err != nil {
		return 0, err
	}
	if !finite(r) {
		return 0, &ResultError{Value: r}
	}
	return r, nil
}

// Source returns the formula text that was compiled, without surrounding
// whitespace.
func (f *Formula) Source() string {
	return f.src
}

// String renders the parsed formula with every operation parenthesized.
func (f *Formula) String() string {
	return f.n.String()
}

func quote(s string) string {
	return "`" + s + "`"
}
