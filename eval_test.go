package formula_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/envy-ai/formula"
)

func TestEval(t *testing.T) {
	type vc struct {
		vars formula.Bindings
		r    float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, 1}}},
		{"frac", ".5 + 2.", []vc{{nil, 2.5}}},
		{"ident", "x", []vc{
			{formula.Bindings{"x": 4}, 4},
			{formula.Bindings{"x": 5.5}, 5.5},
			{formula.Bindings{"x": -6}, -6},
		}},
		{"neg", "-x", []vc{
			{formula.Bindings{"x": 4}, -4},
			{formula.Bindings{"x": -5}, 5},
		}},
		{"precedence", "2+3*4", []vc{{nil, 14}}},
		{"parens", "(2+3)*4", []vc{{nil, 20}}},
		{"add", "4+5+6", []vc{{nil, 4 + 5 + 6}}},
		{"sub", "4-5-6", []vc{{nil, 4 - 5 - 6}}},
		{"mul", "4*5*6", []vc{{nil, 4 * 5 * 6}}},
		{"div", "10/2/5", []vc{{nil, 1}}},
		{"divfrac", "4/5/6", []vc{{nil, 4.0 / 5.0 / 6.0}}},
		{"pow", "2^3^2", []vc{{nil, 512}}},
		{"negpow", "-2^2", []vc{{nil, 4}}},
		{"negoddpow", "-2^3", []vc{{nil, -8}}},
		{"subnegpow", "0-2^2", []vc{{nil, -4}}},
		{"fracpow", "4^0.5", []vc{{nil, 2}}},
		{"clamp", "clamp(15,0,10)", []vc{{nil, 10}}},
		{"absround", "abs(-5)+round(2.6)", []vc{{nil, 8}}},
		{"nested", "level*(attributes.count/2)", []vc{
			{formula.Bindings{"level": 4, "attributes": map[string]any{"count": 6}}, 12},
			{formula.Bindings{"level": 2, "attributes": formula.Bindings{"count": 3}}, 3},
			{formula.Bindings{"level": 2, "attributes": map[string]int{"count": 10}}, 10},
		}},
		{"exactdotted", "a.b", []vc{
			{formula.Bindings{"a.b": 1, "a": map[string]any{"b": 2}}, 1},
			{formula.Bindings{"a": map[string]any{"b": 2}}, 2},
		}},
		{"deep", "character.attributes.strength * 2", []vc{
			{formula.Bindings{"character": map[string]any{"attributes": map[string]any{"strength": 7}}}, 14},
		}},
		{"infinity", "infinity", []vc{
			{nil, 1e100},
			{formula.Bindings{"infinity": 3}, 1e100},
		}},
		{"min-infinity", "min(infinity, x)", []vc{{formula.Bindings{"x": 12}, 12}}},
		{"coerce", "a + b + c + d + e", []vc{
			{formula.Bindings{"a": true, "b": "2.5", "c": " ", "d": json.Number("4"), "e": uint8(1)}, 8.5},
			{formula.Bindings{"a": nil, "b": false, "c": "", "d": json.Number("0.5"), "e": 0}, 0.5},
		}},
		{"transient-inf", "1/(1/0)", []vc{{nil, 0}}},
		{"transient-min", "min(1/0, 3)", []vc{{nil, 3}}},
		{"game", "level * (number_of_attributes / 2) + number_of_skills", []vc{
			{formula.Bindings{"level": 3, "number_of_attributes": 6, "number_of_skills": 2}, 11},
			{formula.Bindings{"level": 1, "number_of_attributes": 1, "number_of_skills": 0}, 0.5},
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f, err := formula.Compile(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to compile:", err)
			}
			for _, v := range c.r {
				r, err := f.Eval(v.vars)
				if err != nil {
					t.Errorf("evaluating %q with %v: %v", c.src, v.vars, err)
					continue
				}
				if r != v.r {
					t.Errorf("wrong result from %q with %v: want %g, got %g", c.src, v.vars, v.r, r)
				}
			}
		})
	}
}

func TestEvalUndefNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars formula.Bindings
		r    string
	}{
		{"x", "x", nil, "x"},
		{"unknownVar", "unknownVar", formula.Bindings{}, "unknownVar"},
		{"case", "Level", formula.Bindings{"level": 1}, "Level"},
		{"neg", "-x", nil, "x"},
		{"add-rhs", "1+x", nil, "x"},
		{"pow-lhs", "x^1", nil, "x"},
		{"call", "abs(x)", nil, "x"},
		{"dotted-missing", "a.b", formula.Bindings{"a": map[string]any{"c": 1}}, "a.b"},
		{"dotted-scalar", "a.b", formula.Bindings{"a": 1}, "a.b"},
		{"dotted-nil", "a.b.c", formula.Bindings{"a": map[string]any{"b": nil}}, "a.b.c"},
		{"dotted-empty", "a..b", formula.Bindings{"a": map[string]any{"b": 1}}, "a..b"},
		{"trailing-dot", "a.", formula.Bindings{"a": 1}, "a."},
	}
	ure := regexp.MustCompile(`(?i)\bundefined\b`)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f, err := formula.Compile(c.src)
			if err != nil {
				t.Fatalf("%q failed to compile: %v", c.src, err)
			}
			r, err := f.Eval(c.vars)
			if err == nil {
				t.Fatalf("evaluating %q gave %g with no error", c.src, r)
			}
			var u *formula.NameError
			if !errors.As(err, &u) {
				t.Fatalf("error was %#v, not NameError", err)
			}
			if u.Name != c.r {
				t.Errorf("NameError on %q, want %q", u.Name, c.r)
			}
			if !errors.Is(err, formula.ErrEval) {
				t.Errorf("%v is not ErrEval", err)
			}
			msg := err.Error()
			if !ure.MatchString(msg) {
				t.Errorf(`%q doesn't mention "undefined"`, msg)
			}
			if !strings.Contains(msg, c.r) {
				t.Errorf(`%q doesn't mention %q`, msg, c.r)
			}
		})
	}
}

func TestEvalBadValues(t *testing.T) {
	cases := []struct {
		name string
		val  any
	}{
		{"inf", math.Inf(1)},
		{"nan", math.NaN()},
		{"word", "many"},
		{"infstring", "Inf"},
		{"map", map[string]any{"a": 1}},
		{"slice", []float64{1}},
	}
	f := formula.MustCompile("1 + x")
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := f.Eval(formula.Bindings{"x": c.val})
			var v *formula.ValueError
			if !errors.As(err, &v) {
				t.Fatalf("want ValueError, got %g with error %v", r, err)
			}
			if v.Name != "x" {
				t.Errorf("ValueError names %q, want x", v.Name)
			}
			if !strings.Contains(err.Error(), `"x"`) {
				t.Errorf("%q doesn't name the variable", err)
			}
		})
	}
}

func TestEvalResultNotFinite(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"div-zero", "1/0"},
		{"div-zero-neg", "-1/0"},
		{"zero-zero", "0/0"},
		{"inf-times-zero", "(1/0)*0"},
		{"overflow", "10^400"},
		{"overflow-literal", "1" + strings.Repeat("0", 400)},
		{"neg-frac-pow", "(-8)^(1/3)"},
		{"one-inf-pow", "1^(1/0)"},
		{"min-none", "min()"},
		{"max-none", "max()"},
		{"round-none", "round()"},
		{"floor-inf", "floor(1/0)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f, err := formula.Compile(c.src)
			if err != nil {
				t.Fatalf("%q failed to compile: %v", c.src, err)
			}
			r, err := f.Eval(nil)
			var re *formula.ResultError
			if !errors.As(err, &re) {
				t.Fatalf("evaluating %q: want ResultError, got %g with error %v", c.src, r, err)
			}
			if r != 0 {
				t.Errorf("evaluating %q returned partial result %g", c.src, r)
			}
			if !errors.Is(err, formula.ErrEval) {
				t.Errorf("%v is not ErrEval", err)
			}
		})
	}
}

func TestEvalIdempotent(t *testing.T) {
	f := formula.MustCompile("round(level * 1.5) + clamp(bonus, 0, 3) - abs(penalty)")
	vars := formula.Bindings{"level": 5, "bonus": 7, "penalty": -2}
	first, err := f.Eval(vars)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.Eval(vars)
	if err != nil {
		t.Fatal(err)
	}
	if first != second || first != 9 {
		t.Errorf("want 9 twice, got %g then %g", first, second)
	}
	if len(vars) != 3 || vars["level"] != 5 {
		t.Errorf("bindings changed: %v", vars)
	}
}

func TestEvalConcurrent(t *testing.T) {
	f := formula.MustCompile("x^2 + max(x, 10)")
	var wg sync.WaitGroup
	errs := make([]error, 64)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				x := float64(i + j)
				r, err := f.Eval(formula.Bindings{"x": x})
				if err != nil {
					errs[i] = err
					return
				}
				if want := x*x + math.Max(x, 10); r != want {
					errs[i] = fmt.Errorf("x=%g: want %g, got %g", x, want, r)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: %v", i, err)
		}
	}
}

func TestEvalLongChain(t *testing.T) {
	src := strings.Repeat("x + ", 50000) + "x"
	f, err := formula.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	r, err := f.Eval(formula.Bindings{"x": 1})
	if err != nil {
		t.Fatal(err)
	}
	if r != 50001 {
		t.Errorf("want 50001, got %g", r)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []string{"", "   ", "2+", "foo(1,2", "(1", "1 2", "a $ b"}
	for _, src := range cases {
		f, err := formula.Compile(src)
		if err == nil {
			t.Errorf("%q compiled to %v", src, f)
			continue
		}
		if !errors.Is(err, formula.ErrSyntax) {
			t.Errorf("%q gave %v, not ErrSyntax", src, err)
		}
		var ie formula.InputError
		if !errors.As(err, &ie) {
			t.Errorf("%q gave %v, not InputError", src, err)
		}
	}
}

func TestCompileTrims(t *testing.T) {
	f := formula.MustCompile("\n\t level * 2  \n")
	if s := f.Source(); s != "level * 2" {
		t.Errorf("wrong source %q", s)
	}
	if s := f.String(); s != "(level * 2)" {
		t.Errorf("wrong rendering %q", s)
	}
	_, err := formula.Compile("  $")
	var le *formula.LexError
	if !errors.As(err, &le) || le.Col != 1 {
		t.Errorf("want LexError at column 1 of the trimmed source, got %v", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic")
		}
	}()
	formula.MustCompile("(")
}

func BenchmarkEval(b *testing.B) {
	vars := formula.Bindings{
		"level":                4,
		"number_of_attributes": 6,
		"character":            map[string]any{"attributes": map[string]any{"strength": 12}},
	}
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		f := formula.MustCompile("2+3+4")
		for i := 0; i < b.N; i++ {
			f.Eval(nil)
		}
	})
	b.Run("vars", func(b *testing.B) {
		b.ReportAllocs()
		f := formula.MustCompile("level * (number_of_attributes / 2)")
		for i := 0; i < b.N; i++ {
			f.Eval(vars)
		}
	})
	b.Run("dotted", func(b *testing.B) {
		b.ReportAllocs()
		f := formula.MustCompile("clamp(character.attributes.strength / 2 - 5, -5, 5)")
		for i := 0; i < b.N; i++ {
			f.Eval(vars)
		}
	})
}

func Example() {
	f := formula.MustCompile("level * (number_of_attributes / 2)")
	for level := 1; level <= 3; level++ {
		r, err := f.Eval(formula.Bindings{"level": level, "number_of_attributes": 5})
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("level %d: %g\n", level, r)
	}
	_, err := f.Eval(formula.Bindings{"level": 1})
	fmt.Println(err)

	// Output:
	// level 1: 2.5
	// level 2: 5
	// level 3: 7.5
	// undefined variable: "number_of_attributes"
}
