package formula

import (
	"errors"
	"strconv"
)

// ErrEval is the error that every error from evaluating a compiled formula
// unwraps to.
var ErrEval = errors.New("formula evaluation error")

// NameError is an error from a lookup for a variable that is missing from the
// bindings.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Unwrap() error {
	return ErrEval
}

// ValueError is an error for a variable bound to something that is not a
// finite number.
type ValueError struct {
	// Name is the variable.
	Name string
	// Value is the bound value.
	Value any
}

func (err *ValueError) Error() string {
	return "variable " + strconv.Quote(err.Name) + " is not a finite number"
}

func (err *ValueError) Unwrap() error {
	return ErrEval
}

// FuncError is an error for a call to a function that is not in the formula's
// function table.
type FuncError struct {
	// Name is the function that was called.
	Name string
}

func (err *FuncError) Error() string {
	return "unknown function: " + strconv.Quote(err.Name)
}

func (err *FuncError) Unwrap() error {
	return ErrEval
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain.
type DomainError struct {
	// Func is a name identifying the function or operator.
	Func string
	// Arg is the 1-based index of the argument, or 0 if not specific to one.
	Arg int
	// X is the out-of-domain argument.
	X float64
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain of " + err.Func
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return ErrEval
}

// ResultError indicates a formula whose final value is infinite or NaN, e.g.
// after a division by zero.
type ResultError struct {
	// Value is the non-finite result.
	Value float64
}

func (err *ResultError) Error() string {
	return "formula result is not finite: " + strconv.FormatFloat(err.Value, 'g', -1, 64)
}

func (err *ResultError) Unwrap() error {
	return ErrEval
}
