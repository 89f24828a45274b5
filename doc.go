// Package formula implements the numeric formula language game designers use
// to describe derived values, e.g. "level * (number_of_attributes / 2)".
//
// A formula is compiled once and evaluated many times against Bindings, which
// map variable names to numbers or to nested maps. Dotted names such as
// "character.attributes.strength" walk nested maps when no binding has the
// exact dotted name. Evaluation is pure: nothing is logged, cached, or
// mutated, so a compiled Formula may be evaluated from any number of
// goroutines at once.
//
// The grammar has the usual + - * / with left associativity and a
// right-associative ^. Unary minus binds tighter than ^, so "-2^2" is 4.
// The name "infinity" always evaluates to 1e100.
package formula
