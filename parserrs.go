package formula

import (
	"errors"
	"strconv"
)

// ErrSyntax is the error that every error from malformed formula text unwraps
// to.
var ErrSyntax = errors.New("formula syntax error")

// LexError indicates a character that cannot begin any token. It implements
// InputError.
type LexError struct {
	// Char is the offending character.
	Char rune
	// Col is the 1-based column of Char, counted in runes.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, "unexpected character "+strconv.QuoteRune(err.Char))
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return ErrSyntax
}

// TokenError indicates a well-formed token in a place the grammar does not
// allow it, including tokens left over after a complete expression. It
// implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the text of the token, or the empty string for end of input.
	Token string
	// Trailing is true when the token follows a complete expression.
	Trailing bool
}

func (err *TokenError) Error() string {
	tok := "end of input"
	if err.Token != "" {
		tok = strconv.Quote(err.Token)
	}
	if err.Trailing {
		return errpos(err.Col, "unexpected "+tok+" after end of expression")
	}
	return errpos(err.Col, "unexpected "+tok)
}

func (err *TokenError) Pos() int {
	return err.Col
}

func (err *TokenError) Unwrap() error {
	return ErrSyntax
}

// BracketError indicates an open parenthesis with no matching close. It
// implements InputError.
type BracketError struct {
	// Col is the position of the token found where ) was expected.
	Col int
	// Context is "function arguments" or "expression".
	Context string
	// Found describes the token found instead of ).
	Found string
}

func (err *BracketError) Error() string {
	return errpos(err.Col, "expected ) to close "+err.Context+", found "+err.Found)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Unwrap() error {
	return ErrSyntax
}

// EmptyExpressionError indicates that the input ended where an operand was
// required, including an input with no expression at all.
type EmptyExpressionError struct {
	// Col is the position of the end of input.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	if err.Col <= 1 {
		return errpos(err.Col, "empty expression")
	}
	return errpos(err.Col, "no expression at end")
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Unwrap() error {
	return ErrSyntax
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid formula text implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the character or token that
	// caused the error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
)
