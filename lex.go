package formula

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

// describe names the token for error messages.
func (t lexToken) describe() string {
	if t.kind == tokenEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal number.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenOp is one of the operators in Operators.
	tokenOp
	// tokenParen is ( or ).
	tokenParen
	// tokenComma separates function arguments.
	tokenComma
)

//go:generate go mod edit -require=golang.org/x/tools@v0.40.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token
//go:generate go mod tidy

// Operators contains the characters which are lexed as operators.
const Operators = "+-*/^"

// lexer scans tokens from a source string. It holds at most one token of
// lookahead.
type lexer struct {
	src string
	// off is the byte offset of the next unscanned character.
	off int
	// col is the 1-based rune column of the next unscanned character.
	col int
	// p is the token scanned by peek but not yet consumed by next.
	p lexToken
}

func lex(src string) *lexer {
	return &lexer{src: src, col: 1}
}

// peek returns the next token without consuming it.
func (l *lexer) peek() (lexToken, error) {
	if l.p.kind != tokenNone {
		return l.p, nil
	}
	tok, err := l.scan()
	if err != nil {
		return tok, err
	}
	l.p = tok
	return tok, nil
}

// next consumes and returns the next token. Once the input is exhausted, next
// returns an EOF token on every call.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	return l.scan()
}

func (l *lexer) scan() (lexToken, error) {
	for l.off < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.off:])
		if !unicode.IsSpace(r) {
			break
		}
		l.off += sz
		l.col++
	}
	tok := lexToken{pos: l.col}
	if l.off >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	c := l.src[l.off]
	switch {
	case isDigit(c), c == '.' && l.off+1 < len(l.src) && isDigit(l.src[l.off+1]):
		tok.kind = tokenNum
		tok.text = l.scanNum()
	case c == '_', isLetter(c):
		tok.kind = tokenIdent
		tok.text = l.scanIdent()
	case c == '+', c == '-', c == '*', c == '/', c == '^':
		tok.kind = tokenOp
		tok.text = l.take(1)
	case c == '(', c == ')':
		tok.kind = tokenParen
		tok.text = l.take(1)
	case c == ',':
		tok.kind = tokenComma
		tok.text = l.take(1)
	default:
		r, _ := utf8.DecodeRuneInString(l.src[l.off:])
		return tok, &LexError{Char: r, Col: l.col}
	}
	return tok, nil
}

// take consumes n ASCII bytes and returns them.
func (l *lexer) take(n int) string {
	s := l.src[l.off : l.off+n]
	l.off += n
	l.col += n
	return s
}

// scanNum consumes \d+(\.\d*)? or \.\d+. The caller has checked that a
// number starts at the cursor.
func (l *lexer) scanNum() string {
	i := l.off
	for i < len(l.src) && isDigit(l.src[i]) {
		i++
	}
	if i < len(l.src) && l.src[i] == '.' {
		i++
		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	}
	return l.take(i - l.off)
}

func (l *lexer) scanIdent() string {
	i := l.off + 1
	for i < len(l.src) {
		c := l.src[i]
		if c != '_' && c != '.' && !isLetter(c) && !isDigit(c) {
			break
		}
		i++
	}
	return l.take(i - l.off)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
