package formula

import (
	"strconv"
)

// Expression = Term { ('+' | '-') Term }
// Term       = Exponent { ('*' | '/') Exponent }
// Exponent   = Unary [ '^' Exponent ]
// Unary      = '-' Unary | Primary
// Primary    = num | name | name '(' [ Expression { ',' Expression } ] ')' | '(' Expression ')'
//
// Unary minus is more binding than exponentiation, so -2^2 is (-2)^2.

// parse parses a complete formula. Every token of src must be consumed.
func parse(src string) (*node, error) {
	scan := lex(src)
	n, err := parseexpr(scan)
	if err != nil {
		return nil, err
	}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, &TokenError{Col: tok.pos, Token: tok.text, Trailing: true}
	}
	return n, nil
}

// parseexpr parses a sum. Chains of + and - build left-associated nodes in a
// loop.
func parseexpr(scan *lexer) (*node, error) {
	n, err := parseterm(scan)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.peek()
		if err != nil {
			return nil, err
		}
		var kind nodeKind
		switch {
		case tok.kind == tokenOp && tok.text == "+":
			kind = nodeAdd
		case tok.kind == tokenOp && tok.text == "-":
			kind = nodeSub
		default:
			return n, nil
		}
		scan.next()
		rhs, err := parseterm(scan)
		if err != nil {
			return nil, err
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// parseterm parses a product. Chains of * and / build left-associated nodes
// in a loop.
func parseterm(scan *lexer) (*node, error) {
	n, err := parsepow(scan)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.peek()
		if err != nil {
			return nil, err
		}
		var kind nodeKind
		switch {
		case tok.kind == tokenOp && tok.text == "*":
			kind = nodeMul
		case tok.kind == tokenOp && tok.text == "/":
			kind = nodeDiv
		default:
			return n, nil
		}
		scan.next()
		rhs, err := parsepow(scan)
		if err != nil {
			return nil, err
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// parsepow parses an exponentiation. The exponent recurses, so ^ is
// right-associative.
func parsepow(scan *lexer) (*node, error) {
	n, err := parseunary(scan)
	if err != nil {
		return nil, err
	}
	tok, err := scan.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOp || tok.text != "^" {
		return n, nil
	}
	scan.next()
	rhs, err := parsepow(scan)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodePow, left: n, right: rhs}, nil
}

func parseunary(scan *lexer) (*node, error) {
	tok, err := scan.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenOp && tok.text == "-" {
		scan.next()
		operand, err := parseunary(scan)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeNeg, left: operand}, nil
	}
	return parseprimary(scan)
}

func parseprimary(scan *lexer) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		// The lexer only produces decimal digits with at most one dot, so the
		// only possible error is range. Huge literals become +Inf, which the
		// final finiteness check reports.
		v, _ := strconv.ParseFloat(tok.text, 64)
		return &node{kind: nodeNum, num: v, name: tok.text}, nil
	case tokenIdent:
		open, err := scan.peek()
		if err != nil {
			return nil, err
		}
		if open.kind != tokenParen || open.text != "(" {
			return &node{kind: nodeName, name: tok.text}, nil
		}
		scan.next()
		args, err := parseargs(scan)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, name: tok.text, args: args}, nil
	case tokenParen:
		if tok.text != "(" {
			break
		}
		n, err := parseexpr(scan)
		if err != nil {
			return nil, err
		}
		end, err := scan.next()
		if err != nil {
			return nil, err
		}
		if end.kind != tokenParen || end.text != ")" {
			return nil, &BracketError{Col: end.pos, Context: "expression", Found: end.describe()}
		}
		return n, nil
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	}
	return nil, &TokenError{Col: tok.pos, Token: tok.text}
}

// parseargs parses a call's argument list following its open parenthesis,
// through the closing parenthesis.
func parseargs(scan *lexer) ([]*node, error) {
	tok, err := scan.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenParen && tok.text == ")" {
		scan.next()
		return nil, nil
	}
	var args []*node
	for {
		arg, err := parseexpr(scan)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		end, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch {
		case end.kind == tokenComma:
			continue
		case end.kind == tokenParen && end.text == ")":
			return args, nil
		default:
			return nil, &BracketError{Col: end.pos, Context: "function arguments", Found: end.describe()}
		}
	}
}
