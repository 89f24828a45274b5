package formula

import (
	"strings"
)

// node is a node in the abstract syntax tree of a formula. Nodes are never
// modified after parsing.
type node struct {
	kind nodeKind

	// num is the value of a nodeNum.
	num float64
	// name is the literal text of a nodeNum, the variable of a nodeName, or
	// the function of a nodeCall.
	name string

	left  *node
	right *node
	args  []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // num
	nodeName // lookup(name)
	nodeCall // call name with args

	nodeNeg // negate left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right
)

//go:generate go mod edit -require=golang.org/x/tools@v0.40.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

// binop returns the operator text for a binary node kind.
func (k nodeKind) binop() string {
	switch k {
	case nodeAdd:
		return "+"
	case nodeSub:
		return "-"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodePow:
		return "^"
	default:
		return ""
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes a fully parenthesized rendering of n which parses back to the
// same tree.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, arg := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			arg.fmt(b)
		}
		b.WriteByte(')')
	case nodeNeg:
		b.WriteString("(-")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.kind.binop())
		b.WriteByte(' ')
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("formula: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// walk calls f for n and each node beneath it in pre-order, left to right.
func (n *node) walk(f func(*node)) {
	f(n)
	switch n.kind {
	case nodeCall:
		for _, arg := range n.args {
			arg.walk(f)
		}
	case nodeNeg:
		n.left.walk(f)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		n.left.walk(f)
		n.right.walk(f)
	}
}
