package exprcalc

import (
	"strconv"
	"strings"
)

// node is a node in the expression tree. Nodes are never modified after the
// parser creates them.
type node struct {
	kind nodeKind

	// num is the value of an integer literal.
	num int64
	// op is the operation of a binary node, and sym is the opcode as it was
	// written. Both are zero for a pass-through node.
	op  Op
	sym string

	// left is the operand of a parenthesized node or the left operand of a
	// binary node. right is nil for pass-through nodes.
	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeInteger // num
	nodeParen   // value of left

	// Binary tiers, loosest first. Without sym, the value is that of left.
	nodeLogical
	nodeRelation
	nodeBitwise
	nodeTerm
	nodeFactor
)

var kindnames = [...]string{
	nodeNone:     "None",
	nodeInteger:  "Integer",
	nodeParen:    "Parenthesized",
	nodeLogical:  "Logical",
	nodeRelation: "Relation",
	nodeBitwise:  "Bitwise",
	nodeTerm:     "Term",
	nodeFactor:   "Factor",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

// binary reports whether nodes of kind k are binary tier nodes.
func (k nodeKind) binary() bool {
	return k >= nodeLogical && k <= nodeFactor
}

// passthrough reports whether n is a binary node with no operator.
func (n *node) passthrough() bool {
	return n.kind.binary() && n.sym == "" && n.right == nil
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the display form of n, which is the source text of the tree
// without whitespace.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeInteger:
		b.WriteString(strconv.FormatInt(n.num, 10))
	case nodeParen:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeLogical, nodeRelation, nodeBitwise, nodeTerm, nodeFactor:
		n.left.fmt(b)
		b.WriteString(n.sym)
		if n.right != nil {
			n.right.fmt(b)
		}
	default:
		panic("exprcalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
