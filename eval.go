package exprcalc

import (
	"io"
	"math"
	"strings"
)

// Value evaluates the expression. The error is a CalculationError if the
// expression divides by zero or a result does not fit in an int64.
func (e *Expr) Value() (int64, error) {
	return e.n.value()
}

// Eval is a shortcut to parse an expression and return its value.
func Eval(src io.RuneScanner, opts ...ParseOption) (int64, error) {
	a, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return a.Value()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ParseOption) (int64, error) {
	return Eval(strings.NewReader(src), opts...)
}

// value computes the value of the node from its children.
func (n *node) value() (int64, error) {
	switch n.kind {
	case nodeInteger:
		return n.num, nil
	case nodeParen:
		return n.left.value()
	case nodeLogical, nodeRelation, nodeBitwise, nodeTerm, nodeFactor:
		l, err := n.left.value()
		if err != nil {
			return 0, err
		}
		if n.sym == "" {
			return l, nil
		}
		r := defaultRight(n.op)
		if n.right != nil {
			r, err = n.right.value()
			if err != nil {
				return 0, err
			}
		}
		return n.apply(l, r)
	default:
		panic("exprcalc: invalid AST node " + n.kind.String())
	}
}

// defaultRight gives the right operand used by an operator whose node has no
// right child. Only trees built by hand can have an operator without a right
// operand; the parser always supplies one.
func defaultRight(op Op) int64 {
	switch op {
	case OpAnd, OpOr, OpXor:
		return 1
	case OpMul, OpDiv, OpMod:
		return 1
	case OpBitAnd:
		return -1
	default:
		return 0
	}
}

// apply computes the operation of a binary node on its operand values.
func (n *node) apply(l, r int64) (int64, error) {
	switch n.op {
	case OpAnd:
		return truth(l > 0 && r > 0), nil
	case OpOr:
		return truth(l > 0 || r > 0), nil
	case OpXor:
		return truth((l > 0) != (r > 0)), nil
	case OpLessEqual:
		return truth(l <= r), nil
	case OpGreaterEqual:
		return truth(l >= r), nil
	case OpEqual:
		return truth(l == r), nil
	case OpNotEqual:
		return truth(l != r), nil
	case OpLess:
		return truth(l < r), nil
	case OpGreater:
		return truth(l > r), nil
	case OpBitAnd:
		return l & r, nil
	case OpBitOr:
		return l | r, nil
	case OpBitXor:
		return l ^ r, nil
	case OpShiftLeft, OpShiftRight:
		if r < 0 || r > 63 {
			return 0, n.calcerr("shift count is out of range")
		}
		if n.op == OpShiftLeft {
			return l << uint(r), nil
		}
		return l >> uint(r), nil
	case OpAdd:
		s := l + r
		if (l > 0 && r > 0 && s < 0) || (l < 0 && r < 0 && s >= 0) {
			return 0, n.calcerr("result is out of bounds")
		}
		return s, nil
	case OpSub:
		s := l - r
		if (l >= 0 && r < 0 && s < 0) || (l < 0 && r > 0 && s >= 0) {
			return 0, n.calcerr("result is out of bounds")
		}
		return s, nil
	case OpMul:
		if l == 0 || r == 0 {
			return 0, nil
		}
		p := l * r
		if p/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return 0, n.calcerr("result is out of bounds")
		}
		return p, nil
	case OpDiv, OpMod:
		if r == 0 {
			return 0, n.calcerr("division by 0")
		}
		if r == -1 && l == math.MinInt64 {
			if n.op == OpMod {
				return 0, nil
			}
			return 0, n.calcerr("result is out of bounds")
		}
		if n.op == OpMod {
			return l % r, nil
		}
		return l / r, nil
	default:
		panic("exprcalc: no evaluation for operator " + n.op.String() + " (" + n.sym + ") in " + n.kind.String())
	}
}

// calcerr creates an error for a failed operation. The fragment is the tail
// of the left operand's display form with the operator and right operand, so
// that long expressions still give a short message.
func (n *node) calcerr(reason string) error {
	l := n.left.String()
	if len(l) > 5 {
		l = l[len(l)-5:]
	}
	r := ""
	if n.right != nil {
		r = n.right.String()
	}
	return &CalculationError{Fragment: l + n.sym + r, Rule: n.kind.rule(), Reason: reason}
}

func truth(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
