package exprcalc

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Indent is the text added for each level of nesting in serialized trees.
const Indent = "    "

// document is the serialized form of a node. Field order is the key order of
// the output.
type document struct {
	Type       string    `json:"type"`
	Left       *document `json:"left,omitempty"`
	Opcode     string    `json:"opcode,omitempty"`
	Right      *document `json:"right,omitempty"`
	Expression *document `json:"expression,omitempty"`
	Value      int64     `json:"value"`
}

// document builds the serialized form of the tree rooted at n. If skipEmpty
// is true, pass-through nodes are replaced by their operands. Each node's
// value is computed once from the values of its children's documents.
func (n *node) document(skipEmpty bool) (*document, error) {
	switch n.kind {
	case nodeInteger:
		return &document{Type: n.kind.String(), Value: n.num}, nil
	case nodeParen:
		e, err := n.left.document(skipEmpty)
		if err != nil {
			return nil, err
		}
		return &document{Type: n.kind.String(), Expression: e, Value: e.Value}, nil
	case nodeLogical, nodeRelation, nodeBitwise, nodeTerm, nodeFactor:
		l, err := n.left.document(skipEmpty)
		if err != nil {
			return nil, err
		}
		if skipEmpty && n.passthrough() {
			return l, nil
		}
		d := document{Type: n.kind.String(), Left: l, Opcode: n.sym, Value: l.Value}
		r := defaultRight(n.op)
		if n.right != nil {
			if d.Right, err = n.right.document(skipEmpty); err != nil {
				return nil, err
			}
			r = d.Right.Value
		}
		if n.sym != "" {
			if d.Value, err = n.apply(l.Value, r); err != nil {
				return nil, err
			}
		}
		return &d, nil
	default:
		panic("exprcalc: invalid AST node " + n.kind.String())
	}
}

// JSON serializes the expression tree. Each node is an object holding its
// type and value, and its operands and opcode if it has them. If skipEmpty is
// true, binary nodes with no operator are omitted in favor of their operands,
// so the result shows only the operators written in the source.
//
// Nested objects are indented by one Indent per level. level is the depth at
// which the result will be embedded: every line but the first is prefixed by
// level Indents. Because every value in the tree is computed, JSON fails with
// a CalculationError wherever Value would.
func (e *Expr) JSON(skipEmpty bool, level int) (string, error) {
	d, err := e.n.document(skipEmpty)
	if err != nil {
		return "", err
	}
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	// Opcodes like < and & should appear as written.
	enc.SetEscapeHTML(false)
	enc.SetIndent(strings.Repeat(Indent, level), Indent)
	if err := enc.Encode(d); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// MarshalJSON implements json.Marshaler. It serializes the full tree,
// including pass-through nodes.
func (e *Expr) MarshalJSON() ([]byte, error) {
	d, err := e.n.document(false)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte("\n")), nil
}
