package exprcalc

import "strconv"

// Op is an operation selected by an opcode.
type Op int8

const (
	OpNone Op = iota

	OpAnd // logical and
	OpOr  // logical or
	OpXor // logical xor

	OpLessEqual
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpLess
	OpGreater

	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight

	OpAdd
	OpSub

	OpMul
	OpDiv
	OpMod
)

var opnames = [...]string{
	OpNone:         "None",
	OpAnd:          "And",
	OpOr:           "Or",
	OpXor:          "Xor",
	OpLessEqual:    "LessEqual",
	OpGreaterEqual: "GreaterEqual",
	OpEqual:        "Equal",
	OpNotEqual:     "NotEqual",
	OpLess:         "Less",
	OpGreater:      "Greater",
	OpBitAnd:       "BitAnd",
	OpBitOr:        "BitOr",
	OpBitXor:       "BitXor",
	OpShiftLeft:    "ShiftLeft",
	OpShiftRight:   "ShiftRight",
	OpAdd:          "Add",
	OpSub:          "Sub",
	OpMul:          "Mul",
	OpDiv:          "Div",
	OpMod:          "Mod",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opnames) {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return opnames[op]
}

// opcode is a textual operator token and the operation it selects.
type opcode struct {
	sym string
	op  Op
}

// Operator tables, one per tier. Each is ordered longest symbol first, which
// is the order the parser tries them in.
var (
	logicalOps = []opcode{
		{"and", OpAnd},
		{"xor", OpXor},
		{"&&", OpAnd},
		{"||", OpOr},
		{"or", OpOr},
		{"^", OpXor},
	}
	relationOps = []opcode{
		{"<=", OpLessEqual},
		{">=", OpGreaterEqual},
		{"==", OpEqual},
		{"!=", OpNotEqual},
		{"<", OpLess},
		{">", OpGreater},
	}
	bitwiseOps = []opcode{
		{"<<", OpShiftLeft},
		{">>", OpShiftRight},
		{"&", OpBitAnd},
		{"|", OpBitOr},
		{"^", OpBitXor},
	}
	termOps = []opcode{
		{"+", OpAdd},
		{"-", OpSub},
	}
	factorOps = []opcode{
		{"*", OpMul},
		{"/", OpDiv},
		{"%", OpMod},
	}
)

// logicalWordOps is the logical table used when the bitwise tier is enabled
// and claims "^" for itself.
var logicalWordOps = logicalOps[:len(logicalOps)-1]

// tier describes one precedence level of the grammar.
type tier struct {
	kind nodeKind
	ops  []opcode
	// signed means that an opcode at the very start of the text is a sign
	// applied to an implicit zero.
	signed bool
}

var (
	logicalTier  = tier{kind: nodeLogical, ops: logicalOps}
	relationTier = tier{kind: nodeRelation, ops: relationOps}
	bitwiseTier  = tier{kind: nodeBitwise, ops: bitwiseOps}
	termTier     = tier{kind: nodeTerm, ops: termOps, signed: true}
	factorTier   = tier{kind: nodeFactor, ops: factorOps}

	// standardTiers is the grammar from loosest to tightest binding.
	standardTiers = []tier{logicalTier, relationTier, termTier, factorTier}
	// bitwiseTiers is the extended grammar.
	bitwiseTiers = []tier{
		{kind: nodeLogical, ops: logicalWordOps},
		relationTier,
		bitwiseTier,
		termTier,
		factorTier,
	}
)

// lookup finds the operation for sym in the tier. The result is OpNone if the
// tier has no such opcode.
func (t *tier) lookup(sym string) Op {
	for _, c := range t.ops {
		if c.sym == sym {
			return c.op
		}
	}
	return OpNone
}

// opset is every opcode across a grammar, longest symbol first.
type opset []opcode

func newOpset(tiers []tier) opset {
	var s opset
	for _, t := range tiers {
		for _, c := range t.ops {
			have := false
			for _, d := range s {
				if d.sym == c.sym {
					have = true
					break
				}
			}
			if !have {
				s = append(s, c)
			}
		}
	}
	// Stable insertion sort by descending length keeps table order among
	// symbols of equal length.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && len(s[j].sym) > len(s[j-1].sym); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
	return s
}

var (
	standardOpset = newOpset(standardTiers)
	bitwiseOpset  = newOpset(bitwiseTiers)
)

// match returns the longest symbol in the set which occurs in text at byte
// offset i, or the empty string if there is none.
func (s opset) match(text string, i int) string {
	for _, c := range s {
		if len(text)-i >= len(c.sym) && text[i:i+len(c.sym)] == c.sym {
			return c.sym
		}
	}
	return ""
}

// token is an opcode occurrence in normalized text.
type token struct {
	pos int
	sym string
}

// tokens splits the operators out of text greedily from left to right, taking
// the longest symbol at each position. Every byte of text belongs to at most
// one token, so "xor" never also yields "or" and "<<" never yields "<".
func (s opset) tokens(text string) []token {
	var v []token
	for i := 0; i < len(text); {
		sym := s.match(text, i)
		if sym == "" {
			i++
			continue
		}
		v = append(v, token{pos: i, sym: sym})
		i += len(sym)
	}
	return v
}

// Opcodes returns the symbols of each tier of the standard grammar, loosest
// tier first, with each tier's symbols in matching order. If bitwise is true,
// the result describes the extended grammar instead.
func Opcodes(bitwise bool) [][]string {
	tiers := standardTiers
	if bitwise {
		tiers = bitwiseTiers
	}
	r := make([][]string, len(tiers))
	for i, t := range tiers {
		r[i] = make([]string, len(t.ops))
		for j, c := range t.ops {
			r[i][j] = c.sym
		}
	}
	return r
}
