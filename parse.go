package exprcalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Logical  = Relation | Logical ('and' | '&&' | 'or' | '||' | 'xor' | '^') Relation
// Relation = Term | Relation ('<=' | '>=' | '==' | '!=' | '<' | '>') Term
// Term     = Factor | Term ('+' | '-') Factor | ('+' | '-') Term
// Factor   = Primary | Factor ('*' | '/' | '%') Primary
// Primary  = integer | '(' Logical ')'
//
// With the Bitwise option, Bitwise sits between Relation and Term:
// Bitwise  = Term | Bitwise ('<<' | '>>' | '&' | '|' | '^') Term

// Expr is a parsed expression. An Expr is immutable and safe for concurrent
// use.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses an expression. The given options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	text, err := lex(src).normalize()
	if err != nil {
		return nil, err
	}
	p := defaultctx()
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	var n *node
	if isDigits(text) {
		// A lone literal needs no tiers around it.
		n, err = literal(text)
	} else {
		n, err = p.parsetier(0, span{text: text, toks: p.ops.tokens(text)})
	}
	if err != nil {
		return nil, err
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// span is a part of the normalized input along with the opcode tokens inside
// it. The input is tokenized once; parts share its token slice.
type span struct {
	text string
	// off is the offset of text in the input. Token positions are relative
	// to the input, so text[toks[k].pos-off:] starts with toks[k].sym.
	off  int
	toks []token
}

// pos gives the position of the kth token within s.text.
func (s span) pos(k int) int {
	return s.toks[k].pos - s.off
}

// left and right give the parts of s on either side of its kth token.
func (s span) left(k int) span {
	return span{text: s.text[:s.pos(k)], off: s.off, toks: s.toks[:k]}
}

func (s span) right(k int) span {
	end := s.pos(k) + len(s.toks[k].sym)
	return span{text: s.text[end:], off: s.off + end, toks: s.toks[k+1:]}
}

// inner gives s without its first and last bytes, which must be parentheses.
func (s span) inner() span {
	return span{text: s.text[1 : len(s.text)-1], off: s.off + 1, toks: s.toks}
}

// signed gives s with an implicit zero before it. The zero occupies the
// offset just before s, which no token of s can cover.
func (s span) signed() span {
	return span{text: "0" + s.text, off: s.off - 1, toks: s.toks}
}

// parsetier parses s as a node of the tier at index i of the grammar, or as a
// primary if i is past the last tier.
func (p *parsectx) parsetier(i int, s span) (*node, error) {
	if i >= len(p.tiers) {
		return p.parseprimary(s)
	}
	t := &p.tiers[i]
	rule := t.kind.rule()
	defer p.leave()
	if err := p.enter(rule, s.text); err != nil {
		return nil, err
	}
	if t.signed && len(s.toks) > 0 && s.pos(0) == 0 && t.lookup(s.toks[0].sym) != OpNone {
		// -x -> 0-x
		return p.parsetier(i, s.signed())
	}
	k, ok := split(t, s)
	if !ok {
		left, err := p.parsetier(i+1, s)
		if err != nil {
			return nil, err
		}
		return &node{kind: t.kind, left: left}, nil
	}
	l, r := s.left(k), s.right(k)
	if l.text == "" {
		return nil, &SyntaxError{Fragment: s.text, Rule: rule, Reason: "left operand is missing"}
	}
	if r.text == "" {
		return nil, &SyntaxError{Fragment: s.text, Rule: rule, Reason: "right operand is missing"}
	}
	left, err := p.parsetier(i, l)
	if err != nil {
		return nil, err
	}
	right, err := p.parsetier(i, r)
	if err != nil {
		return nil, err
	}
	sym := s.toks[k].sym
	n := node{
		kind:  t.kind,
		op:    t.lookup(sym),
		sym:   sym,
		left:  left,
		right: right,
	}
	return &n, nil
}

// split finds the last token of tier t in s which is outside every pair of
// parentheses. Taking the last one makes the tier left-associative: 8-3-2
// splits into 8-3 and 2. The scan stops at an open parenthesis with no match
// to its right; the primary parser reports that mismatch.
func split(t *tier, s span) (int, bool) {
	k := len(s.toks) - 1
	depth := 0
	for i := len(s.text) - 1; i >= 0 && depth >= 0; i-- {
		switch s.text[i] {
		case ')':
			depth++
			continue
		case '(':
			depth--
			continue
		}
		for k >= 0 && s.pos(k) > i {
			k--
		}
		if k < 0 {
			break
		}
		if depth == 0 && s.pos(k) == i && t.lookup(s.toks[k].sym) != OpNone {
			return k, true
		}
	}
	return 0, false
}

// parseprimary parses an integer literal or a parenthesized subexpression.
func (p *parsectx) parseprimary(s span) (*node, error) {
	defer p.leave()
	if err := p.enter(RulePrimary, s.text); err != nil {
		return nil, err
	}
	text := s.text
	paren := false
	var depth int
	for {
		var wrapped bool
		wrapped, depth = enclosed(s.text)
		if !wrapped {
			break
		}
		if depth != 0 {
			return nil, &BracesError{Fragment: s.text, Rule: RulePrimary}
		}
		if s.text == "" {
			return nil, &SyntaxError{Fragment: text, Rule: RulePrimary, Reason: "part of the expression is empty"}
		}
		s = s.inner()
		paren = true
		if _, ok, err := parseint(s.text); err != nil {
			return nil, err
		} else if ok {
			return p.paren(s)
		}
	}
	if frag := stray(s); frag != "" {
		return nil, &OperatorError{Fragment: frag, Rule: RulePrimary}
	}
	if depth != 0 {
		return nil, &BracesError{Fragment: s.text, Rule: RulePrimary}
	}
	v, ok, err := parseint(s.text)
	switch {
	case err != nil:
		return nil, err
	case ok && paren:
		return p.paren(s)
	case ok:
		return &node{kind: nodeInteger, num: v}, nil
	case paren:
		return p.paren(s)
	default:
		// A bare subexpression, e.g. the contents of (1+2)*3 after the
		// multiplication has been split off.
		return p.parsetier(0, s)
	}
}

// paren parses the contents of a pair of parentheses.
func (p *parsectx) paren(s span) (*node, error) {
	n, err := p.parsetier(0, s)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeParen, left: n}, nil
}

// enter records a nested parse and checks the nesting limit. Callers must
// defer leave regardless of the result.
func (p *parsectx) enter(rule Rule, text string) error {
	p.depth++
	if p.maxdepth > 0 && p.depth > p.maxdepth {
		return &SyntaxError{Fragment: text, Rule: rule, Reason: "expression is nested too deeply"}
	}
	return nil
}

func (p *parsectx) leave() {
	p.depth--
}

// enclosed scans s for parentheses. wrapped is false if some character other
// than a parenthesis occurs outside every pair. depth is the nesting depth at
// the end of s, or the first negative depth if a close parenthesis has no
// match.
func enclosed(s string) (wrapped bool, depth int) {
	wrapped = true
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if depth == 0 {
				wrapped = false
			}
		}
		if depth < 0 {
			break
		}
	}
	return wrapped, depth
}

// parseint parses s as an optionally signed decimal integer. ok is false and
// err is nil if s is not a number at all. err is a CalculationError if s is
// a number outside the range of int64.
func parseint(s string) (v int64, ok bool, err error) {
	v, err = strconv.ParseInt(s, 10, 64)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, strconv.ErrRange):
		return 0, false, &CalculationError{Fragment: s, Rule: RuleInteger, Reason: "number is out of bounds"}
	default:
		return 0, false, nil
	}
}

// literal creates an integer node from a run of digits.
func literal(s string) (*node, error) {
	v, ok, err := parseint(s)
	if err != nil {
		return nil, err
	}
	if !ok {
		panic("exprcalc: literal called on non-number " + strconv.Quote(s))
	}
	return &node{kind: nodeInteger, num: v}, nil
}

// stray returns the text that keeps s from being a valid primary, or the
// empty string if there is none. That is operands written next to each other
// with no operator between, and characters which are not digits, parentheses,
// or part of an opcode.
func stray(s span) string {
	return adjacent(s.text) + residue(s)
}

// adjacent finds the first place where a parenthesized group directly
// follows or precedes another operand, with a little context around it.
func adjacent(s string) string {
	for i := 0; i+1 < len(s); i++ {
		a, b := s[i], s[i+1]
		if a == ')' && (b == '(' || isDigit(rune(b))) || isDigit(rune(a)) && b == '(' {
			return around(s, i, i+2, 3)
		}
	}
	return ""
}

// residue finds the first run of characters in s which are neither digits,
// parentheses, nor part of an opcode.
func residue(s span) string {
	var b strings.Builder
	last := 0
	for k, t := range s.toks {
		pos := s.pos(k)
		b.WriteString(s.text[last:pos])
		last = pos + len(t.sym)
	}
	b.WriteString(s.text[last:])
	r := b.String()
	operand := func(c rune) bool { return isDigit(c) || c == '(' || c == ')' }
	i := strings.IndexFunc(r, func(c rune) bool { return !operand(c) })
	if i < 0 {
		return ""
	}
	j := strings.IndexFunc(r[i:], operand)
	if j < 0 {
		return r[i:]
	}
	return r[i : i+j]
}

// around widens s[lo:hi] by up to n runes on each side.
func around(s string, lo, hi, n int) string {
	for k := 0; k < n && lo > 0; k++ {
		_, sz := utf8.DecodeLastRuneInString(s[:lo])
		lo -= sz
	}
	for k := 0; k < n && hi < len(s); k++ {
		_, sz := utf8.DecodeRuneInString(s[hi:])
		hi += sz
	}
	return s[lo:hi]
}

// String returns the display form of the expression: its source text with
// whitespace removed, implicit zeros of leading signs made explicit, and
// literals in canonical form. Parsing the display form gives an expression
// with the same value.
func (e *Expr) String() string {
	return e.n.String()
}
