package exprcalc

import (
	"errors"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sexpr renders a tree in prefix form, leaving out pass-through nodes.
// Parenthesized nodes are shown in brackets.
func sexpr(n *node) string {
	switch {
	case n.kind == nodeInteger:
		return strconv.FormatInt(n.num, 10)
	case n.kind == nodeParen:
		return "[" + sexpr(n.left) + "]"
	case n.passthrough():
		return sexpr(n.left)
	case n.right == nil:
		return "(" + n.sym + " " + sexpr(n.left) + ")"
	default:
		return "(" + n.sym + " " + sexpr(n.left) + " " + sexpr(n.right) + ")"
	}
}

// top finds the first node under n that is not a pass-through node.
func top(n *node) *node {
	for n.passthrough() {
		n = n.left
	}
	return n
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	return n.left.haskind(k) || n.right.haskind(k)
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
		kind nodeKind
	}{
		{"lit", "42", "42", nodeInteger},
		{"zeros", " 0042 ", "42", nodeInteger},
		{"paren", "(3)", "[3]", nodeParen},
		{"parens", "((3))", "[3]", nodeParen},

		{"add", "1+2", "(+ 1 2)", nodeTerm},
		{"sub3", "8-3-2", "(- (- 8 3) 2)", nodeTerm},
		{"plus", "+12", "(+ 0 12)", nodeTerm},
		{"neg", "-5+3", "(+ (- 0 5) 3)", nodeTerm},
		{"negparen", "1-(-3)", "(- 1 [(- 0 3)])", nodeTerm},
		{"negneg", "(-(-3))", "[(- 0 [(- 0 3)])]", nodeParen},
		{"mul3", "8%3*2", "(* (% 8 3) 2)", nodeFactor},
		{"asc", "2+3*4", "(+ 2 (* 3 4))", nodeTerm},
		{"desc", "2*3+4", "(+ (* 2 3) 4)", nodeTerm},
		{"group", "(2+3)*4", "(* [(+ 2 3)] 4)", nodeFactor},
		{"groups", "(1+2)*(3)", "(* [(+ 1 2)] [3])", nodeFactor},

		{"le", "1<=2", "(<= 1 2)", nodeRelation},
		{"eq3", "1==2==0", "(== (== 1 2) 0)", nodeRelation},
		{"relterm", "1+2<3", "(< (+ 1 2) 3)", nodeRelation},
		{"termrel", "1<2+3", "(< 1 (+ 2 3))", nodeRelation},

		{"logic3", "1||0&&0", "(&& (|| 1 0) 0)", nodeLogical},
		{"xor", "1xor2", "(xor 1 2)", nodeLogical},
		{"words", "1or2and3", "(and (or 1 2) 3)", nodeLogical},
		{"caret", "5^(-2)", "(^ 5 [(- 0 2)])", nodeLogical},
		{"logrel", "9>=2&&112", "(&& (>= 9 2) 112)", nodeLogical},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, sexpr(a.n))
			assert.Equal(t, c.kind, top(a.n).kind)
		})
	}
}

func TestParseBitwiseTrees(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
		kind nodeKind
	}{
		{"shl", "1<<4", "(<< 1 4)", nodeBitwise},
		{"shr", "256>>4", "(>> 256 4)", nodeBitwise},
		{"andor", "6&3|1", "(| (& 6 3) 1)", nodeBitwise},
		{"caret", "5^3", "(^ 5 3)", nodeBitwise},
		{"rel", "1<<2<3", "(< (<< 1 2) 3)", nodeRelation},
		{"term", "1+1<<2", "(<< (+ 1 1) 2)", nodeBitwise},
		{"land", "1&&2", "(&& 1 2)", nodeLogical},
		{"lor", "1||2", "(|| 1 2)", nodeLogical},
		{"xor", "5xor3", "(xor 5 3)", nodeLogical},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, Bitwise())
			require.NoError(t, err)
			assert.Equal(t, c.want, sexpr(a.n))
			assert.Equal(t, c.kind, top(a.n).kind)
		})
	}
}

func TestParsePassthrough(t *testing.T) {
	a, err := ParseString("1+2")
	require.NoError(t, err)
	n := a.n
	require.Equal(t, nodeLogical, n.kind)
	require.True(t, n.passthrough())
	n = n.left
	require.Equal(t, nodeRelation, n.kind)
	require.True(t, n.passthrough())
	n = n.left
	require.Equal(t, nodeTerm, n.kind)
	assert.Equal(t, OpAdd, n.op)
	assert.Equal(t, "+", n.sym)
	// Each operand is reparsed starting from the same tier.
	l := n.left
	require.Equal(t, nodeTerm, l.kind)
	require.True(t, l.passthrough())
	require.Equal(t, nodeFactor, l.left.kind)
	require.Equal(t, nodeInteger, l.left.left.kind)
	assert.Equal(t, int64(1), l.left.left.num)
	assert.False(t, a.n.haskind(nodeBitwise))
}

func TestParseDisplay(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"42", "42"},
		{"0042", "42"},
		{"1 + 2", "1+2"},
		{"-5 + 3", "0-5+3"},
		{"( 6 - 10) * (007)", "(6-10)*(7)"},
		{"((3))", "(3)"},
		{"1 xor 2", "1xor2"},
		{"(1 + 26 - 98) / 15 + 777 >= 772", "(1+26-98)/15+777>=772"},
	}
	for _, c := range cases {
		a, err := ParseString(c.src)
		if assert.NoError(t, err, "parsing %q", c.src) {
			assert.Equal(t, c.want, a.String(), "display form of %q", c.src)
		}
	}
}

func TestTokens(t *testing.T) {
	cases := []struct {
		name string
		ops  opset
		text string
		want []token
	}{
		{"xor", standardOpset, "1xor2", []token{{1, "xor"}}},
		{"le", standardOpset, "1<=2", []token{{1, "<="}}},
		{"shl-std", standardOpset, "1<<2", []token{{1, "<"}, {2, "<"}}},
		{"shl-bit", bitwiseOpset, "1<<2", []token{{1, "<<"}}},
		{"land-bit", bitwiseOpset, "1&&2", []token{{1, "&&"}}},
		{"none", standardOpset, "(12)", nil},
		{"sign", standardOpset, "-1*-2", []token{{0, "-"}, {2, "*"}, {3, "-"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.ops.tokens(c.text))
		})
	}
}

func TestOpsetLongestFirst(t *testing.T) {
	for _, s := range []opset{standardOpset, bitwiseOpset} {
		for i := 1; i < len(s); i++ {
			assert.GreaterOrEqual(t, len(s[i-1].sym), len(s[i].sym), "%q before %q", s[i-1].sym, s[i].sym)
		}
	}
	assert.Equal(t, "xor", standardOpset.match("1xor2", 1))
	assert.Equal(t, "", standardOpset.match("1xor2", 0))
}

func TestOpcodes(t *testing.T) {
	want := [][]string{
		{"and", "xor", "&&", "||", "or", "^"},
		{"<=", ">=", "==", "!=", "<", ">"},
		{"+", "-"},
		{"*", "/", "%"},
	}
	assert.Equal(t, want, Opcodes(false))
	bw := Opcodes(true)
	require.Len(t, bw, 5)
	assert.NotContains(t, bw[0], "^")
	assert.Equal(t, []string{"<<", ">>", "&", "|", "^"}, bw[2])
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts []ParseOption
		err  Error
		frag string
		rule Rule
	}{
		{"empty", "", nil, new(SyntaxError), "", RulePrimary},
		{"spaces", "  \t", nil, new(SyntaxError), "", RulePrimary},
		{"emptyparen", "()", nil, new(SyntaxError), "()", RulePrimary},
		{"rightmissing", "12+", nil, new(SyntaxError), "12+", RuleTerm},
		{"rightmissing-rel", "(1+2)+12-3<=", nil, new(SyntaxError), "(1+2)+12-3<=", RuleRelation},
		{"leftmissing", "<(1+2)", nil, new(SyntaxError), "<(1+2)", RuleRelation},
		{"doublesign", "5--3", nil, new(SyntaxError), "5-", RuleTerm},
		{"digitspace", "12 + 2 - 5 2", nil, new(SyntaxError), "5 2", RuleExpression},
		{"shl-std", "1<<4", nil, new(SyntaxError), "1<", RuleRelation},

		{"open", "(2+3", nil, new(BracesError), "(2", RulePrimary},
		{"close", "2+3)", nil, new(BracesError), "2+3)", RulePrimary},
		{"lone-close", ")", nil, new(BracesError), ")", RulePrimary},
		{"lone-open", "(", nil, new(BracesError), "(", RulePrimary},

		{"letter", "12+2-5b", nil, new(OperatorError), "b", RulePrimary},
		{"colon", "13:32", nil, new(OperatorError), ":", RulePrimary},
		{"bang", "1!", nil, new(OperatorError), "!", RulePrimary},
		{"amp-std", "1&2", nil, new(OperatorError), "&", RulePrimary},
		{"words", "I am not an expression!", nil, new(OperatorError), "Iamnotanexpression!", RulePrimary},
		{"adjacent", "(8/1)(6-10)", nil, new(OperatorError), "8/1)(6-1", RulePrimary},
		{"adjacent-nested", "(8/1)*(6-10)((9)-5)", nil, new(OperatorError), "-10)((9)", RulePrimary},

		{"bigint", "99999999999999999999", nil, new(CalculationError), "99999999999999999999", RuleInteger},
		{"bigint-neg", "-99999999999999999999", nil, new(CalculationError), "99999999999999999999", RuleInteger},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, c.opts...)
			assert.Nil(t, a)
			require.Error(t, err)
			assert.IsType(t, c.err, err, "got %s", repr.String(err))
			var e Error
			require.True(t, errors.As(err, &e), "%T is not an Error", err)
			assert.Equal(t, c.frag, e.At(), "got %s", repr.String(err))
			assert.Equal(t, c.rule, e.Place(), "got %s", repr.String(err))
			if _, ok := c.err.(*CalculationError); ok {
				assert.ErrorIs(t, err, ErrCalculation)
			} else {
				assert.ErrorIs(t, err, ErrSyntax)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&BracesError{Fragment: "(2", Rule: RulePrimary}, `Primary parse error in "(2": syntax error: braces mismatch`},
		{&OperatorError{Fragment: "b", Rule: RulePrimary}, `Primary parse error in "b": syntax error: operator expected`},
		{&SyntaxError{Fragment: "12+", Rule: RuleTerm, Reason: "right operand is missing"}, `Term parse error in "12+": syntax error: right operand is missing`},
		{&CalculationError{Fragment: "8/0", Rule: RuleFactor, Reason: "division by 0"}, `Factor parse error in "8/0": calculation error: division by 0`},
		{&SyntaxError{Fragment: "5\n2", Rule: RuleExpression, Reason: "x"}, `Expression parse error in "5\n2": syntax error: x`},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.Error())
	}
}

func TestParseDepth(t *testing.T) {
	// A primary strips any number of bare parentheses at once.
	nest := func(n int) string {
		return strings.Repeat("(1+", n) + "1" + strings.Repeat(")", n)
	}
	t.Run("shallow", func(t *testing.T) {
		_, err := ParseString(nest(10), MaxDepth(3))
		var se *SyntaxError
		require.True(t, errors.As(err, &se), "want SyntaxError, got %#v", err)
		assert.Contains(t, se.Reason, "nested too deeply")
		assert.Equal(t, RuleFactor, se.Rule)
	})
	t.Run("default", func(t *testing.T) {
		a, err := ParseString(nest(1000))
		require.NoError(t, err)
		v, err := a.Value()
		require.NoError(t, err)
		assert.Equal(t, int64(1001), v)
		_, err = ParseString(nest(2000))
		assert.ErrorIs(t, err, ErrSyntax)
	})
	t.Run("unlimited", func(t *testing.T) {
		_, err := ParseString(nest(100), MaxDepth(200))
		assert.ErrorIs(t, err, ErrSyntax)
		_, err = ParseString(nest(100), MaxDepth(0))
		assert.NoError(t, err)
	})
	t.Run("parens", func(t *testing.T) {
		src := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
		a, err := ParseString(src, MaxDepth(20))
		require.NoError(t, err)
		assert.Equal(t, "(1)", a.String())
	})
	t.Run("chain", func(t *testing.T) {
		src := "1" + strings.Repeat("+1", 100)
		_, err := ParseString(src, MaxDepth(50))
		assert.ErrorIs(t, err, ErrSyntax)
		v, err := EvalString(src)
		require.NoError(t, err)
		assert.Equal(t, int64(101), v)
	})
	t.Run("negative", func(t *testing.T) {
		assert.Panics(t, func() { MaxDepth(-1) })
	})
}

// allocated reports the bytes allocated while running f.
func allocated(f func()) uint64 {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	f()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestParseChainCost(t *testing.T) {
	chain := func(n int) string {
		return strings.Repeat("1+", n) + "1"
	}
	parse := func(src string) func() {
		return func() {
			if _, err := ParseString(src); err != nil {
				t.Errorf("parsing chain of %d bytes: %v", len(src), err)
			}
		}
	}
	small := allocated(parse(chain(1000)))
	large := allocated(parse(chain(8000)))
	// Eight times the input should take about eight times the memory.
	assert.Less(t, large, 16*small, "1000 terms: %d bytes; 8000 terms: %d bytes", small, large)

	v, err := EvalString(chain(8000))
	require.NoError(t, err)
	assert.Equal(t, int64(8001), v)
}

func TestSpanTokens(t *testing.T) {
	text := "(1+2)*-3<=4"
	s := span{text: text, toks: standardOpset.tokens(text)}
	// "+" "*" "-" "<="
	require.Len(t, s.toks, 4)
	l, r := s.left(3), s.right(3)
	assert.Equal(t, "(1+2)*-3", l.text)
	assert.Equal(t, "4", r.text)
	assert.Empty(t, r.toks)
	m := l.left(1)
	assert.Equal(t, "(1+2)", m.text)
	in := m.inner()
	assert.Equal(t, "1+2", in.text)
	assert.Equal(t, 1, in.pos(0))
	neg := l.right(1)
	assert.Equal(t, "-3", neg.text)
	assert.Equal(t, 0, neg.pos(0))
	z := neg.signed()
	assert.Equal(t, "0-3", z.text)
	assert.Equal(t, 1, z.pos(0))
	assert.Equal(t, "0", z.left(0).text)
	assert.Equal(t, "3", z.right(0).text)
}

func TestParsingPreset(t *testing.T) {
	p := ParsingPreset(Bitwise())
	a, err := ParseString("6&3", p)
	require.NoError(t, err)
	assert.Equal(t, "(& 6 3)", sexpr(a.n))
	// Later options override the preset.
	_, err = ParseString("6&3", p, bitwiseopt(false))
	assert.ErrorIs(t, err, ErrSyntax)
	_, err = ParseString("((1))", p, MaxDepth(2))
	assert.ErrorIs(t, err, ErrSyntax)
	_, err = ParseString("((1))", ParsingPreset(MaxDepth(2)), p)
	assert.NoError(t, err)
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"lit", "42"},
		{"sum", "1+2+3+4+5+6+7+8"},
		{"mixed", "(1 + 26 - 98) / 15 + 777 >= 772"},
		{"logic", "( 6 - 10) - ((16/2-1) / (1-12&&2))*((9) - 5)+6"},
		{"chain", strings.Repeat("1+", 4000) + "1"},
		{"products", strings.Repeat("2*", 4000) + "1"},
		{"nest", strings.Repeat("(1+", 1000) + "1" + strings.Repeat(")", 1000)},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src)
			}
		})
	}
}
