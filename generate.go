package exprcalc

import (
	"math/rand"
	"strings"
)

// DefaultGeneratorLength is the default approximate limit on the length of
// generated expressions.
const DefaultGeneratorLength = 30

// A Generator generates random expressions for testing.
type Generator struct {
	// Rand is the source of randomness. If it is nil, the generator uses the
	// functions of package math/rand.
	Rand *rand.Rand

	// Length is the approximate limit on the number of symbols in each
	// expression. If this is 0, DefaultGeneratorLength is used.
	Length int

	// If FullyRandom is set, expressions are arbitrary sequences of opcodes,
	// digits, parentheses, and junk characters, and are usually invalid.
	FullyRandom bool

	// If Spaces is set, whitespace is inserted at random. It may separate
	// the digits of a number, which is a syntax error.
	Spaces bool

	// NoLogical, NoRelational, and NoDivision exclude the respective
	// operators. Excluded logical and relational operators are replaced by
	// sums and products.
	NoLogical    bool
	NoRelational bool
	NoDivision   bool
}

var (
	gendigits = strings.Split("0 1 2 3 4 5 6 7 8 9", " ")
	genjunk   = strings.Split("( ) \t # $ % ~ ` \n ; :", " ")
)

func (g *Generator) intn(n int) int {
	if g.Rand == nil {
		return rand.Intn(n)
	}
	return g.Rand.Intn(n)
}

func (g *Generator) pick(v []string) string {
	return v[g.intn(len(v))]
}

func symbols(ops []opcode, exclude ...string) []string {
	v := make([]string, 0, len(ops))
outer:
	for _, c := range ops {
		for _, x := range exclude {
			if c.sym == x {
				continue outer
			}
		}
		v = append(v, c.sym)
	}
	return v
}

// GenerateN generates n expressions.
func (g *Generator) GenerateN(n int) []string {
	r := make([]string, n)
	for i := range r {
		r[i] = g.Generate()
	}
	return r
}

// Generate generates a random expression. Unless FullyRandom or Spaces is
// set, the result is well-formed, although it may still contain literals that
// are out of bounds or compute results that are.
func (g *Generator) Generate() string {
	terms := symbols(termOps)
	facs := symbols(factorOps)
	if g.NoDivision {
		facs = symbols(factorOps, "/", "%")
	}
	logs := terms
	if !g.NoLogical {
		logs = symbols(logicalOps)
	}
	rels := facs
	if !g.NoRelational {
		rels = symbols(relationOps)
	}
	alls := make([]string, 0, len(logs)+len(rels)+len(terms)+len(facs))
	alls = append(alls, logs...)
	alls = append(alls, rels...)
	alls = append(alls, terms...)
	alls = append(alls, facs...)

	limit := g.Length
	if limit <= 0 {
		limit = DefaultGeneratorLength
	}
	length := 1
	if limit > 1 {
		length += g.intn(limit - 1)
	}

	var b strings.Builder
	if g.FullyRandom {
		all := append(append(alls, gendigits...), genjunk...)
		for j := 0; j < length; j++ {
			g.space(&b, 20)
			b.WriteString(g.pick(all))
		}
		b.WriteString(g.pick(gendigits))
		return b.String()
	}

	var numPrev bool
	open := 0
	binop := func(ops []string) {
		g.space(&b, 1)
		b.WriteString(g.pick(ops))
		numPrev = false
		g.space(&b, 1)
	}
	for j := 0; j < length; j++ {
		g.space(&b, 20)
		last := j == length-1
		switch c := g.intn(14); {
		case c <= 4 && !last:
			if !numPrev {
				break
			}
			switch c {
			case 0:
				binop(logs)
			case 1:
				binop(rels)
			case 2:
				binop(terms)
			case 3:
				binop(facs)
			case 4:
				binop(alls)
			}
		case c >= 5 && c <= 10:
			if open == 0 || !numPrev {
				break
			}
			b.WriteByte(')')
			open--
			b.WriteString(g.pick(alls))
			numPrev = false
		case c == 11 && !last:
			if numPrev {
				break
			}
			b.WriteByte('(')
			open++
			b.WriteString(g.pick(gendigits))
			numPrev = true
		default:
			d := g.pick(gendigits)
			if !numPrev && g.intn(2) == 0 {
				b.WriteString("(-")
				open++
			}
			b.WriteString(d)
			numPrev = true
		}
	}
	if !numPrev {
		b.WriteString(g.pick(gendigits))
	}
	b.WriteString(strings.Repeat(")", open))
	return b.String()
}

// space writes a space with probability 1/n if the generator uses spaces.
func (g *Generator) space(b *strings.Builder, n int) {
	if g.Spaces && g.intn(n) == 0 {
		b.WriteByte(' ')
	}
}
