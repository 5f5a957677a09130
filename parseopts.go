package exprcalc

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	bitwiseopt bool
	depthopt   int
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// tiers is the grammar, loosest tier first.
	tiers []tier
	// ops is every opcode of tiers, longest first.
	ops opset
	// maxdepth is the limit on nested tier parses, or 0 for no limit.
	maxdepth int
	// depth is the current number of nested tier parses.
	depth int
}

// DefaultMaxDepth is the nesting limit used when no MaxDepth option is given.
// It allows roughly two thousand levels of parentheses.
const DefaultMaxDepth = 10000

func defaultctx() parsectx {
	return parsectx{
		tiers:    standardTiers,
		ops:      standardOpset,
		maxdepth: DefaultMaxDepth,
	}
}

// Bitwise enables the bitwise tier, which binds tighter than relations and
// looser than sums. With it, "^" is a bitwise xor, so logical xor must be
// written "xor".
func Bitwise() ParseOption {
	return bitwiseopt(true)
}

func (o bitwiseopt) parseOption(p parsectx) parsectx {
	if o {
		p.tiers, p.ops = bitwiseTiers, bitwiseOpset
	} else {
		p.tiers, p.ops = standardTiers, standardOpset
	}
	return p
}

// MaxDepth limits how deeply the parser recurses, which is about five levels
// per pair of parentheses and one per operator in a chain like "1+1+1".
// Exceeding the limit is a SyntaxError. A limit of 0 disables the check.
// Negative limits panic.
func MaxDepth(n int) ParseOption {
	if n < 0 {
		panic("exprcalc: negative max depth")
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// ParsingPreset creates a parsing preset that folds a list of options once so
// that many calls to Parse can share it. Options applied after a preset
// override it.
func ParsingPreset(opts ...ParseOption) ParseOption {
	p := defaultctx()
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	p.tiers = o.tiers
	p.ops = o.ops
	p.maxdepth = o.maxdepth
	return p
}
