package exprcalc

import (
	"errors"
	"strconv"
)

// Rule names the grammar rule or place at which an error was detected.
type Rule string

const (
	RuleExpression Rule = "Expression"
	RuleLogical    Rule = "Logical"
	RuleRelation   Rule = "Relation"
	RuleBitwise    Rule = "Bitwise"
	RuleTerm       Rule = "Term"
	RuleFactor     Rule = "Factor"
	RulePrimary    Rule = "Primary"
	RuleInteger    Rule = "Integer"
)

func (k nodeKind) rule() Rule {
	switch k {
	case nodeInteger:
		return RuleInteger
	case nodeParen:
		return RulePrimary
	case nodeLogical:
		return RuleLogical
	case nodeRelation:
		return RuleRelation
	case nodeBitwise:
		return RuleBitwise
	case nodeTerm:
		return RuleTerm
	case nodeFactor:
		return RuleFactor
	default:
		return RuleExpression
	}
}

var (
	// ErrSyntax is the kind of every error describing malformed input.
	// SyntaxError, BracesError, and OperatorError all unwrap to it.
	ErrSyntax = errors.New("syntax error")
	// ErrCalculation is the kind of every error describing a value that
	// cannot be computed. CalculationError unwraps to it.
	ErrCalculation = errors.New("calculation error")
)

// Error is an error with the context needed to locate it in the input. Every
// error resulting from invalid input or an impossible calculation implements
// Error.
type Error interface {
	error
	// At returns the fragment of the input in which the error was detected.
	At() string
	// Place returns the grammar rule which detected the error.
	Place() Rule
	// Description returns a description of the error without its location.
	Description() string
}

// SyntaxError is an error indicating malformed input, e.g. a missing operand
// or digits separated by whitespace. It implements Error.
type SyntaxError struct {
	// Fragment is the offending input.
	Fragment string
	// Rule is the grammar rule which rejected the fragment.
	Rule Rule
	// Reason describes the problem.
	Reason string
}

func (err *SyntaxError) Error() string {
	return errmsg(err)
}

func (err *SyntaxError) At() string          { return err.Fragment }
func (err *SyntaxError) Place() Rule         { return err.Rule }
func (err *SyntaxError) Description() string { return "syntax error: " + err.Reason }
func (err *SyntaxError) Unwrap() error       { return ErrSyntax }

// BracesError is an error indicating mismatched parentheses. It implements
// Error.
type BracesError struct {
	// Fragment is the text whose parentheses do not balance.
	Fragment string
	// Rule is the grammar rule which rejected the fragment.
	Rule Rule
}

func (err *BracesError) Error() string {
	return errmsg(err)
}

func (err *BracesError) At() string          { return err.Fragment }
func (err *BracesError) Place() Rule         { return err.Rule }
func (err *BracesError) Description() string { return "syntax error: braces mismatch" }
func (err *BracesError) Unwrap() error       { return ErrSyntax }

// OperatorError is an error indicating an unrecognized token, or two operands
// with no operator between them. It implements Error.
type OperatorError struct {
	// Fragment pinpoints the offending token, possibly with some of the text
	// around it.
	Fragment string
	// Rule is the grammar rule which rejected the fragment.
	Rule Rule
}

func (err *OperatorError) Error() string {
	return errmsg(err)
}

func (err *OperatorError) At() string          { return err.Fragment }
func (err *OperatorError) Place() Rule         { return err.Rule }
func (err *OperatorError) Description() string { return "syntax error: operator expected" }
func (err *OperatorError) Unwrap() error       { return ErrSyntax }

// CalculationError is an error indicating a number or result that cannot be
// represented, or a division by zero. Literals out of range are detected when
// parsing; everything else is detected during evaluation. It implements Error.
type CalculationError struct {
	// Fragment is the literal or operation that failed.
	Fragment string
	// Rule is the grammar rule of the failing node.
	Rule Rule
	// Reason describes the problem.
	Reason string
}

func (err *CalculationError) Error() string {
	return errmsg(err)
}

func (err *CalculationError) At() string          { return err.Fragment }
func (err *CalculationError) Place() Rule         { return err.Rule }
func (err *CalculationError) Description() string { return "calculation error: " + err.Reason }
func (err *CalculationError) Unwrap() error       { return ErrCalculation }

// errmsg formats the message common to all errors.
func errmsg(err Error) string {
	return string(err.Place()) + " parse error in " + strconv.Quote(err.At()) + ": " + err.Description()
}

var (
	_ Error = (*SyntaxError)(nil)
	_ Error = (*BracesError)(nil)
	_ Error = (*OperatorError)(nil)
	_ Error = (*CalculationError)(nil)
)
