// Package exprcalc implements a calculator for integer arithmetic, relational,
// and logical expressions.
//
// Expressions are parsed into trees whose nodes mirror the precedence tiers of
// the grammar, from loosest to tightest binding:
//
//	Logical   and && or || xor ^
//	Relation  <= >= == != < >
//	Bitwise   << >> & | ^          (only with the Bitwise parse option)
//	Term      + -
//	Factor    * / %
//	Primary   integer | '(' Logical ')'
//
// Every operator is left-associative, so "8-3-2" is "(8-3)-2". A leading sign
// at the Term tier is read against an implicit zero: "-5+3" is "0-5+3".
// Values are signed 64-bit integers. Results which do not fit are reported as
// errors rather than wrapped.
//
// A parsed Expr is immutable. It may be evaluated, rendered back to text, or
// serialized to JSON any number of times, including concurrently.
package exprcalc
