// Package expr implements the normalization template language used by
// extraction rules.
//
// A template is a run of literal text and function calls:
//
//	group(N)                  capture group N of the match
//	%TABLE(e)                 lookup of e in the normalization table TABLE
//	%SUBSTRING%(e,start,end)  rune slice [start,end) of e
//	%UPPERCASE%(e)            upper-cased e
//	%LOWERCASE%(e)            lower-cased e
//	%SUM%(a,b)                integer sum of a and b
//
// Templates are parsed once, when rules load, into an immutable Expr tree.
// Evaluation is a pure function of the tree and a Match, so a single Expr is
// safe for concurrent use.
//
// ABSENT GROUPS:
//
// A capture group that did not take part in the match evaluates to absent.
// Concatenation treats absent as the empty string, a table lookup of an
// absent key yields the empty string, and %SUM% over an absent operand is
// an evaluation error.
//
// For every template s that parses, Parse(s).String() == s up to the
// spelling of group numbers.
package expr
