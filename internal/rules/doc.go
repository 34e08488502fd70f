// Package rules compiles and applies extraction rules.
//
// A rule is one line of a rules resource:
//
//	RULENAME="date_r1",EXTRACTION="%reMonthLong %reYear4Digit",NORM_VALUE="group(2)-%normMonth(group(1))"[,FEATURE="value"]*
//
// EXTRACTION is a regular expression template. %reName references are
// replaced by shared patterns, literal spaces match any run of whitespace,
// and the result is anchored on word boundaries that never split a number
// from a following decimal fraction. NORM_VALUE and the NORM_QUANT,
// NORM_FREQ and NORM_MOD features are expr templates evaluated per match.
// OFFSET="group(a)-group(b)" narrows the reported span and
// POS_CONSTRAINT="group(n):TAG:..." requires part-of-speech tags.
//
// Patterns use regexp2 for lookahead support. Offsets are rune offsets.
//
// A RuleSet is immutable once compiled and safe for concurrent use.
package rules
