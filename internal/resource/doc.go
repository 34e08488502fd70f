// Package resource reads a rule corpus from a file system.
//
// A corpus is one language directory:
//
//	corpus.cue                                    optional manifest
//	repattern/resources_repattern_<name>.txt      shared pattern fragments
//	normalization/resources_normalization_<name>.txt  lookup tables
//	rules/resources_rules_<kind>rules.txt         extraction rules
//
// Pattern files hold one alternative per line and are joined as (a|b|c).
// Normalization files hold "key","value" lines. Rule files are passed on
// line by line for the rules package to compile. In every file, lines
// starting with // and blank lines are skipped.
package resource
