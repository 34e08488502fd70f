// Package engine runs the tagging pipeline over one document at a time.
//
// The engine owns a compiled rule library and everything needed to
// disambiguate its output. Process takes an already tokenized and tagged
// document and returns its temporal expressions.
//
// PIPELINE:
//
//  1. Extraction: every enabled rule set (DATE, TIME, DURATION, SET) is
//     matched against every sentence. Sentences are independent and run
//     on a bounded errgroup.
//  2. Ids: once all sentences are done, expressions are numbered from the
//     Sequencer in (sentence, kind, rule name, match) order.
//  3. Overlap: contained and duplicate spans are dropped (package
//     overlap), unless disabled.
//  4. Disambiguation: DATE and TIME values are resolved in reading order
//     against the creation time, tense and earlier values (package
//     disambig). This stage is strictly sequential.
//  5. Validity: expressions whose value is REMOVE are dropped.
//
// CRITICAL PATTERNS:
//
// Logical clock: ids come from Sequencer.Next(), never from scheduling order
// or wall-clock time. Parallel extraction writes into per-sentence slots
// and numbering happens afterwards, so output is byte-identical across
// runs and worker counts.
//
// Failure split: New fails on any corpus error. Process fails only for a
// malformed document or a canceled context. A single expression that
// cannot be normalized or resolved is logged and skipped or kept as is.
package engine
