// Package ir provides the data types shared across the tagger: input
// documents (sentences, tokens, document creation time), extracted
// temporal expressions, and their renderings.
//
// This package contains type definitions and serializers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Offsets are rune offsets into Document.Text, half-open [Begin, End)
//   - All JSON and YAML tags use snake_case
//   - Expression ids come from a logical clock ("t1", "t2", ...), never
//     from wall-clock time
//   - No float types; canonical JSON rejects them
package ir
