// Package harness runs tagging scenarios: YAML files that name a rule
// corpus, list tagged documents, and state the expressions each one must
// yield.
//
// # Scenario Format
//
//	name: news_relative
//	description: "Weekdays and weeks resolve against the creation time"
//	corpus: ../../../../resources/english
//	options:
//	  document_type: news
//	  kinds: [DATE, SET]
//	documents:
//	  - id: wire-1
//	    dct: "2020-01-01"
//	    tagged: |
//	      Officials/NNS said/VVD on/IN Monday/NP
//	    expect:
//	      - { text: Monday, type: DATE, value: "2019-12-30" }
//	assertions:
//	  - type: contains
//	    match: { value: "2019-12-30" }
//
// Unknown keys are rejected. The corpus path is resolved against the
// scenario file's directory.
//
// # Checks
//
// A document's expect list is compared position by position with its
// output in reading order, and its length must match. Empty fields are
// not compared.
//
// Assertions run over all documents, or one when document is set:
//
//   - contains: some expression matches
//   - absent: no expression matches
//   - count: exactly count expressions match (an empty match counts all)
//   - order: the values occur in order, not necessarily adjacent
//
// # Determinism
//
// Ids come from testutil.Sequence, reset before each document,
// so every document numbers its expressions from t1. Snapshots are
// canonical JSON and leave the run id out, which keeps golden files
// byte-identical across runs.
package harness
