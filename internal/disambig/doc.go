// Package disambig resolves underspecified TIMEX values against their
// document context.
//
// Extraction rules emit placeholder values with the UNDEF prefix when an
// expression cannot be normalized in isolation: "UNDEF-last-month",
// "UNDEF-century8", "UNDEF-day-monday", "UNDEF-REF-day-PLUS-2". A Resolver
// parses each placeholder into an Undef, picks a reference time and
// computes the calendar value the placeholder stands for.
//
// REFERENCE TIME:
//
// The document creation time is the reference when the document type uses
// it and the placeholder is not relative to an already mentioned time.
// Otherwise the reference is the most recent earlier value, in reading
// order, that knows the field being resolved. A State carries both across
// one document.
//
// FAILURES:
//
// A placeholder that cannot be parsed or resolved is reported as an error
// for that candidate only. Process logs it and keeps the original value.
//
// Processing is sequential. Resolving candidate k may read the resolved
// value of any candidate before it, so a document is never split across
// goroutines.
package disambig
