package engine

import (
	"errors"
	"fmt"
)

// Error reports why an engine could not be built or a document could not
// be processed.
//
// Configuration errors come from New and mean the corpus cannot run at
// all. Document errors come from Process and concern a single input.
// Per-expression problems are never errors; they are logged and the
// expression keeps its value.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Document identifies the affected document, if any.
	Document string

	// Errs holds the underlying errors, such as every rule load error.
	Errs []error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeCorpus indicates rules, patterns or tables that do not compile.
	ErrCodeCorpus ErrorCode = "CORPUS_INVALID"

	// ErrCodeConfig indicates an option or manifest value out of range.
	ErrCodeConfig ErrorCode = "CONFIG_INVALID"

	// ErrCodeDocument indicates a document whose spans or creation time
	// are malformed.
	ErrCodeDocument ErrorCode = "DOCUMENT_INVALID"

	// ErrCodeCanceled indicates the context ended before extraction
	// finished.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Document != "" {
		msg += fmt.Sprintf(" (document=%s)", e.Document)
	}
	if len(e.Errs) == 1 {
		msg += ": " + e.Errs[0].Error()
	} else if len(e.Errs) > 1 {
		msg += fmt.Sprintf(": %d errors, first: %v", len(e.Errs), e.Errs[0])
	}
	return msg
}

// Unwrap returns the underlying errors.
func (e *Error) Unwrap() []error {
	return e.Errs
}

// IsCorpusError reports whether err is a corpus configuration error.
func IsCorpusError(err error) bool {
	return hasCode(err, ErrCodeCorpus)
}

// IsConfigError reports whether err is an option or manifest error.
func IsConfigError(err error) bool {
	return hasCode(err, ErrCodeConfig)
}

// IsDocumentError reports whether err concerns a malformed document.
func IsDocumentError(err error) bool {
	return hasCode(err, ErrCodeDocument)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
