package rules

import (
	"errors"
	"fmt"
)

// Error codes for rule compilation.
const (
	ErrCodeMalformed    = "R001" // missing name or pattern, duplicate name
	ErrCodeUndefinedRef = "R002" // %reName with no shared pattern
	ErrCodeInvalidRegex = "R003" // extraction pattern does not compile
	ErrCodeBadTemplate  = "R004" // normalization template does not parse
	ErrCodeBadFeature   = "R005" // OFFSET or POS_CONSTRAINT value malformed
	ErrCodeUnknownKind  = "R006" // rules resource names no known kind
)

// LoadError reports a rule that cannot be compiled. These are
// configuration errors: a corpus with any of them cannot run.
type LoadError struct {
	Code    string
	Path    string
	Line    int
	Rule    string
	Message string
}

func (e *LoadError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Rule != "" {
		return fmt.Sprintf("%s: %s: rule %s: %s", e.Code, loc, e.Rule, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, loc, e.Message)
}

// IsLoadError reports whether err is or wraps a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
