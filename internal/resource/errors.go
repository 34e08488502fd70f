package resource

import (
	"errors"
	"fmt"
)

// Error codes for corpus loading.
const (
	ErrCodeNotFound   = "C001" // corpus root missing or not a directory
	ErrCodeManifest   = "C002" // corpus.cue invalid
	ErrCodeUnreadable = "C003" // resource file cannot be read
	ErrCodeNoRules    = "C004" // no rule files found
)

// LoadError reports a corpus that cannot be loaded.
type LoadError struct {
	Code    string
	Path    string
	Line    int // 0 when not tied to a line
	Message string
}

func (e *LoadError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s: %s:%d: %s", e.Code, e.Path, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError reports whether err is or wraps a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
