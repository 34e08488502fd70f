package disambig

import (
	"errors"
	"fmt"
)

// UndefError reports a placeholder value that cannot be parsed or has no
// resolution.
type UndefError struct {
	Value  string
	Reason string
}

func (e *UndefError) Error() string {
	return fmt.Sprintf("bad UNDEF value %q: %s", e.Value, e.Reason)
}

// IsUndefError reports whether err is or wraps an UndefError.
func IsUndefError(err error) bool {
	var ue *UndefError
	return errors.As(err, &ue)
}
