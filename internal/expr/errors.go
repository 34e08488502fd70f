package expr

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed template.
type ParseError struct {
	// Input is the full template.
	Input string

	// Offset is the byte offset where parsing stopped.
	Offset int

	// Expected describes what the parser was looking for.
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Expected %s at '^': %s^%s", e.Expected, e.Input[:e.Offset], e.Input[e.Offset:])
}

// NormalizationError reports a lookup key missing from its table.
type NormalizationError struct {
	Table string
	Key   string

	// Expr is the source form of the failing lookup.
	Expr string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("No normalization key found: %q [from %s]", e.Key, e.Expr)
}

// EvalError reports any other evaluation failure, such as a substring
// range outside its operand or a sum over a non-integer.
type EvalError struct {
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s [from %s]", e.Message, e.Expr)
}

// IsNormalizationError reports whether err is or wraps a NormalizationError.
func IsNormalizationError(err error) bool {
	var ne *NormalizationError
	return errors.As(err, &ne)
}
