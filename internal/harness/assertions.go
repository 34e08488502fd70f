package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/timex/internal/ir"
)

// AssertionError is returned when an assertion fails. It carries the
// output it was checked against so the failure can be read on its own.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Timexes  []ir.Timex
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nExpressions:\n")
	for _, t := range e.Timexes {
		fmt.Fprintf(&buf, "  %s\n", describe(&t))
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns one
// message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %s", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	timexes := result.Timexes(a.Document)
	switch a.Type {
	case AssertContains:
		return assertContains(timexes, a)
	case AssertAbsent:
		return assertAbsent(timexes, a)
	case AssertCount:
		return assertCount(timexes, a)
	case AssertOrder:
		return assertOrder(timexes, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertContains(timexes []ir.Timex, a Assertion) error {
	for i := range timexes {
		if a.Match.mismatch(&timexes[i]) == "" {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertContains,
		Expected: a.Match.String(),
		Actual:   "no matching expression",
		Timexes:  timexes,
	}
}

func assertAbsent(timexes []ir.Timex, a Assertion) error {
	for i := range timexes {
		if a.Match.mismatch(&timexes[i]) == "" {
			return &AssertionError{
				Type:     AssertAbsent,
				Expected: "no expression matching " + a.Match.String(),
				Actual:   "found " + describe(&timexes[i]),
				Timexes:  timexes,
			}
		}
	}
	return nil
}

// assertCount counts expressions matching a.Match; an empty match counts
// everything.
func assertCount(timexes []ir.Timex, a Assertion) error {
	n := 0
	for i := range timexes {
		if a.Match.mismatch(&timexes[i]) == "" {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d expressions matching %s", a.Count, a.Match.String()),
			Actual:   fmt.Sprintf("%d expressions", n),
			Timexes:  timexes,
		}
	}
	return nil
}

// assertOrder checks that the values occur in the given order. Other
// expressions may come between them.
func assertOrder(timexes []ir.Timex, a Assertion) error {
	next := 0
	for _, t := range timexes {
		if next < len(a.Values) && t.Value == a.Values[next] {
			next++
		}
	}
	if next < len(a.Values) {
		return &AssertionError{
			Type:     AssertOrder,
			Expected: fmt.Sprintf("values in order: %v", a.Values),
			Actual:   fmt.Sprintf("%q not found after %v", a.Values[next], a.Values[:next]),
			Timexes:  timexes,
		}
	}
	return nil
}

// mismatch returns "" when every set field of e equals t's, otherwise a
// description of the first difference.
func (e ExpectedTimex) mismatch(t *ir.Timex) string {
	for _, f := range []struct {
		name, want, got string
	}{
		{"text", e.Text, t.Text},
		{"type", e.Type, t.Kind.String()},
		{"value", e.Value, t.Value},
		{"mod", e.Mod, t.Mod},
		{"quant", e.Quant, t.Quant},
		{"freq", e.Freq, t.Freq},
		{"rule_id", e.RuleID, t.RuleID},
	} {
		if f.want == "" {
			continue
		}
		equal := f.want == f.got
		if f.name == "type" {
			equal = strings.EqualFold(f.want, f.got)
		}
		if !equal {
			return fmt.Sprintf("%s: want %q, got %q", f.name, f.want, f.got)
		}
	}
	return ""
}

func (e ExpectedTimex) String() string {
	var parts []string
	for _, f := range [][2]string{
		{"text", e.Text}, {"type", e.Type}, {"value", e.Value}, {"mod", e.Mod},
		{"quant", e.Quant}, {"freq", e.Freq}, {"rule_id", e.RuleID},
	} {
		if f[1] != "" {
			parts = append(parts, fmt.Sprintf("%s=%q", f[0], f[1]))
		}
	}
	if len(parts) == 0 {
		return "{any}"
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func describe(t *ir.Timex) string {
	s := fmt.Sprintf("%s %s %q=%s", t.ID, t.Kind, t.Text, t.Value)
	if t.Mod != "" {
		s += " mod=" + t.Mod
	}
	return s
}

func describeAll(timexes []ir.Timex) string {
	if len(timexes) == 0 {
		return "none"
	}
	parts := make([]string, len(timexes))
	for i := range timexes {
		parts[i] = describe(&timexes[i])
	}
	return strings.Join(parts, ", ")
}
