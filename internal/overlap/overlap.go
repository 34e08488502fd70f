// Package overlap keeps one candidate per contested span.
//
// A candidate strictly inside another one's span is dropped. When two
// candidates share a span and either is a SET, the newer one survives.
// Otherwise a resolved value beats an UNDEF one, then an explicit rule
// beats a relative one, and finally the newer candidate wins.
package overlap

import (
	"log/slog"

	"github.com/roach88/timex/internal/ir"
)

// Option configures Resolve.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger that traces removals.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Resolve returns timexes without the candidates that lose an overlap.
// The survivors keep their relative order.
func Resolve(timexes []ir.Timex, opts ...Option) []ir.Timex {
	c := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&c)
	}

	removed := make([]bool, len(timexes))
	for i := range timexes {
		for j := i + 1; j < len(timexes); j++ {
			a, b := &timexes[i], &timexes[j]
			if a.End <= b.Begin || b.End <= a.Begin {
				continue
			}
			loseA, loseB := contest(a, b)
			removed[i] = removed[i] || loseA
			removed[j] = removed[j] || loseB
		}
	}

	out := make([]ir.Timex, 0, len(timexes))
	for i, t := range timexes {
		if removed[i] {
			c.logger.Debug("removing overlapped expression", "id", t.ID, "text", t.Text, "value", t.Value, "rule", t.RuleID)
			continue
		}
		out = append(out, t)
	}
	return out
}

// contest decides which of two overlapping candidates to drop. Partial
// overlaps that are not containment keep both.
func contest(a, b *ir.Timex) (loseA, loseB bool) {
	switch {
	case b.Contains(a):
		return true, false
	case a.Contains(b):
		return false, true
	case !a.SameSpan(b):
		return false, false
	}

	older := func() (bool, bool) {
		if a.Seq < b.Seq {
			return true, false
		}
		return false, true
	}

	if a.Kind == ir.Set || b.Kind == ir.Set {
		return older()
	}
	switch {
	case a.Undefined() && !b.Undefined():
		return true, false
	case !a.Undefined() && b.Undefined():
		return false, true
	case a.Explicit() && !b.Explicit():
		return false, true
	case !a.Explicit() && b.Explicit():
		return true, false
	}
	return older()
}

// RemoveInvalid drops candidates whose value is REMOVE.
func RemoveInvalid(timexes []ir.Timex) []ir.Timex {
	out := timexes[:0:0]
	for _, t := range timexes {
		if t.Value != ir.RemoveValue {
			out = append(out, t)
		}
	}
	return out
}
