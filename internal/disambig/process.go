package disambig

import (
	"strings"

	"github.com/roach88/timex/internal/calendar"
	"github.com/roach88/timex/internal/ir"
	"github.com/roach88/timex/internal/tense"
)

// TenseFunc returns the tense of the sentence around t.
type TenseFunc func(t *ir.Timex) tense.Tense

// Process resolves the DATE and TIME values of timexes in place. timexes
// must be in reading order. A candidate that fails, or panics, keeps its
// value and the failure is logged.
//
// Values starting with four digits become references for later
// candidates. Other values, such as "PRESENT_REF" or "XXXX-05", pass
// through untouched.
func (r *Resolver) Process(s *State, timexes []ir.Timex, tenseOf TenseFunc) {
	for i := range timexes {
		if timexes[i].Kind.Resolvable() {
			r.processOne(s, &timexes[i], tenseOf)
		}
	}
}

func (r *Resolver) processOne(s *State, t *ir.Timex, tenseOf TenseFunc) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("panic while resolving value", "id", t.ID, "text", t.Text, "value", t.Value, "panic", rec)
		}
	}()

	switch {
	case strings.HasPrefix(t.Value, ir.UndefPrefix):
		tn := tense.Unknown
		if tenseOf != nil {
			tn = tenseOf(t)
		}
		cal, err := r.Resolve(s, t.Value, tn)
		if err != nil {
			r.logger.Warn("cannot resolve value", "id", t.ID, "text", t.Text, "value", t.Value, "error", err)
			return
		}
		s.Remember(cal)
		r.logger.Debug("resolved", "id", t.ID, "text", t.Text, "from", t.Value, "to", cal.String(), "tense", tn)
		t.Value = cal.String()

	case fourDigits(t.Value):
		cal, err := calendar.Parse(t.Value, r.values.Hemisphere())
		if err != nil {
			r.logger.Warn("cannot read value as a reference", "id", t.ID, "value", t.Value, "error", err)
			return
		}
		s.Remember(cal)
	}
}

func fourDigits(s string) bool {
	if len(s) < 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
