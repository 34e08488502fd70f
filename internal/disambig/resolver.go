package disambig

import (
	"fmt"
	"log/slog"

	"github.com/roach88/timex/internal/calendar"
	"github.com/roach88/timex/internal/ir"
	"github.com/roach88/timex/internal/tense"
)

// DefaultCentury fills a bare century when nothing in the document gives
// one, so "the seventies" reads as 197X.
const DefaultCentury = 19

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for per-candidate failures and traces.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithCenturyDefault replaces DefaultCentury.
func WithCenturyDefault(c int) Option {
	return func(r *Resolver) {
		r.century = c
	}
}

// Resolver turns placeholders into calendar values. It holds no document
// state and may be shared.
type Resolver struct {
	values  *Values
	logger  *slog.Logger
	century int
}

// New returns a Resolver naming seasons for hemisphere h.
func New(h calendar.Hemisphere, opts ...Option) *Resolver {
	r := &Resolver{values: NewValues(h), logger: slog.Default(), century: DefaultCentury}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Values returns the name tables in use.
func (r *Resolver) Values() *Values {
	return r.values
}

// State is the context one document accumulates.
type State struct {
	dct    *calendar.Timex
	useDCT bool
	// previous holds resolved values in reading order.
	previous []*calendar.Timex
}

// NewState starts a document. dct may be empty, or YYYYMMDD or YYYY-MM-DD.
// The creation time is used only when docType uses it.
func (r *Resolver) NewState(dct string, docType ir.DocumentType) (*State, error) {
	s := &State{}
	norm, err := ir.NormalizeDCT(dct)
	if err != nil {
		return nil, err
	}
	if norm != "" {
		if s.dct, err = calendar.Parse(norm, r.values.Hemisphere()); err != nil {
			return nil, fmt.Errorf("document creation time: %w", err)
		}
	}
	s.useDCT = docType.UsesDCT() && s.dct != nil
	return s, nil
}

// DCT returns the parsed creation time, or nil.
func (s *State) DCT() *calendar.Timex {
	return s.dct
}

// UsesDCT reports whether the creation time is eligible as a reference.
func (s *State) UsesDCT() bool {
	return s.useDCT
}

// Remember records a resolved value as the most recent reference.
func (s *State) Remember(c *calendar.Timex) {
	s.previous = append(s.previous, c)
}

// having returns the most recent value that knows f.
func (s *State) having(f calendar.Field) *calendar.Timex {
	for i := len(s.previous) - 1; i >= 0; i-- {
		if s.previous[i].Has(f) {
			return s.previous[i]
		}
	}
	return nil
}

// Resolve computes the value placeholder stands for in state s, given the
// tense of its sentence. It does not record the result.
func (r *Resolver) Resolve(s *State, value string, t tense.Tense) (*calendar.Timex, error) {
	u, err := r.values.ParseUndef(value)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("resolving", "value", value, "undef", u, "tense", t)

	cal := u.Calendar
	field := u.Field

	var ref *calendar.Timex
	if u.Respect.UsesDCT() && s.useDCT {
		ref = s.dct
	} else {
		ref = s.having(field)
	}

	if u.Respect == Unknown && !u.ByValue {
		return r.fillIn(s, u, ref, t), nil
	}

	if u.Respect == MentionedUnit {
		if field != calendar.Year {
			return nil, &UndefError{Value: value, Reason: "mentioned unit must be a year"}
		}
		if ref == nil {
			return cal, nil
		}
		c := ref.Clone()
		if err := c.Add(calendar.Year, u.Diff); err != nil {
			return nil, err
		}
		return c, nil
	}

	var from *calendar.Timex
	switch {
	case u.ByValue && u.Respect == AuthorTime:
		if from, err = byValue(ref, field, u.Diff, cal.Get(field)); err != nil {
			return nil, fmt.Errorf("resolve %q: %w", value, err)
		}
	case u.ByValue:
		if field != calendar.DayOfWeek {
			return nil, &UndefError{Value: value, Reason: "only weekdays resolve without a direction"}
		}
		if from, err = bareWeekday(ref, t, cal.Get(field), s.useDCT); err != nil {
			return nil, fmt.Errorf("resolve %q: %w", value, err)
		}
	case u.Respect == AuthorTime || u.Respect == MentionedTime:
		if ref != nil {
			from = ref.Clone()
			if err := from.Add(field, u.Diff); err != nil {
				return nil, fmt.Errorf("resolve %q: %w", value, err)
			}
		}
	default:
		return nil, &UndefError{Value: value, Reason: "unhandled case " + u.String()}
	}

	if from != nil {
		if err := cal.Update(from, field); err != nil {
			return nil, fmt.Errorf("resolve %q: %w", value, err)
		}
	}
	if field == calendar.Century || field == calendar.Decade {
		cal.SetLowest(calendar.Year)
	}
	return cal, nil
}

// fillIn copies a missing century or year from the reference, shifted by
// one when the tense says the value lies on the other side of it.
func (r *Resolver) fillIn(s *State, u *Undef, ref *calendar.Timex, t tense.Tense) *calendar.Timex {
	cal := u.Calendar
	diff := u.Diff
	if s.useDCT {
		var cmp int
		if u.Field == calendar.Century {
			cmp = ref.CompareFieldsTo(cal, calendar.Decade)
		} else {
			cmp = ref.CompareFieldsTo(cal, calendar.Month, calendar.QuarterYear, calendar.HalfYear, calendar.WeekOfYear)
		}
		diff = tenseOffset(t, cmp)
	}
	switch {
	case ref != nil:
		cal.Set(u.Field, ref.Get(u.Field)+diff)
	case u.Field == calendar.Century && !cal.Has(calendar.Century):
		cal.Set(calendar.Century, r.century)
	}
	return cal
}

// tenseOffset is -1 when a past expression's known fields lie after the
// reference, +1 when a future one's lie before it.
func tenseOffset(t tense.Tense, refCmp int) int {
	switch {
	case t == tense.Past && refCmp < 0:
		return -1
	case t.FutureLike() && refCmp > 0:
		return 1
	}
	return 0
}

// byValue moves ref to the named weekday, month or season in direction
// dir: negative for "last", zero for "this", positive for "next".
func byValue(ref *calendar.Timex, field calendar.Field, dir, value int) (*calendar.Timex, error) {
	if ref == nil {
		return nil, nil
	}
	res := ref.Clone()
	refValue := ref.Get(field)

	switch field {
	case calendar.DayOfWeek:
		diff := value - refValue
		switch {
		case dir < 0:
			if diff >= 0 {
				diff -= 7
			}
		case dir == 0:
			if diff >= 0 {
				diff -= 7
			}
			if diff == -7 {
				diff = 0
			}
		default:
			if diff <= 0 {
				diff += 7
			}
		}
		if err := res.Add(calendar.Date, diff); err != nil {
			return nil, err
		}
	case calendar.Month, calendar.Season:
		res.Set(field, value)
		if dir != 0 && refValue*dir >= value*dir {
			if err := res.Add(calendar.Year, dir); err != nil {
				return nil, err
			}
		}
	default:
		return nil, &calendar.FieldError{Op: "resolve by value", Field: field}
	}
	return res, nil
}

// bareWeekday resolves a weekday with no direction: the most recent such
// day, or the coming one when the creation time is in use and the tense
// points forward.
func bareWeekday(ref *calendar.Timex, t tense.Tense, value int, useDCT bool) (*calendar.Timex, error) {
	if ref == nil {
		return nil, nil
	}
	diff := value - ref.Get(calendar.DayOfWeek)
	if diff >= 0 {
		diff -= 7
	}
	if diff == -7 {
		diff = 0
	}
	if useDCT && t.FutureLike() {
		diff += 7
	}
	res := ref.Clone()
	if err := res.Add(calendar.Date, diff); err != nil {
		return nil, err
	}
	return res, nil
}
