package disambig

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/timex/internal/calendar"
)

// Respect says what a placeholder is relative to.
type Respect int

const (
	// Unknown fills a single missing field from context, as in "the
	// seventies" or "May 3".
	Unknown Respect = iota
	// AuthorTime is relative to the time of writing: "last month".
	AuthorTime
	// MentionedTime is relative to a time mentioned earlier: "the day
	// before".
	MentionedTime
	// MentionedUnit counts units from a mentioned time: "a year later".
	MentionedUnit
)

var respectNames = [...]string{
	Unknown:       "unknown",
	AuthorTime:    "author_time",
	MentionedTime: "mentioned_time",
	MentionedUnit: "mentioned_unit",
}

func (r Respect) String() string {
	if r < 0 || int(r) >= len(respectNames) {
		return fmt.Sprintf("Respect(%d)", int(r))
	}
	return respectNames[r]
}

// UsesDCT reports whether the document creation time may serve as the
// reference.
func (r Respect) UsesDCT() bool {
	return r < MentionedTime
}

// Undef is a parsed placeholder.
type Undef struct {
	// Calendar holds whatever the placeholder already states.
	Calendar *calendar.Timex
	// Field is the field being resolved.
	Field calendar.Field
	// Diff is the signed unit count: -1 for "last", 3 for "PLUS-3".
	Diff    int
	Respect Respect
	// ByValue is set when the placeholder names a weekday, month or season.
	ByValue bool
}

func (u *Undef) String() string {
	return fmt.Sprintf("Undef<cal=%s field=%s diff=%d respect=%s byvalue=%t>",
		u.Calendar, u.Field, u.Diff, u.Respect, u.ByValue)
}

var (
	weekdayRe  = regexp.MustCompile(`^day-([a-z]+day)`)
	offsetRe   = regexp.MustCompile(`^(this|REFUNIT|REF)-(.*?)-(MINUS|PLUS)-([0-9]+)`)
	relativeRe = regexp.MustCompile(`^(this|last|next)-(WI|SP|SU|FA|[A-Za-z][a-z]+)`)
)

const undefPrefix = "UNDEF-"

// ParseUndef reads one placeholder value.
//
// Recognized forms, after the UNDEF- prefix:
//
//	century<rest>                 century fill-in ("century19", "century7")
//	year<rest>                    year fill-in ("year-05-12")
//	day-<weekday><rest>           bare weekday
//	(this|REF|REFUNIT)-<unit>-(PLUS|MINUS)-<n><rest>
//	(this|last|next)-<unit|name><rest>
func (v *Values) ParseUndef(value string) (*Undef, error) {
	s := strings.TrimPrefix(value, undefPrefix)
	u := &Undef{}
	named := 0
	var rest string

	switch {
	case strings.HasPrefix(s, "century"):
		u.Field = calendar.Century
		rest = s[len("century"):]

	case strings.HasPrefix(s, "year"):
		u.Field = calendar.Year
		rest = s[len("year"):]

	case strings.HasPrefix(s, "day-"):
		m := weekdayRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, &UndefError{Value: value, Reason: "no weekday"}
		}
		fv, ok := v.Named(s[m[2]:m[3]])
		if !ok {
			return nil, &UndefError{Value: value, Reason: fmt.Sprintf("unknown weekday %q", s[m[2]:m[3]])}
		}
		u.Field, named, u.ByValue = fv.Field, fv.Value, true
		rest = s[m[3]:]

	case strings.Contains(s, "PLUS") || strings.Contains(s, "MINUS"):
		m := offsetRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, &UndefError{Value: value, Reason: "malformed offset"}
		}
		switch s[m[2]:m[3]] {
		case "this":
			u.Respect = AuthorTime
		case "REF":
			u.Respect = MentionedTime
		default:
			u.Respect = MentionedUnit
		}
		unit := s[m[4]:m[5]]
		f, ok := v.Unit(unit)
		if !ok {
			return nil, &UndefError{Value: value, Reason: fmt.Sprintf("unknown unit %q", unit)}
		}
		u.Field = f
		n, err := strconv.Atoi(s[m[8]:m[9]])
		if err != nil {
			return nil, &UndefError{Value: value, Reason: err.Error()}
		}
		if s[m[6]:m[7]] == "MINUS" {
			n = -n
		}
		u.Diff = n
		rest = s[m[9]:]

	default:
		m := relativeRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, &UndefError{Value: value, Reason: "unrecognized form"}
		}
		u.Respect = AuthorTime
		switch s[m[2]:m[3]] {
		case "last":
			u.Diff = -1
		case "next":
			u.Diff = 1
		}
		name := s[m[4]:m[5]]
		if f, ok := v.Unit(name); ok {
			u.Field = f
		} else if fv, ok := v.Named(name); ok {
			u.Field, named, u.ByValue = fv.Field, fv.Value, true
		} else {
			return nil, &UndefError{Value: value, Reason: fmt.Sprintf("unknown unit or name %q", name)}
		}
		rest = s[m[5]:]
	}

	cal, err := v.baseCalendar(u.Field, rest)
	if err != nil {
		return nil, &UndefError{Value: value, Reason: err.Error()}
	}
	if u.ByValue {
		cal.Set(u.Field, named)
	}
	u.Calendar = cal
	return u, nil
}

// baseCalendar returns what the placeholder states beyond its unit. rest
// continues the unset rendering at field, so "century" + "7" reads as
// "XX7".
func (v *Values) baseCalendar(field calendar.Field, rest string) (*calendar.Timex, error) {
	unset := calendar.Unset(v.hemisphere)
	if rest == "" {
		unset.SetLowest(field)
		return unset, nil
	}
	head, err := unset.Format(field)
	if err != nil {
		return nil, err
	}
	return calendar.Parse(head+rest, v.hemisphere)
}
