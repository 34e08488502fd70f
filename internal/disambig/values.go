package disambig

import "github.com/roach88/timex/internal/calendar"

// FieldValue is a named calendar value such as "monday" or "SU".
type FieldValue struct {
	Field calendar.Field
	Value int
}

// Values holds the unit and value names placeholders use. It is built once
// and only read afterwards.
type Values struct {
	hemisphere calendar.Hemisphere
	fields     map[string]calendar.Field
	named      map[string]FieldValue
}

var unitNames = map[string]calendar.Field{
	"century": calendar.Century,
	"decade":  calendar.Decade,
	"year":    calendar.Year,
	"half":    calendar.HalfYear,
	"quarter": calendar.QuarterYear,
	"season":  calendar.Season,
	"month":   calendar.Month,
	"week":    calendar.WeekOfYear,
	"day":     calendar.Date,
	"hour":    calendar.HourOfDay,
	"minute":  calendar.Minute,
}

var weekdayNames = []struct {
	lower, title string
	value        int
}{
	{"sunday", "Sunday", calendar.Sunday},
	{"monday", "Monday", calendar.Monday},
	{"tuesday", "Tuesday", calendar.Tuesday},
	{"wednesday", "Wednesday", calendar.Wednesday},
	{"thursday", "Thursday", calendar.Thursday},
	{"friday", "Friday", calendar.Friday},
	{"saturday", "Saturday", calendar.Saturday},
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var seasonNames = []string{"SP", "SU", "FA", "WI"}

// NewValues builds the tables for hemisphere h. Season codes map to the
// months of that hemisphere.
func NewValues(h calendar.Hemisphere) *Values {
	v := &Values{
		hemisphere: h,
		fields:     make(map[string]calendar.Field, len(unitNames)),
		named:      make(map[string]FieldValue),
	}
	for name, f := range unitNames {
		v.fields[name] = f
	}
	for _, d := range weekdayNames {
		v.named[d.lower] = FieldValue{calendar.DayOfWeek, d.value}
		v.named[d.title] = FieldValue{calendar.DayOfWeek, d.value}
	}
	for i, m := range monthNames {
		v.named[m] = FieldValue{calendar.Month, calendar.January + i}
	}
	for _, code := range seasonNames {
		s, _ := calendar.SeasonValue(code, h)
		v.named[code] = FieldValue{calendar.Season, s}
	}
	return v
}

// Hemisphere returns the hemisphere the season codes were built for.
func (v *Values) Hemisphere() calendar.Hemisphere {
	return v.hemisphere
}

// Unit looks up a unit name such as "month".
func (v *Values) Unit(name string) (calendar.Field, bool) {
	f, ok := v.fields[name]
	return f, ok
}

// Named looks up a value name such as "monday", "march" or "WI".
func (v *Values) Named(name string) (FieldValue, bool) {
	fv, ok := v.named[name]
	return fv, ok
}
