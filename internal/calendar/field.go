package calendar

import (
	"fmt"
	"strings"
)

// Field identifies a calendar field.
type Field int

// Real fields.
const (
	Era Field = iota
	Year
	Month // 0-based: January = 0
	WeekOfYear
	WeekOfMonth
	Date // day of month
	DayOfYear
	DayOfWeek // Sunday = 1 ... Saturday = 7
	DayOfWeekInMonth
	AMPM
	Hour // 0-11
	HourOfDay
	Minute
	Second
	Millisecond
)

// Synthetic fields, derived from the real ones.
const (
	Century Field = Millisecond + 1 + iota
	Decade
	YearUnit
	HalfYear
	QuarterYear
	Season
	PartOfDay
	PartOfWeek

	fieldCount
)

// DayOfMonth is an alias for Date.
const DayOfMonth = Date

var fieldNames = [fieldCount]string{
	Era:              "ERA",
	Year:             "YEAR",
	Month:            "MONTH",
	WeekOfYear:       "WEEK_OF_YEAR",
	WeekOfMonth:      "WEEK_OF_MONTH",
	Date:             "DATE",
	DayOfYear:        "DAY_OF_YEAR",
	DayOfWeek:        "DAY_OF_WEEK",
	DayOfWeekInMonth: "DAY_OF_WEEK_IN_MONTH",
	AMPM:             "AM_PM",
	Hour:             "HOUR",
	HourOfDay:        "HOUR_OF_DAY",
	Minute:           "MINUTE",
	Second:           "SECOND",
	Millisecond:      "MILLISECOND",
	Century:          "CENTURY",
	Decade:           "DECADE",
	YearUnit:         "YEAR_UNIT",
	HalfYear:         "HALF_YEAR",
	QuarterYear:      "QUARTER_YEAR",
	Season:           "SEASON",
	PartOfDay:        "PART_OF_DAY",
	PartOfWeek:       "PART_OF_WEEK",
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Valid reports whether f is a known field identifier.
func (f Field) Valid() bool {
	return f >= Era && f < fieldCount
}

// Synthetic reports whether f is derived from the real fields.
func (f Field) Synthetic() bool {
	return f >= Century && f < fieldCount
}

// Values for synthetic fields.
const (
	H1 = 1
	H2 = 2

	Q1 = 1
	Q2 = 2
	Q3 = 3
	Q4 = 4

	Weekday = 1
	Weekend = 2

	Morning   = 0
	Midday    = 1
	Afternoon = 2
	Evening   = 3
	Night     = 4

	// Season indices in northern naming.
	Spring = 0
	Summer = 1
	Fall   = 2
	Winter = 3
)

// Values for real fields.
const (
	Sunday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const (
	January = iota
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

const (
	AM = 0
	PM = 1
)

// Mask is a set of fields.
type Mask uint32

// MaskOf returns the mask containing fields.
func MaskOf(fields ...Field) Mask {
	var m Mask
	for _, f := range fields {
		m |= 1 << uint(f)
	}
	return m
}

// Has reports whether f is in the mask.
func (m Mask) Has(f Field) bool {
	return m&(1<<uint(f)) != 0
}

// Fields returns the fields of the mask in identifier order.
func (m Mask) Fields() []Field {
	var out []Field
	for f := Era; f < fieldCount; f++ {
		if m.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (m Mask) String() string {
	fields := m.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}

// FieldError reports an operation a field does not support.
type FieldError struct {
	Op    string
	Field Field
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("calendar: %s not supported for field %s", e.Op, e.Field)
}
