package calendar

import "time"

// Implicature marks every field of Implies known once every field of
// Condition is known.
type Implicature struct {
	Condition Mask
	Implies   Mask
}

// DefaultImplicatures relate the real Gregorian fields to each other.
var DefaultImplicatures = []Implicature{
	{MaskOf(Era, Year, Month, Date), MaskOf(DayOfWeek, DayOfWeekInMonth, DayOfYear, WeekOfYear, WeekOfMonth)},
	{MaskOf(Era, Year, DayOfYear), MaskOf(Month, Date)},
	{MaskOf(Era, Year, DayOfWeek, WeekOfYear), MaskOf(Month, Date)},
	{MaskOf(Era, Year, Month, DayOfWeek, WeekOfMonth), MaskOf(Date)},
	{MaskOf(AMPM, Hour), MaskOf(HourOfDay)},
	{MaskOf(HourOfDay), MaskOf(AMPM, Hour)},
}

// Closure applies impl to m until no implicature adds a field.
func Closure(m Mask, impl []Implicature) Mask {
	for {
		prev := m
		for _, i := range impl {
			if m&i.Condition == i.Condition {
				m |= i.Implies
			}
		}
		if m == prev {
			return m
		}
	}
}

// Partial is an instant plus the set of fields known about it.
type Partial struct {
	t    time.Time
	mask Mask
	impl []Implicature
}

// NewPartial wraps t. The fields in known are marked known without
// touching the instant.
func NewPartial(impl []Implicature, t time.Time, known ...Field) *Partial {
	p := &Partial{t: t.UTC(), impl: impl}
	p.mask = Closure(MaskOf(known...), impl)
	return p
}

// Get returns the value of f on the underlying instant, known or not.
func (p *Partial) Get(f Field) int {
	return ops[f].get(p.t)
}

// Set writes f and marks it known.
//
// A known ISO week with no known month or day floats: changing a year
// field keeps the week number and weekday instead of the month and day. A
// week beyond the last of the underlying year rolls into the next one.
func (p *Partial) Set(f Field, v int) {
	p.set(f, v)
	p.MarkSet(f)
}

func (p *Partial) set(f Field, v int) {
	if f == WeekOfYear && !p.HasAny(yearFields...) {
		// The year is free, so pick one that has week v.
		p.t = withYearMonth(p.t, yearWithWeek(p.t.Year(), v), month0(p.t))
	}
	_, week, weekday, floating := p.floatingWeek(f)
	p.t = ops[f].set(p.t, v)
	if floating {
		p.reanchor(p.t.Year(), week, weekday)
	}
}

var yearFields = []Field{Year, Century, Decade, YearUnit}

// floatingWeek returns the ISO week position to restore after f changes,
// if the week is known and no month or day pins the instant.
func (p *Partial) floatingWeek(f Field) (year, week, weekday int, ok bool) {
	if !MaskOf(yearFields...).Has(f) || !p.Has(WeekOfYear) || p.HasAny(Month, Date) {
		return 0, 0, 0, false
	}
	year, week = p.t.ISOWeek()
	return year, week, isoWeekday(p.t), true
}

// reanchor moves the instant to the given ISO week and weekday of year.
func (p *Partial) reanchor(year, week, weekday int) {
	start := isoWeekStart(year, week)
	p.t = withClock(start.AddDate(0, 0, weekday), p.t)
}

// MarkSet marks f known without changing its value.
func (p *Partial) MarkSet(f Field) {
	if m := p.mask | MaskOf(f); m != p.mask {
		p.mask = Closure(m, p.impl)
	}
}

// Add shifts the instant by n units of f. It does not change the mask.
func (p *Partial) Add(f Field, n int) error {
	if n == 0 {
		return nil
	}
	add := ops[f].add
	if add == nil {
		return &FieldError{Op: "add", Field: f}
	}
	year, week, weekday, floating := p.floatingWeek(f)
	before := p.t.Year()
	p.t = add(p.t, n)
	if floating {
		p.reanchor(year+p.t.Year()-before, week, weekday)
	}
	return nil
}

// Has reports whether f is known.
func (p *Partial) Has(f Field) bool {
	return p.mask.Has(f)
}

// HasAny reports whether at least one of fields is known.
func (p *Partial) HasAny(fields ...Field) bool {
	return p.mask&MaskOf(fields...) != 0
}

// HasAll reports whether every one of fields is known.
func (p *Partial) HasAll(fields ...Field) bool {
	m := MaskOf(fields...)
	return p.mask&m == m
}

// Mask returns the known fields.
func (p *Partial) Mask() Mask {
	return p.mask
}

// Time returns the underlying instant.
func (p *Partial) Time() time.Time {
	return p.t
}

// CompareFieldsTo compares fields in order, skipping any field not known
// on both sides, and returns the sign of the first difference.
func (p *Partial) CompareFieldsTo(other *Partial, fields ...Field) int {
	for _, f := range fields {
		if !p.Has(f) || !other.Has(f) {
			continue
		}
		a, b := p.Get(f), other.Get(f)
		switch {
		case a > b:
			return 1
		case a < b:
			return -1
		}
	}
	return 0
}

// Clone returns an independent copy sharing the implicature list.
func (p *Partial) Clone() *Partial {
	c := *p
	return &c
}

// updateOrder lists the fields Update copies, coarse to fine. Fields implied
// by an earlier entry are skipped so that setting them cannot move the
// instant away from what the earlier fields fixed.
var updateOrder = []struct {
	field  Field
	skipIf Mask
}{
	{field: Era},
	{field: Year},
	{field: Century, skipIf: MaskOf(Year)},
	{field: Decade, skipIf: MaskOf(Year)},
	{field: YearUnit, skipIf: MaskOf(Year)},
	{field: Month},
	{field: HalfYear, skipIf: MaskOf(Month)},
	{field: QuarterYear, skipIf: MaskOf(Month)},
	{field: Season, skipIf: MaskOf(Month)},
	{field: DayOfYear, skipIf: MaskOf(Month, Date)},
	{field: WeekOfYear, skipIf: MaskOf(Month, Date)},
	{field: WeekOfMonth, skipIf: MaskOf(Date)},
	{field: DayOfWeekInMonth, skipIf: MaskOf(Date)},
	{field: DayOfWeek, skipIf: MaskOf(Date)},
	{field: PartOfWeek, skipIf: MaskOf(DayOfWeek)},
	{field: Date},
	{field: HourOfDay},
	{field: AMPM, skipIf: MaskOf(HourOfDay)},
	{field: Hour, skipIf: MaskOf(HourOfDay)},
	{field: PartOfDay, skipIf: MaskOf(HourOfDay, Hour)},
	{field: Minute},
	{field: Second},
	{field: Millisecond},
}

// Update adopts every field known by other. Fields p already knows and
// other does not are kept.
func (p *Partial) Update(other *Partial) {
	om := other.mask
	for _, u := range updateOrder {
		if !om.Has(u.field) || (u.skipIf != 0 && om&u.skipIf != 0) {
			continue
		}
		p.set(u.field, other.Get(u.field))
		p.mask |= MaskOf(u.field)
	}
	p.mask = Closure(p.mask|om, p.impl)
}
