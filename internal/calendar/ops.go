package calendar

import "time"

// fieldOp is one row of the dispatch table. A nil add means the field
// cannot be shifted.
type fieldOp struct {
	get func(t time.Time) int
	set func(t time.Time, v int) time.Time
	add func(t time.Time, n int) time.Time
}

var ops [fieldCount]fieldOp

func init() {
	ops = [fieldCount]fieldOp{
		Era: {
			get: func(time.Time) int { return 1 },
			set: func(t time.Time, _ int) time.Time { return t },
		},
		Year: {
			get: func(t time.Time) int { return t.Year() },
			set: func(t time.Time, v int) time.Time { return withYearMonth(t, v, month0(t)) },
			add: func(t time.Time, n int) time.Time { return addMonths(t, 12*n) },
		},
		Month: {
			get: month0,
			set: func(t time.Time, v int) time.Time { return withYearMonth(t, t.Year(), v) },
			add: addMonths,
		},
		WeekOfYear: {
			get: func(t time.Time) int {
				_, w := t.ISOWeek()
				return w
			},
			set: func(t time.Time, v int) time.Time {
				start := isoWeekStart(t.Year(), v)
				return withClock(start.AddDate(0, 0, isoWeekday(t)), t)
			},
			add: addWeeks,
		},
		WeekOfMonth: {
			get: weekOfMonth,
			set: func(t time.Time, v int) time.Time { return addWeeks(t, v-weekOfMonth(t)) },
			add: addWeeks,
		},
		Date: {
			get: func(t time.Time) int { return t.Day() },
			set: func(t time.Time, v int) time.Time {
				return time.Date(t.Year(), t.Month(), v, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
			},
			add: addDays,
		},
		DayOfYear: {
			get: func(t time.Time) int { return t.YearDay() },
			set: func(t time.Time, v int) time.Time {
				return time.Date(t.Year(), time.January, v, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
			},
			add: addDays,
		},
		DayOfWeek: {
			get: func(t time.Time) int { return int(t.Weekday()) + 1 },
			set: func(t time.Time, v int) time.Time {
				v = ((v-1)%7+7)%7 + 1
				return addDays(t, (v+5)%7-isoWeekday(t))
			},
			add: addDays,
		},
		DayOfWeekInMonth: {
			get: func(t time.Time) int { return (t.Day()-1)/7 + 1 },
			set: func(t time.Time, v int) time.Time { return addWeeks(t, v-((t.Day()-1)/7+1)) },
			add: addWeeks,
		},
		AMPM: {
			get: func(t time.Time) int { return t.Hour() / 12 },
			set: func(t time.Time, v int) time.Time { return withHour(t, t.Hour()%12+12*v) },
			add: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * 12 * time.Hour) },
		},
		Hour: {
			get: func(t time.Time) int { return t.Hour() % 12 },
			set: func(t time.Time, v int) time.Time { return withHour(t, (t.Hour()/12)*12+v) },
			add: addHours,
		},
		HourOfDay: {
			get: func(t time.Time) int { return t.Hour() },
			set: withHour,
			add: addHours,
		},
		Minute: {
			get: func(t time.Time) int { return t.Minute() },
			set: func(t time.Time, v int) time.Time {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), v, t.Second(), t.Nanosecond(), time.UTC)
			},
			add: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Minute) },
		},
		Second: {
			get: func(t time.Time) int { return t.Second() },
			set: func(t time.Time, v int) time.Time {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), v, t.Nanosecond(), time.UTC)
			},
			add: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Second) },
		},
		Millisecond: {
			get: func(t time.Time) int { return t.Nanosecond() / int(time.Millisecond) },
			set: func(t time.Time, v int) time.Time {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), v*int(time.Millisecond), time.UTC)
			},
			add: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Millisecond) },
		},

		Century: {
			get: func(t time.Time) int { return t.Year() / 100 },
			set: func(t time.Time, v int) time.Time {
				return withYearMonth(t, t.Year()%100+v*100, month0(t))
			},
			add: func(t time.Time, n int) time.Time { return addMonths(t, 1200*n) },
		},
		Decade: {
			get: func(t time.Time) int { return (t.Year() % 100) / 10 },
			set: func(t time.Time, v int) time.Time {
				y := t.Year()
				return withYearMonth(t, (y/100)*100+v*10+y%10, month0(t))
			},
			add: func(t time.Time, n int) time.Time { return addMonths(t, 120*n) },
		},
		YearUnit: {
			get: func(t time.Time) int { return t.Year() % 10 },
			set: func(t time.Time, v int) time.Time {
				return withYearMonth(t, (t.Year()/10)*10+v, month0(t))
			},
		},
		HalfYear: {
			get: func(t time.Time) int {
				if month0(t) < July {
					return H1
				}
				return H2
			},
			set: func(t time.Time, v int) time.Time {
				m := month0(t)
				switch {
				case v == H1 && m > June:
					return withYearMonth(t, t.Year(), January)
				case v == H2 && m < July:
					return withYearMonth(t, t.Year(), July)
				}
				return t
			},
			add: func(t time.Time, n int) time.Time { return addMonths(t, 6*n) },
		},
		QuarterYear: {
			get: func(t time.Time) int { return month0(t)/3 + 1 },
			set: func(t time.Time, v int) time.Time {
				// Representative months have 31 days.
				m := month0(t)
				switch {
				case v == Q1 && m > March:
					return withYearMonth(t, t.Year(), January)
				case v == Q2 && (m < April || m > June):
					return withYearMonth(t, t.Year(), May)
				case v == Q3 && (m < July || m > September):
					return withYearMonth(t, t.Year(), July)
				case v == Q4 && m < October:
					return withYearMonth(t, t.Year(), October)
				}
				return t
			},
			add: func(t time.Time, n int) time.Time { return addMonths(t, 3*n) },
		},
		Season: {
			get: func(t time.Time) int { return ((month0(t) + 10) / 3) % 4 },
			set: func(t time.Time, v int) time.Time {
				m := month0(t)
				start := v*3 + 2
				if m < start || m > start+2 {
					return withYearMonth(t, t.Year(), start)
				}
				return t
			},
			add: func(t time.Time, n int) time.Time { return addMonths(t, 3*n) },
		},
		PartOfDay: {
			get: func(t time.Time) int {
				h := t.Hour()
				switch {
				case h < 11:
					return Morning
				case h < 13:
					return Midday
				case h < 17:
					return Afternoon
				case h < 20:
					return Evening
				}
				return Night
			},
			set: func(t time.Time, v int) time.Time {
				switch v {
				case Morning:
					return withHour(t, 9)
				case Midday:
					return withHour(t, 12)
				case Afternoon:
					return withHour(t, 16)
				case Evening:
					return withHour(t, 18)
				case Night:
					return withHour(t, 22)
				}
				return t
			},
		},
		PartOfWeek: {
			get: func(t time.Time) int {
				if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
					return Weekend
				}
				return Weekday
			},
			set: func(t time.Time, v int) time.Time {
				weekend := t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
				switch {
				case weekend && v == Weekday:
					return ops[DayOfWeek].set(t, Monday)
				case !weekend && v == Weekend:
					return ops[DayOfWeek].set(t, Saturday)
				}
				return t
			},
		},
	}
}

func month0(t time.Time) int {
	return int(t.Month()) - 1
}

func daysIn(year, m0 int) int {
	return time.Date(year, time.Month(m0+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// withYearMonth moves t to the given year and 0-based month, normalizing
// month overflow into the year and clamping the day to the month's length.
func withYearMonth(t time.Time, year, m0 int) time.Time {
	year += floorDiv(m0, 12)
	m0 = m0 - floorDiv(m0, 12)*12
	day := t.Day()
	if n := daysIn(year, m0); day > n {
		day = n
	}
	return time.Date(year, time.Month(m0+1), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func addMonths(t time.Time, n int) time.Time {
	return withYearMonth(t, t.Year(), month0(t)+n)
}

func addWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func addHours(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Hour)
}

func withHour(t time.Time, h int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), h, t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func withClock(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), time.UTC)
}

// isoWeekday is 0 for Monday through 6 for Sunday.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// isoWeekStart returns the Monday of ISO week w of year.
func isoWeekStart(year, w int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -isoWeekday(jan4))
	return monday.AddDate(0, 0, 7*(w-1))
}

// weeksIn returns the number of ISO weeks in year, 52 or 53.
func weeksIn(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// yearWithWeek returns the first year from year on that has ISO week w.
func yearWithWeek(year, w int) int {
	for y := year; y < year+7; y++ {
		if weeksIn(y) >= w {
			return y
		}
	}
	return year
}

func weekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return (t.Day()-1+isoWeekday(first))/7 + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
