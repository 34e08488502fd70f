package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hemisphere selects how season codes map onto months.
type Hemisphere int

const (
	Northern Hemisphere = iota
	Southern
)

// ParseHemisphere accepts "northern" or "southern", case-insensitively.
// The empty string means Northern.
func ParseHemisphere(s string) (Hemisphere, error) {
	switch strings.ToLower(s) {
	case "", "northern", "north":
		return Northern, nil
	case "southern", "south":
		return Southern, nil
	}
	return Northern, fmt.Errorf("calendar: unknown hemisphere %q", s)
}

func (h Hemisphere) String() string {
	if h == Southern {
		return "southern"
	}
	return "northern"
}

// SeasonOffset is 0 for northern season naming and 2 for southern.
func (h Hemisphere) SeasonOffset() int {
	if h == Southern {
		return 2
	}
	return 0
}

// TimexImplicatures extend DefaultImplicatures with the synthetic fields.
var TimexImplicatures = append(append([]Implicature(nil), DefaultImplicatures...),
	Implicature{MaskOf(Year), MaskOf(Century, Decade, YearUnit)},
	Implicature{MaskOf(Century, Decade, YearUnit), MaskOf(Year)},
	Implicature{MaskOf(Month), MaskOf(HalfYear, QuarterYear, Season)},
	Implicature{MaskOf(Hour), MaskOf(PartOfDay)},
	Implicature{MaskOf(DayOfWeek), MaskOf(PartOfWeek)},
)

// baseInstant underlies every freshly parsed value.
var baseInstant = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	seasonCodes    = [4]string{"SP", "SU", "FA", "WI"}
	partOfDayCodes = [5]string{"MO", "MD", "AF", "EV", "NI"}
)

var (
	partOfYearMask = MaskOf(Month, HalfYear, QuarterYear, Season, WeekOfYear)
	partOfWeekMask = MaskOf(PartOfWeek)
	partOfDayMask  = MaskOf(HourOfDay, Hour, PartOfDay, AMPM)
	earlyEndMask   = MaskOf(HalfYear, QuarterYear, Season, WeekOfYear, DayOfWeek, WeekOfMonth, PartOfDay, AMPM)
)

// endOffsets truncate the full rendering for fields that sit on the plain
// YYYY-MM-DDTHH:MM spine.
var endOffsets = map[Field]int{
	Century:   2,
	Decade:    3,
	Year:      4,
	YearUnit:  4,
	Month:     7,
	Date:      10,
	DayOfWeek: 10,
	HourOfDay: 13,
	Minute:    16,
}

var compareOrder = []Field{
	Era, Century, Decade, Year, HalfYear, QuarterYear, Month, WeekOfYear, Season,
	WeekOfMonth, PartOfWeek, Date, DayOfWeek, AMPM, PartOfDay, HourOfDay, Hour,
	Minute, Second, Millisecond,
}

// ValueError reports a TIMEX value that cannot be parsed.
type ValueError struct {
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("calendar: invalid timex value %q: %s", e.Value, e.Reason)
}

// Timex is a Partial read from, and rendered back to, a TIMEX3 value.
type Timex struct {
	Partial
	lowest     Field
	hemisphere Hemisphere
}

// Parse reads a TIMEX3 value such as "2023-05-07", "19XX" or "2123-W42-WE".
func Parse(value string, h Hemisphere) (*Timex, error) {
	t := Unset(h)
	lowest, err := t.parse(value)
	if err != nil {
		return nil, err
	}
	t.lowest = lowest
	return t, nil
}

// MustParse is Parse that panics on error.
func MustParse(value string, h Hemisphere) *Timex {
	t, err := Parse(value, h)
	if err != nil {
		panic(err)
	}
	return t
}

// Unset returns a value with only the era known. Its lowest field is Year.
func Unset(h Hemisphere) *Timex {
	t := &Timex{
		Partial:    Partial{t: baseInstant, impl: TimexImplicatures},
		lowest:     Year,
		hemisphere: h,
	}
	t.Set(Era, 1)
	return t
}

// Lowest returns the finest field the value commits to.
func (t *Timex) Lowest() Field {
	return t.lowest
}

// SetLowest changes the rendering granularity.
func (t *Timex) SetLowest(f Field) {
	t.lowest = f
}

// Hemisphere returns the season naming in use.
func (t *Timex) Hemisphere() Hemisphere {
	return t.hemisphere
}

// Clone returns an independent copy.
func (t *Timex) Clone() *Timex {
	c := *t
	return &c
}

// CompareFieldsTo is Partial.CompareFieldsTo for two Timex values.
func (t *Timex) CompareFieldsTo(other *Timex, fields ...Field) int {
	return t.Partial.CompareFieldsTo(&other.Partial, fields...)
}

// Compare orders two values on the fields both of them know.
func (t *Timex) Compare(other *Timex) int {
	return t.CompareFieldsTo(other, compareOrder...)
}

// Update adopts other's fields down to lowest, read back from its
// rendering so that finer fields never leak across. t's own lowest field
// is unchanged.
func (t *Timex) Update(other *Timex, lowest Field) error {
	s, err := other.Format(lowest)
	if err != nil {
		return err
	}
	u, err := Parse(s, t.hemisphere)
	if err != nil {
		return err
	}
	t.Partial.Update(&u.Partial)
	return nil
}

func (t *Timex) String() string {
	s, err := t.Format(t.lowest)
	if err != nil {
		return t.FullString(t.mask)
	}
	return s
}

func (t *Timex) parse(value string) (Field, error) {
	orig := value
	if digitsAt(value, 0, 4) {
		t.Set(Year, atoi(value[:4]))
	} else {
		if digitsAt(value, 0, 2) {
			t.Set(Century, atoi(value[:2]))
		}
		if placeholderAt(value, 0, 2) && digitsAt(value, 2, 1) {
			t.Set(Decade, atoi(value[2:3]))
		}
		if placeholderAt(value, 0, 3) && digitsAt(value, 3, 1) {
			t.Set(YearUnit, atoi(value[3:4]))
		}
	}
	if len(value) < 5 {
		return Year, nil
	}

	value = value[5:]
	switch {
	case digitsAt(value, 0, 2):
		t.Set(Month, atoi(value[:2])-1)
	case strings.HasPrefix(value, "W") && digitsAt(value, 1, 2):
		t.Set(WeekOfYear, atoi(value[1:3]))
	case strings.HasPrefix(value, "H1"), strings.HasPrefix(value, "H2"):
		t.Set(HalfYear, atoi(value[1:2]))
	case len(value) >= 2 && value[0] == 'Q' && value[1] >= '1' && value[1] <= '4':
		t.Set(QuarterYear, atoi(value[1:2]))
	default:
		if i := codeIndex(seasonCodes[:], value); i >= 0 {
			t.Set(Season, (i+t.hemisphere.SeasonOffset())%4)
			return Season, nil
		}
	}

	dash := strings.IndexByte(value, '-')
	if dash < 0 {
		if value == "" {
			return Month, nil
		}
		switch value[0] {
		case 'H':
			return HalfYear, nil
		case 'Q':
			return QuarterYear, nil
		case 'W':
			return WeekOfYear, nil
		}
		return Month, nil
	}

	value = value[dash+1:]
	if digitsAt(value, 0, 2) {
		t.Set(Date, atoi(value[:2]))
	}
	if strings.HasPrefix(value, "WE") {
		t.Set(PartOfWeek, Weekend)
		return PartOfWeek, nil
	}
	if len(value) < 2 {
		return 0, &ValueError{Value: orig, Reason: "truncated day"}
	}

	value = value[2:]
	if !strings.HasPrefix(value, "T") {
		return Date, nil
	}
	if digitsAt(value, 1, 2) {
		t.Set(HourOfDay, atoi(value[1:3]))
	} else if len(value) >= 3 {
		if i := codeIndex(partOfDayCodes[:], value[1:3]); i >= 0 {
			t.Set(PartOfDay, i)
			return PartOfDay, nil
		}
	}
	if digitsAt(value, 1, 2) && len(value) > 3 && value[3] == ':' && digitsAt(value, 4, 2) {
		t.Set(Minute, atoi(value[4:6]))
		return Minute, nil
	}
	return HourOfDay, nil
}

// FullString renders every position, treating only the fields in mask as
// known. Week, season, quarter and half-year renderings end early.
func (t *Timex) FullString(mask Mask) string {
	var b strings.Builder
	has := mask.Has

	weekForm := !has(Month) && has(WeekOfYear)
	switch {
	case has(Year):
		y := t.Get(Year)
		if weekForm {
			y, _ = t.t.ISOWeek()
		}
		fmt.Fprintf(&b, "%04d", y)
	default:
		b.WriteString(orX(has(Century), fmt.Sprintf("%02d", t.Get(Century)), "XX"))
		b.WriteString(orX(has(Decade), strconv.Itoa(t.Get(Decade)), "X"))
		b.WriteString(orX(has(YearUnit), strconv.Itoa(t.Get(YearUnit)), "X"))
	}

	b.WriteByte('-')
	switch {
	case has(Month):
		fmt.Fprintf(&b, "%02d", t.Get(Month)+1)
	case has(WeekOfYear):
		fmt.Fprintf(&b, "W%02d", t.Get(WeekOfYear))
		if has(PartOfWeek) && t.Get(PartOfWeek) == Weekend {
			b.WriteString("-WE")
		}
		return b.String()
	case has(Season):
		b.WriteString(t.seasonCode(t.Get(Season)))
		return b.String()
	case has(QuarterYear):
		fmt.Fprintf(&b, "Q%d", t.Get(QuarterYear))
		return b.String()
	case has(HalfYear):
		fmt.Fprintf(&b, "H%d", t.Get(HalfYear))
		return b.String()
	default:
		b.WriteString("XX")
	}

	b.WriteByte('-')
	b.WriteString(orX(has(Date), fmt.Sprintf("%02d", t.Get(Date)), "XX"))

	switch {
	case has(HourOfDay):
		fmt.Fprintf(&b, "T%02d", t.Get(HourOfDay))
	case has(PartOfDay):
		b.WriteString("T" + partOfDayCodes[t.Get(PartOfDay)])
		return b.String()
	default:
		b.WriteString("TXX")
	}

	b.WriteString(":" + orX(has(Minute), fmt.Sprintf("%02d", t.Get(Minute)), "XX"))
	b.WriteString(":" + orX(has(Second), fmt.Sprintf("%02d", t.Get(Second)), "XX"))
	return b.String()
}

// Format renders the value down to lowest, using X for positions at or
// above that granularity which are not known.
func (t *Timex) Format(lowest Field) (string, error) {
	low := MaskOf(lowest)
	if end, ok := endOffsets[lowest]; ok {
		return t.FullString(t.mask &^ earlyEndMask)[:end], nil
	}
	switch {
	case low&partOfYearMask != 0:
		s := t.FullString(t.mask & (^(partOfYearMask | partOfWeekMask) | low))
		if len(s) > 5 && s[5] == 'X' {
			switch lowest {
			case WeekOfYear:
				return s[:5] + "WXX", nil
			case Season:
				return s[:5] + "XX", nil
			case HalfYear:
				return s[:5] + "HX", nil
			case QuarterYear:
				return s[:5] + "QX", nil
			}
		}
		return s, nil
	case lowest == PartOfWeek:
		return t.FullString(t.mask & (^(partOfYearMask | partOfWeekMask) | MaskOf(WeekOfYear) | low)), nil
	case low&partOfDayMask != 0:
		return t.FullString(t.mask & (^partOfDayMask | low)), nil
	}
	return "", &FieldError{Op: "format", Field: lowest}
}

func (t *Timex) seasonCode(v int) string {
	return seasonCodes[(v+4-t.hemisphere.SeasonOffset())%4]
}

// SeasonValue maps a two-letter season code to a Season value under h.
func SeasonValue(code string, h Hemisphere) (int, bool) {
	i := codeIndex(seasonCodes[:], code)
	if i < 0 {
		return 0, false
	}
	return (i + h.SeasonOffset()) % 4, true
}

func codeIndex(codes []string, s string) int {
	for i, c := range codes {
		if c == s {
			return i
		}
	}
	return -1
}

func orX(known bool, v, placeholder string) string {
	if known {
		return v
	}
	return placeholder
}

func digitsAt(s string, at, n int) bool {
	if len(s) < at+n {
		return false
	}
	for i := at; i < at+n; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func placeholderAt(s string, at, n int) bool {
	if len(s) < at+n {
		return false
	}
	for i := at; i < at+n; i++ {
		if s[i] != 'X' && (s[i] < '0' || s[i] > '9') {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
