// Package calendar models possibly-partial points in time.
//
// A Partial wraps an underlying instant together with a mask of the fields
// that are authoritatively known. Unknown fields still have a value (every
// instant has a month), but only known fields may be reported. Whenever a
// field becomes known, the calendar's implicatures are applied to a fixed
// point: if all fields of an implicature's condition are known, all fields it
// implies become known as well.
//
// FIELDS:
//
// Real fields (Era through Millisecond) are read and written directly on the
// instant. Synthetic fields (Century, Decade, YearUnit, HalfYear, QuarterYear,
// Season, PartOfDay, PartOfWeek) are derived from the real ones and have
// explicit set/add semantics. Both kinds share one dispatch table, so callers
// never need to know which kind they hold.
//
// TIMEX VALUES:
//
// Timex specializes Partial for TIMEX3 normalized values. It parses strings
// such as "2023-05", "19XX", "XX93-04-15TNI" or "2123-W42-WE", remembers the
// finest field the string committed to (its lowest field), and formats back
// to a string at any requested granularity, using X placeholders for unknown
// positions.
//
// INVARIANTS:
//
//   - The known mask only grows via Set, MarkSet and Update.
//   - Implicature closure is idempotent and independent of the order in
//     which fields were set.
//   - For every fully-specified value s, Parse(s).String() == s.
package calendar
