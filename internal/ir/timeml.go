package ir

import (
	"html"
	"slices"
	"strings"
)

const (
	timeMLHeader = "<?xml version=\"1.0\"?>\n<!DOCTYPE TimeML SYSTEM \"TimeML.dtd\">\n<TimeML>\n"
	timeMLFooter = "\n</TimeML>\n"
)

// RenderTimeML writes text with each expression wrapped in an inline
// TIMEX3 element. Expressions that overlap one already written are
// skipped, so the output stays well-formed.
func RenderTimeML(text string, timexes []Timex) string {
	sorted := slices.Clone(timexes)
	slices.SortStableFunc(sorted, func(a, b Timex) int {
		if a.Begin != b.Begin {
			return a.Begin - b.Begin
		}
		return b.End - a.End
	})

	runes := []rune(text)
	var b strings.Builder
	b.WriteString(timeMLHeader)
	pos := 0
	for _, t := range sorted {
		if t.Begin < pos || t.End > len(runes) {
			continue
		}
		b.WriteString(html.EscapeString(string(runes[pos:t.Begin])))
		b.WriteString(`<TIMEX3 tid="`)
		b.WriteString(t.ID)
		b.WriteString(`" type="`)
		b.WriteString(t.Kind.String())
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(t.Value))
		writeAttr(&b, "quant", t.Quant)
		writeAttr(&b, "freq", t.Freq)
		writeAttr(&b, "mod", t.Mod)
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(string(runes[t.Begin:t.End])))
		b.WriteString("</TIMEX3>")
		pos = t.End
	}
	b.WriteString(html.EscapeString(string(runes[pos:])))
	b.WriteString(timeMLFooter)
	return b.String()
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(`" `)
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
}
