package rules

import (
	"regexp"
	"strconv"

	"github.com/dlclark/regexp2"

	"github.com/roach88/timex/internal/expr"
	"github.com/roach88/timex/internal/ir"
)

// groupMatch exposes a regexp2 match to expr templates.
type groupMatch struct {
	m *regexp2.Match
}

func (g groupMatch) Group(i int) (string, bool) {
	if i == 0 {
		return g.m.String(), true
	}
	grp := g.m.GroupByNumber(i)
	if grp == nil || len(grp.Captures) == 0 {
		return "", false
	}
	return grp.String(), true
}

// span returns the rune range of group i, or false when it took no part
// in the match.
func (g groupMatch) span(i int) (begin, end int, ok bool) {
	if i == 0 {
		return g.m.Index, g.m.Index + g.m.Length, true
	}
	grp := g.m.GroupByNumber(i)
	if grp == nil || len(grp.Captures) == 0 {
		return 0, 0, false
	}
	return grp.Index, grp.Index + grp.Length, true
}

// FindMatches applies every rule, in name order, to sentence s whose text
// is runes. index is the sentence's position in its document. The
// returned expressions carry no id yet.
func (rs *RuleSet) FindMatches(s ir.Sentence, index int, runes []rune) []ir.Timex {
	var out []ir.Timex
	for _, r := range rs.rules {
		out = rs.applyRule(r, s, index, runes, out)
	}
	return out
}

func (rs *RuleSet) applyRule(r *Rule, s ir.Sentence, index int, runes []rune, out []ir.Timex) []ir.Timex {
	m, err := r.Pattern.FindRunesMatch(runes)
	for ; m != nil && err == nil; m, err = r.Pattern.FindNextMatch(m) {
		gm := groupMatch{m: m}
		if !rs.posAllowed(r, s, gm) {
			continue
		}

		begin, end, _ := gm.span(0)
		if r.Offset != nil {
			b, _, okB := gm.span(r.Offset.Begin)
			_, e, okE := gm.span(r.Offset.End)
			if !okB || !okE {
				rs.logger.Warn("offset group did not match", "rule", r.Name, "sentence", index, "text", m.String())
				continue
			}
			begin, end = b, e
		}

		t, nerr := rs.normalize(r, gm)
		if nerr != nil {
			rs.logger.Warn("normalization failed", "rule", r.Name, "sentence", index, "text", m.String(), "error", nerr)
			continue
		}
		t.Begin = s.Begin + begin
		t.End = s.Begin + end
		t.Text = string(runes[begin:end])
		t.Sentence = index
		out = append(out, t)
	}
	if err != nil {
		rs.logger.Warn("pattern search aborted", "rule", r.Name, "sentence", index, "error", err)
	}
	return out
}

// posAllowed checks every POS constraint against the token starting at
// the constrained group. A missing token has tag "".
func (rs *RuleSet) posAllowed(r *Rule, s ir.Sentence, gm groupMatch) bool {
	for _, c := range r.POS {
		tag := ""
		begin, _, ok := gm.span(c.Group)
		tok, found := s.TokenAt(s.Begin + begin)
		switch {
		case ok && found:
			tag = tok.POS
		default:
			rs.logger.Warn("no token for POS constraint", "rule", r.Name, "group", c.Group, "offset", s.Begin+begin)
		}
		if tag != c.Tag {
			return false
		}
	}
	return true
}

func (rs *RuleSet) normalize(r *Rule, gm groupMatch) (ir.Timex, error) {
	value, err := expr.Evaluate(r.Norm, gm)
	if err != nil {
		return ir.Timex{}, err
	}
	t := ir.Timex{Kind: r.Kind, Value: CanonicalDuration(value)}
	if t.Quant, err = evalOptional(r.Quant, gm); err != nil {
		return ir.Timex{}, err
	}
	if t.Freq, err = evalOptional(r.Freq, gm); err != nil {
		return ir.Timex{}, err
	}
	mod, err := evalOptional(r.Mod, gm)
	if err != nil {
		return ir.Timex{}, err
	}
	t.Mod = NormalizeMod(mod)
	t.RuleID = ir.ProvenanceRuleID(r.Name, r.Kind, t.Value)
	return t, nil
}

func evalOptional(e expr.Expr, m expr.Match) (string, error) {
	if e == nil {
		return "", nil
	}
	return expr.Evaluate(e, m)
}

var (
	hoursRe   = regexp.MustCompile(`^PT([0-9]+)H$`)
	minutesRe = regexp.MustCompile(`^PT([0-9]+)M$`)
	monthsRe  = regexp.MustCompile(`^P([0-9]+)M$`)
)

// CanonicalDuration rewrites a duration into the next coarser unit when
// it divides evenly: PT24H is P1D, PT120M is PT2H, P24M is P2Y.
func CanonicalDuration(value string) string {
	rewrite := func(re *regexp.Regexp, per int, format func(int) string) (string, bool) {
		m := re.FindStringSubmatch(value)
		if m == nil {
			return "", false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n%per != 0 {
			return value, true
		}
		return format(n / per), true
	}

	if v, ok := rewrite(hoursRe, 24, func(n int) string { return "P" + strconv.Itoa(n) + "D" }); ok {
		return v
	}
	if v, ok := rewrite(minutesRe, 60, func(n int) string { return "PT" + strconv.Itoa(n) + "H" }); ok {
		return v
	}
	if v, ok := rewrite(monthsRe, 12, func(n int) string { return "P" + strconv.Itoa(n) + "Y" }); ok {
		return v
	}
	return value
}

var modCodes = map[string]string{
	"at least":      "EQUAL_OR_MORE",
	"more than":     "MORE_THAN",
	"the middle of": "MID",
	"mid":           "MID",
	"early":         "START",
	"late":          "END",
	"later":         "END",
}

// NormalizeMod maps a modifier phrase to its TIMEX3 code. Other values,
// including codes already normalized, are returned unchanged.
func NormalizeMod(mod string) string {
	if code, ok := modCodes[mod]; ok {
		return code
	}
	return mod
}
