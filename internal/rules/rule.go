package rules

import (
	"regexp"
	"strconv"

	"github.com/dlclark/regexp2"

	"github.com/roach88/timex/internal/expr"
	"github.com/roach88/timex/internal/ir"
)

var (
	ruleLineRe = regexp.MustCompile(`RULENAME="(.*?)",EXTRACTION="(.*?)",NORM_VALUE="(.*?)"(.*)`)
	featureRe  = regexp.MustCompile(`,([A-Z_]+)="(.*?)"`)
	posRe      = regexp.MustCompile(`group\(([0-9]+)\):(.*?):`)
	offsetRe   = regexp.MustCompile(`^group\(([0-9]+)\)-group\(([0-9]+)\)$`)
)

// Feature names recognized after NORM_VALUE.
const (
	FeatureOffset = "OFFSET"
	FeaturePOS    = "POS_CONSTRAINT"
	FeatureQuant  = "NORM_QUANT"
	FeatureFreq   = "NORM_FREQ"
	FeatureMod    = "NORM_MOD"
)

// Offset redefines a match's span as the start of group Begin through
// the end of group End.
type Offset struct {
	Begin int
	End   int
}

// POSConstraint requires the token starting at group Group to carry Tag.
type POSConstraint struct {
	Group int
	Tag   string
}

// Rule is one compiled extraction rule.
type Rule struct {
	Name       string
	Kind       ir.Kind
	Extraction string // template as written
	Pattern    *regexp2.Regexp

	Norm  expr.Expr
	Quant expr.Expr // nil when absent
	Freq  expr.Expr // nil when absent
	Mod   expr.Expr // nil when absent

	Offset *Offset
	POS    []POSConstraint

	Path string
	Line int
}

// RawRule is a rule line split into its parts, before compilation.
type RawRule struct {
	Name       string
	Extraction string
	Norm       string
	Features   []Feature
}

// Feature is one FEATURE="value" pair.
type Feature struct {
	Key   string
	Value string
}

// ParseLine splits a rule line. It reports false when the line is not in
// rule format.
func ParseLine(line string) (RawRule, bool) {
	m := ruleLineRe.FindStringSubmatch(line)
	if m == nil {
		return RawRule{}, false
	}
	raw := RawRule{Name: m[1], Extraction: m[2], Norm: m[3]}
	for _, f := range featureRe.FindAllStringSubmatch(m[4], -1) {
		raw.Features = append(raw.Features, Feature{Key: f[1], Value: f[2]})
	}
	return raw, true
}

// ParseOffset reads an OFFSET value.
func ParseOffset(value string) (*Offset, bool) {
	m := offsetRe.FindStringSubmatch(value)
	if m == nil {
		return nil, false
	}
	b, err1 := strconv.Atoi(m[1])
	e, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return nil, false
	}
	return &Offset{Begin: b, End: e}, true
}

// ParsePOSConstraints reads a POS_CONSTRAINT value. The constraints keep
// their written order.
func ParsePOSConstraints(value string) ([]POSConstraint, bool) {
	var out []POSConstraint
	for _, m := range posRe.FindAllStringSubmatch(value, -1) {
		g, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		out = append(out, POSConstraint{Group: g, Tag: m[2]})
	}
	return out, len(out) > 0
}
