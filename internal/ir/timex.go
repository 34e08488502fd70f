package ir

import (
	"strconv"
	"strings"
)

// Provenance suffixes appended to DATE and TIME rule ids.
const (
	ExplicitSuffix = "-explicit"
	RelativeSuffix = "-relative"
)

// UndefPrefix marks a value that still needs disambiguation.
const UndefPrefix = "UNDEF"

// RemoveValue marks a candidate a rule wants discarded.
const RemoveValue = "REMOVE"

// Timex is one extracted temporal expression.
type Timex struct {
	// ID is "t<Seq>".
	ID  string `json:"id" yaml:"id"`
	Seq int64  `json:"-" yaml:"-"`

	Begin int    `json:"begin" yaml:"begin"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
	Kind  Kind   `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
	Quant string `json:"quant,omitempty" yaml:"quant,omitempty"`
	Freq  string `json:"freq,omitempty" yaml:"freq,omitempty"`
	Mod   string `json:"mod,omitempty" yaml:"mod,omitempty"`

	// RuleID is the producing rule's name, with a provenance suffix for
	// DATE and TIME.
	RuleID string `json:"rule_id" yaml:"rule_id"`

	// Sentence indexes Document.Sentences.
	Sentence int `json:"sentence" yaml:"sentence"`
}

// FormatID renders a logical clock value as an expression id.
func FormatID(seq int64) string {
	return "t" + strconv.FormatInt(seq, 10)
}

// ProvenanceRuleID returns the rule id recorded for a match of rule that
// normalized to value.
func ProvenanceRuleID(rule string, kind Kind, value string) string {
	if !kind.Resolvable() {
		return rule
	}
	if strings.HasPrefix(value, "X") || strings.HasPrefix(value, UndefPrefix) {
		return rule + RelativeSuffix
	}
	return rule + ExplicitSuffix
}

// Explicit reports whether the expression came from an explicit DATE or
// TIME rule.
func (t *Timex) Explicit() bool {
	return strings.HasSuffix(t.RuleID, ExplicitSuffix)
}

// Undefined reports whether the value is still an UNDEF form.
func (t *Timex) Undefined() bool {
	return strings.HasPrefix(t.Value, UndefPrefix)
}

// Contains reports whether t's span strictly encloses other's: it covers
// other and is longer on at least one side.
func (t *Timex) Contains(other *Timex) bool {
	return (other.Begin >= t.Begin && other.End < t.End) ||
		(other.Begin > t.Begin && other.End <= t.End)
}

// SameSpan reports whether both expressions cover the same span.
func (t *Timex) SameSpan(other *Timex) bool {
	return t.Begin == other.Begin && t.End == other.End
}

// Object renders t for canonical JSON.
func (t *Timex) Object() Object {
	obj := Object{
		"id":       String(t.ID),
		"begin":    Int(t.Begin),
		"end":      Int(t.End),
		"text":     String(t.Text),
		"type":     String(t.Kind.String()),
		"value":    String(t.Value),
		"rule_id":  String(t.RuleID),
		"sentence": Int(t.Sentence),
	}
	for k, v := range map[string]string{"quant": t.Quant, "freq": t.Freq, "mod": t.Mod} {
		if v != "" {
			obj[k] = String(v)
		}
	}
	return obj
}
