package tense

import (
	"slices"

	"github.com/roach88/timex/internal/ir"
)

// Correction describes the perfect/passive chain that demotes a
// present/future reading to past.
type Correction struct {
	Auxiliaries []string // tags that open the chain
	Participle  string   // tag that must follow
	Exceptions  []string // participles that keep the present/future reading
}

// DefaultCorrection is the TreeTagger English chain.
var DefaultCorrection = Correction{
	Auxiliaries: []string{"VHZ", "VBZ", "VHP", "VBP"},
	Participle:  "VVN",
	Exceptions:  []string{"expected", "scheduled"},
}

// Classify returns the tense for an expression whose sentence has the
// tokens before and after it, both in reading order.
func Classify(before, after []ir.Token, p *Patterns, strategy Strategy, corr Correction) Tense {
	var t Tense
	switch strategy {
	case Nearest:
		t = nearest(before, after, p)
	default:
		t = backward(before, after, p)
	}
	if t == PresentFuture && corr.demotes(before, after) {
		return Past
	}
	return t
}

// Token classifies one token. It reports false when the token carries no
// tense signal. A tag class decides before the word "since" does.
func (p *Patterns) Token(tok ir.Token) (Tense, bool) {
	if tok.POS != "" {
		switch {
		case matches(p.presentFuture, tok.POS):
			return PresentFuture, true
		case matches(p.past, tok.POS):
			return Past, true
		case matches(p.future, tok.POS) && matches(p.futureWord, tok.Text):
			return Future, true
		}
	}
	if tok.Text == "since" {
		return Past, true
	}
	return Unknown, false
}

func backward(before, after []ir.Token, p *Patterns) Tense {
	for i := len(before) - 1; i >= 0; i-- {
		if t, ok := p.Token(before[i]); ok {
			return t
		}
	}
	for _, tok := range after {
		if t, ok := p.Token(tok); ok {
			return t
		}
	}
	return Unknown
}

// nearest alternates outward from the expression, starting before it.
func nearest(before, after []ir.Token, p *Patterns) Tense {
	for d := 0; d < len(before) || d < len(after); d++ {
		if i := len(before) - 1 - d; i >= 0 {
			if t, ok := p.Token(before[i]); ok {
				return t
			}
		}
		if d < len(after) {
			if t, ok := p.Token(after[d]); ok {
				return t
			}
		}
	}
	return Unknown
}

// demotes walks the tokens outside the expression in reading order. The
// previous tag carries across the expression.
func (c Correction) demotes(before, after []ir.Token) bool {
	prev := ""
	check := func(tok ir.Token) bool {
		hit := slices.Contains(c.Auxiliaries, prev) && tok.POS == c.Participle && !slices.Contains(c.Exceptions, tok.Text)
		prev = tok.POS
		return hit
	}
	for _, tok := range before {
		if check(tok) {
			return true
		}
	}
	for _, tok := range after {
		if check(tok) {
			return true
		}
	}
	return false
}
