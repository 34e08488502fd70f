package tense

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/roach88/timex/internal/rules"
)

// Tense is the grammatical tense of a context.
type Tense int

const (
	Unknown Tense = iota
	Past
	PresentFuture
	Future
)

var tenseNames = [...]string{
	Unknown:       "UNKNOWN",
	Past:          "PAST",
	PresentFuture: "PRESENTFUTURE",
	Future:        "FUTURE",
}

func (t Tense) String() string {
	if t < 0 || int(t) >= len(tenseNames) {
		return fmt.Sprintf("Tense(%d)", int(t))
	}
	return tenseNames[t]
}

// FutureLike reports whether t points forward in time.
func (t Tense) FutureLike() bool {
	return t == PresentFuture || t == Future
}

// Strategy selects which token decides the tense.
type Strategy int

const (
	Backward Strategy = iota
	Nearest
)

// ParseStrategy reads "backward" or "nearest". The empty string is
// Backward.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "backward":
		return Backward, nil
	case "nearest":
		return Nearest, nil
	}
	return 0, fmt.Errorf("unknown tense strategy %q", s)
}

func (s Strategy) String() string {
	if s == Nearest {
		return "nearest"
	}
	return "backward"
}

// Sources holds the regular expressions behind the tag classes. An empty
// source disables that test.
type Sources struct {
	PresentFuture string
	Past          string
	Future        string
	FutureWord    string
}

// Patterns is the compiled form of Sources. Each pattern must match a
// whole tag or word.
type Patterns struct {
	presentFuture *regexp2.Regexp
	past          *regexp2.Regexp
	future        *regexp2.Regexp
	futureWord    *regexp2.Regexp
}

// Compile compiles src. timeout bounds each test; zero means no bound.
func Compile(src Sources, timeout time.Duration) (*Patterns, error) {
	p := &Patterns{}
	for _, c := range []struct {
		name   string
		source string
		dst    **regexp2.Regexp
	}{
		{"present/future", src.PresentFuture, &p.presentFuture},
		{"past", src.Past, &p.past},
		{"future", src.Future, &p.future},
		{"future word", src.FutureWord, &p.futureWord},
	} {
		if c.source == "" {
			continue
		}
		re, err := rules.FullMatch(c.source, timeout)
		if err != nil {
			return nil, fmt.Errorf("tense %s pattern: %w", c.name, err)
		}
		*c.dst = re
	}
	return p, nil
}

func matches(re *regexp2.Regexp, s string) bool {
	if re == nil {
		return false
	}
	ok, err := re.MatchString(s)
	return err == nil && ok
}
