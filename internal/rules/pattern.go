package rules

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

var variableRe = regexp.MustCompile(`%(re[a-zA-Z0-9]*)`)

// DefaultMatchTimeout bounds a single pattern search.
const DefaultMatchTimeout = 2 * time.Second

// undefinedPatternError names a %reName reference with no definition.
type undefinedPatternError struct{ name string }

func (e *undefinedPatternError) Error() string {
	return "pattern not found: " + e.name
}

// ExpandPattern substitutes shared patterns into template, turns literal
// spaces into [\s]+ and adds the word-boundary anchors.
func ExpandPattern(template string, patterns map[string]string) (string, error) {
	var missing string
	expanded := variableRe.ReplaceAllStringFunc(template, func(ref string) string {
		name := ref[1:]
		p, ok := patterns[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return ref
		}
		return p
	})
	if missing != "" {
		return "", &undefinedPatternError{name: missing}
	}
	expanded = strings.ReplaceAll(expanded, " ", `[\s]+`)
	return `\b` + expanded + `\b(?![\.,]\d)`, nil
}

// BuildPattern expands template and compiles it.
func BuildPattern(template string, patterns map[string]string, timeout time.Duration) (*regexp2.Regexp, error) {
	expanded, err := ExpandPattern(template, patterns)
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(expanded, regexp2.None)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = timeout
	return re, nil
}

// FullMatch compiles pattern so that it must match a whole string, the
// way tag and word classes are tested. A zero timeout leaves the search
// unbounded.
func FullMatch(pattern string, timeout time.Duration) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(`^(?:`+pattern+`)$`, regexp2.None)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return re, nil
}
