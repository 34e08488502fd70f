package tense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timex/internal/ir"
)

func testPatterns(t *testing.T) *Patterns {
	t.Helper()
	p, err := Compile(Sources{
		PresentFuture: "(VHZ|VBZ|VHP|VBP|VVZ|VVP)",
		Past:          "(VBD|VHD|VVD)",
		Future:        "(MD)",
		FutureWord:    "(will|'ll|shall)",
	}, 0)
	require.NoError(t, err)
	return p
}

// toks builds tokens from word/TAG pairs.
func toks(pairs ...string) []ir.Token {
	out := make([]ir.Token, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, ir.Token{Text: pairs[i], POS: pairs[i+1]})
	}
	return out
}

func TestTense_String(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "PAST", Past.String())
	assert.Equal(t, "PRESENTFUTURE", PresentFuture.String())
	assert.Equal(t, "FUTURE", Future.String())
	assert.Equal(t, "Tense(7)", Tense(7).String())

	assert.True(t, Future.FutureLike())
	assert.True(t, PresentFuture.FutureLike())
	assert.False(t, Past.FutureLike())
	assert.False(t, Unknown.FutureLike())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Backward, s)

	s, err = ParseStrategy("Nearest")
	require.NoError(t, err)
	assert.Equal(t, Nearest, s)
	assert.Equal(t, "nearest", s.String())

	_, err = ParseStrategy("sideways")
	assert.Error(t, err)
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile(Sources{Past: "(VBD"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "past")
}

func TestPatterns_Token(t *testing.T) {
	p := testPatterns(t)

	tests := []struct {
		name  string
		tok   ir.Token
		want  Tense
		found bool
	}{
		{"present", ir.Token{Text: "says", POS: "VVZ"}, PresentFuture, true},
		{"past", ir.Token{Text: "said", POS: "VVD"}, Past, true},
		{"future modal", ir.Token{Text: "will", POS: "MD"}, Future, true},
		{"other modal", ir.Token{Text: "could", POS: "MD"}, Unknown, false},
		{"noun", ir.Token{Text: "year", POS: "NN"}, Unknown, false},
		{"untagged", ir.Token{Text: "said"}, Unknown, false},
		{"since", ir.Token{Text: "since", POS: "IN"}, Past, true},
		{"since untagged", ir.Token{Text: "since"}, Past, true},
		{"tag class before since", ir.Token{Text: "since", POS: "VVZ"}, PresentFuture, true},
		{"since with a non-future modal tag", ir.Token{Text: "since", POS: "MD"}, Past, true},
		{"whole tag only", ir.Token{Text: "x", POS: "VVDX"}, Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := p.Token(tt.tok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestClassify_Backward(t *testing.T) {
	p := testPatterns(t)

	tests := []struct {
		name   string
		before []ir.Token
		after  []ir.Token
		want   Tense
	}{
		{
			name:   "nearest token before wins",
			before: toks("He", "PP", "said", "VVD", "it", "PP", "will", "MD", "rain", "VV", "on"),
			want:   Future,
		},
		{
			name:   "falls back to the first token after",
			before: toks("On", "IN"),
			after:  toks(",", ",", "he", "PP", "left", "VVD", "and", "CC", "says", "VVZ"),
			want:   Past,
		},
		{
			name:   "since overrides tokens further away",
			before: toks("It", "PP", "rains", "VVZ", "since", "IN"),
			want:   Past,
		},
		{
			name:   "closer verb beats an earlier since",
			before: toks("since", "IN", "then", "RB", "it", "PP", "rains", "VVZ"),
			want:   PresentFuture,
		},
		{
			name:   "nothing classifiable",
			before: toks("In", "IN"),
			after:  toks(".", "SENT"),
			want:   Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.before, tt.after, p, Backward, DefaultCorrection))
		})
	}
}

func TestClassify_Nearest(t *testing.T) {
	p := testPatterns(t)

	// "He said that on Monday it rains ."
	before := toks("He", "PP", "said", "VVD", "that", "IN", "on", "IN")
	after := toks("it", "PP", "rains", "VVZ", ".", "SENT")

	assert.Equal(t, Past, Classify(before, after, p, Backward, DefaultCorrection))
	assert.Equal(t, PresentFuture, Classify(before, after, p, Nearest, DefaultCorrection),
		"rains is two tokens away, said is three")

	// Equal distance: the token before wins.
	before = toks("it", "PP", "rained", "VVD")
	after = toks("rains", "VVZ")
	assert.Equal(t, Past, Classify(before, after, p, Nearest, DefaultCorrection))

	assert.Equal(t, Unknown, Classify(nil, nil, p, Nearest, DefaultCorrection))
}

func TestClassify_PerfectCorrection(t *testing.T) {
	p := testPatterns(t)

	tests := []struct {
		name   string
		before []ir.Token
		after  []ir.Token
		want   Tense
	}{
		{
			name:   "has announced",
			before: toks("The", "DT", "company", "NN", "has", "VHZ", "announced", "VVN", "on"),
			want:   Past,
		},
		{
			name:   "is expected",
			before: toks("The", "DT", "vote", "NN", "is", "VBZ", "expected", "VVN", "on", "IN"),
			want:   PresentFuture,
		},
		{
			name:   "is scheduled",
			before: toks("It", "PP", "is", "VBZ", "scheduled", "VVN", "for", "IN"),
			want:   PresentFuture,
		},
		{
			name:   "chain after the expression",
			before: toks("On", "IN"),
			after:  toks("prices", "NNS", "have", "VHP", "risen", "VVN"),
			want:   Past,
		},
		{
			name:   "previous tag carries across the expression",
			before: toks("It", "PP", "has", "VHZ"),
			after:  toks("ended", "VVN"),
			want:   Past,
		},
		{
			name:   "past is never corrected",
			before: toks("It", "PP", "was", "VBD", "announced", "VVN"),
			want:   Past,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.before, tt.after, p, Backward, DefaultCorrection))
		})
	}
}

func TestClassify_MissingPatterns(t *testing.T) {
	p, err := Compile(Sources{Past: "VVD"}, 0)
	require.NoError(t, err)

	assert.Equal(t, Unknown, Classify(toks("will", "MD", "says", "VVZ"), nil, p, Backward, DefaultCorrection))
	assert.Equal(t, Past, Classify(toks("said", "VVD"), nil, p, Backward, DefaultCorrection))
}
