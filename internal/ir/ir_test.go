package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestKind_ParseAndString(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind(" duration ")
	require.NoError(t, err)
	assert.Equal(t, Duration, k)

	_, err = ParseKind("EVENT")
	assert.Error(t, err)

	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.True(t, Date.Resolvable())
	assert.True(t, Time.Resolvable())
	assert.False(t, Duration.Resolvable())
	assert.False(t, Set.Resolvable())
}

func TestKind_TextEncoding(t *testing.T) {
	data, err := json.Marshal([]Kind{Date, Set})
	require.NoError(t, err)
	assert.JSONEq(t, `["DATE","SET"]`, string(data))

	var kinds []Kind
	require.NoError(t, yaml.Unmarshal([]byte("[time, DURATION]"), &kinds))
	assert.Equal(t, []Kind{Time, Duration}, kinds)

	_, err = json.Marshal(Kind(0))
	assert.Error(t, err)
}

func TestDocumentType_Parse(t *testing.T) {
	tests := []struct {
		in      string
		want    DocumentType
		usesDCT bool
		wantErr bool
	}{
		{"", News, true, false},
		{"news", News, true, false},
		{"Narrative", Narrative, false, false},
		{"colloquial", Colloquial, false, false},
		{"scientific", Scientific, false, false},
		{"poetry", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDocumentType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.usesDCT, got.UsesDCT())
		})
	}
}

func TestNormalizeDCT(t *testing.T) {
	got, err := NormalizeDCT("20200101")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", got)

	got, err = NormalizeDCT("2011-09-08")
	require.NoError(t, err)
	assert.Equal(t, "2011-09-08", got)

	got, err = NormalizeDCT("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NormalizeDCT("Jan 1")
	assert.Error(t, err)
}

func testSentence() Sentence {
	// "He left on Monday ."
	return Sentence{Begin: 0, End: 19, Tokens: []Token{
		{Begin: 0, End: 2, Text: "He", POS: "PP"},
		{Begin: 3, End: 7, Text: "left", POS: "VVD"},
		{Begin: 8, End: 10, Text: "on", POS: "IN"},
		{Begin: 11, End: 17, Text: "Monday", POS: "NP"},
		{Begin: 18, End: 19, Text: ".", POS: "SENT"},
	}}
}

func TestSentence_Split(t *testing.T) {
	before, after := testSentence().Split(11, 17)

	require.Len(t, before, 3)
	assert.Equal(t, "on", before[2].Text)
	require.Len(t, after, 1)
	assert.Equal(t, ".", after[0].Text)
}

func TestSentence_TokenAt(t *testing.T) {
	s := testSentence()

	tok, ok := s.TokenAt(3)
	require.True(t, ok)
	assert.Equal(t, "VVD", tok.POS)

	_, ok = s.TokenAt(4)
	assert.False(t, ok)
}

func TestDocument_Validate(t *testing.T) {
	doc := Document{Text: "He left on Monday .", Sentences: []Sentence{testSentence()}}
	require.NoError(t, doc.Validate())

	doc.DCT = "yesterday"
	assert.Error(t, doc.Validate())

	doc.DCT = ""
	doc.Sentences[0].End = 40
	assert.Error(t, doc.Validate())

	doc.Sentences[0] = testSentence()
	doc.Sentences[0].Tokens[1].Begin = 1
	assert.Error(t, doc.Validate(), "tokens overlap")
}

func TestProvenanceRuleID(t *testing.T) {
	tests := []struct {
		kind  Kind
		value string
		want  string
	}{
		{Date, "2023-05-07", "date_r1-explicit"},
		{Date, "UNDEF-last-month", "date_r1-relative"},
		{Time, "XXXX-XX-XXTMO", "date_r1-relative"},
		{Duration, "P1D", "date_r1"},
		{Set, "XXXX-WXX-1", "date_r1"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ProvenanceRuleID("date_r1", tt.kind, tt.value))
		})
	}
}

func TestTimex_SpanRelations(t *testing.T) {
	outer := &Timex{Begin: 0, End: 10}
	inner := &Timex{Begin: 2, End: 10}
	same := &Timex{Begin: 0, End: 10}

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.False(t, outer.Contains(same))
	assert.True(t, outer.SameSpan(same))
	assert.False(t, outer.SameSpan(inner))
}

func TestTimex_Flags(t *testing.T) {
	x := &Timex{Value: "UNDEF-this-day", RuleID: "date_r2-relative"}
	assert.True(t, x.Undefined())
	assert.False(t, x.Explicit())

	x = &Timex{Value: "2023", RuleID: "date_r2-explicit"}
	assert.False(t, x.Undefined())
	assert.True(t, x.Explicit())
}

func TestMarshalCanonical(t *testing.T) {
	v := Object{
		"b":   Int(2),
		"a":   String("x<y>&z"),
		"arr": Array{Bool(true), String("café")},
		"nl":  String("line\nbreak "),
	}

	got, err := MarshalCanonical(v)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":\"x<y>&z\",\"arr\":[true,\"café\"],\"b\":2,\"nl\":\"line\\nbreak \"}", string(got))

	again, err := MarshalCanonical(v)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as a surrogate pair (0xD83D...) which sorts before
	// U+FF5E in UTF-16 but after it in UTF-8.
	v := Object{"～": Int(1), "\U0001F600": Int(2)}

	got, err := MarshalCanonical(v)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"～\":1}", string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(Array{nil})
	assert.Error(t, err)
}

func TestMarshalCanonical_ControlCharacters(t *testing.T) {
	got, err := MarshalCanonical(String("a\x01\"\\"))
	require.NoError(t, err)
	assert.Equal(t, `"a\u0001\"\\"`, string(got))
}

func TestMarshalTimexes(t *testing.T) {
	timexes := []Timex{{
		ID: "t1", Begin: 11, End: 17, Text: "Monday", Kind: Date,
		Value: "2019-12-30", RuleID: "date_r5-relative",
	}, {
		ID: "t2", Begin: 20, End: 26, Text: "weekly", Kind: Set,
		Value: "P1W", Freq: "1W", Quant: "EACH", RuleID: "set_r1",
	}}

	got, err := MarshalTimexes(timexes)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"begin":11,"end":17,"id":"t1","rule_id":"date_r5-relative","sentence":0,"text":"Monday","type":"DATE","value":"2019-12-30"},`+
			`{"begin":20,"end":26,"freq":"1W","id":"t2","quant":"EACH","rule_id":"set_r1","sentence":0,"text":"weekly","type":"SET","value":"P1W"}]`,
		string(got))
}

func TestRenderTimeML(t *testing.T) {
	text := "On Monday & later in May."
	timexes := []Timex{
		{ID: "t2", Begin: 21, End: 24, Kind: Date, Value: "2020-05"},
		{ID: "t1", Begin: 3, End: 9, Kind: Date, Value: "2019-12-30", Mod: "START"},
		{ID: "t3", Begin: 4, End: 9, Kind: Date, Value: "XXXX"},
	}

	got := RenderTimeML(text, timexes)
	assert.Equal(t, timeMLHeader+
		`On <TIMEX3 tid="t1" type="DATE" value="2019-12-30" mod="START">Monday</TIMEX3> &amp; later in `+
		`<TIMEX3 tid="t2" type="DATE" value="2020-05">May</TIMEX3>.`+
		timeMLFooter, got)
}

func TestParseTagged(t *testing.T) {
	doc := ParseTagged("It/PP rained/VVD on/IN Montag/NP\n\n  and/or/CC again  ")

	assert.Equal(t, "It rained on Montag\nand/or again", doc.Text)
	require.Len(t, doc.Sentences, 2)

	first := doc.Sentences[0]
	assert.Equal(t, 0, first.Begin)
	assert.Equal(t, 19, first.End)
	assert.Equal(t, []Token{
		{Begin: 0, End: 2, Text: "It", POS: "PP"},
		{Begin: 3, End: 9, Text: "rained", POS: "VVD"},
		{Begin: 10, End: 12, Text: "on", POS: "IN"},
		{Begin: 13, End: 19, Text: "Montag", POS: "NP"},
	}, first.Tokens)

	second := doc.Sentences[1]
	assert.Equal(t, 20, second.Begin)
	assert.Equal(t, 32, second.End)
	assert.Equal(t, Token{Begin: 20, End: 26, Text: "and/or", POS: "CC"}, second.Tokens[0])
	assert.Equal(t, Token{Begin: 27, End: 32, Text: "again"}, second.Tokens[1], "no slash means untagged")

	require.NoError(t, doc.Validate())
	assert.Equal(t, "It/PP rained/VVD on/IN Montag/NP\nand/or/CC again", doc.Tagged())
}

func TestParseTagged_RuneOffsets(t *testing.T) {
	doc := ParseTagged("März/NN 2020/CD")
	require.Len(t, doc.Sentences, 1)
	assert.Equal(t, Token{Begin: 5, End: 9, Text: "2020", POS: "CD"}, doc.Sentences[0].Tokens[1])
	assert.Equal(t, 9, doc.Sentences[0].End)
}

func TestParseTagged_Empty(t *testing.T) {
	doc := ParseTagged("\n \n")
	assert.Equal(t, "", doc.Text)
	assert.Empty(t, doc.Sentences)
	assert.NoError(t, doc.Validate())
}
