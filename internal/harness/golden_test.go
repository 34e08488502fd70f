package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timex/internal/ir"
)

// To regenerate golden files:
//
//	go test ./internal/harness -run TestRunWithGolden -update
func TestRunWithGolden_NewsRelative(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "news_relative.yaml"))
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s))
}

func TestRunWithGolden_NarrativeReferences(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "narrative_references.yaml"))
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s))
}

func TestSnapshot_Deterministic(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "news_relative.yaml"))
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)

	a, err := Snapshot(s.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestSnapshot_Format(t *testing.T) {
	r := NewResult("ignored")
	r.Documents = []DocumentResult{{ID: "d", Timexes: []ir.Timex{
		{ID: "t1", Begin: 0, End: 5, Text: "today", Kind: ir.Date, Value: "2020-01-01", RuleID: "date_r3b-explicit"},
	}}}

	data, err := Snapshot("fmt", r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"documents":[{"id":"d","timexes":[{"begin":0,"end":5,"id":"t1","rule_id":"date_r3b-explicit","sentence":0,"text":"today","type":"DATE","value":"2020-01-01"}]}],"scenario":"fmt"}`+"\n",
		string(data))
}

func TestSnapshot_EmptyDocument(t *testing.T) {
	r := NewResult("ignored")
	r.Documents = []DocumentResult{{ID: "d"}}

	data, err := Snapshot("empty", r)
	require.NoError(t, err)
	assert.Equal(t, `{"documents":[{"id":"d","timexes":[]}],"scenario":"empty"}`+"\n", string(data))
}
