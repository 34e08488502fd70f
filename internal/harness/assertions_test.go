package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timex/internal/ir"
)

func sampleResult() *Result {
	r := NewResult("run")
	r.Documents = []DocumentResult{
		{ID: "a", Timexes: []ir.Timex{
			{ID: "t1", Text: "Monday", Kind: ir.Date, Value: "2019-12-30", RuleID: "date_r2a-relative"},
			{ID: "t2", Text: "two weeks", Kind: ir.Duration, Value: "P2W", Mod: "EQUAL_OR_MORE", RuleID: "duration_r5"},
		}},
		{ID: "b", Timexes: []ir.Timex{
			{ID: "t1", Text: "every day", Kind: ir.Set, Value: "P1D", Quant: "EVERY", RuleID: "set_r1"},
		}},
	}
	return r
}

func TestAssertContains(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, evaluate(r, Assertion{Type: AssertContains, Match: ExpectedTimex{Value: "P1D", Quant: "EVERY"}}))
	assert.NoError(t, evaluate(r, Assertion{Type: AssertContains, Match: ExpectedTimex{Type: "duration", Mod: "EQUAL_OR_MORE"}}))

	err := evaluate(r, Assertion{Type: AssertContains, Document: "a", Match: ExpectedTimex{Value: "P1D"}})
	require.Error(t, err)

	assertErr, ok := err.(*AssertionError)
	require.True(t, ok)
	assert.Equal(t, AssertContains, assertErr.Type)
	assert.Equal(t, `{value="P1D"}`, assertErr.Expected)
	assert.Equal(t, "no matching expression", assertErr.Actual)
	assert.Len(t, assertErr.Timexes, 2)
}

func TestAssertAbsent(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, evaluate(r, Assertion{Type: AssertAbsent, Match: ExpectedTimex{Text: "March"}}))

	err := evaluate(r, Assertion{Type: AssertAbsent, Match: ExpectedTimex{Text: "Monday"}})
	require.Error(t, err)
	assertErr := err.(*AssertionError)
	assert.Contains(t, assertErr.Actual, `t1 DATE "Monday"=2019-12-30`)
}

func TestAssertCount(t *testing.T) {
	r := sampleResult()

	tests := []struct {
		name string
		a    Assertion
		ok   bool
	}{
		{"all", Assertion{Type: AssertCount, Count: 3}, true},
		{"one document", Assertion{Type: AssertCount, Document: "b", Count: 1}, true},
		{"by type", Assertion{Type: AssertCount, Match: ExpectedTimex{Type: "DATE"}, Count: 1}, true},
		{"zero", Assertion{Type: AssertCount, Match: ExpectedTimex{Type: "TIME"}, Count: 0}, true},
		{"wrong", Assertion{Type: AssertCount, Count: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evaluate(r, tt.a)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "3 expressions")
			}
		})
	}
}

func TestAssertOrder(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, evaluate(r, Assertion{Type: AssertOrder, Values: []string{"2019-12-30", "P1D"}}))

	err := evaluate(r, Assertion{Type: AssertOrder, Values: []string{"P1D", "2019-12-30"}})
	require.Error(t, err)
	assert.Contains(t, err.(*AssertionError).Actual, `"2019-12-30" not found after [P1D]`)
}

func TestEvaluateAssertions_CollectsFailures(t *testing.T) {
	r := sampleResult()

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertContains, Match: ExpectedTimex{Value: "P1D"}},
		{Type: AssertAbsent, Match: ExpectedTimex{Value: "P1D"}},
		{Type: "resembles"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertion 1:")
	assert.Contains(t, errs[1], `assertion 2: unknown assertion type "resembles"`)
}

func TestExpectedTimex_Mismatch(t *testing.T) {
	tx := &ir.Timex{Text: "every day", Kind: ir.Set, Value: "P1D", Quant: "EVERY", RuleID: "set_r1"}

	assert.Empty(t, ExpectedTimex{}.mismatch(tx))
	assert.Empty(t, ExpectedTimex{Type: "set", Value: "P1D"}.mismatch(tx))
	assert.Equal(t, `value: want "P1W", got "P1D"`, ExpectedTimex{Value: "P1W"}.mismatch(tx))
	assert.Equal(t, `freq: want "1D", got ""`, ExpectedTimex{Text: "every day", Freq: "1D"}.mismatch(tx))
}

func TestExpectedTimex_String(t *testing.T) {
	assert.Equal(t, "{any}", ExpectedTimex{}.String())
	assert.Equal(t, `{text="today" value="2020-01-01"}`, ExpectedTimex{Text: "today", Value: "2020-01-01"}.String())
}

func TestAssertionError_Error(t *testing.T) {
	err := &AssertionError{
		Type:     AssertCount,
		Expected: "1",
		Actual:   "0",
		Timexes:  []ir.Timex{{ID: "t3", Kind: ir.Duration, Text: "a week", Value: "P1W"}},
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: count")
	assert.Contains(t, msg, "Expected: 1")
	assert.Contains(t, msg, `t3 DURATION "a week"=P1W`)
}
