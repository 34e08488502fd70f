package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/timex/internal/ir"
)

// GoldenDir holds golden files, relative to the test's package.
const GoldenDir = "testdata/golden"

// Snapshot renders result as canonical JSON: scenario name, then each
// document's id and expressions. Run ids are left out so output is
// byte-identical across runs.
func Snapshot(name string, result *Result) ([]byte, error) {
	docs := make(ir.Array, len(result.Documents))
	for i, d := range result.Documents {
		timexes := make(ir.Array, len(d.Timexes))
		for j := range d.Timexes {
			timexes[j] = d.Timexes[j].Object()
		}
		docs[i] = ir.Object{
			"id":      ir.String(d.ID),
			"timexes": timexes,
		}
	}
	data, err := ir.MarshalCanonical(ir.Object{
		"scenario":  ir.String(name),
		"documents": docs,
	})
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs scenario and compares its snapshot with
// testdata/golden/<name>.golden. Failed expectations are reported before
// the comparison.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) error {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result with the golden file for
// name.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
