package harness

import "github.com/roach88/timex/internal/ir"

// DocumentResult is the tagging of one scenario document.
type DocumentResult struct {
	ID      string     `json:"id"`
	Timexes []ir.Timex `json:"timexes"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// RunID identifies this run in logs. It never reaches golden output.
	RunID string `json:"run_id"`

	Documents []DocumentResult `json:"documents"`

	// Errors holds one message per failed check.
	Errors []string `json:"errors,omitempty"`
}

// NewResult returns a passing, empty result.
func NewResult(runID string) *Result {
	return &Result{
		Pass:      true,
		RunID:     runID,
		Documents: []DocumentResult{},
		Errors:    []string{},
	}
}

// AddError records a failed check.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Document returns the result for document id.
func (r *Result) Document(id string) (DocumentResult, bool) {
	for _, d := range r.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return DocumentResult{}, false
}

// Timexes returns the expressions of document id, or of all documents in
// order when id is empty.
func (r *Result) Timexes(id string) []ir.Timex {
	var out []ir.Timex
	for _, d := range r.Documents {
		if id == "" || d.ID == id {
			out = append(out, d.Timexes...)
		}
	}
	return out
}
