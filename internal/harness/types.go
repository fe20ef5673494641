package harness

import "github.com/roach88/fallible/internal/ir"

// TraceEvent records one applied step.
type TraceEvent struct {
	Seq     int64    `json:"seq"`
	Op      string   `json:"op"`
	Index   int      `json:"index"`
	Arg     ir.Value `json:"arg,omitempty"`
	Outcome string   `json:"outcome"`
	Result  ir.Value `json:"result,omitempty"`
	Length  int      `json:"length"` // sequence length after the step
}

// Result is the outcome of a scenario execution.
type Result struct {
	// RunID is the journal run the scenario was recorded under.
	RunID string `json:"run_id"`

	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Trace contains every step in order.
	Trace []TraceEvent `json:"trace"`

	// Final is the sequence after the last step.
	Final []ir.Value `json:"final"`

	// FinalDigest is ir.SequenceDigest(Final).
	FinalDigest string `json:"final_digest"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		RunID:  runID,
		Pass:   true,
		Trace:  []TraceEvent{},
		Final:  []ir.Value{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
