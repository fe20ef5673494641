package store

import "github.com/roach88/fallible/internal/ir"

// Run is one journaled scenario execution.
type Run struct {
	ID            string
	Scenario      string
	Initial       []ir.Value
	InitialDigest string
	FinalDigest   string // empty until the run is completed
	FinalLength   int
	ToolVersion   string
	FormatVersion string
}

// Completed reports whether CompleteRun has been recorded for the run.
func (r Run) Completed() bool {
	return r.FinalDigest != ""
}

// Op is one journaled sequence operation.
type Op struct {
	ID      string
	RunID   string
	Seq     int64
	Op      string
	Index   int64
	Arg     ir.Value // nil when the op takes no value
	Outcome string
	Result  ir.Value // nil when the op produced no value
	Length  int      // sequence length after the op
}
