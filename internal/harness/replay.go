package harness

import (
	"context"
	"fmt"

	"github.com/roach88/fallible/internal/ir"
	"github.com/roach88/fallible/internal/store"
	"github.com/roach88/fallible/seq"
)

// Divergence is one journaled field the replay did not reproduce.
// Seq 0 refers to the run itself rather than an op.
type Divergence struct {
	Seq       int64  `json:"seq"`
	Field     string `json:"field"`
	Journaled string `json:"journaled"`
	Replayed  string `json:"replayed"`
}

// ReplayResult reports whether a journaled run replays identically.
type ReplayResult struct {
	RunID         string       `json:"run_id"`
	Scenario      string       `json:"scenario"`
	Ops           int          `json:"ops"`
	FinalDigest   string       `json:"final_digest"`
	Divergences   []Divergence `json:"divergences"`
	Deterministic bool         `json:"deterministic"`
}

// Replay re-applies a run's journaled ops to its journaled initial sequence
// and compares every outcome, returned element and length, then the final
// digest.
//
// Returns store.ErrRunNotFound (wrapped) if the run does not exist.
func Replay(ctx context.Context, st *store.Store, runID string) (*ReplayResult, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	ops, err := st.ReadOps(ctx, runID)
	if err != nil {
		return nil, err
	}

	rr := &ReplayResult{
		RunID:       runID,
		Scenario:    run.Scenario,
		Ops:         len(ops),
		Divergences: []Divergence{},
	}

	initialDigest, err := ir.SequenceDigest(run.Initial)
	if err != nil {
		return nil, err
	}
	if initialDigest != run.InitialDigest {
		rr.diverge(0, "initial_digest", run.InitialDigest, initialDigest)
	}

	v := seq.Of(run.Initial...)
	for _, op := range ops {
		outcome, elem, err := applyOp(v, op.Op, int(op.Index), op.Arg)
		if err != nil {
			return nil, fmt.Errorf("replay op %d: %w", op.Seq, err)
		}

		if outcome != op.Outcome {
			rr.diverge(op.Seq, "outcome", op.Outcome, outcome)
		}
		if !ir.Equal(elem, op.Result) {
			rr.diverge(op.Seq, "result", formatValue(op.Result), formatValue(elem))
		}
		if v.Len() != op.Length {
			rr.diverge(op.Seq, "length", fmt.Sprint(op.Length), fmt.Sprint(v.Len()))
		}
	}

	rr.FinalDigest, err = ir.SequenceDigest(v.Values())
	if err != nil {
		return nil, err
	}

	// An incomplete run journals an empty digest and always diverges here.
	if rr.FinalDigest != run.FinalDigest {
		rr.diverge(0, "final_digest", run.FinalDigest, rr.FinalDigest)
	}
	if run.Completed() && v.Len() != run.FinalLength {
		rr.diverge(0, "final_length", fmt.Sprint(run.FinalLength), fmt.Sprint(v.Len()))
	}

	rr.Deterministic = len(rr.Divergences) == 0
	return rr, nil
}

func (rr *ReplayResult) diverge(at int64, field, journaled, replayed string) {
	rr.Divergences = append(rr.Divergences, Divergence{
		Seq:       at,
		Field:     field,
		Journaled: journaled,
		Replayed:  replayed,
	})
}
