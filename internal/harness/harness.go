package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/fallible/internal/ir"
	"github.com/roach88/fallible/internal/store"
	"github.com/roach88/fallible/seq"
)

// Harness is the scenario execution engine.
// It applies steps to a seq.Vec with a deterministic clock and journals
// each one into the store.
type Harness struct {
	store  *store.Store
	clock  *Clock
	runID  string
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation. The run ID
// is the scenario's run_id (or DefaultRunID), so repeated runs produce
// identical journals and traces.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  NewClock(),
		runID:  NewFixedRunIDGenerator(scenario.RunID).Generate(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	return h.execute(context.Background(), scenario)
}

// RunWithStore executes a scenario and journals it into st.
// gen supplies the run ID; a scenario with a fixed run_id overrides it.
// Logs go to slog.Default().
func RunWithStore(ctx context.Context, st *store.Store, scenario *Scenario, gen RunIDGenerator) (*Result, error) {
	runID := scenario.RunID
	if runID == "" {
		if gen == nil {
			gen = UUIDv7Generator{}
		}
		runID = gen.Generate()
	}

	h := &Harness{
		store:  st,
		clock:  NewClock(),
		runID:  runID,
		logger: slog.Default(),
	}
	return h.execute(ctx, scenario)
}

// execute runs the steps, then evaluates assertions against the result.
//
// Execution flow:
// 1. Journal the run with its initial sequence
// 2. Apply each step, journal it and check its expect clause
// 3. Complete the run with the final digest
// 4. Evaluate assertions
func (h *Harness) execute(ctx context.Context, scenario *Scenario) (*Result, error) {
	initial, err := ir.FromYAMLList(scenario.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial%w", err)
	}

	initialDigest, err := ir.SequenceDigest(initial)
	if err != nil {
		return nil, err
	}

	if err := h.store.WriteRun(ctx, store.Run{
		ID:            h.runID,
		Scenario:      scenario.Name,
		Initial:       initial,
		InitialDigest: initialDigest,
		ToolVersion:   ir.ToolVersion,
		FormatVersion: ir.FormatVersion,
	}); err != nil {
		return nil, fmt.Errorf("failed to journal run: %w", err)
	}

	h.logger.Debug("run started",
		"run_id", h.runID,
		"scenario", scenario.Name,
		"initial_length", len(initial))

	v := seq.Of(initial...)
	result := NewResult(h.runID)

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, v, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	result.Final = v.Values()
	result.FinalDigest, err = ir.SequenceDigest(result.Final)
	if err != nil {
		return nil, err
	}

	if err := h.store.CompleteRun(ctx, h.runID, result.FinalDigest, len(result.Final)); err != nil {
		return nil, fmt.Errorf("failed to complete run: %w", err)
	}

	actx := &AssertionContext{
		Store: h.store,
		Ctx:   ctx,
		RunID: h.runID,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	h.logger.Debug("run completed",
		"run_id", h.runID,
		"final_length", len(result.Final),
		"final_digest", result.FinalDigest,
		"pass", result.Pass)

	return result, nil
}

// executeStep applies a single step, journals it and checks its expect clause.
func (h *Harness) executeStep(ctx context.Context, v *seq.Vec[ir.Value], i int, step Step, result *Result) error {
	if step.Index == nil {
		return fmt.Errorf("%s requires index", step.Op)
	}
	index := *step.Index

	var arg ir.Value
	if step.Op == OpInsert {
		var err error
		if arg, err = ir.FromYAML(step.Value); err != nil {
			return fmt.Errorf("failed to convert value: %w", err)
		}
	}

	outcome, elem, err := applyOp(v, step.Op, index, arg)
	if err != nil {
		return err
	}

	// CRITICAL: clock.Next() must be called exactly once per step
	stepSeq := h.clock.Next()

	opID, err := ir.OpID(h.runID, stepSeq, step.Op, int64(index), arg)
	if err != nil {
		return fmt.Errorf("failed to compute op ID: %w", err)
	}

	if err := h.store.WriteOp(ctx, store.Op{
		ID:      opID,
		RunID:   h.runID,
		Seq:     stepSeq,
		Op:      step.Op,
		Index:   int64(index),
		Arg:     arg,
		Outcome: outcome,
		Result:  elem,
		Length:  v.Len(),
	}); err != nil {
		return fmt.Errorf("failed to journal op: %w", err)
	}

	result.AddTrace(TraceEvent{
		Seq:     stepSeq,
		Op:      step.Op,
		Index:   index,
		Arg:     arg,
		Outcome: outcome,
		Result:  elem,
		Length:  v.Len(),
	})

	h.logger.Debug("step applied",
		"seq", stepSeq,
		"op", step.Op,
		"index", index,
		"outcome", outcome,
		"length", v.Len())

	if step.Expect != nil {
		// Expectation mismatch is a test failure, not an execution error
		if msg := checkExpect(i, step, outcome, elem); msg != "" {
			result.AddError(msg)
		}
	}

	return nil
}

// checkExpect compares a step's outcome against its expect clause.
// Returns an empty string when they match.
func checkExpect(i int, step Step, outcome string, elem ir.Value) string {
	label := fmt.Sprintf("step %d (%s %d)", i, step.Op, *step.Index)

	if outcome != step.Expect.Outcome {
		return fmt.Sprintf("%s: expected outcome %s, got %s", label, step.Expect.Outcome, outcome)
	}

	if step.Expect.Value == nil {
		return ""
	}

	want, err := ir.FromYAML(step.Expect.Value)
	if err != nil {
		return fmt.Sprintf("%s: invalid expected value: %v", label, err)
	}
	if !ir.Equal(want, elem) {
		return fmt.Sprintf("%s: expected value %s, got %s", label, formatValue(want), formatValue(elem))
	}

	return ""
}

// formatValue renders a value as canonical JSON for messages.
func formatValue(v ir.Value) string {
	if v == nil {
		return "<none>"
	}
	b, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
