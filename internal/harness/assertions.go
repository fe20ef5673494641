package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/fallible/internal/ir"
	"github.com/roach88/fallible/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %d -> %s (len %d)\n",
				event.Seq, event.Op, event.Index, event.Outcome, event.Length)
		}
	}

	return buf.String()
}

// assertFinalSequence checks the sequence after the last step element by element.
func assertFinalSequence(result *Result, assertion Assertion) error {
	want, err := ir.FromYAMLList(assertion.Expect)
	if err != nil {
		return fmt.Errorf("final_sequence: invalid expect: %w", err)
	}

	if !ir.EqualSlices(want, result.Final) {
		return &AssertionError{
			Type:     AssertFinalSequence,
			Expected: formatValue(ir.Array(want)),
			Actual:   formatValue(ir.Array(result.Final)),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFinalLength checks the sequence length after the last step.
func assertFinalLength(result *Result, assertion Assertion) error {
	if assertion.Length == nil {
		return fmt.Errorf("final_length requires length")
	}
	if len(result.Final) != *assertion.Length {
		return &AssertionError{
			Type:     AssertFinalLength,
			Expected: fmt.Sprintf("length %d", *assertion.Length),
			Actual:   fmt.Sprintf("length %d", len(result.Final)),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertOutcomeCount counts journaled ops with the assertion's outcome.
// Counting reads the journal, not the in-memory trace, so it also checks
// that every step was recorded.
func assertOutcomeCount(actx *AssertionContext, result *Result, assertion Assertion) error {
	if assertion.Count == nil {
		return fmt.Errorf("outcome_count requires count")
	}

	var (
		count int
		err   error
	)
	if assertion.Op == "" {
		var counts map[string]int
		counts, err = actx.Store.CountOutcomes(actx.Ctx, actx.RunID)
		count = counts[assertion.Outcome]
	} else {
		count, err = countOpOutcome(actx.Ctx, actx.Store, actx.RunID, assertion.Op, assertion.Outcome)
	}
	if err != nil {
		return &AssertionError{
			Type:     AssertOutcomeCount,
			Expected: fmt.Sprintf("query journal for run %s", actx.RunID),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	if count != *assertion.Count {
		subject := assertion.Outcome
		if assertion.Op != "" {
			subject = assertion.Op + " " + assertion.Outcome
		}
		return &AssertionError{
			Type:     AssertOutcomeCount,
			Expected: fmt.Sprintf("%d occurrences of %s", *assertion.Count, subject),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

// countOpOutcome counts journaled ops of one kind with one outcome.
func countOpOutcome(ctx context.Context, st *store.Store, runID, op, outcome string) (int, error) {
	rows, err := st.Query(ctx,
		`SELECT COUNT(*) FROM ops WHERE run_id = ? AND op = ? AND outcome = ?`,
		runID, op, outcome)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, fmt.Errorf("scan count: %w", err)
		}
	}
	return count, rows.Err()
}

// assertOpOrder checks that ops appear in the specified relative order.
// Ops don't need to be consecutive (intervening steps are allowed), and the
// same op may be listed more than once.
func assertOpOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(assertion.Ops) && event.Op == assertion.Ops[next] {
			next++
		}
	}

	if next < len(assertion.Ops) {
		return &AssertionError{
			Type:     AssertOpOrder,
			Expected: fmt.Sprintf("ops in order: %v", assertion.Ops),
			Actual:   fmt.Sprintf("matched %d of %d, missing %s", next, len(assertion.Ops), assertion.Ops[next]),
			Trace:    trace,
		}
	}
	return nil
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
	RunID string
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides journal access for outcome_count assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertFinalSequence:
			err = assertFinalSequence(result, assertion)
		case AssertFinalLength:
			err = assertFinalLength(result, assertion)
		case AssertOutcomeCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: outcome_count requires journal context", i)
			} else {
				err = assertOutcomeCount(actx, result, assertion)
			}
		case AssertOpOrder:
			err = assertOpOrder(result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
