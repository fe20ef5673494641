package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run ID has no record.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns the run record for runID.
// Returns an error wrapping ErrRunNotFound if it does not exist.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, initial, initial_digest, final_digest, final_length, tool_version, format_version
		FROM runs
		WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns all runs in journal order.
// Returns an empty slice (not nil) when the journal is empty.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, initial, initial_digest, final_digest, final_length, tool_version, format_version
		FROM runs
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// ReadOps returns all ops of a run with deterministic ordering:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if the run has no ops.
func (s *Store) ReadOps(ctx context.Context, runID string) ([]Op, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, op, idx, arg, outcome, result, length
		FROM ops
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query ops: %w", err)
	}
	defer rows.Close()

	ops := []Op{}
	for rows.Next() {
		op, err := scanOp(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ops: %w", err)
	}

	return ops, nil
}

// CountOutcomes returns how many ops of a run ended in each outcome.
func (s *Store) CountOutcomes(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*)
		FROM ops
		WHERE run_id = ?
		GROUP BY outcome
		ORDER BY outcome COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[outcome] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome counts: %w", err)
	}

	return counts, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var initialJSON string

	err := sc.Scan(
		&run.ID,
		&run.Scenario,
		&initialJSON,
		&run.InitialDigest,
		&run.FinalDigest,
		&run.FinalLength,
		&run.ToolVersion,
		&run.FormatVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.Initial, err = unmarshalValues(initialJSON)
	if err != nil {
		return Run{}, fmt.Errorf("scan run %s: %w", run.ID, err)
	}

	return run, nil
}

func scanOp(sc scanner) (Op, error) {
	var op Op
	var argJSON, resultJSON string

	err := sc.Scan(
		&op.ID,
		&op.RunID,
		&op.Seq,
		&op.Op,
		&op.Index,
		&argJSON,
		&op.Outcome,
		&resultJSON,
		&op.Length,
	)
	if err != nil {
		return Op{}, fmt.Errorf("scan op: %w", err)
	}

	if op.Arg, err = unmarshalOptional(argJSON); err != nil {
		return Op{}, fmt.Errorf("scan op %s: arg: %w", op.ID, err)
	}
	if op.Result, err = unmarshalOptional(resultJSON); err != nil {
		return Op{}, fmt.Errorf("scan op %s: result: %w", op.ID, err)
	}

	return op, nil
}
