package store

import (
	"context"
	"fmt"
)

// WriteRun starts the journal of a run.
//
// Run IDs can be pinned by scenario files, so the same ID may be journaled
// again after the scenario changed. Any earlier run with run.ID is deleted
// together with its ops in the same transaction, and the journal only ever
// holds the most recent execution under an ID.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	initialJSON, err := marshalValues(run.Initial)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM ops WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("write run: clear ops: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("write run: clear run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, scenario, initial, initial_digest, final_digest, final_length, tool_version, format_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Scenario,
		initialJSON,
		run.InitialDigest,
		run.FinalDigest,
		run.FinalLength,
		run.ToolVersion,
		run.FormatVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// CompleteRun records the final digest and length of a run.
// Returns ErrRunNotFound if the run was never written.
func (s *Store) CompleteRun(ctx context.Context, runID, finalDigest string, finalLength int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET final_digest = ?, final_length = ? WHERE id = ?
	`, finalDigest, finalLength, runID)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("complete run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// WriteOp inserts an op record.
// Uses ON CONFLICT DO NOTHING for idempotency within a run: the ID is
// content-addressed, and (run_id, seq) is unique.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteOp(ctx context.Context, op Op) error {
	argJSON, err := marshalOptional(op.Arg)
	if err != nil {
		return fmt.Errorf("write op: arg: %w", err)
	}
	resultJSON, err := marshalOptional(op.Result)
	if err != nil {
		return fmt.Errorf("write op: result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ops
		(id, run_id, seq, op, idx, arg, outcome, result, length)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		op.ID,
		op.RunID,
		op.Seq,
		op.Op,
		op.Index,
		argJSON,
		op.Outcome,
		resultJSON,
		op.Length,
	)
	if err != nil {
		return fmt.Errorf("write op: %w", err)
	}

	return nil
}
