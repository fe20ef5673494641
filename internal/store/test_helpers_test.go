package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/fallible/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with minimal required fields.
func createTestRun(id string, initial ...ir.Value) Run {
	return Run{
		ID:            id,
		Scenario:      "test-scenario",
		Initial:       initial,
		InitialDigest: ir.MustSequenceDigest(initial),
		ToolVersion:   ir.ToolVersion,
		FormatVersion: ir.FormatVersion,
	}
}

// createTestOp creates an op record with minimal required fields.
func createTestOp(id, runID string, seq int64, op string, index int64, outcome string, length int) Op {
	return Op{
		ID:      id,
		RunID:   runID,
		Seq:     seq,
		Op:      op,
		Index:   index,
		Outcome: outcome,
		Length:  length,
	}
}
