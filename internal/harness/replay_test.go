package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fallible/internal/ir"
	"github.com/roach88/fallible/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "replay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestReplay_Fixtures(t *testing.T) {
	ctx := t.Context()
	st := openTestStore(t)

	for _, name := range []string{"remove_shifts_left", "insert_shifts_right", "mixed_values"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithStore(ctx, st, loadFixture(t, name), UUIDv7Generator{})
			require.NoError(t, err)

			rr, err := Replay(ctx, st, result.RunID)
			require.NoError(t, err)
			assert.True(t, rr.Deterministic, "divergences: %v", rr.Divergences)
			assert.Empty(t, rr.Divergences)
			assert.Equal(t, name, rr.Scenario)
			assert.Equal(t, len(result.Trace), rr.Ops)
			assert.Equal(t, result.FinalDigest, rr.FinalDigest)
		})
	}
}

func TestReplay_RunNotFound(t *testing.T) {
	_, err := Replay(t.Context(), openTestStore(t), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestReplay_DetectsTamperedJournal(t *testing.T) {
	ctx := t.Context()
	st := openTestStore(t)

	initial := []ir.Value{ir.Int(1), ir.Int(2)}
	require.NoError(t, st.WriteRun(ctx, store.Run{
		ID:            "tampered",
		Scenario:      "tampered",
		Initial:       initial,
		InitialDigest: ir.MustSequenceDigest(initial),
		ToolVersion:   ir.ToolVersion,
		FormatVersion: ir.FormatVersion,
	}))

	// remove at 5 cannot succeed on a two-element sequence
	require.NoError(t, st.WriteOp(ctx, store.Op{
		ID:      "op-1",
		RunID:   "tampered",
		Seq:     1,
		Op:      OpRemove,
		Index:   5,
		Outcome: OutcomeOK,
		Result:  ir.Int(1),
		Length:  1,
	}))
	require.NoError(t, st.CompleteRun(ctx, "tampered", ir.MustSequenceDigest([]ir.Value{ir.Int(2)}), 1))

	rr, err := Replay(ctx, st, "tampered")
	require.NoError(t, err)
	assert.False(t, rr.Deterministic)

	fields := make([]string, 0, len(rr.Divergences))
	for _, d := range rr.Divergences {
		fields = append(fields, d.Field)
	}
	assert.Equal(t, []string{"outcome", "result", "length", "final_digest", "final_length"}, fields)

	assert.Equal(t, Divergence{Seq: 1, Field: "outcome", Journaled: OutcomeOK, Replayed: OutcomeOutOfRange}, rr.Divergences[0])
	assert.Equal(t, Divergence{Seq: 1, Field: "result", Journaled: "1", Replayed: "<none>"}, rr.Divergences[1])
}

func TestReplay_IncompleteRun(t *testing.T) {
	ctx := t.Context()
	st := openTestStore(t)

	require.NoError(t, st.WriteRun(ctx, store.Run{
		ID:            "partial",
		Scenario:      "partial",
		Initial:       []ir.Value{},
		InitialDigest: ir.MustSequenceDigest([]ir.Value{}),
		ToolVersion:   ir.ToolVersion,
		FormatVersion: ir.FormatVersion,
	}))

	rr, err := Replay(ctx, st, "partial")
	require.NoError(t, err)
	assert.False(t, rr.Deterministic)
	require.Len(t, rr.Divergences, 1)
	assert.Equal(t, "final_digest", rr.Divergences[0].Field)
	assert.Equal(t, "", rr.Divergences[0].Journaled)
}
