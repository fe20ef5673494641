package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pinnedScenario = `name: pinned
description: "fixed run id for tracing"
run_id: trace-run
initial: [1, 2, 3, 4]
steps:
  - op: remove
    index: 0
  - op: insert
    index: 1
    value: 9
  - op: get
    index: 4
`

func TestTraceCommand_Text(t *testing.T) {
	dbPath := journalScenarios(t, map[string]string{"pinned.yaml": pinnedScenario})

	out, _, err := execute(NewTraceCommand(rootOpts("text")), "--db", dbPath, "--run", "trace-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Run: trace-run (pinned)")
	assert.Contains(t, out, "Initial: [1 2 3 4]")
	assert.Contains(t, out, "  [1] remove 0 -> ok 1 (len 3)")
	assert.Contains(t, out, "  [2] insert 1 9 -> ok (len 4)")
	assert.Contains(t, out, "  [3] get 4 -> out_of_range (len 4)")
	assert.Contains(t, out, "  Total ops: 3")
	assert.Contains(t, out, "  ok: 2")
	assert.Contains(t, out, "  out_of_range: 1")
	assert.Contains(t, out, "  Final length: 4")
}

func TestTraceCommand_OpFilter(t *testing.T) {
	dbPath := journalScenarios(t, map[string]string{"pinned.yaml": pinnedScenario})

	out, _, err := execute(NewTraceCommand(rootOpts("text")), "--db", dbPath, "--run", "trace-run", "--op", "insert")
	require.NoError(t, err)
	assert.Contains(t, out, "[2] insert 1 9")
	assert.NotContains(t, out, "remove 0")
	assert.Contains(t, out, "  Total ops: 3")
}

func TestTraceCommand_JSON(t *testing.T) {
	dbPath := journalScenarios(t, map[string]string{"pinned.yaml": pinnedScenario})

	out, _, err := execute(NewTraceCommand(rootOpts("json")), "--db", dbPath, "--run", "trace-run")
	require.NoError(t, err)

	var result TraceResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-run", result.RunID)
	assert.Equal(t, "pinned", result.Scenario)
	require.Len(t, result.Timeline, 3)
	assert.Equal(t, "remove", result.Timeline[0].Op)
	assert.Equal(t, float64(1), result.Timeline[0].Result)
	assert.Equal(t, float64(9), result.Timeline[1].Arg)
	assert.Nil(t, result.Timeline[2].Result)
	assert.NotEmpty(t, result.Timeline[0].ID)
	assert.True(t, result.Stats.IsComplete)
	assert.Equal(t, map[string]int{"ok": 2, "out_of_range": 1}, result.Stats.Outcomes)
	assert.NotEmpty(t, result.FinalDigest)
}

func TestTraceCommand_Errors(t *testing.T) {
	t.Run("missing run flag", func(t *testing.T) {
		_, _, err := execute(NewTraceCommand(rootOpts("text")), "--db", "x.db")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `required flag(s) "run" not set`)
	})

	t.Run("database not found", func(t *testing.T) {
		_, _, err := execute(NewTraceCommand(rootOpts("text")), "--db", filepath.Join(t.TempDir(), "nope.db"), "--run", "r")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("unknown run", func(t *testing.T) {
		dbPath := journalScenarios(t, map[string]string{"pinned.yaml": pinnedScenario})
		out, _, err := execute(NewTraceCommand(rootOpts("text")), "--db", dbPath, "--run", "missing")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error [E004]: run not found: missing")
	})
}
