package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Fixtures(t *testing.T) {
	for _, name := range []string{
		"has_index_boundaries",
		"get_returns_element",
		"remove_shifts_left",
		"insert_shifts_right",
		"mixed_values",
	} {
		t.Run(name, func(t *testing.T) {
			// Regenerate with:
			//   go test ./internal/harness -run TestRunWithGolden -update
			require.NoError(t, RunWithGolden(t, loadFixture(t, name)))
		})
	}
}

func TestAssertGolden_ReusesResult(t *testing.T) {
	s := loadFixture(t, "remove_shifts_left")
	result, err := Run(s)
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, s, result))
}

func TestMarshalTrace_RunIDOnlyWhenPinned(t *testing.T) {
	s := loadFixture(t, "get_returns_element")
	result, err := Run(s)
	require.NoError(t, err)

	data, err := MarshalTrace(s, result)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "run_id")

	s.RunID = "pinned"
	data, err = MarshalTrace(s, result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"pinned"`)
}

func TestMarshalTrace_Stable(t *testing.T) {
	s := loadFixture(t, "mixed_values")

	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)

	b1, err := MarshalTrace(s, r1)
	require.NoError(t, err)
	b2, err := MarshalTrace(s, r2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}
