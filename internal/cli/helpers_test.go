package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const removeScenario = `name: remove_shifts_left
description: "remove shifts the tail left"
initial: [1, 2, 3, 4]
steps:
  - op: remove
    index: 0
    expect:
      outcome: ok
      value: 1
  - op: remove
    index: 2
    expect:
      outcome: ok
      value: 4
  - op: remove
    index: 2
    expect:
      outcome: out_of_range
assertions:
  - type: final_sequence
    expect: [2, 3]
`

const insertScenario = `name: insert_shifts_right
description: "insert at len is rejected"
initial: [1, 2, 4]
steps:
  - op: insert
    index: 2
    value: 3
    expect:
      outcome: ok
  - op: insert
    index: 4
    value: 5
    expect:
      outcome: out_of_range
assertions:
  - type: final_sequence
    expect: [1, 2, 3, 4]
`

const failingScenario = `name: wrong_expectation
description: "expects the wrong element"
initial: [1]
steps:
  - op: get
    index: 0
    expect:
      outcome: ok
      value: 2
`

// writeScenario writes a scenario file into dir and returns its path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse unmarshals a CLIResponse and re-decodes its data into v.
func decodeResponse(t *testing.T, raw string, v any) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	if v != nil && resp.Data != nil {
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, v))
	}
	return resp
}
