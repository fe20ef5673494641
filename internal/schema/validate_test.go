package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasError(errs []ValidationError, code, fieldPrefix string) bool {
	for _, e := range errs {
		if e.Code == code && strings.HasPrefix(e.Field, fieldPrefix) {
			return true
		}
	}
	return false
}

func TestValidateScenario_HarnessFixtures(t *testing.T) {
	files, err := filepath.Glob("../harness/testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			data, err := os.ReadFile(f)
			require.NoError(t, err)
			assert.Empty(t, ValidateScenario(f, data))
		})
	}
}

func TestValidateScenario_Valid(t *testing.T) {
	data := []byte(`name: ok
description: "all assertion kinds"
run_id: fixed
initial: [1, "two", true, [3], {k: v}]
steps:
  - op: insert
    index: 0
    value: 0
  - op: get
    index: -1
    expect:
      outcome: out_of_range
assertions:
  - type: final_sequence
    expect: []
  - type: final_length
    length: 6
  - type: outcome_count
    op: get
    outcome: ok
    count: 0
  - type: op_order
    ops: [insert, get]
`)
	assert.Empty(t, ValidateScenario("ok.yaml", data))
}

func TestValidateScenario_Errors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		code  string
		field string
	}{
		{
			name:  "unknown top-level field",
			yaml:  "name: x\ndescription: d\nsteps: [{op: get, index: 0}]\nflow: []\n",
			code:  ErrUnknownField,
			field: "flow",
		},
		{
			name:  "unknown step field",
			yaml:  "name: x\ndescription: d\nsteps: [{op: get, index: 0, invoke: y}]\n",
			code:  ErrUnknownField,
			field: "steps.0",
		},
		{
			name:  "missing name",
			yaml:  "description: d\nsteps: [{op: get, index: 0}]\n",
			code:  ErrMissingField,
			field: "name",
		},
		{
			name:  "missing index",
			yaml:  "name: x\ndescription: d\nsteps: [{op: get}]\n",
			code:  ErrMissingField,
			field: "steps.0.index",
		},
		{
			name:  "insert without value",
			yaml:  "name: x\ndescription: d\nsteps: [{op: insert, index: 0}]\n",
			code:  ErrMissingField,
			field: "steps.0.value",
		},
		{
			name:  "empty steps",
			yaml:  "name: x\ndescription: d\nsteps: []\n",
			code:  ErrInvalidValue,
			field: "steps",
		},
		{
			name:  "string index",
			yaml:  "name: x\ndescription: d\nsteps: [{op: get, index: first}]\n",
			code:  ErrInvalidValue,
			field: "steps.0.index",
		},
		{
			name:  "unknown op",
			yaml:  "name: x\ndescription: d\nsteps: [{op: push, index: 0}]\n",
			code:  ErrInvalidValue,
			field: "steps.0.op",
		},
		{
			name:  "float element",
			yaml:  "name: x\ndescription: d\ninitial: [1.5]\nsteps: [{op: get, index: 0}]\n",
			code:  ErrInvalidValue,
			field: "initial.0",
		},
		{
			name:  "negative length",
			yaml:  "name: x\ndescription: d\nsteps: [{op: get, index: 0}]\nassertions: [{type: final_length, length: -1}]\n",
			code:  ErrInvalidValue,
			field: "assertions.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateScenario("bad.yaml", []byte(tt.yaml))
			require.NotEmpty(t, errs)
			assert.True(t, hasError(errs, tt.code, tt.field), "want %s on %s, got %v", tt.code, tt.field, errs)
		})
	}
}

func TestValidateScenario_ReportsAllErrors(t *testing.T) {
	errs := ValidateScenario("bad.yaml", []byte("name: x\nsteps: [{op: get}]\nextra: 1\n"))

	assert.True(t, hasError(errs, ErrMissingField, "description"), "got %v", errs)
	assert.True(t, hasError(errs, ErrMissingField, "steps.0.index"), "got %v", errs)
	assert.True(t, hasError(errs, ErrUnknownField, "extra"), "got %v", errs)
}

func TestValidateScenario_Lines(t *testing.T) {
	errs := ValidateScenario("bad.yaml", []byte("name: x\ndescription: d\nsteps:\n  - op: get\n    index: 0\nbogus: true\n"))
	require.NotEmpty(t, errs)

	found := false
	for _, e := range errs {
		if e.Code == ErrUnknownField && e.Field == "bogus" {
			found = true
			assert.Equal(t, 6, e.Line)
		}
	}
	assert.True(t, found, "got %v", errs)
}

func TestValidateScenario_YAMLSyntax(t *testing.T) {
	errs := ValidateScenario("bad.yaml", []byte("name: [unclosed\n"))
	require.Len(t, errs, 1)
	assert.Equal(t, ErrYAMLSyntax, errs[0].Code)
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "[E202] line 3: name: incomplete value string",
		ValidationError{Field: "name", Message: "incomplete value string", Code: ErrMissingField, Line: 3}.Error())
	assert.Equal(t, "[E201] extra: field not allowed",
		ValidationError{Field: "extra", Message: "field not allowed", Code: ErrUnknownField}.Error())
}
