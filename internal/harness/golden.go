package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fallible/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	RunID        string       `json:"run_id,omitempty"`
	Initial      []ir.Value   `json:"initial"`
	Trace        []TraceEvent `json:"trace"`
	Final        []ir.Value   `json:"final"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// ir.MarshalCanonical only handles IR types and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":     event.Seq,
			"op":      event.Op,
			"index":   event.Index,
			"outcome": event.Outcome,
			"length":  event.Length,
		}
		if event.Arg != nil {
			eventMap["arg"] = event.Arg
		}
		if event.Result != nil {
			eventMap["result"] = event.Result
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"initial":       ir.Array(s.Initial),
		"trace":         traceList,
		"final":         ir.Array(s.Final),
	}
	if s.RunID != "" {
		result["run_id"] = s.RunID
	}
	return result
}

// MarshalTrace renders the canonical trace snapshot of a scenario result.
// The run ID is included only when the scenario pins one, so snapshots of
// runs with generated IDs stay comparable.
func MarshalTrace(scenario *Scenario, result *Result) ([]byte, error) {
	initial, err := ir.FromYAMLList(scenario.Initial)
	if err != nil {
		return nil, err
	}

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		RunID:        scenario.RunID,
		Initial:      initial,
		Trace:        result.Trace,
		Final:        result.Final,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	traceJSON, err := MarshalTrace(scenario, result)
	if err != nil {
		return err
	}

	newGoldie(t).Assert(t, scenario.Name, traceJSON)
	return nil
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(scenario, result)
	if err != nil {
		return err
	}

	newGoldie(t).Assert(t, scenario.Name, traceJSON)
	return nil
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
