package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fallible/internal/ir"
)

// Scenario defines a scripted run against a sequence.
// A scenario starts from an initial sequence, applies its steps in order
// and asserts on the resulting trace and final sequence.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID is an optional fixed run ID for deterministic journals.
	// If empty, Run uses DefaultRunID and the CLI generates a UUIDv7.
	RunID string `yaml:"run_id,omitempty"`

	// Initial is the starting sequence. Empty means an empty sequence.
	Initial []any `yaml:"initial"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final sequence.
	// Supported types: final_sequence, final_length, outcome_count, op_order
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single sequence operation.
type Step struct {
	// Op is one of has_index, get, remove, insert.
	Op string `yaml:"op"`

	// Index is the position the op acts on. Required, may be negative.
	Index *int `yaml:"index"`

	// Value is the element to insert (insert only).
	Value any `yaml:"value,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, no validation is performed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected step behavior.
type ExpectClause struct {
	// Outcome is ok or out_of_range.
	Outcome string `yaml:"outcome"`

	// Value is the expected returned element (get and remove only).
	// If nil, only the outcome is validated.
	Value any `yaml:"value,omitempty"`
}

// Assertion validates the trace or final sequence.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_sequence": sequence after the last step equals Expect
	// - "final_length": sequence length after the last step equals Length
	// - "outcome_count": journaled ops with Outcome (and Op, if set) number Count
	// - "op_order": Ops appear in the trace in this relative order
	Type string `yaml:"type"`

	// Expect is the expected final sequence (used by final_sequence).
	Expect []any `yaml:"expect,omitempty"`

	// Length is the expected final length (used by final_length).
	Length *int `yaml:"length,omitempty"`

	// Outcome and Count are used by outcome_count.
	// Op optionally restricts the count to one operation.
	Outcome string `yaml:"outcome,omitempty"`
	Op      string `yaml:"op,omitempty"`
	Count   *int   `yaml:"count,omitempty"`

	// Ops is the expected op order (used by op_order).
	Ops []string `yaml:"ops,omitempty"`
}

// Operation names.
const (
	OpHasIndex = "has_index"
	OpGet      = "get"
	OpRemove   = "remove"
	OpInsert   = "insert"
)

// Outcome names.
const (
	OutcomeOK         = "ok"
	OutcomeOutOfRange = "out_of_range"
)

// Assertion type constants.
const (
	AssertFinalSequence = "final_sequence"
	AssertFinalLength   = "final_length"
	AssertOutcomeCount  = "outcome_count"
	AssertOpOrder       = "op_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML already in memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := ir.FromYAMLList(s.Initial); err != nil {
		return fmt.Errorf("initial%w", err)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}

	return nil
}

func validateStep(step Step) error {
	if !isKnownOp(step.Op) {
		return fmt.Errorf("unknown op %q", step.Op)
	}

	if step.Index == nil {
		return fmt.Errorf("%s requires index", step.Op)
	}

	if step.Op == OpInsert {
		if step.Value == nil {
			return fmt.Errorf("insert requires value")
		}
		if _, err := ir.FromYAML(step.Value); err != nil {
			return fmt.Errorf("value: %w", err)
		}
	} else if step.Value != nil {
		return fmt.Errorf("%s does not take a value", step.Op)
	}

	if step.Expect == nil {
		return nil
	}

	if !isKnownOutcome(step.Expect.Outcome) {
		return fmt.Errorf("expect: unknown outcome %q", step.Expect.Outcome)
	}

	if step.Expect.Value != nil {
		if step.Op != OpGet && step.Op != OpRemove {
			return fmt.Errorf("expect: %s returns no value", step.Op)
		}
		if step.Expect.Outcome != OutcomeOK {
			return fmt.Errorf("expect: value requires outcome %s", OutcomeOK)
		}
		if _, err := ir.FromYAML(step.Expect.Value); err != nil {
			return fmt.Errorf("expect value: %w", err)
		}
	}

	return nil
}

// validateAssertion checks that an assertion has required fields for its type.
func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertFinalSequence:
		if a.Expect == nil {
			return fmt.Errorf("final_sequence requires expect")
		}
		if _, err := ir.FromYAMLList(a.Expect); err != nil {
			return fmt.Errorf("expect%w", err)
		}
	case AssertFinalLength:
		if a.Length == nil {
			return fmt.Errorf("final_length requires length")
		}
		if *a.Length < 0 {
			return fmt.Errorf("final_length length must be non-negative")
		}
	case AssertOutcomeCount:
		if !isKnownOutcome(a.Outcome) {
			return fmt.Errorf("outcome_count requires outcome ok or out_of_range, got %q", a.Outcome)
		}
		if a.Count == nil {
			return fmt.Errorf("outcome_count requires count")
		}
		if a.Op != "" && !isKnownOp(a.Op) {
			return fmt.Errorf("outcome_count: unknown op %q", a.Op)
		}
	case AssertOpOrder:
		if len(a.Ops) < 2 {
			return fmt.Errorf("op_order requires at least 2 ops")
		}
		for _, op := range a.Ops {
			if !isKnownOp(op) {
				return fmt.Errorf("op_order: unknown op %q", op)
			}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func isKnownOp(op string) bool {
	switch op {
	case OpHasIndex, OpGet, OpRemove, OpInsert:
		return true
	}
	return false
}

func isKnownOutcome(outcome string) bool {
	return outcome == OutcomeOK || outcome == OutcomeOutOfRange
}
