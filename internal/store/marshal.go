package store

import (
	"fmt"

	"github.com/roach88/fallible/internal/ir"
)

// marshalValues converts a sequence to canonical JSON TEXT for storage.
func marshalValues(vals []ir.Value) (string, error) {
	if vals == nil {
		vals = []ir.Value{}
	}
	data, err := ir.MarshalCanonical(vals)
	if err != nil {
		return "", fmt.Errorf("marshal values: %w", err)
	}
	return string(data), nil
}

// unmarshalValues parses canonical JSON TEXT into a sequence.
func unmarshalValues(data string) ([]ir.Value, error) {
	if data == "" || data == "[]" {
		return []ir.Value{}, nil
	}
	vals, err := ir.UnmarshalValues([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal values: %w", err)
	}
	return vals, nil
}

// marshalOptional converts an optional value to canonical JSON TEXT.
// A nil value is stored as the empty string.
func marshalOptional(v ir.Value) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(data), nil
}

// unmarshalOptional is the inverse of marshalOptional.
func unmarshalOptional(data string) (ir.Value, error) {
	if data == "" {
		return nil, nil
	}
	v, err := ir.UnmarshalValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	return v, nil
}
