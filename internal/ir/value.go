package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface representing constrained element values.
// Only String, Int, Bool, Array and Object implement it.
// There is no float and no null: both break deterministic identity.
type Value interface {
	irValue() // Sealed - only these types implement it
}

// String is a string value.
type String string

func (String) irValue() {}

// Int is an integer value. Always int64, never float64.
type Int int64

func (Int) irValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) irValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) irValue() {}

// Object maps string keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) irValue() {}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// Equal reports whether a and b have identical canonical encodings.
// Two nil values are equal; a nil and a non-nil value are not.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ab, err := MarshalCanonical(a)
	if err != nil {
		return false
	}
	bb, err := MarshalCanonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// EqualSlices reports whether a and b hold pairwise Equal values.
func EqualSlices(a, b []Value) bool {
	return slices.EqualFunc(a, b, Equal)
}

// UnmarshalValue deserializes JSON into a Value with strict validation.
// CRITICAL: Rejects floats AND null.
func UnmarshalValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	return convertToValue(raw)
}

// UnmarshalValues deserializes a JSON array into a slice of Values.
func UnmarshalValues(data []byte) ([]Value, error) {
	v, err := UnmarshalValue(data)
	if err != nil {
		return nil, err
	}
	arr, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("expected JSON array, got %T", v)
	}
	return []Value(arr), nil
}

// convertToValue recursively converts a decoded JSON value to a Value.
func convertToValue(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden: only string, int, bool, array, object allowed")
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are forbidden: %s", val)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", val)
		}
		return Int(n), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			e, err := convertToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = e
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			e, err := convertToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = e
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// FromYAML converts a yaml.v3-decoded value to a Value.
// yaml.v3 decodes integers as int and non-integral numbers as float64;
// integral float64 values are accepted, everything else float is rejected.
func FromYAML(val any) (Value, error) {
	switch v := val.(type) {
	case nil:
		return nil, fmt.Errorf("null values are forbidden")
	case string:
		return String(v), nil
	case int:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint64:
		if v > 1<<63-1 {
			return nil, fmt.Errorf("integer out of int64 range: %d", v)
		}
		return Int(int64(v)), nil
	case float64:
		// Conversion of out-of-range floats is platform dependent.
		if v >= 1<<63 || v < -(1<<63) {
			return nil, fmt.Errorf("number out of int64 range: %v", v)
		}
		if v == float64(int64(v)) {
			return Int(int64(v)), nil
		}
		return nil, fmt.Errorf("floats are forbidden: %v", v)
	case bool:
		return Bool(v), nil
	case []any:
		arr := make(Array, len(v))
		for i, elem := range v {
			e, err := FromYAML(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = e
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(v))
		for k, elem := range v {
			e, err := FromYAML(elem)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			obj[k] = e
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", val)
	}
}

// FromYAMLList converts a yaml.v3-decoded list to a slice of Values.
func FromYAMLList(vals []any) ([]Value, error) {
	out := make([]Value, len(vals))
	for i, v := range vals {
		e, err := FromYAML(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

// ToAny converts a Value to plain Go values (string, int64, bool, []any,
// map[string]any) for JSON output and trace snapshots.
func ToAny(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = ToAny(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = ToAny(e)
		}
		return out
	default:
		return nil
	}
}
