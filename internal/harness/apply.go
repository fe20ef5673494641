package harness

import (
	"fmt"

	"github.com/roach88/fallible/internal/ir"
	"github.com/roach88/fallible/seq"
)

// applyOp performs one operation on v.
// result is the element returned by get and remove, nil otherwise.
// A failed operation never touches v.
func applyOp(v *seq.Vec[ir.Value], op string, index int, arg ir.Value) (outcome string, result ir.Value, err error) {
	switch op {
	case OpHasIndex:
		if v.HasIndex(index) {
			return OutcomeOK, nil, nil
		}
		return OutcomeOutOfRange, nil, nil

	case OpGet:
		ref := v.TryRef(index)
		if ref == nil {
			return OutcomeOutOfRange, nil, nil
		}
		return OutcomeOK, *ref, nil

	case OpRemove:
		elem, ok := v.TryRemove(index)
		if !ok {
			return OutcomeOutOfRange, nil, nil
		}
		return OutcomeOK, elem, nil

	case OpInsert:
		if arg == nil {
			return "", nil, fmt.Errorf("insert requires a value")
		}
		if err := v.TryInsert(index, arg); err != nil {
			if seq.IsIndexOutOfRange(err) {
				return OutcomeOutOfRange, nil, nil
			}
			return "", nil, err
		}
		return OutcomeOK, nil, nil

	default:
		return "", nil, fmt.Errorf("unknown op %q", op)
	}
}
