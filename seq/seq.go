package seq

// HasIndex reports whether idx is a live index of s, i.e. 0 <= idx < len(s).
// It is the single validity check behind every other operation.
func HasIndex[T any](s []T, idx int) bool {
	return idx >= 0 && idx < len(s)
}

// TryGet returns a copy of the element at idx.
// ok is false when idx is not live.
func TryGet[T any](s []T, idx int) (elem T, ok bool) {
	if !HasIndex(s, idx) {
		return elem, false
	}
	return s[idx], true
}

// TryRef returns a pointer to the live element at idx, or nil.
// The pointer aliases the backing array and is only meaningful until the
// next mutation of s.
func TryRef[T any](s []T, idx int) *T {
	if !HasIndex(s, idx) {
		return nil
	}
	return &s[idx]
}

// TryRemove removes the element at idx and returns it, closing the gap by
// shifting s[idx+1:] left one slot. Relative order is preserved.
//
// When idx is not live, ok is false and *s is left exactly as it was.
func TryRemove[T any](s *[]T, idx int) (elem T, ok bool) {
	cur := *s
	if !HasIndex(cur, idx) {
		return elem, false
	}
	n := len(cur)

	elem = cur[idx]
	copy(cur[idx:], cur[idx+1:])

	// Clear the stale tail slot so the array does not keep the last element
	// reachable twice (once shifted, once past len).
	var zero T
	cur[n-1] = zero

	*s = cur[:n-1]
	return elem, true
}

// TryInsert inserts elem at idx, shifting s[idx:] right one slot.
//
// idx must already be live: inserting at len(*s) is rejected. On failure the
// returned error is an *IndexError, *s is unchanged, and elem was never
// stored.
func TryInsert[T any](s *[]T, idx int, elem T) error {
	cur := *s
	if !HasIndex(cur, idx) {
		return &IndexError{Op: OpInsert, Index: idx, Len: len(cur)}
	}
	n := len(cur)

	// append owns the growth policy; the appended zero is overwritten by the
	// shift below.
	var zero T
	cur = append(cur, zero)
	copy(cur[idx+1:], cur[idx:n])
	cur[idx] = elem

	*s = cur
	return nil
}
