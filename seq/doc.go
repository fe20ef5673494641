// Package seq provides non-panicking, bounds-checked positional read,
// removal and insertion over contiguous growable sequences.
//
// Every operation first asks HasIndex and only then touches the backing
// array, so an invalid index is reported to the caller as a value
// (absence, or an *IndexError) instead of a runtime panic:
//
//	v := seq.Of(1, 2, 4)
//	if err := v.TryInsert(2, 3); err != nil {
//	    // seq.IsIndexOutOfRange(err) == true
//	}
//	x, ok := v.TryRemove(0) // 1, true
//
// # Shifting
//
// Removal and insertion move the trailing run of elements with a single
// overlapping copy (a memmove), never element by element. The moved-out
// element is read exactly once before the shift, and after a removal the
// vacated tail slot is cleared so the backing array holds no second
// reference to it.
//
// # Insert validity
//
// TryInsert accepts only indices that are already live (idx < Len). An
// insert at idx == Len, which the built-in append would accept, is rejected
// with ErrIndexOutOfRange. Use Vec.Push to append.
//
// # Concurrency
//
// Nothing here is synchronized. A sequence must be owned by a single writer
// for the duration of any mutating call; concurrent readers are safe only
// while no writer is active.
package seq
