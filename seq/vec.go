package seq

import "iter"

// Sequence is an ordered, indexable sequence whose positional operations
// report invalid indices instead of panicking.
type Sequence[T any] interface {
	Len() int
	HasIndex(idx int) bool
	TryGet(idx int) (T, bool)
	TryRef(idx int) *T
	TryRemove(idx int) (T, bool)
	TryInsert(idx int, elem T) error
}

var _ Sequence[int] = (*Vec[int])(nil)

// Vec is a contiguous growable sequence. The zero value is an empty Vec
// ready to use.
//
// A Vec exclusively owns its elements; it is not safe for concurrent use.
type Vec[T any] struct {
	elems []T
}

// New returns an empty Vec with room for capacity elements.
// A negative capacity is treated as zero.
func New[T any](capacity int) *Vec[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Vec[T]{elems: make([]T, 0, capacity)}
}

// Of returns a Vec holding a copy of elems.
func Of[T any](elems ...T) *Vec[T] {
	v := New[T](len(elems))
	v.elems = append(v.elems, elems...)
	return v
}

// Wrap returns a Vec that takes ownership of s. The caller must not use s
// afterwards.
func Wrap[T any](s []T) *Vec[T] {
	return &Vec[T]{elems: s}
}

// Len returns the number of live elements.
func (v *Vec[T]) Len() int { return len(v.elems) }

// Cap returns the number of slots currently backing the sequence.
func (v *Vec[T]) Cap() int { return cap(v.elems) }

// Push appends elem to the end of the sequence.
func (v *Vec[T]) Push(elem T) {
	v.elems = append(v.elems, elem)
}

// HasIndex reports whether idx is live.
func (v *Vec[T]) HasIndex(idx int) bool {
	return HasIndex(v.elems, idx)
}

// TryGet returns a copy of the element at idx.
func (v *Vec[T]) TryGet(idx int) (T, bool) {
	return TryGet(v.elems, idx)
}

// TryRef returns a pointer to the element at idx, valid until the next
// mutation, or nil when idx is not live.
func (v *Vec[T]) TryRef(idx int) *T {
	return TryRef(v.elems, idx)
}

// TryRemove removes and returns the element at idx.
func (v *Vec[T]) TryRemove(idx int) (T, bool) {
	return TryRemove(&v.elems, idx)
}

// TryInsert inserts elem at the live index idx.
func (v *Vec[T]) TryInsert(idx int, elem T) error {
	return TryInsert(&v.elems, idx, elem)
}

// Values returns a copy of the live elements in order.
func (v *Vec[T]) Values() []T {
	out := make([]T, len(v.elems))
	copy(out, v.elems)
	return out
}

// All iterates over the live elements with their indices. The sequence must
// not be mutated during iteration.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, e := range v.elems {
			if !yield(i, e) {
				return
			}
		}
	}
}
