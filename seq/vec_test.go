package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec_Scenarios(t *testing.T) {
	t.Run("has_index", func(t *testing.T) {
		v := Of(1, 2, 3, 4)
		assert.True(t, v.HasIndex(0))
		assert.True(t, v.HasIndex(3))
		assert.False(t, v.HasIndex(4))
	})

	t.Run("try_get", func(t *testing.T) {
		v := Of(1, 2, 3, 4)
		got, ok := v.TryGet(0)
		require.True(t, ok)
		assert.Equal(t, 1, got)
		got, ok = v.TryGet(3)
		require.True(t, ok)
		assert.Equal(t, 4, got)
		_, ok = v.TryGet(4)
		assert.False(t, ok)
	})

	t.Run("try_remove", func(t *testing.T) {
		v := Of(1, 2, 3, 4)
		got, ok := v.TryRemove(0)
		require.True(t, ok)
		assert.Equal(t, 1, got)
		assert.Equal(t, []int{2, 3, 4}, v.Values())

		got, ok = v.TryRemove(2)
		require.True(t, ok)
		assert.Equal(t, 4, got)
		assert.Equal(t, []int{2, 3}, v.Values())

		_, ok = v.TryRemove(2)
		assert.False(t, ok)
		assert.Equal(t, []int{2, 3}, v.Values())
	})

	t.Run("try_insert", func(t *testing.T) {
		v := Of(1, 2, 4)
		require.NoError(t, v.TryInsert(2, 3))
		assert.Equal(t, []int{1, 2, 3, 4}, v.Values())

		err := v.TryInsert(4, 5)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, []int{1, 2, 3, 4}, v.Values())
	})
}

func TestVec_ZeroValue(t *testing.T) {
	var v Vec[string]

	assert.Equal(t, 0, v.Len())
	assert.False(t, v.HasIndex(0))
	assert.Nil(t, v.TryRef(0))
	_, ok := v.TryRemove(0)
	assert.False(t, ok)
	assert.Error(t, v.TryInsert(0, "x"))

	v.Push("x")
	assert.Equal(t, 1, v.Len())
	require.NoError(t, v.TryInsert(0, "w"))
	assert.Equal(t, []string{"w", "x"}, v.Values())
}

func TestVec_New(t *testing.T) {
	v := New[int](16)
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 16, v.Cap())

	v = New[int](-3)
	assert.Equal(t, 0, v.Cap())
}

func TestVec_OfCopies(t *testing.T) {
	src := []int{1, 2, 3}
	v := Of(src...)

	src[0] = 100
	got, _ := v.TryGet(0)
	assert.Equal(t, 1, got)
}

func TestVec_WrapTakesOwnership(t *testing.T) {
	src := make([]int, 3, 5)
	copy(src, []int{1, 2, 3})

	v := Wrap(src)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 5, v.Cap())

	p := v.TryRef(0)
	require.NotNil(t, p)
	assert.Same(t, &src[0], p)
}

func TestVec_ValuesIsCopy(t *testing.T) {
	v := Of(1, 2)
	out := v.Values()
	out[0] = 9

	got, _ := v.TryGet(0)
	assert.Equal(t, 1, got)
}

func TestVec_All(t *testing.T) {
	v := Of("a", "b", "c")

	var idx []int
	var vals []string
	for i, s := range v.All() {
		idx = append(idx, i)
		vals = append(vals, s)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []string{"a", "b", "c"}, vals)

	count := 0
	for range v.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestVec_AsSequence(t *testing.T) {
	var s Sequence[int] = Of(5, 6)

	require.NoError(t, s.TryInsert(1, 7))
	assert.Equal(t, 3, s.Len())
	got, ok := s.TryRemove(2)
	require.True(t, ok)
	assert.Equal(t, 6, got)
}
