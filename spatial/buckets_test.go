package spatial

import (
	"slices"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/stretchr/testify/require"
)

func TestBucketsInsertRef(t *testing.T) {
	var b Buckets[aabb.IVec2]

	cell := aabb.IVec2{X: 1, Y: 2}
	require.Equal(t, Slot(0), b.InsertRef(cell, 7))
	require.Equal(t, Slot(1), b.InsertRef(cell, 9))
	require.Equal(t, Slot(0), b.InsertRef(aabb.IVec2{X: 0, Y: 0}, 7))

	require.Equal(t, 2, b.Len())
	require.Equal(t, 3, b.Refs())
	require.Equal(t, []ID{7, 9}, slices.Collect(b.Lookup(cell)))
	require.Empty(t, slices.Collect(b.Lookup(aabb.IVec2{X: 5, Y: 5})))
	require.Equal(t, map[int]int{1: 1, 2: 1}, b.Occupancy())
}

func TestBucketsRemoveRef(t *testing.T) {
	t.Run("removes the entry at the slot", func(t *testing.T) {
		var b Buckets[aabb.IVec2]
		cell := aabb.IVec2{X: 1, Y: 2}
		b.InsertRef(cell, 7)
		slot := b.InsertRef(cell, 9)

		require.Equal(t, ID(9), b.RemoveRef(cell, slot))
		require.Equal(t, []ID{7}, slices.Collect(b.Lookup(cell)))
		require.Equal(t, 1, b.Refs())
	})

	t.Run("drops empty buckets", func(t *testing.T) {
		var b Buckets[aabb.IVec3]
		cell := aabb.IVec3{X: -1, Y: 0, Z: 3}
		first := b.InsertRef(cell, 1)
		second := b.InsertRef(cell, 2)

		b.RemoveRef(cell, first)
		require.True(t, b.Contains(cell))

		b.RemoveRef(cell, second)
		require.False(t, b.Contains(cell))
		require.Zero(t, b.Len())
		require.Zero(t, b.Refs())
	})

	t.Run("missing bucket is an invariant violation", func(t *testing.T) {
		var b Buckets[aabb.IVec2]
		requireInvariantPanic(t, func() {
			b.RemoveRef(aabb.IVec2{}, 0)
		})
	})

	t.Run("missing slot is an invariant violation", func(t *testing.T) {
		var b Buckets[aabb.IVec2]
		b.InsertRef(aabb.IVec2{}, 1)
		requireInvariantPanic(t, func() {
			b.RemoveRef(aabb.IVec2{}, 3)
		})
	})
}

func TestBucketsSlotReuse(t *testing.T) {
	var b Buckets[aabb.IVec2]
	cell := aabb.IVec2{X: 0, Y: 0}

	for i := 0; i < 4; i++ {
		b.InsertRef(cell, ID(i))
	}

	b.RemoveRef(cell, 1)
	b.RemoveRef(cell, 3)

	// Last freed, first reused.
	require.Equal(t, Slot(3), b.InsertRef(cell, 30))
	require.Equal(t, Slot(1), b.InsertRef(cell, 10))
	require.Equal(t, Slot(4), b.InsertRef(cell, 40))
	require.Equal(t, []ID{0, 10, 2, 30, 40}, slices.Collect(b.Lookup(cell)))

	t.Run("freed slot cannot be removed twice", func(t *testing.T) {
		b.RemoveRef(cell, 4)
		requireInvariantPanic(t, func() {
			b.RemoveRef(cell, 4)
		})
	})
}

func TestBucketsChurn(t *testing.T) {
	var b Buckets[aabb.IVec2]

	for round := 0; round < 100; round++ {
		var slots []Slot
		for i := 0; i < 10; i++ {
			slots = append(slots, b.InsertRef(aabb.IVec2{X: round, Y: i % 3}, ID(i)))
		}
		for i, slot := range slots {
			b.RemoveRef(aabb.IVec2{X: round, Y: i % 3}, slot)
		}
	}

	require.Zero(t, b.Len())
	require.Zero(t, b.Refs())
	require.Empty(t, b.Occupancy())
}

func requireInvariantPanic(t *testing.T, f func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r)

		err, ok := r.(error)
		require.True(t, ok)
		require.Equal(t, ErrTypeInvariant, errors.Type(err))
	}()

	f()
}
