package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotAllocatorNew(t *testing.T) {
	t.Run("returns a new slot", func(t *testing.T) {
		var slots SlotAllocator

		for i := 0; i < 5; i++ {
			slot := slots.New()
			require.Equal(t, i, slot)
		}
		require.Equal(t, 5, slots.Cap())
	})

	t.Run("returns a reusable slot", func(t *testing.T) {
		var slots SlotAllocator

		for i := 0; i < 5; i++ {
			slots.New()
		}

		slots.Reuse(2)
		slot := slots.New()
		require.Equal(t, 2, slot)
		require.Equal(t, 5, slots.New())
	})

	t.Run("returns the lowest reusable slot first", func(t *testing.T) {
		var slots SlotAllocator

		for i := 0; i < 8; i++ {
			slots.New()
		}

		slots.Reuse(6)
		slots.Reuse(1)
		slots.Reuse(4)

		require.Equal(t, 1, slots.New())
		require.Equal(t, 4, slots.New())
		require.Equal(t, 6, slots.New())
		require.Equal(t, 8, slots.New())
	})
}
