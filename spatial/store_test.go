package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreInsert(t *testing.T) {
	var s Store[string]

	require.Equal(t, ID(0), s.Insert("a"))
	require.Equal(t, ID(1), s.Insert("b"))
	require.Equal(t, ID(2), s.Insert("c"))
	require.Equal(t, 3, s.Len())

	v, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, "b", v)
}

func TestStoreRemove(t *testing.T) {
	t.Run("returns the removed record", func(t *testing.T) {
		var s Store[string]
		id := s.Insert("a")

		v, ok := s.Remove(id)
		require.True(t, ok)
		require.Equal(t, "a", v)
		require.Zero(t, s.Len())
		require.False(t, s.Contains(id))
	})

	t.Run("absent ids read as nothing", func(t *testing.T) {
		var s Store[string]
		id := s.Insert("a")
		s.Remove(id)

		for _, id := range []ID{-1, id, 42} {
			_, ok := s.Remove(id)
			require.False(t, ok)

			v, ok := s.Get(id)
			require.False(t, ok)
			require.Empty(t, v)
		}
	})

	t.Run("reuses the lowest free slot", func(t *testing.T) {
		var s Store[int]
		for i := 0; i < 6; i++ {
			s.Insert(i)
		}

		s.Remove(4)
		s.Remove(1)
		require.Equal(t, ID(1), s.Insert(10))
		require.Equal(t, ID(4), s.Insert(40))
		require.Equal(t, ID(6), s.Insert(60))

		v, _ := s.Get(4)
		require.Equal(t, 40, v)
	})
}

func TestStoreAll(t *testing.T) {
	var s Store[string]
	s.Insert("a")
	b := s.Insert("b")
	s.Insert("c")
	s.Remove(b)

	var ids []ID
	var values []string
	for id, v := range s.All() {
		ids = append(ids, id)
		values = append(values, v)
	}
	require.Equal(t, []ID{0, 2}, ids)
	require.Equal(t, []string{"a", "c"}, values)

	for range s.All() {
		break
	}
}
