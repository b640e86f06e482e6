package aabb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellOf(t *testing.T) {
	require.Equal(t, IVec2{0, 0}, CellOf2i(IVec2{0, 31}, 32))
	require.Equal(t, IVec2{1, -1}, CellOf2i(IVec2{32, -1}, 32))
	require.Equal(t, IVec3{-2, 0, 3}, CellOf3i(IVec3{-33, 0, 96}, 32))
	require.Equal(t, IVec2{0, -1}, CellOf2f(Vec2f{31.99, -0.01}, 32))
	require.Equal(t, IVec3{1, 0, -1}, CellOf3f(Vec3f{32, 0, -32}, 32))
}

func TestCellOfSaturation(t *testing.T) {
	require.Equal(t, IVec2{MaxCoord, -MaxCoord}, CellOf2f(Vec2f{1e300, -1e300}, 1))
	require.Equal(t, IVec3{0, MaxCoord, 0}, CellOf3f(Vec3f{math.NaN(), math.Inf(1), 0}, 32))

	cells := ToGrid2f(NewBox2(Vec2f{-1e300, -1e300}, Vec2f{1e300, 1e300}), 32)
	require.Equal(t, NewBox2(Splat2(-MaxCoord), Splat2(MaxCoord+1)), cells)
	require.True(t, cells.ContainsPoint(CellOf2f(Vec2f{1, 1}, 32)))
	require.Equal(t, math.Ldexp(1, 106), NewBox2(Splat2(-MaxCoord), Splat2(MaxCoord)).Measure())
}

func TestToGrid(t *testing.T) {
	t.Run("real box ending on a cell boundary", func(t *testing.T) {
		cells := ToGrid2f(NewBox2(Vec2f{0, 0}, Vec2f{32, 32}), 32)
		require.Equal(t, NewBox2(IVec2{0, 0}, IVec2{1, 1}), cells)
	})

	t.Run("real box crossing a cell boundary", func(t *testing.T) {
		cells := ToGrid2f(NewBox2(Vec2f{31.5, -0.5}, Vec2f{32.5, 0.5}), 32)
		require.Equal(t, NewBox2(IVec2{0, -1}, IVec2{2, 1}), cells)
	})

	t.Run("integer box ending on a cell boundary", func(t *testing.T) {
		cells := ToGrid2i(NewBox2(IVec2{0, 0}, IVec2{32, 32}), 32)
		require.Equal(t, NewBox2(IVec2{0, 0}, IVec2{1, 1}), cells)
	})

	t.Run("integer box one past a cell boundary", func(t *testing.T) {
		cells := ToGrid2i(NewBox2(IVec2{0, 0}, IVec2{33, 32}), 32)
		require.Equal(t, NewBox2(IVec2{0, 0}, IVec2{2, 1}), cells)
	})

	t.Run("unit box", func(t *testing.T) {
		cells := ToGrid3i(Point3(IVec3{-1, 0, 31}), 32)
		require.Equal(t, NewBox3(IVec3{-1, 0, 0}, IVec3{0, 1, 1}), cells)
	})

	t.Run("3d real box", func(t *testing.T) {
		cells := ToGrid3f(NewBox3(Vec3f{-0.5, -0.5, 0}, Vec3f{0.5, 0.5, 2}), 32)
		require.Equal(t, NewBox3(IVec3{-1, -1, 0}, IVec3{1, 1, 1}), cells)
	})

	t.Run("empty boxes", func(t *testing.T) {
		require.True(t, ToGrid2i(IBox2{}, 32).IsEmpty())
		require.True(t, ToGrid3i(IBox3{}, 32).IsEmpty())
		require.True(t, ToGrid2f(NewBox2(Vec2f{4, 4}, Vec2f{4, 8}), 32).IsEmpty())
		require.True(t, ToGrid3f(Box3f{}, 32).IsEmpty())
	})
}

func TestToBase(t *testing.T) {
	require.Equal(t, NewBox2(IVec2{-32, 32}, IVec2{0, 64}), ToBase2i(IVec2{-1, 1}, 32))
	require.Equal(t, NewBox3(IVec3{0, 0, 0}, IVec3{16, 16, 16}), ToBase3i(IVec3{}, 16))
	require.Equal(t, NewBox2(Vec2f{32, 0}, Vec2f{64, 32}), ToBase2f(IVec2{1, 0}, 32))
	require.Equal(t, NewBox3(Vec3f{0, 0, -32}, Vec3f{32, 32, 0}), ToBase3f(IVec3{0, 0, -1}, 32))

	cells := NewBox2(IVec2{-1, -1}, IVec2{1, 2})
	require.Equal(t, NewBox2(IVec2{-32, -32}, IVec2{32, 64}), GridToBase2i(cells, 32))
	require.Equal(t, NewBox2(Vec2f{-32, -32}, Vec2f{32, 64}), GridToBase2f(cells, 32))
	require.Equal(t,
		NewBox3(IVec3{0, 0, 0}, IVec3{64, 64, 64}),
		GridToBase3i(NewBox3(IVec3{}, IVec3{2, 2, 2}), 32),
	)
	require.Equal(t,
		NewBox3(Vec3f{0, 0, 0}, Vec3f{64, 64, 64}),
		GridToBase3f(NewBox3(IVec3{}, IVec3{2, 2, 2}), 32),
	)
}

func TestGridRoundTrip(t *testing.T) {
	// Every box lies within the base extent of the cells covering it.
	boxes := []IBox3{
		NewBox3(IVec3{0, 0, 0}, IVec3{1, 1, 1}),
		NewBox3(IVec3{-40, -3, 5}, IVec3{-32, 70, 6}),
		NewBox3(IVec3{31, 31, 31}, IVec3{33, 33, 33}),
	}

	for _, b := range boxes {
		cells := ToGrid3i(b, 32)
		base := GridToBase3i(cells, 32)
		require.True(t, base.ContainsBox(b), "%v in %v", b, base)

		for c := range Points3(cells) {
			require.True(t, ToBase3i(c, 32).Intersects(b), "cell %v of %v", c, b)
		}
	}
}
