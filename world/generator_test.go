package world

import (
	"testing"

	"github.com/aukilabs/worldgrid/aabb"
	"github.com/stretchr/testify/require"
)

func TestGeneratorGenerate(t *testing.T) {
	area := aabb.NewBox2(aabb.IVec2{X: -8, Y: -8}, aabb.IVec2{X: 8, Y: 8})

	t.Run("covers every column with a tile", func(t *testing.T) {
		w := newTestWorld(t)
		g := NewGenerator(w, 42)

		res := g.Generate(area)
		require.Equal(t, 256, res.Columns)
		require.Equal(t, 256, res.Tiles)

		for p := range aabb.Points2(area) {
			require.True(t, g.Generated(p))

			tile, ok := w.TileAt(p)
			require.True(t, ok)
			require.Equal(t, SurfaceGrass, tile.Record.Kind)
		}
		require.False(t, g.Generated(aabb.IVec2{X: 8, Y: 8}))
	})

	t.Run("is idempotent", func(t *testing.T) {
		w := newTestWorld(t)
		g := NewGenerator(w, 42)

		g.Generate(area)
		stats := w.Stats()
		visible := w.Visible(aabb.CastBox2[float64](area))

		require.Equal(t, GenerateResult{}, g.Generate(area))
		require.Equal(t, stats, w.Stats())
		require.Equal(t, visible, w.Visible(aabb.CastBox2[float64](area)))
	})

	t.Run("generates only new columns", func(t *testing.T) {
		w := newTestWorld(t)
		g := NewGenerator(w, 42)

		g.Generate(area)
		res := g.Generate(area.Translate(aabb.IVec2{X: 8, Y: 0}))
		require.Equal(t, 128, res.Columns)
		require.Equal(t, 384, w.Stats().Tiles)
	})

	t.Run("same seed generates the same world", func(t *testing.T) {
		a := newTestWorld(t)
		b := newTestWorld(t)

		NewGenerator(a, 7).Generate(area)
		NewGenerator(b, 7).Generate(area)

		view := aabb.CastBox2[float64](area.Extend(4))
		require.Equal(t, a.Visible(view), b.Visible(view))
		require.NotZero(t, a.Stats().Blocks)
	})

	t.Run("skips overlapping placements", func(t *testing.T) {
		w := newTestWorld(t)
		g := NewGenerator(w, 1)
		g.Rules = []Rule{
			{Kind: OakTree, Probability: 1},
			{Kind: MixGrass, Probability: 1},
		}

		res := g.Generate(aabb.NewBox2(aabb.IVec2{}, aabb.IVec2{X: 4, Y: 4}))
		require.Equal(t, 16, res.Blocks)
		require.Equal(t, 16, res.Rejected)

		for _, e := range w.Blocks(aabb.NewBox3(aabb.IVec3{}, aabb.IVec3{X: 4, Y: 4, Z: 4})) {
			require.Equal(t, OakTree, e.Record.Kind)
		}
	})

	t.Run("placed blocks never share a cell", func(t *testing.T) {
		w := newTestWorld(t)
		g := NewGenerator(w, 1)
		g.Rules = []Rule{
			{Kind: FallenTree, Probability: 0.5},
			{Kind: MixRock, Probability: 0.5},
		}
		g.Generate(area)

		blocks := w.Blocks(aabb.NewBox3(aabb.IVec3{X: -16, Y: -16, Z: -1}, aabb.IVec3{X: 16, Y: 16, Z: 2}))
		require.NotEmpty(t, blocks)

		for i, a := range blocks {
			for _, b := range blocks[i+1:] {
				require.False(t, a.Record.Occupancy().Intersects(b.Record.Occupancy()))
			}
		}
	})
}
