package world

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestBlockKindBreakable(t *testing.T) {
	for _, k := range BlockKinds() {
		t.Run(k.String(), func(t *testing.T) {
			require.Equal(t, !k.IsSurface(), k.Breakable())
		})
	}
}

func TestBlockKindBounds(t *testing.T) {
	tests := []struct {
		kind BlockKind
		size aabb.IVec3
	}{
		{kind: SurfaceGrass, size: aabb.IVec3{X: 1, Y: 1, Z: 1}},
		{kind: MixGrass, size: aabb.IVec3{X: 1, Y: 1, Z: 1}},
		{kind: Dandelion, size: aabb.IVec3{X: 1, Y: 1, Z: 1}},
		{kind: OakTree, size: aabb.IVec3{X: 1, Y: 1, Z: 3}},
		{kind: BirchTree, size: aabb.IVec3{X: 1, Y: 1, Z: 3}},
		{kind: DyingTree, size: aabb.IVec3{X: 1, Y: 1, Z: 3}},
		{kind: FallenTree, size: aabb.IVec3{X: 4, Y: 2, Z: 1}},
		{kind: MixRock, size: aabb.IVec3{X: 2, Y: 2, Z: 1}},
	}

	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			bounds := test.kind.Bounds()
			require.Equal(t, aabb.IVec3{}, bounds.Min)
			require.Equal(t, test.size, bounds.Size())
		})
	}
}

func TestBlockKindExtent(t *testing.T) {
	t.Run("contains the occupied cells", func(t *testing.T) {
		for _, k := range BlockKinds() {
			bounds := aabb.CastBox3[float64](k.Bounds())
			require.True(t, k.Extent().ContainsBox(bounds), k.String())
		}
	})

	t.Run("flat kinds are drawn in their cell", func(t *testing.T) {
		require.Equal(t, aabb.CastBox3[float64](aabb.Point3(aabb.IVec3{})), Dandelion.Extent())
	})

	t.Run("trees reach past their cell", func(t *testing.T) {
		require.Equal(t, aabb.NewBox3(
			aabb.Vec3f{X: -1.5, Y: 0, Z: 0},
			aabb.Vec3f{X: 2.5, Y: 1, Z: 6},
		), OakTree.Extent())
	})

	t.Run("fallen tree", func(t *testing.T) {
		require.Equal(t, aabb.NewBox3(
			aabb.Vec3f{X: -1.5, Y: 0, Z: 0},
			aabb.Vec3f{X: 4, Y: 2, Z: 2},
		), FallenTree.Extent())
	})
}

func TestBlockKindText(t *testing.T) {
	t.Run("round trips every kind", func(t *testing.T) {
		for _, k := range BlockKinds() {
			b, err := k.MarshalText()
			require.NoError(t, err)

			var v BlockKind
			require.NoError(t, v.UnmarshalText(b))
			require.Equal(t, k, v)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := BlockKind(42).MarshalText()
		require.Error(t, err)
		require.Equal(t, ErrTypeUnknownKind, errors.Type(err))
		require.Equal(t, "unknown", BlockKind(42).String())

		var k BlockKind
		err = k.UnmarshalText([]byte("lava"))
		require.Error(t, err)
		require.Equal(t, ErrTypeUnknownKind, errors.Type(err))
	})
}

func TestEntityKind(t *testing.T) {
	t.Run("player bounds", func(t *testing.T) {
		bounds := Player.Bounds()
		require.Equal(t, aabb.Vec3f{X: 1, Y: 1, Z: 2}, bounds.Size())
		require.Equal(t, aabb.Vec2f{}, bounds.Center().XY())
	})

	t.Run("text", func(t *testing.T) {
		b, err := Player.MarshalText()
		require.NoError(t, err)
		require.Equal(t, "player", string(b))

		var k EntityKind
		require.NoError(t, k.UnmarshalText(b))
		require.Equal(t, Player, k)

		_, err = EntityKind(7).MarshalText()
		require.Equal(t, ErrTypeUnknownKind, errors.Type(err))
		require.Equal(t, ErrTypeUnknownKind, errors.Type(k.UnmarshalText([]byte("ghost"))))
	})
}

func TestRecordEncoding(t *testing.T) {
	b := Block{Kind: OakTree, Position: aabb.IVec3{X: 1, Y: 2, Z: 0}}

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(b)
		require.NoError(t, err)
		require.JSONEq(t, `{"kind":"oak_tree","position":{"x":1,"y":2,"z":0}}`, string(data))

		var v Block
		require.NoError(t, json.Unmarshal(data, &v))
		require.Equal(t, b, v)
	})

	t.Run("msgpack", func(t *testing.T) {
		data, err := msgpack.Marshal(b)
		require.NoError(t, err)

		var v Block
		require.NoError(t, msgpack.Unmarshal(data, &v))
		require.Equal(t, b, v)
	})
}

func TestRecordFootprints(t *testing.T) {
	t.Run("tile", func(t *testing.T) {
		tile := Tile{Kind: SurfaceSand, Position: aabb.IVec2{X: -3, Y: 4}}
		require.Equal(t, aabb.NewBox2(aabb.IVec2{X: -3, Y: 4}, aabb.IVec2{X: -2, Y: 5}), tile.Occupancy())
	})

	t.Run("block", func(t *testing.T) {
		b := Block{Kind: MixRock, Position: aabb.IVec3{X: 10, Y: -2, Z: 1}}
		require.Equal(t, aabb.NewBox3(aabb.IVec3{X: 10, Y: -2, Z: 1}, aabb.IVec3{X: 12, Y: 0, Z: 2}), b.Occupancy())
		require.Equal(t, aabb.NewBox3(
			aabb.Vec3f{X: 9.5, Y: -2, Z: 1},
			aabb.Vec3f{X: 12, Y: 0, Z: 3},
		), b.Extent())
	})

	t.Run("entity", func(t *testing.T) {
		e := Entity{Kind: Player, Position: aabb.Vec3f{X: 1, Y: 1, Z: 0}}
		require.Equal(t, aabb.NewBox3(
			aabb.Vec3f{X: 0.5, Y: 0.5, Z: 0},
			aabb.Vec3f{X: 1.5, Y: 1.5, Z: 2},
		), e.Extent())
	})
}
