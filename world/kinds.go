package world

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/aabb"
)

// BlockKind is the kind of a block or tile.
type BlockKind int

const (
	SurfaceDirt BlockKind = iota
	SurfaceGrass
	SurfaceGravel
	SurfaceSand
	SurfaceStone
	MixGrass
	Dandelion
	FallenBranch
	FallenLeaves
	MixPebbles
	OakTree
	BirchTree
	DyingTree
	FallenTree
	MixRock
)

var blockKindNames = []string{
	SurfaceDirt:   "surface_dirt",
	SurfaceGrass:  "surface_grass",
	SurfaceGravel: "surface_gravel",
	SurfaceSand:   "surface_sand",
	SurfaceStone:  "surface_stone",
	MixGrass:      "mix_grass",
	Dandelion:     "dandelion",
	FallenBranch:  "fallen_branch",
	FallenLeaves:  "fallen_leaves",
	MixPebbles:    "mix_pebbles",
	OakTree:       "oak_tree",
	BirchTree:     "birch_tree",
	DyingTree:     "dying_tree",
	FallenTree:    "fallen_tree",
	MixRock:       "mix_rock",
}

// BlockKinds returns every block kind, surfaces first.
func BlockKinds() []BlockKind {
	kinds := make([]BlockKind, len(blockKindNames))
	for i := range kinds {
		kinds[i] = BlockKind(i)
	}
	return kinds
}

func (k BlockKind) String() string {
	if k < 0 || int(k) >= len(blockKindNames) {
		return "unknown"
	}
	return blockKindNames[k]
}

func (k BlockKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(blockKindNames) {
		return nil, errors.New("unknown block kind").
			WithType(ErrTypeUnknownKind).
			WithTag("kind", int(k))
	}
	return []byte(blockKindNames[k]), nil
}

func (k *BlockKind) UnmarshalText(b []byte) error {
	for i, name := range blockKindNames {
		if name == string(b) {
			*k = BlockKind(i)
			return nil
		}
	}

	return errors.New("unknown block kind").
		WithType(ErrTypeUnknownKind).
		WithTag("kind", string(b))
}

// IsSurface reports whether the kind covers the ground. Surfaces are stored
// as tiles.
func (k BlockKind) IsSurface() bool {
	return k >= SurfaceDirt && k <= SurfaceStone
}

// Breakable reports whether a block of the kind can be broken by a player.
func (k BlockKind) Breakable() bool {
	return !k.IsSurface()
}

// Bounds returns the cells a block of the kind occupies, relative to its
// position.
func (k BlockKind) Bounds() aabb.IBox3 {
	switch k {
	case OakTree, BirchTree, DyingTree:
		return aabb.NewBox3(aabb.IVec3{}, aabb.IVec3{X: 1, Y: 1, Z: 3})
	case FallenTree:
		return aabb.NewBox3(aabb.IVec3{}, aabb.IVec3{X: 4, Y: 2, Z: 1})
	case MixRock:
		return aabb.NewBox3(aabb.IVec3{}, aabb.IVec3{X: 2, Y: 2, Z: 1})
	default:
		return aabb.Point3(aabb.IVec3{})
	}
}

// Extent returns the space a block of the kind is drawn in, relative to its
// position. Upright sprites are centered on the first occupied column and may
// reach past the occupied cells.
func (k BlockKind) Extent() aabb.Box3f {
	bounds := aabb.CastBox3[float64](k.Bounds())

	var width, height float64
	switch k {
	case OakTree, BirchTree, DyingTree:
		width, height = 4, 6
	case FallenTree:
		width, height = 4, 2
	case MixRock:
		width, height = 2, 2
	default:
		return bounds
	}

	sprite := aabb.NewBox3(
		aabb.Vec3f{X: 0.5 - width/2, Y: 0, Z: 0},
		aabb.Vec3f{X: 0.5 + width/2, Y: 1, Z: height},
	)
	return bounds.Union(sprite)
}

// EntityKind is the kind of an entity.
type EntityKind int

const (
	Player EntityKind = iota
)

func (k EntityKind) String() string {
	switch k {
	case Player:
		return "player"
	default:
		return "unknown"
	}
}

func (k EntityKind) MarshalText() ([]byte, error) {
	if k != Player {
		return nil, errors.New("unknown entity kind").
			WithType(ErrTypeUnknownKind).
			WithTag("kind", int(k))
	}
	return []byte(k.String()), nil
}

func (k *EntityKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "player":
		*k = Player
		return nil
	default:
		return errors.New("unknown entity kind").
			WithType(ErrTypeUnknownKind).
			WithTag("kind", string(b))
	}
}

// Bounds returns the space an entity of the kind takes, relative to its
// position.
func (k EntityKind) Bounds() aabb.Box3f {
	return aabb.NewBox3(
		aabb.Vec3f{X: -0.5, Y: -0.5, Z: 0},
		aabb.Vec3f{X: 0.5, Y: 0.5, Z: 2},
	)
}
