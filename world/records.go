package world

import (
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/aukilabs/worldgrid/spatial"
)

// Tile is a ground cell. A column holds at most one tile.
type Tile struct {
	Kind     BlockKind  `json:"kind"     msgpack:"kind"`
	Position aabb.IVec2 `json:"position" msgpack:"position"`
}

// Occupancy returns the unit cell the tile covers.
func (t Tile) Occupancy() aabb.IBox2 {
	return aabb.Point2(t.Position)
}

// Block is an object placed on the ground.
type Block struct {
	Kind     BlockKind  `json:"kind"     msgpack:"kind"`
	Position aabb.IVec3 `json:"position" msgpack:"position"`
}

// Occupancy returns the cells the block occupies. Blocks never share a cell.
func (b Block) Occupancy() aabb.IBox3 {
	return b.Kind.Bounds().Translate(b.Position)
}

// Extent returns the space the block is drawn in.
func (b Block) Extent() aabb.Box3f {
	return b.Kind.Extent().Translate(aabb.CastVec3[float64](b.Position))
}

// Entity is a freely moving object.
type Entity struct {
	Kind     EntityKind `json:"kind"     msgpack:"kind"`
	Position aabb.Vec3f `json:"position" msgpack:"position"`
}

func (e Entity) Extent() aabb.Box3f {
	return e.Kind.Bounds().Translate(e.Position)
}

// Entry is a record along with the id it is stored under.
type Entry[R any] struct {
	ID     spatial.ID `json:"id"     msgpack:"id"`
	Record R          `json:"record" msgpack:"record"`
}
