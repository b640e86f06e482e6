package world

import (
	"cmp"

	"github.com/aukilabs/worldgrid/aabb"
	"github.com/aukilabs/worldgrid/spatial"
)

const (
	// MinElevation and MaxElevation bound the height range a ground area
	// is looked at through.
	MinElevation = -64.0
	MaxElevation = 64.0
)

// ObjectType is the category an object belongs to.
type ObjectType string

const (
	TileObject   ObjectType = "tile"
	BlockObject  ObjectType = "block"
	EntityObject ObjectType = "entity"
)

// ObjectKey identifies an object across categories.
type ObjectKey struct {
	Type ObjectType
	ID   spatial.ID
}

// Object is a record of any category. Exactly one of Tile, Block and Entity
// is set, matching Type.
type Object struct {
	Type   ObjectType `json:"type"             msgpack:"type"`
	ID     spatial.ID `json:"id"               msgpack:"id"`
	Tile   *Tile      `json:"tile,omitempty"   msgpack:"tile,omitempty"`
	Block  *Block     `json:"block,omitempty"  msgpack:"block,omitempty"`
	Entity *Entity    `json:"entity,omitempty" msgpack:"entity,omitempty"`
}

func TileObjectOf(id spatial.ID, t Tile) Object {
	return Object{Type: TileObject, ID: id, Tile: &t}
}

func BlockObjectOf(id spatial.ID, b Block) Object {
	return Object{Type: BlockObject, ID: id, Block: &b}
}

func EntityObjectOf(id spatial.ID, e Entity) Object {
	return Object{Type: EntityObject, ID: id, Entity: &e}
}

func (o Object) Key() ObjectKey {
	return ObjectKey{Type: o.Type, ID: o.ID}
}

// VisibleIn reports whether the object shows within the given ground area.
func (o Object) VisibleIn(area aabb.Box2f) bool {
	switch {
	case o.Tile != nil:
		return aabb.CastBox2[float64](o.Tile.Occupancy()).Intersects(area)
	case o.Block != nil:
		return o.Block.Extent().Intersects(ViewBox(area))
	case o.Entity != nil:
		return o.Entity.Extent().Intersects(ViewBox(area))
	default:
		return false
	}
}

// ViewBox returns the space above and below a ground area, between
// MinElevation and MaxElevation.
func ViewBox(area aabb.Box2f) aabb.Box3f {
	return aabb.NewBox3(
		aabb.Vec3f{X: area.Min.X, Y: area.Min.Y, Z: MinElevation},
		aabb.Vec3f{X: area.Max.X, Y: area.Max.Y, Z: MaxElevation},
	)
}

func compareObjects(a, b Object) int {
	return cmp.Or(
		cmp.Compare(typeOrder(a.Type), typeOrder(b.Type)),
		cmp.Compare(a.ID, b.ID),
	)
}

func typeOrder(t ObjectType) int {
	switch t {
	case TileObject:
		return 0
	case BlockObject:
		return 1
	default:
		return 2
	}
}

// Observer is notified of the objects added to and removed from a world.
//
// Observers are called while the world holds the lock of the object
// category. They must not call back into the world.
type Observer interface {
	ObjectAdded(o Object)
	ObjectRemoved(o Object)
}
