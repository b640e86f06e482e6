package world

import (
	"cmp"
	"iter"
	"slices"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/aukilabs/worldgrid/spatial"
	"github.com/google/uuid"
)

// World holds the tiles, blocks and entities of a game world. Each category
// is guarded by its own lock.
type World struct {
	ID string

	tileMutex     sync.RWMutex
	tiles         *spatial.Category[Tile]
	tileOccupancy *spatial.Layer[Tile, aabb.IBox2, aabb.IVec2]

	blockMutex     sync.RWMutex
	blocks         *spatial.Category[Block]
	blockOccupancy *spatial.Layer[Block, aabb.IBox3, aabb.IVec3]
	blockExtent    *spatial.Layer[Block, aabb.Box3f, aabb.IVec3]

	entityMutex  sync.RWMutex
	entities     *spatial.Category[Entity]
	entityExtent *spatial.Layer[Entity, aabb.Box3f, aabb.IVec3]

	observerMutex sync.RWMutex
	observers     []Observer
}

func New(c Config) (*World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		ID:       uuid.New().String(),
		tiles:    spatial.NewCategory[Tile]("tiles"),
		blocks:   spatial.NewCategory[Block]("blocks"),
		entities: spatial.NewCategory[Entity]("entities"),
	}

	w.tileOccupancy = spatial.AddLayer(w.tiles, spatial.LayerOptions[Tile, aabb.IBox2, aabb.IVec2]{
		Name:            "occupancy",
		CellSize:        c.TileCellSize,
		VolumeThreshold: c.VolumeThreshold,
		Footprint:       Tile.Occupancy,
		Geometry:        spatial.Grid2i{},
		ExactPoints:     true,
		RejectOverlap:   true,
	})

	w.blockOccupancy = spatial.AddLayer(w.blocks, spatial.LayerOptions[Block, aabb.IBox3, aabb.IVec3]{
		Name:            "occupancy",
		CellSize:        c.BlockCellSize,
		VolumeThreshold: c.VolumeThreshold,
		Footprint:       Block.Occupancy,
		Geometry:        spatial.Grid3i{},
		RejectOverlap:   true,
	})

	w.blockExtent = spatial.AddLayer(w.blocks, spatial.LayerOptions[Block, aabb.Box3f, aabb.IVec3]{
		Name:            "extent",
		CellSize:        c.BlockCellSize,
		VolumeThreshold: c.VolumeThreshold,
		Footprint:       Block.Extent,
		Geometry:        spatial.Grid3f{},
	})

	w.entityExtent = spatial.AddLayer(w.entities, spatial.LayerOptions[Entity, aabb.Box3f, aabb.IVec3]{
		Name:            "extent",
		CellSize:        c.EntityCellSize,
		VolumeThreshold: c.VolumeThreshold,
		Footprint:       Entity.Extent,
		Geometry:        spatial.Grid3f{},
	})

	logs.WithTag("world_id", w.ID).
		WithTag("tile_cell_size", c.TileCellSize).
		WithTag("block_cell_size", c.BlockCellSize).
		WithTag("entity_cell_size", c.EntityCellSize).
		Debug("world created")

	return w, nil
}

// Observe registers an observer. It returns a function that unregisters it.
// Observers are compared with ==, so they are usually pointers.
func (w *World) Observe(o Observer) (cancel func()) {
	w.observerMutex.Lock()
	defer w.observerMutex.Unlock()

	w.observers = append(w.observers, o)

	return func() {
		w.observerMutex.Lock()
		defer w.observerMutex.Unlock()

		w.observers = slices.DeleteFunc(w.observers, func(v Observer) bool {
			return v == o
		})
	}
}

func (w *World) InsertTile(t Tile) (spatial.ID, bool) {
	w.tileMutex.Lock()
	defer w.tileMutex.Unlock()

	id, ok := w.tiles.Insert(t)
	if ok {
		w.notifyAdded(TileObjectOf(id, t))
	}
	return id, ok
}

func (w *World) RemoveTile(id spatial.ID) (Tile, bool) {
	w.tileMutex.Lock()
	defer w.tileMutex.Unlock()

	t, ok := w.tiles.Remove(id)
	if ok {
		w.notifyRemoved(TileObjectOf(id, t))
	}
	return t, ok
}

func (w *World) Tile(id spatial.ID) (Tile, bool) {
	w.tileMutex.RLock()
	defer w.tileMutex.RUnlock()

	return w.tiles.Get(id)
}

// TileAt returns the tile covering the given column.
func (w *World) TileAt(p aabb.IVec2) (Entry[Tile], bool) {
	w.tileMutex.RLock()
	defer w.tileMutex.RUnlock()

	for id, t := range w.tileOccupancy.Query(aabb.Point2(p)) {
		return Entry[Tile]{ID: id, Record: t}, true
	}
	return Entry[Tile]{}, false
}

// Tiles returns the tiles within the given area, by ascending id.
func (w *World) Tiles(area aabb.IBox2) []Entry[Tile] {
	w.tileMutex.RLock()
	defer w.tileMutex.RUnlock()

	return collectEntries(w.tileOccupancy.Query(area))
}

func (w *World) InsertBlock(b Block) (spatial.ID, bool) {
	w.blockMutex.Lock()
	defer w.blockMutex.Unlock()

	id, ok := w.blocks.Insert(b)
	if ok {
		w.notifyAdded(BlockObjectOf(id, b))
	}
	return id, ok
}

func (w *World) RemoveBlock(id spatial.ID) (Block, bool) {
	w.blockMutex.Lock()
	defer w.blockMutex.Unlock()

	return w.removeBlock(id)
}

func (w *World) removeBlock(id spatial.ID) (Block, bool) {
	b, ok := w.blocks.Remove(id)
	if ok {
		w.notifyRemoved(BlockObjectOf(id, b))
	}
	return b, ok
}

func (w *World) Block(id spatial.ID) (Block, bool) {
	w.blockMutex.RLock()
	defer w.blockMutex.RUnlock()

	return w.blocks.Get(id)
}

// Blocks returns the blocks occupying cells within the given box, by
// ascending id.
func (w *World) Blocks(box aabb.IBox3) []Entry[Block] {
	w.blockMutex.RLock()
	defer w.blockMutex.RUnlock()

	return collectEntries(w.blockOccupancy.Query(box))
}

// BlocksVisible returns the blocks drawn within the given box, by ascending
// id.
func (w *World) BlocksVisible(box aabb.Box3f) []Entry[Block] {
	w.blockMutex.RLock()
	defer w.blockMutex.RUnlock()

	return collectEntries(w.blockExtent.Query(box))
}

// Break removes the block occupying the given cell when it is breakable.
func (w *World) Break(p aabb.IVec3) (Entry[Block], bool) {
	w.blockMutex.Lock()
	defer w.blockMutex.Unlock()

	var target Entry[Block]
	found := false
	for id, b := range w.blockOccupancy.Query(aabb.Point3(p)) {
		target = Entry[Block]{ID: id, Record: b}
		found = true
		break
	}

	if !found || !target.Record.Kind.Breakable() {
		return Entry[Block]{}, false
	}

	w.removeBlock(target.ID)
	instrumentCountBrokenBlock(target.Record.Kind)
	return target, true
}

func (w *World) InsertEntity(e Entity) spatial.ID {
	w.entityMutex.Lock()
	defer w.entityMutex.Unlock()

	return w.insertEntity(e)
}

func (w *World) insertEntity(e Entity) spatial.ID {
	id, _ := w.entities.Insert(e)
	w.notifyAdded(EntityObjectOf(id, e))
	return id
}

func (w *World) RemoveEntity(id spatial.ID) (Entity, bool) {
	w.entityMutex.Lock()
	defer w.entityMutex.Unlock()

	return w.removeEntity(id)
}

func (w *World) removeEntity(id spatial.ID) (Entity, bool) {
	e, ok := w.entities.Remove(id)
	if ok {
		w.notifyRemoved(EntityObjectOf(id, e))
	}
	return e, ok
}

// MoveEntity moves an entity to the given position by removing it and
// inserting it again. It returns the id the entity is stored under after the
// move.
func (w *World) MoveEntity(id spatial.ID, position aabb.Vec3f) (spatial.ID, bool) {
	w.entityMutex.Lock()
	defer w.entityMutex.Unlock()

	e, ok := w.removeEntity(id)
	if !ok {
		return 0, false
	}

	e.Position = position
	return w.insertEntity(e), true
}

func (w *World) Entity(id spatial.ID) (Entity, bool) {
	w.entityMutex.RLock()
	defer w.entityMutex.RUnlock()

	return w.entities.Get(id)
}

// Entities returns the entities within the given box, by ascending id.
func (w *World) Entities(box aabb.Box3f) []Entry[Entity] {
	w.entityMutex.RLock()
	defer w.entityMutex.RUnlock()

	return collectEntries(w.entityExtent.Query(box))
}

// Visible returns the objects visible within the given ground area, tiles
// first, then blocks and entities.
func (w *World) Visible(area aabb.Box2f) []Object {
	var objects []Object
	w.WithVisible(area, func(v []Object) {
		objects = v
	})
	return objects
}

// WithVisible calls fn with the objects visible within the given ground area.
// No object is added or removed until fn returns.
func (w *World) WithVisible(area aabb.Box2f, fn func([]Object)) {
	w.readLockAll()
	defer w.readUnlockAll()

	var objects []Object

	for id, t := range w.tileOccupancy.Query(aabb.Cover2(area)) {
		if o := TileObjectOf(id, t); o.VisibleIn(area) {
			objects = append(objects, o)
		}
	}

	box := ViewBox(area)
	for id, b := range w.blockExtent.Query(box) {
		objects = append(objects, BlockObjectOf(id, b))
	}
	for id, e := range w.entityExtent.Query(box) {
		objects = append(objects, EntityObjectOf(id, e))
	}

	slices.SortFunc(objects, compareObjects)
	fn(objects)
}

// Stats holds the number of objects per category.
type Stats struct {
	Tiles    int `json:"tiles"`
	Blocks   int `json:"blocks"`
	Entities int `json:"entities"`
}

func (w *World) Stats() Stats {
	w.readLockAll()
	defer w.readUnlockAll()

	return Stats{
		Tiles:    w.tiles.Len(),
		Blocks:   w.blocks.Len(),
		Entities: w.entities.Len(),
	}
}

// SetQueryStrategy forces the strategy of every layer. spatial.StrategyAuto
// restores the volume based selection.
func (w *World) SetQueryStrategy(s spatial.Strategy) {
	w.tileMutex.Lock()
	w.tileOccupancy.SetStrategy(s)
	w.tileMutex.Unlock()

	w.blockMutex.Lock()
	w.blockOccupancy.SetStrategy(s)
	w.blockExtent.SetStrategy(s)
	w.blockMutex.Unlock()

	w.entityMutex.Lock()
	w.entityExtent.SetStrategy(s)
	w.entityMutex.Unlock()

	logs.WithTag("world_id", w.ID).
		WithTag("strategy", s).
		Info("query strategy changed")
}

// DebugInfo returns the state of every layer of the world.
func (w *World) DebugInfo() []spatial.DebugInfo {
	w.readLockAll()
	defer w.readUnlockAll()

	var infos []spatial.DebugInfo
	infos = append(infos, w.tiles.DebugInfo()...)
	infos = append(infos, w.blocks.DebugInfo()...)
	infos = append(infos, w.entities.DebugInfo()...)
	return infos
}

func (w *World) readLockAll() {
	w.tileMutex.RLock()
	w.blockMutex.RLock()
	w.entityMutex.RLock()
}

func (w *World) readUnlockAll() {
	w.entityMutex.RUnlock()
	w.blockMutex.RUnlock()
	w.tileMutex.RUnlock()
}

func (w *World) notifyAdded(o Object) {
	w.observerMutex.RLock()
	defer w.observerMutex.RUnlock()

	for _, obs := range w.observers {
		obs.ObjectAdded(o)
	}
}

func (w *World) notifyRemoved(o Object) {
	w.observerMutex.RLock()
	defer w.observerMutex.RUnlock()

	for _, obs := range w.observers {
		obs.ObjectRemoved(o)
	}
}

func collectEntries[R any](seq iter.Seq2[spatial.ID, R]) []Entry[R] {
	var entries []Entry[R]
	for id, r := range seq {
		entries = append(entries, Entry[R]{ID: id, Record: r})
	}

	slices.SortFunc(entries, func(a, b Entry[R]) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return entries
}
