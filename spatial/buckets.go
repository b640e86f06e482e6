package spatial

import (
	"iter"
	"maps"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Slot is the position of an id within a bucket.
type Slot int

// Buckets maps grid cells to the ids registered in them. Buckets are created on
// first insert and dropped as soon as they become empty. InsertRef and
// RemoveRef run in constant time. The zero value is ready to use.
type Buckets[C comparable] struct {
	cells map[C]*bucket
	refs  int
}

// bucket is a slot arena of ids. Freed slots are reused last in first out.
type bucket struct {
	ids   []ID
	live  []bool
	free  []Slot
	count int
}

func (b *bucket) insert(id ID) Slot {
	b.count++

	if n := len(b.free); n != 0 {
		slot := b.free[n-1]
		b.free = b.free[:n-1]
		b.ids[slot] = id
		b.live[slot] = true
		return slot
	}

	b.ids = append(b.ids, id)
	b.live = append(b.live, true)
	return Slot(len(b.ids) - 1)
}

func (b *bucket) remove(slot Slot) (ID, bool) {
	if slot < 0 || int(slot) >= len(b.live) || !b.live[slot] {
		return 0, false
	}

	id := b.ids[slot]
	b.live[slot] = false
	b.free = append(b.free, slot)
	b.count--
	return id, true
}

// InsertRef adds id to the bucket of the given cell and returns the slot to
// use to remove it.
func (b *Buckets[C]) InsertRef(cell C, id ID) Slot {
	if b.cells == nil {
		b.cells = make(map[C]*bucket)
	}

	bk, ok := b.cells[cell]
	if !ok {
		bk = &bucket{}
		b.cells[cell] = bk
	}

	b.refs++
	return bk.insert(id)
}

// RemoveRef removes the entry at the given slot of a cell bucket and returns
// the id it held. It panics when the entry does not exist.
func (b *Buckets[C]) RemoveRef(cell C, slot Slot) ID {
	bk, ok := b.cells[cell]
	if !ok {
		panic(violation(errors.New("bucket not found").
			WithType(ErrTypeInvariant).
			WithTag("cell", cell).
			WithTag("slot", slot)))
	}

	id, ok := bk.remove(slot)
	if !ok {
		panic(violation(errors.New("bucket slot not found").
			WithType(ErrTypeInvariant).
			WithTag("cell", cell).
			WithTag("slot", slot)))
	}

	if bk.count == 0 {
		delete(b.cells, cell)
	}
	b.refs--
	return id
}

// Lookup returns an iterator over the ids registered in the given cell.
func (b *Buckets[C]) Lookup(cell C) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		bk, ok := b.cells[cell]
		if !ok {
			return
		}

		for slot, id := range bk.ids {
			if bk.live[slot] && !yield(id) {
				return
			}
		}
	}
}

// Cells returns an iterator over the cells of the non-empty buckets, in no
// particular order.
func (b *Buckets[C]) Cells() iter.Seq[C] {
	return maps.Keys(b.cells)
}

func (b *Buckets[C]) Contains(cell C) bool {
	_, ok := b.cells[cell]
	return ok
}

// Len returns the number of non-empty buckets.
func (b *Buckets[C]) Len() int {
	return len(b.cells)
}

// Refs returns the number of ids registered across all buckets.
func (b *Buckets[C]) Refs() int {
	return b.refs
}

// Occupancy returns how many buckets hold a given number of ids.
func (b *Buckets[C]) Occupancy() map[int]int {
	occupancy := make(map[int]int)
	for _, bk := range b.cells {
		occupancy[bk.count]++
	}
	return occupancy
}
