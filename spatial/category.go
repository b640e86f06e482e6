package spatial

import (
	"iter"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Category stores records of one kind and keeps them indexed in every layer
// added to it.
//
// A category is not safe for concurrent use. Callers sharing a category
// between goroutines hold one exclusive lock for the duration of each call,
// iteration included.
type Category[R any] struct {
	name   string
	store  Store[R]
	layers []indexer[R]
}

type indexer[R any] interface {
	layerName() string
	admits(r R) bool
	register(id ID, r R)
	retract(id ID)
	DebugInfo() DebugInfo
}

func NewCategory[R any](name string) *Category[R] {
	return &Category[R]{name: name}
}

func (c *Category[R]) Name() string {
	return c.name
}

// Insert stores r and indexes it in every layer. It returns false and leaves
// the category unchanged when r overlaps a live record in a layer that rejects
// overlaps.
func (c *Category[R]) Insert(r R) (ID, bool) {
	for _, l := range c.layers {
		if !l.admits(r) {
			logs.WithTag("category", c.name).
				WithTag("layer", l.layerName()).
				Debug("insert rejected: overlapping footprint")
			instrumentCountRejectedInsert(c.name, l.layerName())
			return 0, false
		}
	}

	id := c.store.Insert(r)
	for _, l := range c.layers {
		l.register(id, r)
	}

	instrumentIncreaseObjectGauge(c.name)
	return id, true
}

// Remove retracts the record of the given id from every layer and returns it.
// It returns false when the id is not live.
func (c *Category[R]) Remove(id ID) (R, bool) {
	if !c.store.Contains(id) {
		var zero R
		return zero, false
	}

	for _, l := range c.layers {
		l.retract(id)
	}

	instrumentDecreaseObjectGauge(c.name)
	return c.store.Remove(id)
}

func (c *Category[R]) Get(id ID) (R, bool) {
	return c.store.Get(id)
}

// Len returns the number of live records.
func (c *Category[R]) Len() int {
	return c.store.Len()
}

// All returns an iterator over the live records, by ascending id.
func (c *Category[R]) All() iter.Seq2[ID, R] {
	return c.store.All()
}

// DebugInfo returns the state of every layer, in the order they were added.
func (c *Category[R]) DebugInfo() []DebugInfo {
	infos := make([]DebugInfo, 0, len(c.layers))
	for _, l := range c.layers {
		infos = append(infos, l.DebugInfo())
	}
	return infos
}
