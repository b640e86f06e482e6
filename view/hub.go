package view

import (
	"cmp"
	"slices"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/aukilabs/worldgrid/world"
	"github.com/google/uuid"
)

// Hub keeps the viewers of a world up to date with the objects within their
// bounds.
type Hub struct {
	world  *world.World
	cancel func()

	mutex   sync.Mutex
	viewers map[string]*viewer
}

type viewer struct {
	bounds    aabb.Box2f
	hasBounds bool
	known     map[world.ObjectKey]struct{}
	pending   []Cmd
	updates   chan struct{}
}

func (v *viewer) push(c Cmd) {
	v.pending = append(v.pending, c)
	instrumentCountCmd(c.Type)

	select {
	case v.updates <- struct{}{}:
	default:
	}
}

// NewHub returns a hub observing the given world. Close must be called to
// stop observing.
func NewHub(w *world.World) *Hub {
	h := &Hub{
		world:   w,
		viewers: make(map[string]*viewer),
	}
	h.cancel = w.Observe(h)
	return h
}

func (h *Hub) Close() {
	h.cancel()
}

// Join adds a viewer and returns its id. A viewer sees nothing until its
// bounds are set.
func (h *Hub) Join() string {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	id := uuid.New().String()
	h.viewers[id] = &viewer{
		known:   make(map[world.ObjectKey]struct{}),
		updates: make(chan struct{}, 1),
	}

	instrumentIncreaseViewerGauge()
	logs.WithTag("viewer_id", id).Debug("viewer joined")
	return id
}

func (h *Hub) Leave(id string) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.viewers[id]; !ok {
		return unknownViewer(id)
	}
	delete(h.viewers, id)

	instrumentDecreaseViewerGauge()
	logs.WithTag("viewer_id", id).Debug("viewer left")
	return nil
}

// SetBounds moves the bounds of a viewer. Objects that left the bounds are
// queued for removal, then objects that entered them for addition.
func (h *Hub) SetBounds(id string, bounds aabb.Box2f) error {
	if err := h.check(id); err != nil {
		return err
	}

	var err error
	h.world.WithVisible(bounds, func(objects []world.Object) {
		h.mutex.Lock()
		defer h.mutex.Unlock()

		v, ok := h.viewers[id]
		if !ok {
			err = unknownViewer(id)
			return
		}
		v.bounds = bounds
		v.hasBounds = true

		visible := make(map[world.ObjectKey]struct{}, len(objects))
		for _, o := range objects {
			visible[o.Key()] = struct{}{}
		}

		var gone []world.ObjectKey
		for k := range v.known {
			if _, ok := visible[k]; !ok {
				gone = append(gone, k)
			}
		}
		slices.SortFunc(gone, compareKeys)

		for _, k := range gone {
			delete(v.known, k)
			v.push(removeCmd(k))
		}

		for _, o := range objects {
			if _, ok := v.known[o.Key()]; ok {
				continue
			}
			v.known[o.Key()] = struct{}{}
			v.push(addCmd(o))
		}
	})
	return err
}

// Drain returns the commands queued for a viewer since the last drain.
func (h *Hub) Drain(id string) ([]Cmd, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	v, ok := h.viewers[id]
	if !ok {
		return nil, unknownViewer(id)
	}

	cmds := v.pending
	v.pending = nil
	return cmds, nil
}

// Updates returns a channel that receives a value when commands are queued
// for the viewer.
func (h *Hub) Updates(id string) (<-chan struct{}, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	v, ok := h.viewers[id]
	if !ok {
		return nil, unknownViewer(id)
	}
	return v.updates, nil
}

// Len returns the number of viewers.
func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return len(h.viewers)
}

func (h *Hub) ObjectAdded(o world.Object) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, v := range h.viewers {
		if !v.hasBounds || !o.VisibleIn(v.bounds) {
			continue
		}
		v.known[o.Key()] = struct{}{}
		v.push(addCmd(o))
	}
}

func (h *Hub) ObjectRemoved(o world.Object) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	k := o.Key()
	for _, v := range h.viewers {
		if _, ok := v.known[k]; !ok {
			continue
		}
		delete(v.known, k)
		v.push(removeCmd(k))
	}
}

func (h *Hub) check(id string) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.viewers[id]; !ok {
		return unknownViewer(id)
	}
	return nil
}

func unknownViewer(id string) error {
	return errors.New("unknown viewer").
		WithType(ErrTypeUnknownViewer).
		WithTag("viewer_id", id)
}

func compareKeys(a, b world.ObjectKey) int {
	return cmp.Or(
		cmp.Compare(a.Type, b.Type),
		cmp.Compare(a.ID, b.ID),
	)
}
