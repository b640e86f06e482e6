package spatial

import (
	"iter"
	"slices"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// DefaultCellSize is the grid cell size used when a layer does not
	// specify one.
	DefaultCellSize = 32

	// DefaultVolumeThreshold is the query volume up to which range queries
	// enumerate points instead of scanning grid buckets. The value is tuned
	// empirically against world generation and rendering workloads, not
	// derived.
	DefaultVolumeThreshold = 256

	// MaxDirectVolume is the largest query volume gathered with
	// StrategyDirect. Larger queries scan buckets, even when StrategyDirect
	// is forced.
	MaxDirectVolume = 1 << 20
)

// Strategy is the way a range query gathers its candidates.
type Strategy int

const (
	// StrategyAuto picks StrategyDirect for queries whose volume is lower or
	// equal to the layer volume threshold, and StrategyBuckets otherwise.
	// Volumes are compared as float64 and never overflow.
	StrategyAuto Strategy = iota

	// StrategyDirect enumerates every unit point of the query and looks it up
	// in the point index, or in the bucket of the cell it belongs to.
	StrategyDirect

	// StrategyBuckets enumerates the grid cells covered by the query and
	// unions their buckets. When the query covers more cells than there are
	// buckets, the buckets are enumerated instead.
	StrategyBuckets
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyBuckets:
		return "buckets"
	default:
		return "auto"
	}
}

// LayerOptions configures a layer.
type LayerOptions[R any, S any, C comparable] struct {
	// The name used in logs, metrics and debug info.
	Name string

	// The grid cell size. Defaults to DefaultCellSize.
	CellSize int

	// The volume threshold used by StrategyAuto. Defaults to
	// DefaultVolumeThreshold.
	VolumeThreshold int

	// Returns the footprint a record occupies in the layer.
	Footprint func(R) S

	Geometry Geometry[S, C]

	// Maintains a point index next to the grid buckets. Every footprint must
	// then be exactly one unit point, and inserts on an occupied point are
	// rejected.
	ExactPoints bool

	// Rejects inserts whose footprint intersects the footprint of a live
	// record.
	RejectOverlap bool
}

// Layer indexes the records of a category by one of their footprints.
type Layer[R any, S any, C comparable] struct {
	name          string
	category      *Category[R]
	cellSize      int
	threshold     int
	strategy      Strategy
	footprint     func(R) S
	geometry      Geometry[S, C]
	exactPoints   bool
	rejectOverlap bool

	buckets Buckets[C]
	points  Points[C]
	refs    []reverseRef[C]
}

type reverseRef[C comparable] struct {
	cells    []cellRef[C]
	point    C
	hasPoint bool
}

type cellRef[C comparable] struct {
	cell C
	slot Slot
}

// AddLayer adds a layer to the given category. Records already stored in the
// category are indexed right away, in ascending id order. It panics with an
// ErrTypeInvariant error when a stored record would not be admitted by the
// new layer: a footprint that is not a unit point on an ExactPoints layer, or
// footprints that overlap on a layer that rejects them.
func AddLayer[R any, S any, C comparable](c *Category[R], opts LayerOptions[R, S, C]) *Layer[R, S, C] {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.VolumeThreshold <= 0 {
		opts.VolumeThreshold = DefaultVolumeThreshold
	}

	l := &Layer[R, S, C]{
		name:          opts.Name,
		category:      c,
		cellSize:      opts.CellSize,
		threshold:     opts.VolumeThreshold,
		footprint:     opts.Footprint,
		geometry:      opts.Geometry,
		exactPoints:   opts.ExactPoints,
		rejectOverlap: opts.RejectOverlap,
	}

	for id, r := range c.store.All() {
		if !l.admits(r) {
			panic(violation(errors.New("stored records overlap in the new layer").
				WithType(ErrTypeInvariant).
				WithTag("category", c.name).
				WithTag("layer", l.name).
				WithTag("id", id).
				WithTag("footprint", l.footprint(r))))
		}
		l.register(id, r)
	}

	c.layers = append(c.layers, l)
	return l
}

func (l *Layer[R, S, C]) Name() string {
	return l.name
}

// SetStrategy forces the strategy used by Query. StrategyAuto restores the
// volume based selection.
func (l *Layer[R, S, C]) SetStrategy(s Strategy) {
	l.strategy = s
}

// Query returns an iterator over the records whose footprint intersects box.
// Each record is yielded once. The category must not be modified while
// iterating.
func (l *Layer[R, S, C]) Query(box S) iter.Seq2[ID, R] {
	return l.QueryWith(StrategyAuto, box)
}

// QueryWith is like Query but gathers candidates with the given strategy.
func (l *Layer[R, S, C]) QueryWith(s Strategy, box S) iter.Seq2[ID, R] {
	s = l.resolve(s, box)

	return func(yield func(ID, R) bool) {
		instrumentCountQuery(l.category.name, l.name, s)

		var candidates iter.Seq[ID]
		if s == StrategyDirect {
			candidates = l.directCandidates(box)
		} else {
			candidates = l.bucketCandidates(box)
		}

		seen := make(map[ID]struct{})
		matches := 0
		for id := range candidates {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			r, ok := l.category.store.Get(id)
			if !ok {
				panic(violation(errors.New("indexed record not found").
					WithType(ErrTypeInvariant).
					WithTag("category", l.category.name).
					WithTag("layer", l.name).
					WithTag("id", id)))
			}

			if !l.geometry.Intersects(l.footprint(r), box) {
				continue
			}
			if !yield(id, r) {
				return
			}
			matches++
		}

		instrumentQueryResults(l.category.name, l.name, matches)
	}
}

// HasAny reports whether a record footprint intersects box. It stops at the
// first match.
func (l *Layer[R, S, C]) HasAny(box S) bool {
	for range l.Query(box) {
		return true
	}
	return false
}

// Collect returns the ids of the records whose footprint intersects box, in
// ascending order.
func (l *Layer[R, S, C]) Collect(box S) []ID {
	var ids []ID
	for id := range l.Query(box) {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Footprint returns the footprint of the given record in the layer.
func (l *Layer[R, S, C]) Footprint(r R) S {
	return l.footprint(r)
}

func (l *Layer[R, S, C]) DebugInfo() DebugInfo {
	strategy := "volume"
	if l.strategy != StrategyAuto {
		strategy = l.strategy.String()
	}

	return DebugInfo{
		Category:        l.category.name,
		Layer:           l.name,
		CellSize:        l.cellSize,
		VolumeThreshold: l.threshold,
		Strategy:        strategy,
		ObjectCount:     l.category.store.Len(),
		BucketCount:     l.buckets.Len(),
		RefCount:        l.buckets.Refs(),
		PointCount:      l.points.Len(),
		Occupancy:       l.buckets.Occupancy(),
	}
}

func (l *Layer[R, S, C]) resolve(s Strategy, box S) Strategy {
	if s == StrategyAuto {
		s = l.strategy
	}

	volume := l.geometry.Volume(box)
	switch {
	case s == StrategyBuckets, volume > MaxDirectVolume:
		return StrategyBuckets
	case s == StrategyDirect, volume <= float64(l.threshold):
		return StrategyDirect
	default:
		return StrategyBuckets
	}
}

func (l *Layer[R, S, C]) directCandidates(box S) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		if l.exactPoints {
			for p := range l.geometry.Points(box) {
				if id, ok := l.points.LookupPoint(p); ok && !yield(id) {
					return
				}
			}
			return
		}

		visited := make(map[C]struct{})
		for p := range l.geometry.Points(box) {
			cell := l.geometry.CellOf(p, l.cellSize)
			if _, ok := visited[cell]; ok {
				continue
			}
			visited[cell] = struct{}{}

			for id := range l.buckets.Lookup(cell) {
				if !yield(id) {
					return
				}
			}
		}
	}
}

func (l *Layer[R, S, C]) bucketCandidates(box S) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		cells := l.geometry.Cells(box, l.cellSize)
		if l.geometry.CellCount(box, l.cellSize) > float64(l.buckets.Len()) {
			cells = func(yield func(C) bool) {
				for cell := range l.buckets.Cells() {
					if l.geometry.InCells(box, l.cellSize, cell) && !yield(cell) {
						return
					}
				}
			}
		}

		for cell := range cells {
			for id := range l.buckets.Lookup(cell) {
				if !yield(id) {
					return
				}
			}
		}
	}
}

func (l *Layer[R, S, C]) layerName() string {
	return l.name
}

func (l *Layer[R, S, C]) checkFootprint(r R) {
	if !l.exactPoints {
		return
	}

	if _, ok := l.geometry.Point(l.footprint(r)); !ok {
		panic(violation(errors.New("footprint is not a unit point").
			WithType(ErrTypeInvariant).
			WithTag("category", l.category.name).
			WithTag("layer", l.name).
			WithTag("footprint", l.footprint(r))))
	}
}

func (l *Layer[R, S, C]) admits(r R) bool {
	l.checkFootprint(r)

	if l.exactPoints {
		p, _ := l.geometry.Point(l.footprint(r))
		if _, ok := l.points.LookupPoint(p); ok {
			return false
		}
	}
	return !l.rejectOverlap || !l.HasAny(l.footprint(r))
}

func (l *Layer[R, S, C]) register(id ID, r R) {
	footprint := l.footprint(r)

	var ref reverseRef[C]
	if l.exactPoints {
		p, _ := l.geometry.Point(footprint)
		l.points.InsertPoint(p, id)
		ref.point = p
		ref.hasPoint = true
	}

	for cell := range l.geometry.Cells(footprint, l.cellSize) {
		ref.cells = append(ref.cells, cellRef[C]{
			cell: cell,
			slot: l.buckets.InsertRef(cell, id),
		})
	}

	if n := int(id) + 1; n > len(l.refs) {
		l.refs = slices.Grow(l.refs, n-len(l.refs))[:n]
	}
	l.refs[id] = ref

	instrumentBucketGauge(l.category.name, l.name, l.buckets.Len())
}

func (l *Layer[R, S, C]) retract(id ID) {
	ref := l.refs[id]

	if ref.hasPoint {
		if occupant := l.points.RemovePoint(ref.point); occupant != id {
			panic(violation(errors.New("point held by another record").
				WithType(ErrTypeInvariant).
				WithTag("category", l.category.name).
				WithTag("layer", l.name).
				WithTag("id", id).
				WithTag("occupant", occupant)))
		}
	}

	for _, c := range ref.cells {
		if occupant := l.buckets.RemoveRef(c.cell, c.slot); occupant != id {
			panic(violation(errors.New("bucket slot held by another record").
				WithType(ErrTypeInvariant).
				WithTag("category", l.category.name).
				WithTag("layer", l.name).
				WithTag("id", id).
				WithTag("occupant", occupant)))
		}
	}

	l.refs[id] = reverseRef[C]{}
	instrumentBucketGauge(l.category.name, l.name, l.buckets.Len())
}
