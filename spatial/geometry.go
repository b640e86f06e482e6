package spatial

import (
	"iter"

	"github.com/aukilabs/worldgrid/aabb"
)

// Geometry describes a footprint shape S and the integer coordinates C used
// for both its unit points and its grid cells.
type Geometry[S any, C comparable] interface {
	// Intersects reports whether two footprints share an interior region.
	Intersects(a, b S) bool

	// Volume returns the number of unit points Points yields for s. It is a
	// float64 so that huge boxes do not overflow.
	Volume(s S) float64

	// Points returns an iterator over the unit points overlapped by s.
	Points(s S) iter.Seq[C]

	// Cells returns an iterator over the grid cells covered by s.
	Cells(s S, cellSize int) iter.Seq[C]

	// CellCount returns the number of cells Cells yields for s.
	CellCount(s S, cellSize int) float64

	// InCells reports whether cell is one of the cells covered by s.
	InCells(s S, cellSize int, cell C) bool

	// CellOf returns the grid cell of a unit point.
	CellOf(p C, cellSize int) C

	// Point returns the unit point s is made of. It returns false when s is
	// not exactly one unit point.
	Point(s S) (C, bool)
}

// Grid2i is the geometry of integer 2D boxes.
type Grid2i struct{}

func (Grid2i) Intersects(a, b aabb.IBox2) bool { return a.Intersects(b) }
func (Grid2i) Volume(s aabb.IBox2) float64 { return s.Measure() }

func (Grid2i) Points(s aabb.IBox2) iter.Seq[aabb.IVec2] {
	return aabb.Points2(s)
}

func (Grid2i) Cells(s aabb.IBox2, cellSize int) iter.Seq[aabb.IVec2] {
	return aabb.Points2(aabb.ToGrid2i(s, cellSize))
}

func (Grid2i) CellCount(s aabb.IBox2, cellSize int) float64 {
	return aabb.ToGrid2i(s, cellSize).Measure()
}

func (Grid2i) InCells(s aabb.IBox2, cellSize int, cell aabb.IVec2) bool {
	return aabb.ToGrid2i(s, cellSize).ContainsPoint(cell)
}

func (Grid2i) CellOf(p aabb.IVec2, cellSize int) aabb.IVec2 {
	return aabb.CellOf2i(p, cellSize)
}

func (Grid2i) Point(s aabb.IBox2) (aabb.IVec2, bool) {
	return s.Min, s.Size() == aabb.Splat2(1)
}

// Grid2f is the geometry of real 2D boxes. Their unit points are the integer
// points of their smallest covering integer box.
type Grid2f struct{}

func (Grid2f) Intersects(a, b aabb.Box2f) bool { return a.Intersects(b) }
func (Grid2f) Volume(s aabb.Box2f) float64 { return aabb.Cover2(s).Measure() }

func (Grid2f) Points(s aabb.Box2f) iter.Seq[aabb.IVec2] {
	return aabb.Points2(aabb.Cover2(s))
}

func (Grid2f) Cells(s aabb.Box2f, cellSize int) iter.Seq[aabb.IVec2] {
	return aabb.Points2(aabb.ToGrid2f(s, cellSize))
}

func (Grid2f) CellCount(s aabb.Box2f, cellSize int) float64 {
	return aabb.ToGrid2f(s, cellSize).Measure()
}

func (Grid2f) InCells(s aabb.Box2f, cellSize int, cell aabb.IVec2) bool {
	return aabb.ToGrid2f(s, cellSize).ContainsPoint(cell)
}

func (Grid2f) CellOf(p aabb.IVec2, cellSize int) aabb.IVec2 {
	return aabb.CellOf2i(p, cellSize)
}

func (Grid2f) Point(s aabb.Box2f) (aabb.IVec2, bool) {
	cover := aabb.Cover2(s)
	return cover.Min, aabb.CastBox2[float64](aabb.Point2(cover.Min)) == s
}

// Grid3i is the geometry of integer 3D boxes.
type Grid3i struct{}

func (Grid3i) Intersects(a, b aabb.IBox3) bool { return a.Intersects(b) }
func (Grid3i) Volume(s aabb.IBox3) float64 { return s.Measure() }

func (Grid3i) Points(s aabb.IBox3) iter.Seq[aabb.IVec3] {
	return aabb.Points3(s)
}

func (Grid3i) Cells(s aabb.IBox3, cellSize int) iter.Seq[aabb.IVec3] {
	return aabb.Points3(aabb.ToGrid3i(s, cellSize))
}

func (Grid3i) CellCount(s aabb.IBox3, cellSize int) float64 {
	return aabb.ToGrid3i(s, cellSize).Measure()
}

func (Grid3i) InCells(s aabb.IBox3, cellSize int, cell aabb.IVec3) bool {
	return aabb.ToGrid3i(s, cellSize).ContainsPoint(cell)
}

func (Grid3i) CellOf(p aabb.IVec3, cellSize int) aabb.IVec3 {
	return aabb.CellOf3i(p, cellSize)
}

func (Grid3i) Point(s aabb.IBox3) (aabb.IVec3, bool) {
	return s.Min, s.Size() == aabb.Splat3(1)
}

// Grid3f is the geometry of real 3D boxes.
type Grid3f struct{}

func (Grid3f) Intersects(a, b aabb.Box3f) bool { return a.Intersects(b) }
func (Grid3f) Volume(s aabb.Box3f) float64 { return aabb.Cover3(s).Measure() }

func (Grid3f) Points(s aabb.Box3f) iter.Seq[aabb.IVec3] {
	return aabb.Points3(aabb.Cover3(s))
}

func (Grid3f) Cells(s aabb.Box3f, cellSize int) iter.Seq[aabb.IVec3] {
	return aabb.Points3(aabb.ToGrid3f(s, cellSize))
}

func (Grid3f) CellCount(s aabb.Box3f, cellSize int) float64 {
	return aabb.ToGrid3f(s, cellSize).Measure()
}

func (Grid3f) InCells(s aabb.Box3f, cellSize int, cell aabb.IVec3) bool {
	return aabb.ToGrid3f(s, cellSize).ContainsPoint(cell)
}

func (Grid3f) CellOf(p aabb.IVec3, cellSize int) aabb.IVec3 {
	return aabb.CellOf3i(p, cellSize)
}

func (Grid3f) Point(s aabb.Box3f) (aabb.IVec3, bool) {
	cover := aabb.Cover3(s)
	return cover.Min, aabb.CastBox3[float64](aabb.Point3(cover.Min)) == s
}
