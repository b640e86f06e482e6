package aabb

import "math"

// Grid space divides base space into square cells of a fixed integer size.
// A cell c covers the base space range [c*size, (c+1)*size) on every axis.
//
// Boxes keep their max exclusive when converted: an integer box converts its
// last contained coordinate (max-1) and a real box converts the float right
// below max, so a box ending exactly on a cell boundary never claims the next
// cell.

// CellOf2i returns the cell holding the integer point p.
func CellOf2i(p IVec2, size int) IVec2 {
	return IVec2{FloorDiv(p.X, size), FloorDiv(p.Y, size)}
}

func CellOf3i(p IVec3, size int) IVec3 {
	return IVec3{FloorDiv(p.X, size), FloorDiv(p.Y, size), FloorDiv(p.Z, size)}
}

// CellOf2f returns the cell holding the real point p. Cells saturate like
// ToCoord.
func CellOf2f(p Vec2f, size int) IVec2 {
	return coords2(p.DivScalar(float64(size)), math.Floor)
}

func CellOf3f(p Vec3f, size int) IVec3 {
	return coords3(p.DivScalar(float64(size)), math.Floor)
}

// ToGrid2i returns the cells covered by b. Empty boxes cover no cell.
func ToGrid2i(b IBox2, size int) IBox2 {
	if b.IsEmpty() {
		return IBox2{}
	}
	return IBox2{
		Min: CellOf2i(b.Min, size),
		Max: CellOf2i(b.Max.SubScalar(1), size).AddScalar(1),
	}
}

func ToGrid3i(b IBox3, size int) IBox3 {
	if b.IsEmpty() {
		return IBox3{}
	}
	return IBox3{
		Min: CellOf3i(b.Min, size),
		Max: CellOf3i(b.Max.SubScalar(1), size).AddScalar(1),
	}
}

// ToGrid2f returns the cells covered by b. Empty boxes cover no cell.
func ToGrid2f(b Box2f, size int) IBox2 {
	if b.IsEmpty() {
		return IBox2{}
	}
	return IBox2{
		Min: CellOf2f(b.Min, size),
		Max: CellOf2f(below2(b.Max), size).AddScalar(1),
	}
}

func ToGrid3f(b Box3f, size int) IBox3 {
	if b.IsEmpty() {
		return IBox3{}
	}
	return IBox3{
		Min: CellOf3f(b.Min, size),
		Max: CellOf3f(below3(b.Max), size).AddScalar(1),
	}
}

func below2(v Vec2f) Vec2f {
	return Vec2f{
		math.Nextafter(v.X, math.Inf(-1)),
		math.Nextafter(v.Y, math.Inf(-1)),
	}
}

func below3(v Vec3f) Vec3f {
	return Vec3f{
		math.Nextafter(v.X, math.Inf(-1)),
		math.Nextafter(v.Y, math.Inf(-1)),
		math.Nextafter(v.Z, math.Inf(-1)),
	}
}

// ToBase2i returns the base space extent of the cell c.
func ToBase2i(c IVec2, size int) IBox2 {
	return IBox2{c.Scale(size), c.AddScalar(1).Scale(size)}
}

func ToBase3i(c IVec3, size int) IBox3 {
	return IBox3{c.Scale(size), c.AddScalar(1).Scale(size)}
}

func ToBase2f(c IVec2, size int) Box2f {
	return CastBox2[float64](ToBase2i(c, size))
}

func ToBase3f(c IVec3, size int) Box3f {
	return CastBox3[float64](ToBase3i(c, size))
}

// GridToBase2i returns the base space extent of a range of cells.
func GridToBase2i(cells IBox2, size int) IBox2 {
	return cells.Scale(size)
}

func GridToBase3i(cells IBox3, size int) IBox3 {
	return cells.Scale(size)
}

func GridToBase2f(cells IBox2, size int) Box2f {
	return CastBox2[float64](cells.Scale(size))
}

func GridToBase3f(cells IBox3, size int) Box3f {
	return CastBox3[float64](cells.Scale(size))
}
