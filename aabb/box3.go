package aabb

import "iter"

// Box3 is a 3-dimensional axis-aligned bounding box. Max is exclusive.
type Box3[T Number] struct {
	Min Vec3[T] `json:"min" msgpack:"min"`
	Max Vec3[T] `json:"max" msgpack:"max"`
}

type (
	IBox3 = Box3[int]
	Box3f = Box3[float64]
)

// NewBox3 returns the box [min, max).
func NewBox3[T Number](min, max Vec3[T]) Box3[T] {
	return Box3[T]{Min: min, Max: max}
}

// Box3FromCenter creates a box from a center point and half extents.
func Box3FromCenter[T Number](center, extents Vec3[T]) Box3[T] {
	return Box3[T]{
		Min: center.Sub(extents),
		Max: center.Add(extents),
	}
}

// Point3 returns the unit box occupied by the integer point p.
func Point3(p IVec3) IBox3 {
	return IBox3{Min: p, Max: p.AddScalar(1)}
}

// Size returns the extent of the box on each axis.
func (b Box3[T]) Size() Vec3[T] {
	return b.Max.Sub(b.Min)
}

func (b Box3[T]) Center() Vec3[T] {
	return b.Min.Add(b.Extents())
}

// Extents returns half the size.
func (b Box3[T]) Extents() Vec3[T] {
	return b.Size().DivScalar(2)
}

// IsEmpty reports whether the box contains no point.
func (b Box3[T]) IsEmpty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z
}

// Volume returns the volume of the box, or zero when it is empty.
func (b Box3[T]) Volume() T {
	if b.IsEmpty() {
		return 0
	}
	size := b.Size()
	return size.X * size.Y * size.Z
}

// Measure returns the volume of the box as a float64, or zero when it is
// empty. Unlike Volume it does not overflow on large integer boxes.
func (b Box3[T]) Measure() float64 {
	if b.IsEmpty() {
		return 0
	}
	return (float64(b.Max.X) - float64(b.Min.X)) *
		(float64(b.Max.Y) - float64(b.Min.Y)) *
		(float64(b.Max.Z) - float64(b.Min.Z))
}

// XY projects the box on the ground plane.
func (b Box3[T]) XY() Box2[T] {
	return Box2[T]{b.Min.XY(), b.Max.XY()}
}

// Add adds the corners of o to the ones of b.
func (b Box3[T]) Add(o Box3[T]) Box3[T] {
	return Box3[T]{b.Min.Add(o.Min), b.Max.Add(o.Max)}
}

func (b Box3[T]) Sub(o Box3[T]) Box3[T] {
	return Box3[T]{b.Min.Sub(o.Min), b.Max.Sub(o.Max)}
}

func (b Box3[T]) Mul(o Box3[T]) Box3[T] {
	return Box3[T]{b.Min.Mul(o.Min), b.Max.Mul(o.Max)}
}

func (b Box3[T]) Div(o Box3[T]) Box3[T] {
	return Box3[T]{b.Min.Div(o.Min), b.Max.Div(o.Max)}
}

// Translate moves the box by v.
func (b Box3[T]) Translate(v Vec3[T]) Box3[T] {
	return Box3[T]{b.Min.Add(v), b.Max.Add(v)}
}

func (b Box3[T]) MulVec(v Vec3[T]) Box3[T] {
	return Box3[T]{b.Min.Mul(v), b.Max.Mul(v)}
}

func (b Box3[T]) DivVec(v Vec3[T]) Box3[T] {
	return Box3[T]{b.Min.Div(v), b.Max.Div(v)}
}

func (b Box3[T]) AddScalar(s T) Box3[T] {
	return Box3[T]{b.Min.AddScalar(s), b.Max.AddScalar(s)}
}

func (b Box3[T]) SubScalar(s T) Box3[T] {
	return Box3[T]{b.Min.SubScalar(s), b.Max.SubScalar(s)}
}

// Scale multiplies both corners by s.
func (b Box3[T]) Scale(s T) Box3[T] {
	return Box3[T]{b.Min.Scale(s), b.Max.Scale(s)}
}

func (b Box3[T]) DivScalar(s T) Box3[T] {
	return Box3[T]{b.Min.DivScalar(s), b.Max.DivScalar(s)}
}

// Neg mirrors the box around the origin, keeping Min below Max.
func (b Box3[T]) Neg() Box3[T] {
	return Box3[T]{b.Max.Neg(), b.Min.Neg()}
}

// Extend grows the box by n on every side.
func (b Box3[T]) Extend(n T) Box3[T] {
	return Box3[T]{b.Min.SubScalar(n), b.Max.AddScalar(n)}
}

// Union returns the smallest box containing b and o.
func (b Box3[T]) Union(o Box3[T]) Box3[T] {
	return Box3[T]{b.Min.Min(o.Min), b.Max.Max(o.Max)}
}

// Intersection returns the overlapping part of both boxes, empty when they do
// not intersect.
func (b Box3[T]) Intersection(o Box3[T]) Box3[T] {
	return Box3[T]{b.Min.Max(o.Min), b.Max.Min(o.Max)}
}

// ContainsPoint reports whether p lies in [Min, Max) on every axis.
func (b Box3[T]) ContainsPoint(p Vec3[T]) bool {
	return b.Min.LesserOrEqualThan(p) && p.LesserThan(b.Max)
}

// ContainsBox reports whether o lies within b, boundaries included.
func (b Box3[T]) ContainsBox(o Box3[T]) bool {
	return b.Min.LesserOrEqualThan(o.Min) && o.Max.LesserOrEqualThan(b.Max)
}

// Intersects reports whether both boxes share an interior region.
func (b Box3[T]) Intersects(o Box3[T]) bool {
	return !b.Intersection(o).IsEmpty()
}

// Touches is the closed variant of Intersects.
func (b Box3[T]) Touches(o Box3[T]) bool {
	return b.Min.X <= o.Max.X &&
		b.Min.Y <= o.Max.Y &&
		b.Min.Z <= o.Max.Z &&
		o.Min.X <= b.Max.X &&
		o.Min.Y <= b.Max.Y &&
		o.Min.Z <= b.Max.Z
}

// CastBox3 converts both corners of b to U.
func CastBox3[U, T Number](b Box3[T]) Box3[U] {
	return Box3[U]{CastVec3[U](b.Min), CastVec3[U](b.Max)}
}

// Points3 returns an iterator visiting every integer point of b.
func Points3(b IBox3) iter.Seq[IVec3] {
	return func(yield func(IVec3) bool) {
		for z := b.Min.Z; z < b.Max.Z; z++ {
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					if !yield(IVec3{x, y, z}) {
						return
					}
				}
			}
		}
	}
}
