package aabb

import "iter"

// Box2 is a 2-dimensional axis-aligned bounding box. Max is exclusive.
type Box2[T Number] struct {
	Min Vec2[T] `json:"min" msgpack:"min"`
	Max Vec2[T] `json:"max" msgpack:"max"`
}

type (
	IBox2 = Box2[int]
	Box2f = Box2[float64]
)

// NewBox2 returns the box [min, max).
func NewBox2[T Number](min, max Vec2[T]) Box2[T] {
	return Box2[T]{Min: min, Max: max}
}

// Box2FromCenter creates a box from a center point and half extents.
func Box2FromCenter[T Number](center, extents Vec2[T]) Box2[T] {
	return Box2[T]{
		Min: center.Sub(extents),
		Max: center.Add(extents),
	}
}

// Point2 returns the unit box occupied by the integer point p.
func Point2(p IVec2) IBox2 {
	return IBox2{Min: p, Max: p.AddScalar(1)}
}

// Size returns the extent of the box on each axis.
func (b Box2[T]) Size() Vec2[T] {
	return b.Max.Sub(b.Min)
}

func (b Box2[T]) Center() Vec2[T] {
	return b.Min.Add(b.Extents())
}

// Extents returns half the size.
func (b Box2[T]) Extents() Vec2[T] {
	return b.Size().DivScalar(2)
}

// IsEmpty reports whether the box contains no point.
func (b Box2[T]) IsEmpty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y
}

// Volume returns the area of the box, or zero when it is empty.
func (b Box2[T]) Volume() T {
	if b.IsEmpty() {
		return 0
	}
	size := b.Size()
	return size.X * size.Y
}

// Measure returns the area of the box as a float64, or zero when it is empty.
// Unlike Volume it does not overflow on large integer boxes.
func (b Box2[T]) Measure() float64 {
	if b.IsEmpty() {
		return 0
	}
	return (float64(b.Max.X) - float64(b.Min.X)) * (float64(b.Max.Y) - float64(b.Min.Y))
}

// Add adds the corners of o to the ones of b.
func (b Box2[T]) Add(o Box2[T]) Box2[T] {
	return Box2[T]{b.Min.Add(o.Min), b.Max.Add(o.Max)}
}

func (b Box2[T]) Sub(o Box2[T]) Box2[T] {
	return Box2[T]{b.Min.Sub(o.Min), b.Max.Sub(o.Max)}
}

func (b Box2[T]) Mul(o Box2[T]) Box2[T] {
	return Box2[T]{b.Min.Mul(o.Min), b.Max.Mul(o.Max)}
}

func (b Box2[T]) Div(o Box2[T]) Box2[T] {
	return Box2[T]{b.Min.Div(o.Min), b.Max.Div(o.Max)}
}

// Translate moves the box by v.
func (b Box2[T]) Translate(v Vec2[T]) Box2[T] {
	return Box2[T]{b.Min.Add(v), b.Max.Add(v)}
}

// MulVec scales both corners by v.
func (b Box2[T]) MulVec(v Vec2[T]) Box2[T] {
	return Box2[T]{b.Min.Mul(v), b.Max.Mul(v)}
}

func (b Box2[T]) DivVec(v Vec2[T]) Box2[T] {
	return Box2[T]{b.Min.Div(v), b.Max.Div(v)}
}

func (b Box2[T]) AddScalar(s T) Box2[T] {
	return Box2[T]{b.Min.AddScalar(s), b.Max.AddScalar(s)}
}

func (b Box2[T]) SubScalar(s T) Box2[T] {
	return Box2[T]{b.Min.SubScalar(s), b.Max.SubScalar(s)}
}

// Scale multiplies both corners by s.
func (b Box2[T]) Scale(s T) Box2[T] {
	return Box2[T]{b.Min.Scale(s), b.Max.Scale(s)}
}

func (b Box2[T]) DivScalar(s T) Box2[T] {
	return Box2[T]{b.Min.DivScalar(s), b.Max.DivScalar(s)}
}

// Neg mirrors the box around the origin, keeping Min below Max.
func (b Box2[T]) Neg() Box2[T] {
	return Box2[T]{b.Max.Neg(), b.Min.Neg()}
}

// Extend grows the box by n on every side.
func (b Box2[T]) Extend(n T) Box2[T] {
	return Box2[T]{b.Min.SubScalar(n), b.Max.AddScalar(n)}
}

// Union returns the smallest box containing b and o.
func (b Box2[T]) Union(o Box2[T]) Box2[T] {
	return Box2[T]{b.Min.Min(o.Min), b.Max.Max(o.Max)}
}

// Intersection returns the overlapping part of both boxes. The result is empty
// when they do not intersect.
func (b Box2[T]) Intersection(o Box2[T]) Box2[T] {
	return Box2[T]{b.Min.Max(o.Min), b.Max.Min(o.Max)}
}

// ContainsPoint reports whether p lies in [Min, Max) on every axis.
func (b Box2[T]) ContainsPoint(p Vec2[T]) bool {
	return b.Min.LesserOrEqualThan(p) && p.LesserThan(b.Max)
}

// ContainsBox reports whether o lies within b, boundaries included.
func (b Box2[T]) ContainsBox(o Box2[T]) bool {
	return b.Min.LesserOrEqualThan(o.Min) && o.Max.LesserOrEqualThan(b.Max)
}

// Intersects reports whether both boxes share an interior region. Boxes that
// only share an edge or a corner do not intersect, and empty boxes intersect
// nothing.
func (b Box2[T]) Intersects(o Box2[T]) bool {
	return !b.Intersection(o).IsEmpty()
}

// Touches is the closed variant of Intersects: shared edges and corners count.
func (b Box2[T]) Touches(o Box2[T]) bool {
	return b.Min.X <= o.Max.X &&
		b.Min.Y <= o.Max.Y &&
		o.Min.X <= b.Max.X &&
		o.Min.Y <= b.Max.Y
}

// CastBox2 converts both corners of b to U. Use Cover2 or Inner2 to turn a
// real box into an integer one.
func CastBox2[U, T Number](b Box2[T]) Box2[U] {
	return Box2[U]{CastVec2[U](b.Min), CastVec2[U](b.Max)}
}

// Points2 returns an iterator visiting every integer point of b, row by row.
func Points2(b IBox2) iter.Seq[IVec2] {
	return func(yield func(IVec2) bool) {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if !yield(IVec2{x, y}) {
					return
				}
			}
		}
	}
}
