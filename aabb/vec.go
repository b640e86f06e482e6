package aabb

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the set of scalar types vectors and boxes can be built from.
type Number interface {
	constraints.Integer | constraints.Float
}

// Vec2 is a 2-dimensional vector.
type Vec2[T Number] struct {
	X T `json:"x" msgpack:"x"`
	Y T `json:"y" msgpack:"y"`
}

// Vec3 is a 3-dimensional vector.
type Vec3[T Number] struct {
	X T `json:"x" msgpack:"x"`
	Y T `json:"y" msgpack:"y"`
	Z T `json:"z" msgpack:"z"`
}

type (
	IVec2 = Vec2[int]
	IVec3 = Vec3[int]
	Vec2f = Vec2[float64]
	Vec3f = Vec3[float64]
)

// Splat2 returns a vector with every component set to v.
func Splat2[T Number](v T) Vec2[T] {
	return Vec2[T]{v, v}
}

func Splat3[T Number](v T) Vec3[T] {
	return Vec3[T]{v, v, v}
}

// Add returns the component-wise sum a+b.
func (a Vec2[T]) Add(b Vec2[T]) Vec2[T] {
	return Vec2[T]{a.X + b.X, a.Y + b.Y}
}

// Sub returns the component-wise difference a-b.
func (a Vec2[T]) Sub(b Vec2[T]) Vec2[T] {
	return Vec2[T]{a.X - b.X, a.Y - b.Y}
}

// Mul multiplies a and b component-wise.
func (a Vec2[T]) Mul(b Vec2[T]) Vec2[T] {
	return Vec2[T]{a.X * b.X, a.Y * b.Y}
}

// Div divides a by b component-wise. Integer division truncates.
func (a Vec2[T]) Div(b Vec2[T]) Vec2[T] {
	return Vec2[T]{a.X / b.X, a.Y / b.Y}
}

func (a Vec2[T]) Neg() Vec2[T] {
	return Vec2[T]{-a.X, -a.Y}
}

// AddScalar adds s to every component.
func (a Vec2[T]) AddScalar(s T) Vec2[T] {
	return Vec2[T]{a.X + s, a.Y + s}
}

func (a Vec2[T]) SubScalar(s T) Vec2[T] {
	return Vec2[T]{a.X - s, a.Y - s}
}

// Scale multiplies every component by s.
func (a Vec2[T]) Scale(s T) Vec2[T] {
	return Vec2[T]{a.X * s, a.Y * s}
}

// DivScalar divides every component by s. Integer division truncates toward
// zero, use FloorDiv for cell math.
func (a Vec2[T]) DivScalar(s T) Vec2[T] {
	return Vec2[T]{a.X / s, a.Y / s}
}

// Min returns the component-wise minimum.
func (a Vec2[T]) Min(b Vec2[T]) Vec2[T] {
	return Vec2[T]{min(a.X, b.X), min(a.Y, b.Y)}
}

// Max returns the component-wise maximum.
func (a Vec2[T]) Max(b Vec2[T]) Vec2[T] {
	return Vec2[T]{max(a.X, b.X), max(a.Y, b.Y)}
}

// LesserOrEqualThan reports whether every component of a is <= the one of b.
func (a Vec2[T]) LesserOrEqualThan(b Vec2[T]) bool {
	return a.X <= b.X && a.Y <= b.Y
}

// LesserThan reports whether every component of a is < the one of b.
func (a Vec2[T]) LesserThan(b Vec2[T]) bool {
	return a.X < b.X && a.Y < b.Y
}

// Add returns the component-wise sum a+b.
func (a Vec3[T]) Add(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3[T]) Sub(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3[T]) Mul(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Div divides a by b component-wise.
func (a Vec3[T]) Div(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X / b.X, a.Y / b.Y, a.Z / b.Z}
}

func (a Vec3[T]) Neg() Vec3[T] {
	return Vec3[T]{-a.X, -a.Y, -a.Z}
}

func (a Vec3[T]) AddScalar(s T) Vec3[T] {
	return Vec3[T]{a.X + s, a.Y + s, a.Z + s}
}

func (a Vec3[T]) SubScalar(s T) Vec3[T] {
	return Vec3[T]{a.X - s, a.Y - s, a.Z - s}
}

// Scale multiplies every component by s.
func (a Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{a.X * s, a.Y * s, a.Z * s}
}

func (a Vec3[T]) DivScalar(s T) Vec3[T] {
	return Vec3[T]{a.X / s, a.Y / s, a.Z / s}
}

// Min returns the component-wise minimum.
func (a Vec3[T]) Min(b Vec3[T]) Vec3[T] {
	return Vec3[T]{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3[T]) Max(b Vec3[T]) Vec3[T] {
	return Vec3[T]{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}

// LesserOrEqualThan reports whether a <= b on every axis.
func (a Vec3[T]) LesserOrEqualThan(b Vec3[T]) bool {
	return a.X <= b.X && a.Y <= b.Y && a.Z <= b.Z
}

// LesserThan reports whether a < b on every axis.
func (a Vec3[T]) LesserThan(b Vec3[T]) bool {
	return a.X < b.X && a.Y < b.Y && a.Z < b.Z
}

// XY drops the z component.
func (a Vec3[T]) XY() Vec2[T] {
	return Vec2[T]{a.X, a.Y}
}

// CastVec2 converts the components of v to U. Real to integer conversions
// truncate, use ToCoord when the input may be out of range.
func CastVec2[U, T Number](v Vec2[T]) Vec2[U] {
	return Vec2[U]{U(v.X), U(v.Y)}
}

func CastVec3[U, T Number](v Vec3[T]) Vec3[U] {
	return Vec3[U]{U(v.X), U(v.Y), U(v.Z)}
}

// EqualWithEpsilon reports whether a and b differ by at most epsilon.
func EqualWithEpsilon[F constraints.Float](a, b F, epsilon float64) bool {
	return math.Abs(float64(a-b)) <= epsilon
}

// FloorDiv returns a/b rounded towards negative infinity. b must be positive.
func FloorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
