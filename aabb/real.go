package aabb

import (
	"math"

	"golang.org/x/exp/constraints"
)

// MaxCoord bounds the integer coordinates produced from real ones. Reals
// outside [-MaxCoord, MaxCoord] saturate, so integer arithmetic on converted
// boxes cannot overflow. Float64 values lose unit precision past MaxCoord.
const MaxCoord = 1 << 52

// ToCoord converts a real coordinate to an integer one, saturating at
// ±MaxCoord. NaN converts to 0.
func ToCoord[F constraints.Float](f F) int {
	switch v := float64(f); {
	case math.IsNaN(v):
		return 0
	case v >= MaxCoord:
		return MaxCoord
	case v <= -MaxCoord:
		return -MaxCoord
	default:
		return int(v)
	}
}

func coords2[F constraints.Float](v Vec2[F], f func(float64) float64) IVec2 {
	return IVec2{ToCoord(f(float64(v.X))), ToCoord(f(float64(v.Y)))}
}

func coords3[F constraints.Float](v Vec3[F], f func(float64) float64) IVec3 {
	return IVec3{ToCoord(f(float64(v.X))), ToCoord(f(float64(v.Y))), ToCoord(f(float64(v.Z)))}
}

func mapVec2[F constraints.Float](v Vec2[F], f func(float64) float64) Vec2[F] {
	return Vec2[F]{F(f(float64(v.X))), F(f(float64(v.Y)))}
}

func mapVec3[F constraints.Float](v Vec3[F], f func(float64) float64) Vec3[F] {
	return Vec3[F]{F(f(float64(v.X))), F(f(float64(v.Y))), F(f(float64(v.Z)))}
}

func Floor2[F constraints.Float](b Box2[F]) Box2[F] {
	return Box2[F]{mapVec2(b.Min, math.Floor), mapVec2(b.Max, math.Floor)}
}

func Ceil2[F constraints.Float](b Box2[F]) Box2[F] {
	return Box2[F]{mapVec2(b.Min, math.Ceil), mapVec2(b.Max, math.Ceil)}
}

func Round2[F constraints.Float](b Box2[F]) Box2[F] {
	return Box2[F]{mapVec2(b.Min, math.Round), mapVec2(b.Max, math.Round)}
}

func Trunc2[F constraints.Float](b Box2[F]) Box2[F] {
	return Box2[F]{mapVec2(b.Min, math.Trunc), mapVec2(b.Max, math.Trunc)}
}

// Cover2 returns the smallest integer box containing b: floor(min)..ceil(max).
// Coordinates saturate at ±MaxCoord.
func Cover2[F constraints.Float](b Box2[F]) IBox2 {
	return IBox2{
		Min: coords2(b.Min, math.Floor),
		Max: coords2(b.Max, math.Ceil),
	}
}

// Inner2 returns the largest integer box contained in b: ceil(min)..floor(max).
// The result is empty when b does not fully hold a single unit cell on an axis.
func Inner2[F constraints.Float](b Box2[F]) IBox2 {
	return IBox2{
		Min: coords2(b.Min, math.Ceil),
		Max: coords2(b.Max, math.Floor),
	}
}

func Floor3[F constraints.Float](b Box3[F]) Box3[F] {
	return Box3[F]{mapVec3(b.Min, math.Floor), mapVec3(b.Max, math.Floor)}
}

func Ceil3[F constraints.Float](b Box3[F]) Box3[F] {
	return Box3[F]{mapVec3(b.Min, math.Ceil), mapVec3(b.Max, math.Ceil)}
}

func Round3[F constraints.Float](b Box3[F]) Box3[F] {
	return Box3[F]{mapVec3(b.Min, math.Round), mapVec3(b.Max, math.Round)}
}

func Trunc3[F constraints.Float](b Box3[F]) Box3[F] {
	return Box3[F]{mapVec3(b.Min, math.Trunc), mapVec3(b.Max, math.Trunc)}
}

// Cover3 returns the smallest integer box containing b.
func Cover3[F constraints.Float](b Box3[F]) IBox3 {
	return IBox3{
		Min: coords3(b.Min, math.Floor),
		Max: coords3(b.Max, math.Ceil),
	}
}

// Inner3 returns the largest integer box contained in b.
func Inner3[F constraints.Float](b Box3[F]) IBox3 {
	return IBox3{
		Min: coords3(b.Min, math.Ceil),
		Max: coords3(b.Max, math.Floor),
	}
}
