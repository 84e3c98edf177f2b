// Package math provides the vector value types shared by the picoCAD model.
package math

import "math"

// Vec3 is a 3D vector. picoCAD uses it for vertex positions, mesh anchors,
// Euler rotations (in turns) and scales.
type Vec3 struct {
	X, Y, Z float64
}

// One is the identity scale.
var One = Vec3{1, 1, 1}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the componentwise product.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Map applies f to every component.
func (v Vec3) Map(f func(float64) float64) Vec3 {
	return Vec3{f(v.X), f(v.Y), f(v.Z)}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Components returns the components in X, Y, Z order.
func (v Vec3) Components() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// Round rounds every component to the given number of decimal places.
func (v Vec3) Round(places int) Vec3 {
	p := math.Pow(10, float64(places))
	return v.Map(func(c float64) float64 { return math.Round(c*p) / p })
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
