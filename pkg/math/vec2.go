package math

// Vec2 is a texture coordinate. U runs right across the texture and V runs
// down; picoCAD stores them in texel units divided by 8.
type Vec2 struct {
	U, V float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.U + other.U, v.V + other.V}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.U - other.U, v.V - other.V}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.U * s, v.V * s}
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return isFinite(v.U) && isFinite(v.V)
}
