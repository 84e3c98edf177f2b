package picocad

import (
	gomath "math"

	"github.com/Faultbox/picocad-tools/pkg/math"
)

// Mesh is a named object of a project. Vertices are relative to Position;
// Rotation is in turns (1.0 is a full revolution).
type Mesh struct {
	Name     string
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
	Vertices []math.Vec3
	Faces    []Face
}

// NewMesh creates an empty mesh at the origin with unit scale.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:  name,
		Scale: math.One,
	}
}

// AddVertex appends v and returns its index.
func (m *Mesh) AddVertex(v math.Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddFace appends f and returns its index.
func (m *Mesh) AddFace(f Face) int {
	m.Faces = append(m.Faces, f)
	return len(m.Faces) - 1
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := *m
	out.Vertices = append([]math.Vec3(nil), m.Vertices...)
	out.Faces = make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		out.Faces[i] = f.Clone()
	}
	return &out
}

// rotationPlaces is the precision picoCAD keeps for rotations.
const rotationPlaces = 3

// NormalizeRotation rounds each component to three decimals and wraps it
// into [0, 1).
func NormalizeRotation(rot math.Vec3) math.Vec3 {
	return rot.Round(rotationPlaces).Map(func(c float64) float64 {
		return gomath.Mod(gomath.Mod(c, 1)+1, 1)
	})
}

// EqualRotation reports whether a and b describe the same orientation once
// both are normalized, e.g. {0.25,0,0} and {-0.75,0,0}.
func EqualRotation(a, b math.Vec3) bool {
	return NormalizeRotation(a).Round(rotationPlaces) == NormalizeRotation(b).Round(rotationPlaces)
}
