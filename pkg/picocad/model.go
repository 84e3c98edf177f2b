package picocad

import "github.com/Faultbox/picocad-tools/pkg/math"

// Header holds the project-wide settings: the header-line fields plus the
// global transform applied to every mesh.
type Header struct {
	Name       string
	Zoom       int
	Background Color
	Alpha      Color
	Position   math.Vec3
	Rotation   math.Vec3
	Scale      math.Vec3
}

// Defaults picoCAD uses for a fresh project.
const (
	DefaultName = "unnamed"
	DefaultZoom = 16
)

// DefaultHeader returns the header of a new picoCAD project.
func DefaultHeader() Header {
	return Header{
		Name:       DefaultName,
		Zoom:       DefaultZoom,
		Background: DarkBlue,
		Alpha:      Black,
		Scale:      math.One,
	}
}

// Model is a decoded picoCAD project.
type Model struct {
	Header  Header
	Meshes  []*Mesh
	Texture *Texture
}

// NewModel returns an empty project with the default header and a black
// texture.
func NewModel() *Model {
	return &Model{
		Header:  DefaultHeader(),
		Texture: NewTexture(Black),
	}
}

// Mesh returns the first mesh named name.
func (m *Model) Mesh(name string) (*Mesh, bool) {
	for _, mesh := range m.Meshes {
		if mesh.Name == name {
			return mesh, true
		}
	}
	return nil, false
}

// AddMesh appends mesh and returns its index.
func (m *Model) AddMesh(mesh *Mesh) int {
	m.Meshes = append(m.Meshes, mesh)
	return len(m.Meshes) - 1
}

// RemoveMesh deletes the mesh at index i. It reports whether i was valid.
func (m *Model) RemoveMesh(i int) bool {
	if i < 0 || i >= len(m.Meshes) {
		return false
	}
	m.Meshes = append(m.Meshes[:i], m.Meshes[i+1:]...)
	return true
}

// Stats summarizes a model.
type Stats struct {
	Meshes   int
	Vertices int
	Faces    int
	// FaceColors counts faces per palette color.
	FaceColors [PaletteSize]int
	// Flagged counts faces carrying each flag.
	Flagged map[FaceFlags]int
}

// Stats walks the model and counts its parts.
func (m *Model) Stats() Stats {
	s := Stats{Meshes: len(m.Meshes), Flagged: make(map[FaceFlags]int)}
	for _, mesh := range m.Meshes {
		s.Vertices += len(mesh.Vertices)
		s.Faces += len(mesh.Faces)
		for _, f := range mesh.Faces {
			if f.Color.Valid() {
				s.FaceColors[f.Color]++
			}
			for _, fk := range flagKeys {
				if f.Flags.Has(fk.flag) {
					s.Flagged[fk.flag]++
				}
			}
		}
	}
	return s
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	out := &Model{Header: m.Header}
	if m.Texture != nil {
		tex := *m.Texture
		out.Texture = &tex
	}
	if m.Meshes != nil {
		out.Meshes = make([]*Mesh, len(m.Meshes))
		for i, mesh := range m.Meshes {
			out.Meshes[i] = mesh.Clone()
		}
	}
	return out
}
