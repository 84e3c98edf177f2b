package picocad

import (
	"errors"
	gomath "math"
	"strings"
	"testing"

	"github.com/Faultbox/picocad-tools/pkg/math"
)

func validTriangle() *Model {
	m := NewModel()
	mesh := NewMesh("tri")
	mesh.Vertices = []math.Vec3{{}, {X: 1}, {Z: 1}}
	mesh.AddFace(NewFace(Green, 0, 1, 2))
	m.AddMesh(mesh)
	return m
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validTriangle()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Validate(NewModel()); err != nil {
		t.Errorf("expected an empty model to be valid, got %v", err)
	}
}

func TestValidate_Findings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Model)
		path   string
		err    error
	}{
		{
			name:   "index out of range",
			mutate: func(m *Model) { m.Meshes[0].Faces[0].Vertices[1] = 3 },
			path:   "meshes[0].faces[0].vertices[1]",
			err:    ErrVertexIndexOutOfRange,
		},
		{
			name:   "negative index",
			mutate: func(m *Model) { m.Meshes[0].Faces[0].Vertices[0] = -1 },
			path:   "meshes[0].faces[0].vertices[0]",
			err:    ErrVertexIndexOutOfRange,
		},
		{
			name:   "uv count",
			mutate: func(m *Model) { m.Meshes[0].Faces[0].UV = m.Meshes[0].Faces[0].UV[:2] },
			path:   "meshes[0].faces[0].uv",
			err:    ErrUVCountMismatch,
		},
		{
			name:   "face color",
			mutate: func(m *Model) { m.Meshes[0].Faces[0].Color = Color(16) },
			path:   "meshes[0].faces[0].color",
			err:    ErrInvalidColorCode,
		},
		{
			name:   "background color",
			mutate: func(m *Model) { m.Header.Background = Color(200) },
			path:   "background",
			err:    ErrInvalidColorCode,
		},
		{
			name:   "non-finite vertex",
			mutate: func(m *Model) { m.Meshes[0].Vertices[2].Y = gomath.NaN() },
			path:   "meshes[0].vertices[2]",
			err:    ErrNonFinite,
		},
		{
			name:   "non-finite uv",
			mutate: func(m *Model) { m.Meshes[0].Faces[0].UV[0].U = gomath.Inf(1) },
			path:   "meshes[0].faces[0].uv[0]",
			err:    ErrNonFinite,
		},
		{
			name:   "infinite global scale",
			mutate: func(m *Model) { m.Header.Scale.X = gomath.Inf(-1) },
			path:   "scale",
			err:    ErrNonFinite,
		},
		{
			name:   "header name",
			mutate: func(m *Model) { m.Header.Name = "a;b" },
			path:   "name",
			err:    ErrInvalidName,
		},
		{
			name:   "mesh name",
			mutate: func(m *Model) { m.Meshes[0].Name = "two\nlines" },
			path:   "meshes[0].name",
			err:    ErrInvalidName,
		},
		{
			name:   "mesh name trailing backslash",
			mutate: func(m *Model) { m.Meshes[0].Name = `C:\` },
			path:   "meshes[0].name",
			err:    ErrInvalidName,
		},
		{
			name:   "mesh name doubled trailing backslash",
			mutate: func(m *Model) { m.Meshes[0].Name = `a\\` },
			path:   "meshes[0].name",
			err:    ErrInvalidName,
		},
		{
			name:   "texel color",
			mutate: func(m *Model) { m.Texture.Set(4, 2, Color(17)) },
			path:   "texture[2][4]",
			err:    ErrInvalidColorCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validTriangle()
			tt.mutate(m)

			err := Validate(m)
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if len(verrs) != 1 {
				t.Fatalf("expected 1 finding, got %d: %v", len(verrs), err)
			}
			if verrs[0].Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, verrs[0].Path)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestValidate_Degenerate(t *testing.T) {
	m := validTriangle()
	m.Meshes[0].AddFace(NewFace(Red, 0, 1))

	err := Validate(m)
	if !errors.Is(err, ErrDegenerateFace) {
		t.Fatalf("expected ErrDegenerateFace, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "meshes[0].faces[1]" {
		t.Errorf("expected finding at meshes[0].faces[1], got %v", verr)
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	m := validTriangle()
	face := &m.Meshes[0].Faces[0]
	face.Vertices = append(face.Vertices, 7)
	face.Color = Color(30)

	err := Validate(m)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 3 {
		t.Fatalf("expected 3 findings, got %d: %v", len(verrs), err)
	}
	if !strings.HasPrefix(err.Error(), "3 validation errors:") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidate_CapsTextureFindings(t *testing.T) {
	m := NewModel()
	m.Texture.Fill(Color(20))

	var verrs ValidationErrors
	if !errors.As(Validate(m), &verrs) {
		t.Fatal("expected ValidationErrors")
	}
	if len(verrs) != maxTextureFindings {
		t.Errorf("expected %d findings, got %d", maxTextureFindings, len(verrs))
	}
}
