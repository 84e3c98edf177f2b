package picocad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/picocad-tools/pkg/math"
)

// Validation errors. A *ValidationError wraps one of these or
// ErrInvalidColorCode.
var (
	ErrVertexIndexOutOfRange = errors.New("vertex index out of range")
	ErrUVCountMismatch       = errors.New("uv count does not match vertex count")
	ErrDegenerateFace        = errors.New("face has fewer than 3 vertices")
	ErrNonFinite             = errors.New("non-finite coordinate")
	ErrInvalidName           = errors.New("name contains a forbidden character")
)

// maxTextureFindings caps texel reports so a corrupt texture does not
// produce thousands of errors.
const maxTextureFindings = 8

// ValidationError is a single finding of Validate.
type ValidationError struct {
	Path   string
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	msg := e.Path + ": " + e.Err.Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every finding of Validate in model order.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  %s", len(es), strings.Join(lines, "\n  "))
}

// Unwrap exposes each finding to errors.Is and errors.As.
func (es ValidationErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

type validator struct {
	errs ValidationErrors
}

func (v *validator) add(path string, err error, detail string) {
	v.errs = append(v.errs, &ValidationError{Path: path, Err: err, Detail: detail})
}

func (v *validator) vec3(path string, vec math.Vec3) {
	if !vec.IsFinite() {
		v.add(path, ErrNonFinite, fmt.Sprintf("%v", vec))
	}
}

func (v *validator) color(path string, c Color) {
	if !c.Valid() {
		v.add(path, ErrInvalidColorCode, fmt.Sprintf("code %d", c.Code()))
	}
}

// Validate checks the invariants Build leaves open: vertex indices in range,
// one UV per vertex, palette colors, at least three vertices per face, finite
// coordinates and names that survive a save. It returns nil or
// ValidationErrors.
func Validate(m *Model) error {
	v := &validator{}

	h := m.Header
	if strings.ContainsAny(h.Name, ";\r\n") {
		v.add("name", ErrInvalidName, fmt.Sprintf("%q", h.Name))
	}
	v.color("background", h.Background)
	v.color("alpha", h.Alpha)
	v.vec3("position", h.Position)
	v.vec3("rotation", h.Rotation)
	v.vec3("scale", h.Scale)

	for i, mesh := range m.Meshes {
		v.mesh(fmt.Sprintf("meshes[%d]", i), mesh)
	}

	if m.Texture != nil {
		found := 0
		for i, c := range m.Texture.Texels {
			if c.Valid() {
				continue
			}
			if found == maxTextureFindings {
				break
			}
			v.color(fmt.Sprintf("texture[%d][%d]", i/TextureWidth, i%TextureWidth), c)
			found++
		}
	}

	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func (v *validator) mesh(path string, mesh *Mesh) {
	// A trailing backslash would escape the closing quote.
	if strings.ContainsAny(mesh.Name, "\r\n") || strings.HasSuffix(mesh.Name, `\`) {
		v.add(path+".name", ErrInvalidName, fmt.Sprintf("%q", mesh.Name))
	}
	v.vec3(path+".position", mesh.Position)
	v.vec3(path+".rotation", mesh.Rotation)
	v.vec3(path+".scale", mesh.Scale)
	for i, vert := range mesh.Vertices {
		v.vec3(fmt.Sprintf("%s.vertices[%d]", path, i), vert)
	}

	for i := range mesh.Faces {
		f := &mesh.Faces[i]
		fpath := fmt.Sprintf("%s.faces[%d]", path, i)

		if len(f.Vertices) < 3 {
			v.add(fpath, ErrDegenerateFace, fmt.Sprintf("%d vertices", len(f.Vertices)))
		}
		for j, idx := range f.Vertices {
			if idx < 0 || idx >= len(mesh.Vertices) {
				v.add(fmt.Sprintf("%s.vertices[%d]", fpath, j), ErrVertexIndexOutOfRange,
					fmt.Sprintf("index %d, mesh has %d vertices", idx+1, len(mesh.Vertices)))
			}
		}
		if len(f.UV) != len(f.Vertices) {
			v.add(fpath+".uv", ErrUVCountMismatch,
				fmt.Sprintf("%d vertices, %d uv pairs", len(f.Vertices), len(f.UV)))
		}
		for j, uv := range f.UV {
			if !uv.IsFinite() {
				v.add(fmt.Sprintf("%s.uv[%d]", fpath, j), ErrNonFinite, fmt.Sprintf("%v", uv))
			}
		}
		v.color(fpath+".color", f.Color)
	}
}
