package picocad

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/picocad-tools/pkg/luatab"
	"github.com/Faultbox/picocad-tools/pkg/math"
)

// Table keys used by picoCAD.
const (
	keyName       = "name"
	keyZoom       = "zoom"
	keyBackground = "bg"
	keyAlpha      = "alpha"
	keyPosition   = "pos"
	keyRotation   = "rot"
	keyScale      = "scale"
	keyVertices   = "v"
	keyFaces      = "f"
	keyColor      = "c"
	keyUV         = "uv"
)

// Build converts a parsed value tree into a Model. The root table carries
// the header fields (name, zoom, bg, alpha), an optional global pos, rot and
// scale, and one positional table per mesh. The returned model has a blank
// texture; Decode fills it from the file footer.
//
// Build checks shapes and types only. Vertex index ranges and UV counts are
// left to Validate.
func Build(root luatab.Value) (*Model, error) {
	t, ok := root.(*luatab.Table)
	if !ok {
		return nil, wrongType("", "table", root)
	}

	header, err := buildHeader(t)
	if err != nil {
		return nil, err
	}

	model := &Model{Header: header, Texture: NewTexture(Black)}
	for i, v := range t.Positional() {
		mesh, err := buildMesh(v, fmt.Sprintf("meshes[%d]", i))
		if err != nil {
			return nil, err
		}
		model.Meshes = append(model.Meshes, mesh)
	}
	return model, nil
}

func buildHeader(t *luatab.Table) (Header, error) {
	h := DefaultHeader()

	v, ok := t.Get(keyName)
	if !ok {
		return h, missing("name")
	}
	name, err := asString(v, "name")
	if err != nil {
		return h, err
	}
	h.Name = name

	if v, ok := t.Get(keyZoom); ok {
		if h.Zoom, err = asInt(v, "zoom"); err != nil {
			return h, err
		}
	}

	v, ok = t.Get(keyBackground)
	if !ok {
		return h, missing("background")
	}
	if h.Background, err = asColor(v, "background"); err != nil {
		return h, err
	}

	if v, ok := t.Get(keyAlpha); ok {
		if h.Alpha, err = asColor(v, "alpha"); err != nil {
			return h, err
		}
	}

	if h.Position, err = optVec3(t, keyPosition, "position", h.Position); err != nil {
		return h, err
	}
	if h.Rotation, err = optVec3(t, keyRotation, "rotation", h.Rotation); err != nil {
		return h, err
	}
	if h.Scale, err = optVec3(t, keyScale, "scale", h.Scale); err != nil {
		return h, err
	}
	return h, nil
}

func buildMesh(v luatab.Value, path string) (*Mesh, error) {
	t, ok := v.(*luatab.Table)
	if !ok {
		return nil, wrongType(path, "table", v)
	}

	nv, ok := t.Get(keyName)
	if !ok {
		return nil, missing(path + ".name")
	}
	name, err := asString(nv, path+".name")
	if err != nil {
		return nil, err
	}
	mesh := NewMesh(name)

	if mesh.Position, err = optVec3(t, keyPosition, path+".position", mesh.Position); err != nil {
		return nil, err
	}
	if mesh.Rotation, err = optVec3(t, keyRotation, path+".rotation", mesh.Rotation); err != nil {
		return nil, err
	}
	if mesh.Scale, err = optVec3(t, keyScale, path+".scale", mesh.Scale); err != nil {
		return nil, err
	}

	if vv, ok := t.Get(keyVertices); ok {
		if mesh.Vertices, err = buildVertices(vv, path+".vertices"); err != nil {
			return nil, err
		}
	}

	if fv, ok := t.Get(keyFaces); ok {
		faces, ok := luatab.Elements(fv)
		if !ok {
			return nil, wrongType(path+".faces", "table", fv)
		}
		mesh.Faces = make([]Face, 0, len(faces))
		for i, f := range faces {
			face, err := buildFace(f, fmt.Sprintf("%s.faces[%d]", path, i))
			if err != nil {
				return nil, err
			}
			mesh.Faces = append(mesh.Faces, face)
		}
	}
	return mesh, nil
}

// buildVertices accepts both {{x,y,z},...} and a flat {x,y,z,x,y,z,...}.
func buildVertices(v luatab.Value, path string) ([]math.Vec3, error) {
	elems, ok := luatab.Elements(v)
	if !ok {
		return nil, wrongType(path, "table", v)
	}

	verts := make([]math.Vec3, 0, len(elems))
	var flat []float64
	for _, e := range elems {
		elemPath := fmt.Sprintf("%s[%d]", path, len(verts))
		if n, ok := e.(luatab.Number); ok {
			flat = append(flat, float64(n))
			if len(flat) == 3 {
				verts = append(verts, math.Vec3{X: flat[0], Y: flat[1], Z: flat[2]})
				flat = flat[:0]
			}
			continue
		}
		if len(flat) > 0 {
			return nil, &BuildError{
				Path:   elemPath,
				Reason: "vertex list mixes bare numbers and tables",
				Err:    ErrWrongType,
			}
		}
		vec, err := asVec3(e, elemPath)
		if err != nil {
			return nil, err
		}
		verts = append(verts, vec)
	}
	if len(flat) > 0 {
		return nil, &BuildError{
			Path:   path,
			Reason: fmt.Sprintf("vertex list ends with %d dangling coordinate(s)", len(flat)),
			Err:    ErrIncompleteList,
		}
	}
	return verts, nil
}

func buildFace(v luatab.Value, path string) (Face, error) {
	t, ok := v.(*luatab.Table)
	if !ok {
		return Face{}, wrongType(path, "table", v)
	}

	indices := t.Positional()
	face := Face{Vertices: make([]int, len(indices))}
	for i, e := range indices {
		n, err := asInt(e, fmt.Sprintf("%s.vertices[%d]", path, i))
		if err != nil {
			return Face{}, err
		}
		face.Vertices[i] = n - 1
	}

	c, ok := t.Get(keyColor)
	if !ok {
		return Face{}, missing(path + ".color")
	}
	var err error
	if face.Color, err = asColor(c, path+".color"); err != nil {
		return Face{}, err
	}

	face.Flags = decodeFlags(t)

	if uv, ok := t.Get(keyUV); ok {
		if face.UV, err = buildUV(uv, path+".uv"); err != nil {
			return Face{}, err
		}
	}
	return face, nil
}

func buildUV(v luatab.Value, path string) ([]math.Vec2, error) {
	elems, ok := luatab.Elements(v)
	if !ok {
		return nil, wrongType(path, "table", v)
	}
	if len(elems)%2 != 0 {
		return nil, &BuildError{
			Path:   path,
			Reason: fmt.Sprintf("odd number of uv coordinates (%d)", len(elems)),
			Err:    ErrIncompleteList,
		}
	}

	uvs := make([]math.Vec2, len(elems)/2)
	for i := range uvs {
		u, err := asNumber(elems[2*i], fmt.Sprintf("%s[%d].u", path, i))
		if err != nil {
			return nil, err
		}
		w, err := asNumber(elems[2*i+1], fmt.Sprintf("%s[%d].v", path, i))
		if err != nil {
			return nil, err
		}
		uvs[i] = math.Vec2{U: u, V: w}
	}
	return uvs, nil
}

func asNumber(v luatab.Value, path string) (float64, error) {
	n, ok := v.(luatab.Number)
	if !ok {
		return 0, wrongType(path, "number", v)
	}
	return float64(n), nil
}

func asInt(v luatab.Value, path string) (int, error) {
	f, err := asNumber(v, path)
	if err != nil {
		return 0, err
	}
	if f != gomath.Trunc(f) || f > gomath.MaxInt32 || f < gomath.MinInt32 {
		return 0, &BuildError{
			Path:   path,
			Reason: "expected integer, got " + luatab.FormatNumber(f),
			Err:    ErrWrongType,
		}
	}
	return int(f), nil
}

func asString(v luatab.Value, path string) (string, error) {
	s, ok := v.(luatab.String)
	if !ok {
		return "", wrongType(path, "string", v)
	}
	return string(s), nil
}

func asColor(v luatab.Value, path string) (Color, error) {
	code, err := asInt(v, path)
	if err != nil {
		return 0, err
	}
	c, err := ColorFromCode(code)
	if err != nil {
		return 0, &BuildError{
			Path:   path,
			Reason: fmt.Sprintf("color code %d outside the palette", code),
			Err:    ErrInvalidColorCode,
		}
	}
	return c, nil
}

func asVec3(v luatab.Value, path string) (math.Vec3, error) {
	elems, ok := luatab.Elements(v)
	if !ok {
		return math.Vec3{}, wrongType(path, "table", v)
	}
	if len(elems) != 3 {
		return math.Vec3{}, &BuildError{
			Path:   path,
			Reason: fmt.Sprintf("expected 3 numbers, got %d", len(elems)),
			Err:    ErrWrongType,
		}
	}

	var c [3]float64
	for i, e := range elems {
		n, err := asNumber(e, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return math.Vec3{}, err
		}
		c[i] = n
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func optVec3(t *luatab.Table, key, path string, def math.Vec3) (math.Vec3, error) {
	v, ok := t.Get(key)
	if !ok {
		return def, nil
	}
	return asVec3(v, path)
}
