package picocad

import (
	"strconv"
	"strings"

	"github.com/Faultbox/picocad-tools/pkg/luatab"
	"github.com/Faultbox/picocad-tools/pkg/math"
)

// headerLineKeys are the root keys that live on the header line in files.
var headerLineKeys = []string{keyName, keyZoom, keyBackground, keyAlpha}

// ToValue converts m into the value tree Build accepts. The global transform
// keys are present only when they differ from the identity.
func ToValue(m *Model) *luatab.Table {
	h := m.Header
	root := &luatab.Table{Multiline: true}
	root.Set(keyName, luatab.String(h.Name))
	root.Set(keyZoom, luatab.Number(h.Zoom))
	root.Set(keyBackground, luatab.Number(h.Background.Code()))
	root.Set(keyAlpha, luatab.Number(h.Alpha.Code()))
	if !h.Position.IsZero() {
		root.Set(keyPosition, vec3Value(h.Position))
	}
	if !h.Rotation.IsZero() {
		root.Set(keyRotation, vec3Value(h.Rotation))
	}
	if h.Scale != math.One {
		root.Set(keyScale, vec3Value(h.Scale))
	}

	for _, mesh := range m.Meshes {
		root.Append(meshValue(mesh))
	}
	return root
}

func meshValue(mesh *Mesh) *luatab.Table {
	t := &luatab.Table{Multiline: true}
	t.Set(keyName, luatab.String(mesh.Name))
	t.Set(keyPosition, vec3Value(mesh.Position))
	t.Set(keyRotation, vec3Value(mesh.Rotation))
	if mesh.Scale != math.One {
		t.Set(keyScale, vec3Value(mesh.Scale))
	}

	verts := &luatab.Array{Multiline: true, Elems: make([]luatab.Value, len(mesh.Vertices))}
	for i, v := range mesh.Vertices {
		verts.Elems[i] = vec3Value(v)
	}
	t.Set(keyVertices, verts)

	faces := &luatab.Array{Multiline: true, Elems: make([]luatab.Value, len(mesh.Faces))}
	for i := range mesh.Faces {
		faces.Elems[i] = faceValue(&mesh.Faces[i])
	}
	t.Set(keyFaces, faces)
	return t
}

func faceValue(f *Face) *luatab.Table {
	t := &luatab.Table{}
	for _, idx := range f.Vertices {
		t.Append(luatab.Number(idx + 1))
	}
	t.Set(keyColor, luatab.Number(f.Color.Code()))
	encodeFlags(t, f.Flags)

	uv := &luatab.Array{Elems: make([]luatab.Value, 0, 2*len(f.UV))}
	for _, c := range f.UV {
		uv.Elems = append(uv.Elems, luatab.Number(c.U), luatab.Number(c.V))
	}
	t.Set(keyUV, uv)
	return t
}

func vec3Value(v math.Vec3) *luatab.Array {
	return luatab.Numbers(v.X, v.Y, v.Z)
}

// Encode renders m as picoCAD file text: the header line, the mesh table, a
// '%' separator and the texture. Encode never fails; Validate reports models
// picoCAD would reject. Such output may not decode either: non-finite numbers
// are written as 0/0 and 1/0, and a mesh name ending in a backslash escapes
// its closing quote.
func Encode(m *Model) string {
	var sb strings.Builder
	sb.WriteString(formatHeaderLine(m.Header))
	sb.WriteByte('\n')

	root := ToValue(m)
	for _, key := range headerLineKeys {
		root.Delete(key)
	}
	writeBody(&sb, root)
	sb.WriteString("%\n")

	tex := m.Texture
	if tex == nil {
		tex = NewTexture(Black)
	}
	tex.encode(&sb)
	return sb.String()
}

// writeBody writes the root table with meshes flush left and joined by
// commas, which is how picoCAD lays out its files.
func writeBody(sb *strings.Builder, root *luatab.Table) {
	sb.WriteString("{\n")

	var keyed, meshes []string
	for _, e := range root.Entries() {
		if e.Positional() {
			meshes = append(meshes, luatab.Format(e.Value))
		} else {
			keyed = append(keyed, e.Key+"="+luatab.Format(e.Value))
		}
	}

	if len(keyed) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(keyed, ", "))
		if len(meshes) > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Join(meshes, ","))
	sb.WriteString("\n}")
}

// headerSanitizer replaces the characters that would break the header line.
var headerSanitizer = strings.NewReplacer(";", "_", "\n", "_", "\r", "_")

func formatHeaderLine(h Header) string {
	return strings.Join([]string{
		headerIdent,
		headerSanitizer.Replace(h.Name),
		strconv.Itoa(h.Zoom),
		strconv.Itoa(h.Background.Code()),
		strconv.Itoa(h.Alpha.Code()),
	}, ";")
}
