package picocad

import (
	"strings"

	"github.com/Faultbox/picocad-tools/pkg/luatab"
	"github.com/Faultbox/picocad-tools/pkg/math"
)

// FaceFlags holds the per-face rendering toggles as a bitmask.
type FaceFlags uint8

// Face flags.
const (
	FlagDoubleSided    FaceFlags = 1 << iota // dbl
	FlagNoShading                            // noshade
	FlagNoTexture                            // notex
	FlagRenderPriority                       // prio
)

// flagKeys maps each flag to its table key, in output order.
var flagKeys = []struct {
	flag FaceFlags
	key  string
}{
	{FlagDoubleSided, "dbl"},
	{FlagNoShading, "noshade"},
	{FlagNoTexture, "notex"},
	{FlagRenderPriority, "prio"},
}

// Has reports whether every flag in mask is set.
func (f FaceFlags) Has(mask FaceFlags) bool {
	return f&mask == mask
}

// With returns f with mask set.
func (f FaceFlags) With(mask FaceFlags) FaceFlags {
	return f | mask
}

// Without returns f with mask cleared.
func (f FaceFlags) Without(mask FaceFlags) FaceFlags {
	return f &^ mask
}

// String lists the set flags by their file keys, e.g. "dbl|notex".
func (f FaceFlags) String() string {
	var names []string
	for _, fk := range flagKeys {
		if f.Has(fk.flag) {
			names = append(names, fk.key)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// decodeFlags reads the flags of a face table. A flag is set when its key is
// present with any value other than false.
func decodeFlags(t *luatab.Table) FaceFlags {
	var flags FaceFlags
	for _, fk := range flagKeys {
		if v, ok := t.Get(fk.key); ok && v != luatab.Boolean(false) {
			flags |= fk.flag
		}
	}
	return flags
}

// encodeFlags writes the set flags as key=1. Cleared flags are omitted.
func encodeFlags(t *luatab.Table, flags FaceFlags) {
	for _, fk := range flagKeys {
		if flags.Has(fk.flag) {
			t.Set(fk.key, luatab.Number(1))
		}
	}
}

// Face is a polygon of a mesh. Vertices holds 0-based indices into the
// mesh's vertex list and UV holds one texture coordinate per vertex.
type Face struct {
	Vertices []int
	Color    Color
	Flags    FaceFlags
	UV       []math.Vec2
}

// NewFace creates a face over the given vertex indices with zeroed UVs.
func NewFace(color Color, vertices ...int) Face {
	return Face{
		Vertices: vertices,
		Color:    color,
		UV:       make([]math.Vec2, len(vertices)),
	}
}

// DoubleSided reports whether the face is drawn from both sides.
func (f *Face) DoubleSided() bool { return f.Flags.Has(FlagDoubleSided) }

// NoShading reports whether lighting is skipped for the face.
func (f *Face) NoShading() bool { return f.Flags.Has(FlagNoShading) }

// NoTexture reports whether the face is drawn in its flat color.
func (f *Face) NoTexture() bool { return f.Flags.Has(FlagNoTexture) }

// RenderPriority reports whether the face is drawn first.
func (f *Face) RenderPriority() bool { return f.Flags.Has(FlagRenderPriority) }

// SetFlag sets or clears mask.
func (f *Face) SetFlag(mask FaceFlags, on bool) {
	if on {
		f.Flags = f.Flags.With(mask)
	} else {
		f.Flags = f.Flags.Without(mask)
	}
}

// Clone returns a deep copy of the face.
func (f Face) Clone() Face {
	out := f
	out.Vertices = append([]int(nil), f.Vertices...)
	out.UV = append([]math.Vec2(nil), f.UV...)
	return out
}
