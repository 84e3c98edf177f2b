package picocad

import (
	gomath "math"
	"strings"

	"github.com/Faultbox/picocad-tools/pkg/math"
)

// Texture dimensions in texels.
const (
	TextureWidth  = 128
	TextureHeight = 120
	TextureSize   = TextureWidth * TextureHeight
)

// uvScale converts UV units to texels.
const uvScale = 8

// Texture is the project's 128x120 paletted texture, stored row-major.
type Texture struct {
	Texels [TextureSize]Color
}

// NewTexture returns a texture filled with c.
func NewTexture(c Color) *Texture {
	t := &Texture{}
	t.Fill(c)
	return t
}

func inBounds(x, y int) bool {
	return x >= 0 && x < TextureWidth && y >= 0 && y < TextureHeight
}

// At returns the texel at column x, row y. ok is false outside the texture.
func (t *Texture) At(x, y int) (c Color, ok bool) {
	if !inBounds(x, y) {
		return 0, false
	}
	return t.Texels[y*TextureWidth+x], true
}

// Set stores c at column x, row y. It reports whether the texel exists.
func (t *Texture) Set(x, y int, c Color) bool {
	if !inBounds(x, y) {
		return false
	}
	t.Texels[y*TextureWidth+x] = c
	return true
}

// Fill sets every texel to c.
func (t *Texture) Fill(c Color) {
	for i := range t.Texels {
		t.Texels[i] = c
	}
}

// Sample returns the texel a UV coordinate lands on, rounding to the nearest
// texel. ok is false when uv falls outside the texture.
func (t *Texture) Sample(uv math.Vec2) (c Color, ok bool) {
	const half = 0.5 / uvScale
	maxU := float64(TextureWidth)/uvScale - half
	maxV := float64(TextureHeight)/uvScale - half
	if uv.U < -half || uv.U >= maxU || uv.V < -half || uv.V >= maxV {
		return 0, false
	}
	return t.At(int(gomath.Round(uv.U*uvScale)), int(gomath.Round(uv.V*uvScale)))
}

// IsSolid reports whether every texel has the same color.
func (t *Texture) IsSolid() bool {
	first := t.Texels[0]
	for _, c := range t.Texels[1:] {
		if c != first {
			return false
		}
	}
	return true
}

// Histogram counts texels per color.
func (t *Texture) Histogram() [PaletteSize]int {
	var counts [PaletteSize]int
	for _, c := range t.Texels {
		if c.Valid() {
			counts[c]++
		}
	}
	return counts
}

// encode writes the texture as rows of hex digits, one row per line.
func (t *Texture) encode(sb *strings.Builder) {
	for y := 0; y < TextureHeight; y++ {
		for _, c := range t.Texels[y*TextureWidth : (y+1)*TextureWidth] {
			sb.WriteByte(c.Char())
		}
		sb.WriteByte('\n')
	}
}
