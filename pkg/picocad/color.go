package picocad

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidColorCode is returned for a palette code outside 0..15.
var ErrInvalidColorCode = errors.New("invalid color code")

// Color is an entry of the 16-color PICO-8 palette. The numeric value is the
// code picoCAD writes to files.
type Color uint8

// Palette colors in code order.
const (
	Black Color = iota
	DarkBlue
	DarkPurple
	DarkGreen
	Brown
	DarkGrey
	LightGrey
	White
	Red
	Orange
	Yellow
	Green
	Blue
	Lavender
	Pink
	LightPeach
)

// PaletteSize is the number of palette colors.
const PaletteSize = 16

type paletteEntry struct {
	name       string
	rgb        [3]uint8
	shadow     Color // fully shadowed
	transition Color // halfway into shadow
}

// palette is indexed by color code and must match picoCAD exactly.
var palette = [PaletteSize]paletteEntry{
	Black:      {"black", [3]uint8{0, 0, 0}, Black, Black},
	DarkBlue:   {"dark_blue", [3]uint8{29, 43, 83}, Black, Black},
	DarkPurple: {"dark_purple", [3]uint8{126, 37, 83}, Black, DarkBlue},
	DarkGreen:  {"dark_green", [3]uint8{0, 135, 81}, DarkBlue, DarkGrey},
	Brown:      {"brown", [3]uint8{171, 82, 54}, DarkBlue, DarkPurple},
	DarkGrey:   {"dark_grey", [3]uint8{95, 87, 79}, Black, DarkBlue},
	LightGrey:  {"light_grey", [3]uint8{194, 195, 199}, DarkGrey, Lavender},
	White:      {"white", [3]uint8{255, 241, 232}, Lavender, LightGrey},
	Red:        {"red", [3]uint8{255, 0, 77}, DarkBlue, DarkPurple},
	Orange:     {"orange", [3]uint8{255, 163, 0}, DarkPurple, Brown},
	Yellow:     {"yellow", [3]uint8{255, 236, 39}, Brown, Orange},
	Green:      {"green", [3]uint8{0, 228, 54}, DarkBlue, DarkGreen},
	Blue:       {"blue", [3]uint8{41, 173, 255}, DarkGrey, Lavender},
	Lavender:   {"lavender", [3]uint8{131, 118, 156}, DarkBlue, DarkGrey},
	Pink:       {"pink", [3]uint8{255, 119, 168}, DarkPurple, Red},
	LightPeach: {"light_peach", [3]uint8{255, 204, 170}, Brown, Orange},
}

// ColorFromCode returns the palette color for code.
func ColorFromCode(code int) (Color, error) {
	if code < 0 || code >= PaletteSize {
		return 0, fmt.Errorf("%w: %d", ErrInvalidColorCode, code)
	}
	return Color(code), nil
}

// Code returns the palette code written to files.
func (c Color) Code() int {
	return int(c)
}

// Valid reports whether c is one of the 16 palette colors.
func (c Color) Valid() bool {
	return c < PaletteSize
}

// String returns the snake_case color name.
func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
	return palette[c].name
}

// ParseColor accepts a color name (case-insensitive, '-', ' ' or '_'
// separated) or a decimal code.
func ParseColor(s string) (Color, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for code, e := range palette {
		if e.name == norm {
			return Color(code), nil
		}
	}

	var code int
	if _, err := fmt.Sscanf(norm, "%d", &code); err == nil && fmt.Sprint(code) == norm {
		return ColorFromCode(code)
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidColorCode, s)
}

// RGB returns the color's red, green and blue components.
func (c Color) RGB() (r, g, b uint8) {
	if !c.Valid() {
		return 0, 0, 0
	}
	rgb := palette[c].rgb
	return rgb[0], rgb[1], rgb[2]
}

// Hex returns the color as an upper-case RRGGBB string without '#'.
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

// Char returns the lower-case hex digit used for the color in textures.
func (c Color) Char() byte {
	const digits = "0123456789abcdef"
	if !c.Valid() {
		return '0'
	}
	return digits[c]
}

// ColorFromChar decodes a texture digit. Only 0-9 and lower-case a-f are
// accepted, matching what picoCAD writes.
func ColorFromChar(ch byte) (Color, error) {
	switch {
	case ch >= '0' && ch <= '9':
		return Color(ch - '0'), nil
	case ch >= 'a' && ch <= 'f':
		return Color(ch-'a') + 10, nil
	default:
		return 0, fmt.Errorf("%w: texture digit %q", ErrInvalidColorCode, ch)
	}
}

// Shadow returns the color picoCAD draws for c on a fully shaded face.
func (c Color) Shadow() Color {
	if !c.Valid() {
		return c
	}
	return palette[c].shadow
}

// ShadowTransition returns the intermediate color between c and its shadow.
func (c Color) ShadowTransition() Color {
	if !c.Valid() {
		return c
	}
	return palette[c].transition
}
