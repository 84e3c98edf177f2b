package picocad

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/picocad-tools/pkg/luatab"
)

const (
	headerIdent  = "picocad"
	headerFields = 5
	footerSep    = '%'
)

// DecodeOptions controls Decode.
type DecodeOptions struct {
	// Validate runs Validate on the built model and fails on any finding.
	Validate bool
}

// Decode parses picoCAD file text into a Model.
func Decode(text string) (*Model, error) {
	return DecodeWithOptions(text, DecodeOptions{})
}

// DecodeWithOptions parses picoCAD file text into a Model.
//
// The text is split into the header line, the mesh table and the texture
// footer after the last '%'. The header fields are merged into the parsed
// root table so that Build sees a single tree. Lex and parse errors report
// positions within the whole file. A missing footer yields a black texture.
func DecodeWithOptions(text string, opts DecodeOptions) (*Model, error) {
	headerLine, rest, _ := strings.Cut(text, "\n")
	headerEntries, err := parseHeaderLine(strings.TrimRight(headerLine, "\r"))
	if err != nil {
		return nil, err
	}

	body, footer := rest, ""
	if i := strings.LastIndexByte(rest, footerSep); i >= 0 {
		body, footer = rest[:i], rest[i+1:]
	}

	start := luatab.Position{Offset: len(headerLine) + 1, Line: 2, Col: 1}
	tokens, err := luatab.TokenizeFrom(body, start)
	if err != nil {
		return nil, err
	}
	value, err := luatab.Parse(tokens)
	if err != nil {
		return nil, err
	}
	root, ok := value.(*luatab.Table)
	if !ok {
		return nil, wrongType("", "table", value)
	}
	for _, e := range headerEntries {
		root.Set(e.Key, e.Value)
	}

	model, err := Build(root)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(footer) != "" {
		if model.Texture, err = decodeTexture(footer); err != nil {
			return nil, err
		}
	}

	if opts.Validate {
		if err := Validate(model); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// parseHeaderLine turns "picocad;name;zoom;bg;alpha" into root entries.
func parseHeaderLine(line string) ([]luatab.Entry, error) {
	fields := strings.Split(line, ";")
	if fields[0] != headerIdent {
		return nil, &BuildError{
			Path:   "header",
			Reason: fmt.Sprintf("identifier is %q, expected %q", fields[0], headerIdent),
			Err:    ErrNotProject,
		}
	}
	if len(fields) != headerFields {
		return nil, &BuildError{
			Path:   "header",
			Reason: fmt.Sprintf("found %d fields, expected %d", len(fields), headerFields),
			Err:    ErrMalformedHeader,
		}
	}

	entries := []luatab.Entry{{Key: keyName, Value: luatab.String(fields[1])}}
	numeric := []struct{ key, path string }{
		{keyZoom, "zoom"},
		{keyBackground, "background"},
		{keyAlpha, "alpha"},
	}
	for i, f := range numeric {
		raw := strings.TrimSpace(fields[2+i])
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &BuildError{
				Path:   f.path,
				Reason: fmt.Sprintf("header field %q is not a number", raw),
				Err:    ErrMalformedHeader,
			}
		}
		entries = append(entries, luatab.Entry{Key: f.key, Value: luatab.Number(n)})
	}
	return entries, nil
}

// decodeTexture reads the footer digits, ignoring whitespace.
func decodeTexture(footer string) (*Texture, error) {
	tex := &Texture{}
	n := 0
	for i := 0; i < len(footer); i++ {
		ch := footer[i]
		switch ch {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if n < TextureSize {
			c, err := ColorFromChar(ch)
			if err != nil {
				return nil, &BuildError{
					Path:   fmt.Sprintf("texture[%d][%d]", n/TextureWidth, n%TextureWidth),
					Reason: fmt.Sprintf("invalid texture digit %q", ch),
					Err:    ErrInvalidColorCode,
				}
			}
			tex.Texels[n] = c
		}
		n++
	}

	if n != TextureSize {
		return nil, &BuildError{
			Path:   "texture",
			Reason: fmt.Sprintf("found %d texels, expected %d", n, TextureSize),
			Err:    ErrTextureSize,
		}
	}
	return tex, nil
}
