package picocad

import (
	"errors"
	"fmt"

	"github.com/Faultbox/picocad-tools/pkg/luatab"
)

// Decode errors. A *BuildError wraps one of these.
var (
	ErrNotProject      = errors.New("not a picoCAD project")
	ErrMalformedHeader = errors.New("malformed header line")
	ErrMissingField    = errors.New("missing required field")
	ErrWrongType       = errors.New("wrong value type")
	ErrIncompleteList  = errors.New("incomplete coordinate list")
	ErrTextureSize     = errors.New("wrong texture size")
)

// BuildError reports a value tree that does not describe a model. Path names
// the offending element in model terms, e.g. meshes[2].faces[0].color.
type BuildError struct {
	Path   string
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Path == "" {
		return "build error: " + e.Reason
	}
	return fmt.Sprintf("build error at %s: %s", e.Path, e.Reason)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func wrongType(path, want string, v luatab.Value) error {
	return &BuildError{
		Path:   path,
		Reason: fmt.Sprintf("expected %s, got %s", want, v.Kind()),
		Err:    ErrWrongType,
	}
}

func missing(path string) error {
	return &BuildError{Path: path, Reason: "missing required field", Err: ErrMissingField}
}
