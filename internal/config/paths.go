package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// EnvProjectsDir overrides the picoCAD project directory.
const EnvProjectsDir = "PICOCAD_PATH"

// ErrNoHome is returned when the default project directory cannot be derived.
var ErrNoHome = errors.New("cannot determine home directory")

// ProjectsDir resolves the project directory: the configured value, then
// $PICOCAD_PATH, then the folder picoCAD itself saves to.
func (c *Config) ProjectsDir() (string, error) {
	if c.Projects.Dir != "" {
		return c.Projects.Dir, nil
	}
	if env := os.Getenv(EnvProjectsDir); env != "" {
		return env, nil
	}
	return DefaultProjectsDir(runtime.GOOS)
}

// DefaultProjectsDir returns picoCAD's save folder for goos.
func DefaultProjectsDir(goos string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}

	switch goos {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "pico-8", "appdata", "picocad"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "pico-8", "appdata", "picocad"), nil
	default:
		return filepath.Join(home, ".lexaloffle", "pico-8", "appdata", "picocad"), nil
	}
}
