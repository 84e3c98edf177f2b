package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and in the
// picoCAD project directory.
const FileName = "picotool.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile(configCandidates(projectsDirHint()))
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	return cfg, nil
}

// projectsDirHint is the project directory as known before any file is read:
// -dir first, then $PICOCAD_PATH and the picoCAD default.
func projectsDirHint() string {
	if *flagDir != "" {
		return *flagDir
	}
	dir, err := Default().ProjectsDir()
	if err != nil {
		return ""
	}
	return dir
}

// configCandidates lists config locations in lookup order: the working
// directory, the project directory, then the per-user config directory.
func configCandidates(projectsDir string) []string {
	paths := []string{FileName}
	if projectsDir != "" {
		paths = append(paths, filepath.Join(projectsDir, FileName))
	}
	return append(paths, filepath.Join(ConfigDir(), "config.yaml"))
}

func findConfigFile(candidates []string) string {
	for _, path := range candidates {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user picotool config directory.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "picotool")
}

// loadFromFile merges a YAML file into cfg. Unknown keys are errors so a
// misspelled option does not silently fall back to its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
