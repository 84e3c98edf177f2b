// Package config handles picotool configuration loading and management.
package config

import "time"

// Config holds all picotool settings.
type Config struct {
	Projects ProjectsConfig `yaml:"projects"`
	Format   FormatConfig   `yaml:"format"`
	Watch    WatchConfig    `yaml:"watch"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProjectsConfig locates picoCAD project files.
type ProjectsConfig struct {
	Dir       string `yaml:"dir"`       // Empty means $PICOCAD_PATH or the picoCAD default
	Extension string `yaml:"extension"` // Project file extension
	Backup    bool   `yaml:"backup"`    // Keep a .bak copy when overwriting
}

// FormatConfig controls decoding.
type FormatConfig struct {
	ValidateOnLoad bool `yaml:"validate_on_load"`
	ValidateOnSave bool `yaml:"validate_on_save"`
}

// WatchConfig controls the project watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// CacheConfig controls the decoded model cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Projects: ProjectsConfig{
			Extension: ".txt",
			Backup:    true,
		},
		Format: FormatConfig{
			ValidateOnSave: true,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Cache: CacheConfig{
			MaxEntries: 32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
