// Package project finds, loads and saves picoCAD project files on disk.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/picocad-tools/internal/config"
	"github.com/Faultbox/picocad-tools/internal/logger"
	"github.com/Faultbox/picocad-tools/pkg/picocad"
)

// Store errors.
var (
	ErrNotFound    = errors.New("project not found")
	ErrInvalidName = errors.New("invalid project name")
)

// Options configures a Store.
type Options struct {
	Extension      string
	Backup         bool
	ValidateOnLoad bool
	ValidateOnSave bool
	CacheEntries   int
}

// Store maps project names to files in one directory.
type Store struct {
	dir   string
	opts  Options
	cache *Cache
	log   *zap.Logger
}

// NewStore creates a store over dir.
func NewStore(dir string, opts Options) *Store {
	if opts.Extension == "" {
		opts.Extension = ".txt"
	}
	return &Store{
		dir:   dir,
		opts:  opts,
		cache: NewCache(opts.CacheEntries),
		log:   logger.Named("project"),
	}
}

// NewStoreFromConfig creates a store over the configured project directory.
func NewStoreFromConfig(cfg *config.Config) (*Store, error) {
	dir, err := cfg.ProjectsDir()
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	return NewStore(dir, Options{
		Extension:      cfg.Projects.Extension,
		Backup:         cfg.Projects.Backup,
		ValidateOnLoad: cfg.Format.ValidateOnLoad,
		ValidateOnSave: cfg.Format.ValidateOnSave,
		CacheEntries:   cfg.Cache.MaxEntries,
	}), nil
}

// Dir returns the project directory.
func (s *Store) Dir() string {
	return s.dir
}

// Cache returns the store's decoded model cache.
func (s *Store) Cache() *Cache {
	return s.cache
}

// Path returns the file path of the project called name.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+s.opts.Extension), nil
}

// Resolve turns a project reference into a path. A reference containing a
// path separator or ending in the project extension is taken as a file path;
// anything else is a project name.
func (s *Store) Resolve(ref string) (string, error) {
	if strings.ContainsAny(ref, `/\`) || strings.HasSuffix(ref, s.opts.Extension) {
		return ref, nil
	}
	return s.Path(ref)
}

// Info describes a project file.
type Info struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// List returns the projects in the directory sorted by name.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s", ErrNotFound, s.dir)
		}
		return nil, fmt.Errorf("reading %s: %w", s.dir, err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), s.opts.Extension) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			s.log.Warn("skipping unreadable entry", zap.String("name", e.Name()), zap.Error(err))
			continue
		}
		infos = append(infos, Info{
			Name:    strings.TrimSuffix(e.Name(), s.opts.Extension),
			Path:    filepath.Join(s.dir, e.Name()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	return infos, nil
}

// Load decodes the project called name.
func (s *Store) Load(name string) (*picocad.Model, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return s.LoadFile(path)
}

// LoadFile decodes the project at path, serving unchanged files from the
// cache.
func (s *Store) LoadFile(path string) (*picocad.Model, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	if m, ok := s.cache.Get(path, fi.ModTime(), fi.Size()); ok {
		s.log.Debug("cache hit", zap.String("path", path))
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	start := time.Now()
	m, err := picocad.DecodeWithOptions(string(data), picocad.DecodeOptions{Validate: s.opts.ValidateOnLoad})
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	s.log.Debug("project decoded",
		zap.String("path", path),
		zap.Int("meshes", len(m.Meshes)),
		zap.Duration("took", time.Since(start)))

	s.cache.Put(path, fi.ModTime(), fi.Size(), m)
	return m, nil
}

// Save encodes m as the project called name and returns its path.
func (s *Store) Save(name string, m *picocad.Model) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	return path, s.SaveFile(path, m)
}

// SaveFile encodes m to path. The file is replaced atomically; with backups
// enabled the previous contents are kept next to it with a .bak suffix.
func (s *Store) SaveFile(path string, m *picocad.Model) error {
	if s.opts.ValidateOnSave {
		if err := picocad.Validate(m); err != nil {
			return fmt.Errorf("refusing to save %s: %w", path, err)
		}
	}
	data := []byte(picocad.Encode(m))

	if s.opts.Backup {
		if err := backup(path); err != nil {
			return err
		}
	}

	if err := writeAtomic(path, data); err != nil {
		return err
	}
	s.cache.Invalidate(path)

	s.log.Info("project saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func backup(path string) error {
	old, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s for backup: %w", path, err)
	}
	if err := os.WriteFile(path+".bak", old, 0644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".picotool-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
