package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/picocad-tools/internal/config"
	"github.com/Faultbox/picocad-tools/pkg/math"
	"github.com/Faultbox/picocad-tools/pkg/picocad"
)

func sampleModel(name string) *picocad.Model {
	m := picocad.NewModel()
	m.Header.Name = name
	mesh := picocad.NewMesh("plane")
	mesh.Vertices = []math.Vec3{{X: -1, Z: -1}, {X: 1, Z: -1}, {X: 1, Z: 1}, {X: -1, Z: 1}}
	face := picocad.NewFace(picocad.LightGrey, 3, 2, 1, 0)
	face.Flags = picocad.FlagDoubleSided
	mesh.AddFace(face)
	m.AddMesh(mesh)
	return m
}

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	return NewStore(t.TempDir(), opts)
}

func TestStore_Path(t *testing.T) {
	s := NewStore("/projects", Options{})

	path, err := s.Path("ship")
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if path != filepath.Join("/projects", "ship.txt") {
		t.Errorf("unexpected path %s", path)
	}

	for _, bad := range []string{"", ".", "..", "a/b", `a\b`} {
		if _, err := s.Path(bad); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Path(%q): expected ErrInvalidName, got %v", bad, err)
		}
	}
}

func TestStore_Resolve(t *testing.T) {
	s := NewStore("/projects", Options{})

	tests := []struct {
		ref  string
		want string
	}{
		{"ship", filepath.Join("/projects", "ship.txt")},
		{"ship.txt", "ship.txt"},
		{"./other/ship", "./other/ship"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := s.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStore_SaveLoad(t *testing.T) {
	s := newTestStore(t, Options{ValidateOnSave: true, CacheEntries: 4})

	path, err := s.Save("ship", sampleModel("ship"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected saved file: %v", err)
	}

	m, err := s.Load("ship")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Header.Name != "ship" || len(m.Meshes) != 1 {
		t.Errorf("unexpected model %+v", m.Header)
	}
	if !m.Meshes[0].Faces[0].DoubleSided() {
		t.Error("expected the face flag to survive")
	}

	// Second load hits the cache and returns an independent copy.
	m.Meshes[0].Name = "mutated"
	again, err := s.Load("ship")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again.Meshes[0].Name != "plane" {
		t.Errorf("expected cached copy to be unaffected, got %s", again.Meshes[0].Name)
	}
	if hits, misses := s.Cache().Stats(); hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d and %d", hits, misses)
	}
}

func TestStore_SaveInvalidatesCache(t *testing.T) {
	s := newTestStore(t, Options{CacheEntries: 4})

	if _, err := s.Save("ship", sampleModel("ship")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := s.Load("ship"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	m := sampleModel("ship")
	m.Header.Background = picocad.Pink
	if _, err := s.Save("ship", m); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if s.Cache().Len() != 0 {
		t.Errorf("expected cache to be invalidated, got %d entries", s.Cache().Len())
	}

	back, err := s.Load("ship")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back.Header.Background != picocad.Pink {
		t.Errorf("expected pink background, got %s", back.Header.Background)
	}
}

func TestStore_Backup(t *testing.T) {
	s := newTestStore(t, Options{Backup: true})

	path, err := s.Save("ship", sampleModel("first"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Error("expected no backup for a new file")
	}

	if _, err := s.Save("ship", sampleModel("second")); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	old, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	m, err := picocad.Decode(string(old))
	if err != nil {
		t.Fatalf("backup does not decode: %v", err)
	}
	if m.Header.Name != "first" {
		t.Errorf("expected backup of the first save, got %s", m.Header.Name)
	}
}

func TestStore_SaveRefusesInvalid(t *testing.T) {
	s := newTestStore(t, Options{ValidateOnSave: true})

	m := sampleModel("bad")
	m.Meshes[0].Faces[0].Vertices[0] = 10
	if _, err := s.Save("bad", m); !errors.Is(err, picocad.ErrVertexIndexOutOfRange) {
		t.Errorf("expected ErrVertexIndexOutOfRange, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "bad.txt")); !os.IsNotExist(err) {
		t.Error("expected nothing to be written")
	}
}

func TestStore_SaveKeepsProjectOnUnquotableName(t *testing.T) {
	s := newTestStore(t, Options{ValidateOnSave: true})

	path, err := s.Save("ship", sampleModel("ship"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	m := sampleModel("ship")
	m.Meshes[0].Name = `C:\`
	if _, err := s.Save("ship", m); !errors.Is(err, picocad.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(before) {
		t.Error("expected the saved project to be left untouched")
	}
	if _, err := s.Load("ship"); err != nil {
		t.Errorf("expected project to stay loadable, got %v", err)
	}
}

func TestStore_LoadErrors(t *testing.T) {
	s := newTestStore(t, Options{ValidateOnLoad: true})

	if _, err := s.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	garbage := filepath.Join(s.Dir(), "garbage.txt")
	if err := os.WriteFile(garbage, []byte("not a project\n{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("garbage"); !errors.Is(err, picocad.ErrNotProject) {
		t.Errorf("expected ErrNotProject, got %v", err)
	}

	// Builds fine but fails validation.
	text := "picocad;v;16;1;0\n{ { name='m', v={}, f={ {1,2,3, c=1} } } }"
	if err := os.WriteFile(filepath.Join(s.Dir(), "v.txt"), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("v"); !errors.Is(err, picocad.ErrVertexIndexOutOfRange) {
		t.Errorf("expected validation failure, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t, Options{Backup: true})

	for _, name := range []string{"b", "a"} {
		if _, err := s.Save(name, sampleModel(name)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	// Produces a.txt.bak, which must not be listed.
	if _, err := s.Save("a", sampleModel("a2")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(s.Dir(), "dir.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	infos, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "a" || infos[1].Name != "b" {
		t.Fatalf("expected [a b], got %+v", infos)
	}
	if infos[0].Size == 0 || infos[0].ModTime.IsZero() {
		t.Errorf("expected size and mtime, got %+v", infos[0])
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"), Options{})
	if _, err := s.List(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewStoreFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Projects.Dir = t.TempDir()
	cfg.Projects.Extension = ".picocad"

	s, err := NewStoreFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewStoreFromConfig failed: %v", err)
	}
	if s.Dir() != cfg.Projects.Dir {
		t.Errorf("expected dir %s, got %s", cfg.Projects.Dir, s.Dir())
	}
	path, _ := s.Path("ship")
	if filepath.Ext(path) != ".picocad" {
		t.Errorf("expected configured extension, got %s", path)
	}
}
