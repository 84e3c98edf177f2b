package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/picocad-tools/internal/config"
	"github.com/Faultbox/picocad-tools/internal/project"
	"github.com/Faultbox/picocad-tools/pkg/math"
	"github.com/Faultbox/picocad-tools/pkg/picocad"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Projects.Dir = t.TempDir()

	store, err := project.NewStoreFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewStoreFromConfig failed: %v", err)
	}

	m := picocad.NewModel()
	m.Header.Name = "ship"
	mesh := picocad.NewMesh("hull")
	mesh.Vertices = []math.Vec3{{}, {X: 1}, {Z: 1}}
	face := picocad.NewFace(picocad.Red, 0, 1, 2)
	face.Flags = picocad.FlagDoubleSided
	mesh.AddFace(face)
	m.AddMesh(mesh)
	if _, err := store.Save("ship", m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var out bytes.Buffer
	return &app{cfg: cfg, store: store, out: &out}, &out
}

func TestCmdList(t *testing.T) {
	a, out := newTestApp(t)
	if err := a.cmdList(nil); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "(1 projects)") || !strings.Contains(out.String(), "ship") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCmdInfo(t *testing.T) {
	a, out := newTestApp(t)
	if err := a.cmdInfo([]string{"ship"}); err != nil {
		t.Fatalf("info failed: %v", err)
	}

	for _, want := range []string{"Project:    ship", "Background: dark_blue (#1D2B53)", "Faces:      1", "red", "dbl:", "solid black"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCmdSetBackground(t *testing.T) {
	a, out := newTestApp(t)
	if err := a.cmdSetBackground([]string{"ship", "lavender"}); err != nil {
		t.Fatalf("set-bg failed: %v", err)
	}
	if !strings.Contains(out.String(), "dark_blue -> lavender") {
		t.Errorf("unexpected output: %s", out)
	}

	m, err := a.store.Load("ship")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Header.Background != picocad.Lavender {
		t.Errorf("expected lavender, got %s", m.Header.Background)
	}
	if len(m.Meshes) != 1 || m.Meshes[0].Name != "hull" {
		t.Error("expected meshes to be untouched")
	}

	if err := a.cmdSetBackground([]string{"ship", "purple"}); !errors.Is(err, picocad.ErrInvalidColorCode) {
		t.Errorf("expected ErrInvalidColorCode, got %v", err)
	}
}

func TestCmdValidate(t *testing.T) {
	a, out := newTestApp(t)
	if err := a.cmdValidate([]string{"ship"}); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out.String(), "ship: ok") {
		t.Errorf("unexpected output: %s", out)
	}

	bad := filepath.Join(a.store.Dir(), "bad.txt")
	text := "picocad;bad;16;1;0\n{ { name='m', v={ {0,0,0} }, f={ {1,2, c=3} } } }"
	if err := os.WriteFile(bad, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := a.cmdValidate([]string{bad}); !errors.Is(err, errFindings) {
		t.Fatalf("expected errFindings, got %v", err)
	}
	if !strings.Contains(out.String(), "3 problem(s)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCmdFmt(t *testing.T) {
	a, out := newTestApp(t)
	if err := a.cmdFmt([]string{"ship"}); err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "picocad;ship;16;1;0\n") {
		t.Errorf("unexpected output prefix: %q", out.String()[:30])
	}

	dst := filepath.Join(t.TempDir(), "copy.txt")
	if err := a.cmdFmt([]string{"-o", dst, "ship"}); err != nil {
		t.Fatalf("fmt -o failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if string(data) != out.String() {
		t.Error("expected -o output to match stdout output")
	}
}

func TestCmdFmtRefusesInvalid(t *testing.T) {
	a, out := newTestApp(t)

	bad := filepath.Join(a.store.Dir(), "bad.txt")
	text := "picocad;bad;16;1;0\n{ { name='m', v={ {0,0,0} }, f={ {1,2,3, c=3} } } }"
	if err := os.WriteFile(bad, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	if err := a.cmdFmt([]string{bad}); !errors.Is(err, picocad.ErrVertexIndexOutOfRange) {
		t.Fatalf("expected ErrVertexIndexOutOfRange, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}

	a.cfg.Format.ValidateOnSave = false
	if err := a.cmdFmt([]string{bad}); err != nil {
		t.Fatalf("expected fmt to pass through with validation off, got %v", err)
	}
	if !strings.HasPrefix(out.String(), "picocad;bad;") {
		t.Errorf("unexpected output prefix: %q", out.String())
	}
}

func TestCmdConfig(t *testing.T) {
	a, out := newTestApp(t)
	if err := a.cmdConfig(nil); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out.String(), "extension: .txt") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
