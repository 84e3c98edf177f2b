package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Faultbox/picocad-tools/internal/config"
	"github.com/Faultbox/picocad-tools/internal/logger"
	"github.com/Faultbox/picocad-tools/internal/project"
	"github.com/Faultbox/picocad-tools/pkg/picocad"
)

type app struct {
	cfg   *config.Config
	store *project.Store
	out   io.Writer
}

func (a *app) stdout() io.Writer {
	if a.out != nil {
		return a.out
	}
	return os.Stdout
}

// errFindings signals that validation printed its findings already.
var errFindings = errors.New("validation failed")

func (a *app) load(ref string) (string, *picocad.Model, error) {
	path, err := a.store.Resolve(ref)
	if err != nil {
		return "", nil, err
	}
	m, err := a.store.LoadFile(path)
	return path, m, err
}

func (a *app) cmdList(args []string) error {
	infos, err := a.store.List()
	if err != nil {
		return err
	}

	w := a.stdout()
	if len(infos) == 0 {
		fmt.Fprintf(w, "No projects in %s\n", a.store.Dir())
		return nil
	}

	fmt.Fprintf(w, "%s (%d projects)\n\n", a.store.Dir(), len(infos))
	for _, info := range infos {
		fmt.Fprintf(w, "  %-24s %10s  %s\n",
			info.Name, humanize.Bytes(uint64(info.Size)), humanize.Time(info.ModTime))
	}
	return nil
}

func (a *app) cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: picotool info <project>")
	}

	path, m, err := a.load(args[0])
	if err != nil {
		return err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	w := a.stdout()
	h := m.Header
	fmt.Fprintf(w, "Project:    %s\n", h.Name)
	fmt.Fprintf(w, "File:       %s (%s, saved %s)\n", path, humanize.Bytes(uint64(fi.Size())), humanize.Time(fi.ModTime()))
	fmt.Fprintf(w, "Zoom:       %d\n", h.Zoom)
	fmt.Fprintf(w, "Background: %s (#%s)\n", h.Background, h.Background.Hex())
	fmt.Fprintf(w, "Alpha:      %s\n", h.Alpha)

	s := m.Stats()
	fmt.Fprintf(w, "Meshes:     %d\n", s.Meshes)
	fmt.Fprintf(w, "Vertices:   %s\n", humanize.Comma(int64(s.Vertices)))
	fmt.Fprintf(w, "Faces:      %s\n", humanize.Comma(int64(s.Faces)))
	fmt.Fprintln(w)

	if len(m.Meshes) > 0 {
		fmt.Fprintln(w, "Meshes:")
		for _, mesh := range m.Meshes {
			fmt.Fprintf(w, "  %-20s %4d vertices %4d faces  pos=%v\n",
				mesh.Name, len(mesh.Vertices), len(mesh.Faces), mesh.Position)
		}
		fmt.Fprintln(w)
	}

	type colorStat struct {
		color picocad.Color
		count int
	}
	var colors []colorStat
	for code, n := range s.FaceColors {
		if n > 0 {
			colors = append(colors, colorStat{picocad.Color(code), n})
		}
	}
	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].count > colors[j].count
	})
	if len(colors) > 0 {
		fmt.Fprintln(w, "Face colors:")
		for _, c := range colors {
			fmt.Fprintf(w, "  %-12s %d\n", c.color, c.count)
		}
	}

	for _, ff := range []picocad.FaceFlags{
		picocad.FlagDoubleSided, picocad.FlagNoShading, picocad.FlagNoTexture, picocad.FlagRenderPriority,
	} {
		if n := s.Flagged[ff]; n > 0 {
			fmt.Fprintf(w, "Faces with %-8s %d\n", ff.String()+":", n)
		}
	}

	if m.Texture.IsSolid() {
		fmt.Fprintf(w, "Texture:    solid %s\n", m.Texture.Texels[0])
	} else {
		used := 0
		for _, n := range m.Texture.Histogram() {
			if n > 0 {
				used++
			}
		}
		fmt.Fprintf(w, "Texture:    %d colors\n", used)
	}
	return nil
}

func (a *app) cmdValidate(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: picotool validate <project>")
	}

	_, m, err := a.load(args[0])
	if err != nil {
		return err
	}

	w := a.stdout()
	err = picocad.Validate(m)
	var findings picocad.ValidationErrors
	if !errors.As(err, &findings) {
		fmt.Fprintf(w, "%s: ok\n", m.Header.Name)
		return nil
	}

	for _, f := range findings {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintf(w, "%s: %d problem(s)\n", m.Header.Name, len(findings))
	return errFindings
}

func (a *app) cmdFmt(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	output := fs.String("o", "", "Write to this file instead of stdout")
	inPlace := fs.Bool("w", false, "Rewrite the project in place")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: picotool fmt [-o file] [-w] <project>")
	}

	path, m, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}

	switch {
	case *inPlace:
		return a.store.SaveFile(path, m)
	case *output != "":
		return a.store.SaveFile(*output, m)
	default:
		if a.cfg.Format.ValidateOnSave {
			if err := picocad.Validate(m); err != nil {
				return fmt.Errorf("refusing to format %s: %w", path, err)
			}
		}
		_, err := io.WriteString(a.stdout(), picocad.Encode(m))
		return err
	}
}

func (a *app) cmdSetBackground(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: picotool set-bg <project> <color>")
	}

	color, err := picocad.ParseColor(args[1])
	if err != nil {
		return err
	}
	path, m, err := a.load(args[0])
	if err != nil {
		return err
	}

	old := m.Header.Background
	m.Header.Background = color
	if err := a.store.SaveFile(path, m); err != nil {
		return err
	}

	logger.Info("background changed",
		zap.String("project", m.Header.Name),
		zap.Stringer("from", old),
		zap.Stringer("to", color))
	fmt.Fprintf(a.stdout(), "%s: background %s -> %s\n", m.Header.Name, old, color)
	return nil
}

func (a *app) cmdWatch(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: picotool watch <project>")
	}
	path, err := a.store.Resolve(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := a.store.Watch(ctx, path, a.cfg.Watch.Debounce)
	if err != nil {
		return err
	}

	w := a.stdout()
	fmt.Fprintf(w, "Watching %s (Ctrl+C to stop)\n", path)
	for ev := range events {
		if ev.Err != nil {
			fmt.Fprintf(w, "  error: %v\n", ev.Err)
			continue
		}
		s := ev.Model.Stats()
		status := "ok"
		if err := picocad.Validate(ev.Model); err != nil {
			status = err.Error()
		}
		fmt.Fprintf(w, "  %s: %d meshes, %d faces, %s\n", ev.Model.Header.Name, s.Meshes, s.Faces, status)
	}
	return nil
}

func (a *app) cmdConfig(args []string) error {
	if len(args) > 0 && args[0] == "save" {
		path, err := a.cfg.Save()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout(), "Saved %s\n", path)
		return nil
	}

	data, err := a.cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = a.stdout().Write(data)
	return err
}
