package project

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/picocad-tools/pkg/picocad"
)

// Event is a reload of a watched project. Exactly one of Model and Err is set.
type Event struct {
	Path  string
	Model *picocad.Model
	Err   error
}

// Watch reloads the project at path whenever it is written and sends the
// result on the returned channel. Bursts of writes within debounce collapse
// into one reload. The channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context, path string, debounce time.Duration) (<-chan Event, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory so files replaced by rename are still seen.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	out := make(chan Event)
	go s.watchLoop(ctx, w, filepath.Clean(path), debounce, out)
	s.log.Info("watching project", zap.String("path", path))
	return out, nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, debounce time.Duration, out chan<- Event) {
	defer close(out)
	defer w.Close()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	send := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			s.log.Debug("change detected", zap.String("path", path), zap.Stringer("op", ev.Op))
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			if !send(Event{Path: path, Err: err}) {
				return
			}

		case <-timer.C:
			m, err := s.LoadFile(path)
			if err != nil {
				s.log.Warn("reload failed", zap.String("path", path), zap.Error(err))
			}
			if !send(Event{Path: path, Model: m, Err: err}) {
				return
			}
		}
	}
}
