package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch re-renders the source file when it changes on disk. The parent
// directory is watched rather than the file itself because editors
// commonly replace files on save, which drops a direct watch. Bursts of
// events are debounced by serve.debounce_ms.
func (s *Server) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return err
	}

	debounce := time.Duration(s.cfg.GetInt("serve.debounce_ms")) * time.Millisecond
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	target, err := filepath.Abs(s.path)
	if err != nil {
		target = s.path
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Printf("watch: %v", err)
		case <-timer.C:
			pending = false
			if err := s.Render(); err != nil {
				s.log.Printf("render: %v", err)
				continue
			}
			s.log.Printf("rendered %s", s.path)
		}
	}
}
