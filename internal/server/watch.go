package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pilou73/horaires-shabbat/internal/config"
	"github.com/pilou73/horaires-shabbat/internal/logging"
)

// debounce absorbs the burst of events editors and atomic saves produce for
// a single logical change.
const debounce = 250 * time.Millisecond

// watchConfig reloads the configuration when its file changes on disk. The
// watch covers the directory, so rename-based saves and a file created after
// startup are both seen.
func (s *Server) watchConfig(ctx context.Context) {
	path, err := config.Path()
	if err != nil {
		s.log.Warn("config watch disabled", logging.Err(err))
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn("config watch disabled", logging.Err(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		s.log.Warn("config watch disabled",
			logging.String("dir", dir), logging.Err(err))
		return
	}
	s.log.Debug("watching configuration", logging.String("path", path))

	var reload *time.Timer
	defer func() {
		if reload != nil {
			reload.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Name != path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if reload != nil {
				reload.Stop()
			}
			reload = time.AfterFunc(debounce, s.reloadConfig)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("config watch error", logging.Err(err))
		}
	}
}

// reloadConfig reads the file back and swaps the active configuration.
// Address and refresh schedule changes take effect on the next start.
func (s *Server) reloadConfig() {
	cfg, err := config.Effective()
	if err != nil {
		s.log.Error("config reload failed", logging.Err(err))
		return
	}
	s.setConfig(*cfg)
	s.log.Info("configuration reloaded")
}
