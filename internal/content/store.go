package content

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before
// reloading.
const DefaultDebounce = 300 * time.Millisecond

// Store serves the current Catalog and swaps it on reload. All methods
// are safe for concurrent use.
type Store struct {
	logger *slog.Logger
	src    fs.FS
	dir    string

	mu  sync.RWMutex
	cat *Catalog

	reloadMu sync.Mutex
}

// NewStore loads the payload from dir, or the bundled defaults when dir is
// empty.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger, dir: dir, src: Defaults()}
	if dir != "" {
		s.src = os.DirFS(dir)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Catalog returns the most recently loaded catalog.
func (s *Store) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

// Reload re-reads the payload. On failure the previous catalog is kept.
func (s *Store) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cat, err := Load(s.src)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()
	s.logger.Debug("content loaded", "thoughts", len(cat.Thoughts), "dir", s.dir)
	return nil
}

// Watch reloads the catalog whenever a file under the content directory
// changes, until ctx is done. Bundled defaults are not watched.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) error {
	if s.dir == "" {
		s.logger.Debug("not watching bundled content")
		return nil
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := addTree(w, s.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}

	go s.watchLoop(ctx, w, debounce)
	s.logger.Info("watching content", "dir", s.dir)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration) {
	defer w.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						s.logger.Warn("failed to watch new directory", "path", ev.Name, "error", err)
					}
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				if err := s.Reload(); err != nil {
					s.logger.Warn("content reload failed, keeping previous", "error", err)
					return
				}
				s.logger.Info("content reloaded", "trigger", ev.Name)
			})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", "error", err)
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
