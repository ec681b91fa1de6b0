package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// ErrEmptyReload is returned when a reload finds an empty or missing file
// after a non-empty directory was published. The previous directory is kept.
var ErrEmptyReload = errors.New("counselor directory reloaded empty")

// Sink receives every successfully loaded directory.
type Sink interface {
	SetCounselors(counselors map[string]string)
}

// Watcher reloads the directory file when it changes.
type Watcher struct {
	path     string
	sink     Sink
	logger   *slog.Logger
	debounce time.Duration

	mu        sync.Mutex
	published int // size of the last published directory, -1 before the first load
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, sink Sink, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: path, sink: sink, logger: logger, debounce: DefaultDebounce, published: -1}
}

// Reload loads the file once and hands it to the sink. A missing or empty file
// is published only when the current directory is already empty, so a
// truncated write does not prune every counsellor selection.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	counselors, err := Load(w.path)
	if err != nil {
		return err
	}
	if len(counselors) == 0 && w.published > 0 {
		return fmt.Errorf("%s: %w (keeping %d counselors)", w.path, ErrEmptyReload, w.published)
	}
	w.published = len(counselors)
	w.sink.SetCounselors(counselors)
	w.logger.Info("counselor directory loaded", "path", w.path, "counselors", len(counselors))
	return nil
}

// Run loads the directory and then reloads it on every change until ctx is
// done. The parent directory is watched so that atomic replaces are seen.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Reload(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}
	target := filepath.Clean(w.path)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op == fsnotify.Chmod {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("directory watcher error", "error", err)
		case <-timer.C:
			if err := w.Reload(); err != nil {
				w.logger.Warn("counselor directory reload failed", "path", w.path, "error", err)
			}
		}
	}
}
