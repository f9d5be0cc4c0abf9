package feasts

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Importer loads a feast file into the active table.
type Importer interface {
	ImportFile(ctx context.Context, path string) (int, error)
}

// Watcher re-imports a feast file whenever it is written or replaced.
// Editors often emit several events per save, so imports are debounced.
type Watcher struct {
	path     string
	importer Importer
	logger   *slog.Logger
	debounce time.Duration

	// onImport, if set, is called after every import attempt.
	onImport func(n int, err error)
}

// NewWatcher returns a Watcher for path feeding importer.
func NewWatcher(path string, importer Importer, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		importer: importer,
		logger:   logger.With(slog.String("feasts_file", path)),
		debounce: 250 * time.Millisecond,
	}
}

// Start begins watching and returns once the watch is in place. Watching
// stops when ctx is cancelled.
//
// The parent directory is watched rather than the file itself so that
// atomic replace-by-rename saves are seen.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.loop(ctx, fw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.WarnContext(ctx, "feast file watch error", slog.Any("error", err))

		case <-timer.C:
			n, err := w.importer.ImportFile(ctx, w.path)
			if err != nil {
				// Keep serving the previous table; a half-saved file is common.
				w.logger.ErrorContext(ctx, "feast file import failed", slog.Any("error", err))
			} else {
				w.logger.InfoContext(ctx, "feast file imported", slog.Int("feasts", n))
			}
			if w.onImport != nil {
				w.onImport(n, err)
			}
		}
	}
}
