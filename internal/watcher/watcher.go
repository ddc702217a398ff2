package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"

	"readaloud/internal/logging"
)

// Handler processes one settled inbox file.
type Handler func(ctx context.Context, path string) error

// Options tunes a Watcher.
type Options struct {
	SettleDelay   time.Duration
	MaxConcurrent int
	Logger        *slog.Logger
}

// Watcher monitors one directory.
type Watcher struct {
	dir     string
	handler Handler
	settle  time.Duration
	limit   int64
	sem     *semaphore.Weighted
	logger  *slog.Logger
	fs      *fsnotify.Watcher
	wg      sync.WaitGroup
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, handler Handler, opts Options) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watcher: handler is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}
	limit := opts.MaxConcurrent
	if limit <= 0 {
		limit = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		dir:     dir,
		handler: handler,
		settle:  opts.SettleDelay,
		limit:   int64(limit),
		sem:     semaphore.NewWeighted(int64(limit)),
		logger:  logging.NewComponentLogger(logger, "watcher"),
		fs:      fsw,
	}, nil
}

// Run dispatches create events until ctx ends, then waits for in-flight
// handlers before returning ctx's error.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("inbox watcher started",
		logging.String("dir", w.dir),
		logging.Int("max_concurrent", int(w.limit)),
	)
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("inbox watcher stopping")
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !IsPage(event.Name) {
				w.logger.Debug("ignoring non-html file", logging.String("path", event.Name))
				continue
			}
			if err := w.sem.Acquire(ctx, 1); err != nil {
				return ctx.Err()
			}
			w.wg.Add(1)
			go w.handle(ctx, event.Name)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logging.WarnWithContext(w.logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some inbox files may be missed"),
			)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()
	defer w.sem.Release(1)

	if w.settle > 0 {
		timer := time.NewTimer(w.settle)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
	w.logger.Info("new page detected", logging.String("path", path))
	if err := w.handler(ctx, path); err != nil {
		logging.WarnWithContext(w.logger, "failed to summarise inbox file", "watch_handler_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "no summary written for this file"),
		)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// IsPage reports whether path looks like a saved HTML page.
func IsPage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}
