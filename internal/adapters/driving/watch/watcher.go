// Package watch keeps a remote document in sync with a local markdown file.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// DefaultDebounce is the quiet period after the last file event before a
// sync starts.
const DefaultDebounce = 500 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// DocumentID is the document replaced on every change.
	DocumentID string

	// Path is the markdown file to watch.
	Path string

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// SyncOnStart replaces the document once before waiting for changes.
	// Changes made before the watch is established are only picked up this way.
	SyncOnStart bool

	// OnReady is called once the file's directory is being watched.
	OnReady func()

	// OnSync is called after every sync attempt.
	OnSync func(*domain.WriteResult, error)
}

// Watcher replaces a document with the contents of a markdown file each
// time the file changes. Syncs run one at a time.
type Watcher struct {
	documents driving.DocumentService
	config    Config
}

// New creates a watcher for the given document service.
func New(documents driving.DocumentService, cfg Config) (*Watcher, error) {
	if cfg.DocumentID == "" {
		return nil, fmt.Errorf("%w: document token is required", domain.ErrInvalidInput)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: file path is required", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	cfg.Path = abs
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Watcher{documents: documents, config: cfg}, nil
}

// Run watches the file until ctx is cancelled. Sync failures are logged and
// reported through OnSync; they do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory so editors that replace the file on save are seen.
	if err := fsw.Add(filepath.Dir(w.config.Path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.config.Path), err)
	}

	logger.Info("Watching %s for document %s", w.config.Path, w.config.DocumentID)
	if w.config.OnReady != nil {
		w.config.OnReady()
	}

	if w.config.SyncOnStart {
		w.sync(ctx)
	}

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.config.Path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("File event: %s", event)
			if timer == nil {
				timer = time.AfterFunc(w.config.Debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.config.Debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-fire:
			w.sync(ctx)
		}
	}
}

func (w *Watcher) sync(ctx context.Context) {
	data, err := os.ReadFile(w.config.Path)
	if err != nil {
		logger.Error("Read %s: %v", w.config.Path, err)
		w.report(nil, err)
		return
	}

	result, err := w.documents.Write(ctx, w.config.DocumentID, string(data))
	if err != nil {
		logger.Error("Sync %s to %s failed: %v", w.config.Path, w.config.DocumentID, err)
	} else {
		logger.Info("Synced %s: %d deleted, %d added, %d image(s)",
			w.config.Path, result.BlocksDeleted, result.BlocksAdded, result.ImagesProcessed)
	}
	w.report(result, err)
}

func (w *Watcher) report(result *domain.WriteResult, err error) {
	if w.config.OnSync != nil {
		w.config.OnSync(result, err)
	}
}
