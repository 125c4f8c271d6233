package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher rebuilds a theme's table when its declaration file changes and
// hands the new table to a callback. The previous table stays active when a
// rebuild fails.
type Watcher struct {
	mu     sync.Mutex
	logger *slog.Logger

	loader *Loader
	source Source

	onReload func(*OverrideTable)
	onError  func(error)

	watcher *fsnotify.Watcher
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for the theme described by src.
func NewWatcher(loader *Loader, src Source, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		loader: loader,
		source: src,
	}
}

// SetReloadCallback sets the function receiving each rebuilt table.
func (w *Watcher) SetReloadCallback(callback func(*OverrideTable)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the function receiving rebuild failures.
func (w *Watcher) SetErrorCallback(callback func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// Start begins watching. Bundled themes have nothing on disk to watch and
// Start returns nil without starting.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.source.Bundled || w.source.Path == "" {
		w.logger.Debug("not watching bundled theme", "theme", w.source.Theme)
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory rather than the file; editors replace files on save.
	if err := fw.Add(filepath.Dir(w.source.Path)); err != nil {
		_ = fw.Close()
		return err
	}

	w.watcher = fw
	w.doneCh = make(chan struct{})
	w.running = true

	go w.watchLoop(ctx, fw, w.doneCh)

	w.logger.Debug("theme watcher started", "theme", w.source.Theme, "path", w.source.Path)
	return nil
}

// Stop stops watching and waits for the watch loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	fw, done := w.watcher, w.doneCh
	w.watcher = nil
	w.mu.Unlock()

	_ = fw.Close()
	<-done
	w.logger.Debug("theme watcher stopped", "theme", w.source.Theme)
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	filename := filepath.Base(w.source.Path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	w.mu.Lock()
	onReload, onError := w.onReload, w.onError
	w.mu.Unlock()

	table, err := w.loader.build(w.source)
	if err != nil {
		w.logger.Warn("theme reload failed, keeping previous table", "theme", w.source.Theme, "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.logger.Info("theme declarations changed, table rebuilt", "theme", w.source.Theme, "generation", table.Generation.String(), "overrides", table.Len())
	if onReload != nil {
		onReload(table)
	}
}

// Reload forces a rebuild, as if the declaration file had changed.
func (w *Watcher) Reload() error {
	if !w.IsRunning() {
		return ErrWatcherNotRunning
	}
	w.reload()
	return nil
}
