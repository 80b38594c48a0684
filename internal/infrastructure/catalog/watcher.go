package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader is anything that can refresh itself from disk
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher reloads the catalog when one of its files changes. Editors
// often write a file in several steps, so events are debounced.
type Watcher struct {
	watcher  *fsnotify.Watcher
	reloader Reloader
	files    map[string]struct{}
	delay    time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher watches the directories holding files. Directories are
// watched rather than the files so that rename-on-save is seen.
func NewWatcher(files []string, reloader Reloader, delay time.Duration, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		reloader: reloader,
		files:    make(map[string]struct{}, len(files)),
		delay:    delay,
		logger:   logger.Named("catalog-watcher"),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Start begins the event loop
func (w *Watcher) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	go w.loop()
	w.logger.Info("Catalog watcher started", zap.Int("files", len(w.files)))
}

// Stop ends the event loop and releases the OS watcher
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[abs]; !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.logger.Info("Catalog file changed", zap.String("path", abs), zap.String("op", event.Op.String()))
		_ = w.reloader.Reload(w.ctx)
	})
}
