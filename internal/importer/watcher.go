package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher monitors a drop directory and imports every .csv file that
// appears in it. Events are staged per path and a file is imported only
// after its events have settled past the debounce window, so a file still
// being copied in is imported once, complete.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	importer    *Importer
	dir         string
	userID      int64
	pending     map[string]time.Time
	debounceDur time.Duration
	tickDur     time.Duration
	logger      *zap.Logger
	running     bool
	doneCh      chan struct{}
}

// NewWatcher creates a watcher for the given drop directory. Imported
// orders are attributed to userID.
func NewWatcher(imp *Importer, dir string, userID int64, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fsw,
		importer:    imp,
		dir:         dir,
		userID:      userID,
		pending:     make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		tickDur:     100 * time.Millisecond,
		logger:      logger,
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watch loop runs until the
// context is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		w.logger.Warn("failed to create import dir", zap.String("dir", w.dir), zap.Error(err))
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching import directory", zap.String("dir", w.dir))

	go w.run(ctx)
	return nil
}

// Stop closes the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.watcher.Close()
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tickDur)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.stageEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

// stageEvent records the event time for the path; the import itself waits
// until processSettled finds the path quiet.
func (w *Watcher) stageEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// processSettled imports every staged path whose last event is older than
// the debounce window.
func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		n, err := w.importer.ImportFile(ctx, path, w.userID)
		if err != nil {
			w.logger.Error("drop import failed", zap.String("path", path), zap.Error(err))
			continue
		}
		w.logger.Info("drop import succeeded", zap.String("path", path), zap.Int("orders", n))
	}
}
