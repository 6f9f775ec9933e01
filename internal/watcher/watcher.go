package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"asset-catalog/internal/logging"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/pipeline"
)

// Config tunes the watcher's debounce and dispatch behavior.
type Config struct {
	// SettleDelay is the fixed wait after a notification before the file is
	// read, letting writers finish flushing. Notifications for the same path
	// inside the window collapse into one reprocessing pass.
	SettleDelay time.Duration
	// QueueSize bounds the work queue between notification delivery and the
	// worker pool. A full queue drops the item rather than blocking the
	// notifier; the next periodic rescan re-delivers it.
	QueueSize int
	// Workers is the number of goroutines consuming the work queue.
	Workers int
}

// DefaultConfig returns the stock watcher tuning.
func DefaultConfig() Config {
	return Config{
		SettleDelay: 500 * time.Millisecond,
		QueueSize:   1024,
		Workers:     4,
	}
}

// Watcher subscribes to filesystem notifications under a root and re-runs
// the processing pipeline for affected paths. It runs for the process
// lifetime unless explicitly stopped.
type Watcher struct {
	root   string
	engine *pipeline.Engine
	cfg    Config

	fsw   *fsnotify.Watcher
	queue chan string

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

// New creates a Watcher for the given root. Start must be called before any
// events are observed.
func New(root string, engine *pipeline.Engine, cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultConfig().SettleDelay
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &Watcher{
		root:     root,
		engine:   engine,
		cfg:      cfg,
		fsw:      fsw,
		queue:    make(chan string, cfg.QueueSize),
		stopChan: make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Start registers the directory tree with the notifier and launches the
// event loop and worker pool.
func (w *Watcher) Start(ctx context.Context) error {
	count := w.addDirectories(w.root)
	metrics.WatchedDirectories.Set(float64(count))
	logging.Info("Watching %d directories under %s (settle %v, %d workers)",
		count, w.root, w.cfg.SettleDelay, w.cfg.Workers)

	w.wg.Add(1)
	go w.eventLoop(ctx)

	for i := 0; i < w.cfg.Workers; i++ {
		w.wg.Add(1)
		go w.worker(ctx)
	}
	return nil
}

// Stop tears down the subscription and waits for in-flight work to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if err := w.fsw.Close(); err != nil {
			logging.Error("failed to close filesystem watcher: %v", err)
		}

		w.timersMu.Lock()
		for path, t := range w.timers {
			t.Stop()
			delete(w.timers, path)
		}
		w.timersMu.Unlock()

		w.wg.Wait()
		logging.Info("Watcher stopped")
	})
}

// addDirectories walks the tree and registers every directory, skipping
// hidden ones. Entry-level errors are logged and skipped.
func (w *Watcher) addDirectories(root string) int {
	count := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logging.Warn("Error accessing path %s during watch setup: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			logging.Warn("failed to watch directory %s: %v", path, addErr)
			metrics.WatcherErrors.Inc()
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		logging.Error("failed to walk tree for watch setup: %v", err)
		metrics.WatcherErrors.Inc()
	}
	return count
}

// eventLoop consumes notifications. It must never block the notifier's
// delivery path, so all real work happens behind the debounce timers and
// the work queue.
func (w *Watcher) eventLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// Skip hidden files and directories
	if strings.Contains(event.Name, string(filepath.Separator)+".") {
		return
	}

	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	switch {
	case event.Op&fsnotify.Create != 0:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if addErr := w.fsw.Add(event.Name); addErr != nil {
				logging.Warn("failed to watch new directory %s: %v", event.Name, addErr)
				metrics.WatcherErrors.Inc()
			} else {
				metrics.WatchedDirectories.Inc()
			}
			return
		}
		w.debounce(event.Name)
	case event.Op&fsnotify.Write != 0:
		w.debounce(event.Name)
	case event.Op&fsnotify.Rename != 0:
		// Informational only; neither old nor new path reprocesses.
		w.engine.Coordinator().LogRename(ctx, event.Name)
	case event.Op&fsnotify.Remove != 0:
		// Informational only; the catalog record stays in place.
		w.engine.Coordinator().LogDelete(ctx, event.Name)
	}
}

// debounce arms (or re-arms) the settle timer for a path. Rapid repeat
// notifications keep pushing the deadline out, so one window of activity
// yields exactly one enqueue.
func (w *Watcher) debounce(path string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.cfg.SettleDelay)
		return
	}
	w.timers[path] = time.AfterFunc(w.cfg.SettleDelay, func() {
		w.timersMu.Lock()
		delete(w.timers, path)
		w.timersMu.Unlock()
		w.enqueue(path)
	})
}

// enqueue hands a settled path to the worker pool without ever blocking.
func (w *Watcher) enqueue(path string) {
	select {
	case <-w.stopChan:
		return
	default:
	}

	select {
	case w.queue <- path:
		metrics.WatcherQueueDepth.Set(float64(len(w.queue)))
	default:
		logging.Warn("Watcher queue full, dropping %s (next rescan will pick it up)", path)
		metrics.WatcherDropsTotal.Inc()
	}
}

// worker drains the queue, running the shared pipeline path for each item.
// Errors are reported and swallowed at this boundary; nothing here may
// crash the subscription.
func (w *Watcher) worker(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case path := <-w.queue:
			metrics.WatcherQueueDepth.Set(float64(len(w.queue)))
			if _, err := w.engine.ProcessPath(ctx, path); err != nil {
				logging.Error("Watcher reprocess failed for %s: %v", path, err)
			}
		}
	}
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
