package scanner

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"asset-catalog/internal/logging"
	"asset-catalog/internal/memory"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/pipeline"
)

// Runner drives bulk scans: it fans walk candidates out to a pool of workers
// that each run the shared Orchestrator -> Coordinator path. Per-file
// failures are recorded on their asset records by the pipeline and never
// surface as scan errors.
type Runner struct {
	scanner  *Scanner
	engine   *pipeline.Engine
	workers  int
	progress Progress
	monitor  *memory.Monitor

	mu           sync.Mutex
	isScanning   bool
	lastScanTime time.Time
}

// NewRunner creates a Runner with the given worker count.
func NewRunner(scanner *Scanner, engine *pipeline.Engine, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{scanner: scanner, engine: engine, workers: workers}
}

// SetProgress installs an advisory progress sink.
func (r *Runner) SetProgress(p Progress) {
	r.progress = p
}

// SetMemoryMonitor installs a backpressure monitor. Workers block before
// hashing when heap usage crosses the pause watermark.
func (r *Runner) SetMemoryMonitor(m *memory.Monitor) {
	r.monitor = m
}

// Scan performs one full pass over the tree. Only one scan runs at a time;
// a second call while scanning returns immediately.
func (r *Runner) Scan(ctx context.Context) error {
	if !r.tryStart() {
		logging.Info("Scan already in progress, skipping...")
		return nil
	}
	defer r.finish()

	metrics.ScanIsRunning.Set(1)
	defer metrics.ScanIsRunning.Set(0)
	metrics.ScanRunsTotal.Inc()

	start := time.Now()
	logging.Info("Starting bulk scan of %s with %d workers", r.scanner.root, r.workers)

	jobs := make(chan string, r.workers*4)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.workers; i++ {
		g.Go(func() error {
			for path := range jobs {
				if r.monitor != nil && !r.monitor.WaitIfPaused() {
					// Monitor stopped: shutdown. Drain so the walker
					// never blocks on a full channel.
					for range jobs {
					}
					return nil
				}
				if _, err := r.engine.ProcessPath(gctx, path); err != nil {
					// Coordinator errors are store-level; log and move on so
					// one bad write never aborts the pass.
					logging.Error("Reconcile failed for %s: %v", path, err)
				}
			}
			return nil
		})
	}

	var candidates int
	walkErr := r.scanner.Walk(ctx, r.progress, func(path string) error {
		candidates++
		select {
		case jobs <- path:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	close(jobs)

	if err := g.Wait(); err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}

	duration := time.Since(start)
	metrics.ScanLastRunDuration.Set(duration.Seconds())
	logging.Info("Scan complete: %d candidates in %v", candidates, duration)
	return nil
}

// TriggerScan starts a scan in the background.
func (r *Runner) TriggerScan(ctx context.Context) {
	go func() {
		if err := r.Scan(ctx); err != nil {
			logging.Error("Triggered scan failed: %v", err)
		}
	}()
}

// IsScanning reports whether a scan is currently running.
func (r *Runner) IsScanning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isScanning
}

// LastScanTime returns the completion time of the last scan.
func (r *Runner) LastScanTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastScanTime
}

func (r *Runner) tryStart() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isScanning {
		return false
	}
	r.isScanning = true
	return true
}

func (r *Runner) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isScanning = false
	r.lastScanTime = time.Now()
}
