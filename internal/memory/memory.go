// Package memory keeps the catalog inside its container memory limit by
// pausing hashing workers when the heap runs hot.
package memory

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"asset-catalog/internal/logging"
	"asset-catalog/internal/metrics"
)

// Config tunes the backpressure monitor.
type Config struct {
	// Limit is the soft heap limit in bytes. Zero adopts the process
	// GOMEMLIMIT; with neither set, backpressure is disabled.
	Limit int64

	// PauseAt is the fraction of Limit at which workers pause.
	PauseAt float64

	// ResumeAt is the fraction below which paused workers resume. The gap
	// under PauseAt keeps workers from flapping around one threshold.
	ResumeAt float64

	// Interval is how often the heap is sampled.
	Interval time.Duration
}

// DefaultConfig pauses at 85% of the limit and resumes under 70%.
func DefaultConfig() Config {
	return Config{
		PauseAt:  0.85,
		ResumeAt: 0.70,
		Interval: 5 * time.Second,
	}
}

// Monitor samples heap allocation and gates workers through WaitIfPaused.
// Scan and watch workers check it before picking up a file, so a burst of
// large assets cannot hash the process past its limit.
type Monitor struct {
	cfg      Config
	limit    int64
	stopChan chan struct{}

	mu       sync.RWMutex
	alloc    uint64
	paused   bool
	resumeCh chan struct{}
}

// NewMonitor creates a monitor. With no limit available it stays inert:
// Start launches nothing and WaitIfPaused never blocks.
func NewMonitor(cfg Config) *Monitor {
	limit := cfg.Limit
	if limit == 0 {
		if l := debug.SetMemoryLimit(-1); l > 0 && l < 1<<62 {
			limit = l
			logging.Info("Backpressure following GOMEMLIMIT: %s", formatBytes(limit))
		}
	}
	if limit == 0 {
		logging.Warn("No memory limit configured, hashing backpressure disabled")
	}

	return &Monitor{
		cfg:      cfg,
		limit:    limit,
		stopChan: make(chan struct{}),
		resumeCh: make(chan struct{}),
	}
}

// Start launches the sampling loop.
func (m *Monitor) Start() {
	if m.limit == 0 {
		return
	}
	go m.loop()
}

// Stop ends sampling and releases every goroutine blocked in WaitIfPaused.
func (m *Monitor) Stop() {
	close(m.stopChan)
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			m.observe(stats.Alloc)
		case <-m.stopChan:
			return
		}
	}
}

// observe applies one heap sample to the pause state. Split from the ticker
// loop so tests can drive it with synthetic allocation figures.
func (m *Monitor) observe(alloc uint64) {
	if m.limit == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.alloc = alloc
	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch {
	case !m.paused && usage >= m.cfg.PauseAt:
		logging.Warn("Heap at %.0f%% of limit, pausing hashing workers", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()
	case m.paused && usage < m.cfg.ResumeAt:
		logging.Info("Heap back to %.0f%% of limit, resuming hashing workers", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.resumeCh)
		m.resumeCh = make(chan struct{})
	}
}

// WaitIfPaused blocks while processing is paused. It returns false only
// when the monitor is stopped, telling the worker to wind down instead of
// picking up more files.
func (m *Monitor) WaitIfPaused() bool {
	m.mu.RLock()
	if !m.paused {
		m.mu.RUnlock()
		return true
	}
	resume := m.resumeCh
	m.mu.RUnlock()

	select {
	case <-resume:
		return true
	case <-m.stopChan:
		return false
	}
}

// IsPaused reports whether workers are currently held.
func (m *Monitor) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// Usage returns the last sampled heap allocation as a fraction of the
// limit, zero when backpressure is disabled.
func (m *Monitor) Usage() float64 {
	if m.limit == 0 {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.alloc) / float64(m.limit)
}
