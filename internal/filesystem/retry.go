// Package filesystem reads asset files through an NFS-aware retry layer.
package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"asset-catalog/internal/logging"
	"asset-catalog/internal/metrics"
)

// RetryPolicy bounds how hard an operation rides out a stale NFS handle
// before giving up. Only ESTALE retries; every other error fails on the
// first attempt.
type RetryPolicy struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Volumes overrides the package-level resolver for metric labeling.
	Volumes *VolumeResolver
}

// DefaultPolicy covers the brief window where an NFS server has reissued a
// file handle but clients still hold the old one.
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// StatAsset stats an asset file under the default policy. The validation
// stage uses this before committing to hash a candidate.
func StatAsset(path string) (os.FileInfo, error) {
	return DefaultPolicy().StatAsset(path)
}

// OpenAsset opens an asset file for reading under the default policy. The
// hashing and dimension stages read through this.
func OpenAsset(path string) (*os.File, error) {
	return DefaultPolicy().OpenAsset(path)
}

// StatAsset stats path, retrying stale-handle failures per the policy.
func (p RetryPolicy) StatAsset(path string) (os.FileInfo, error) {
	return retryStale(p, "stat", path, os.Stat)
}

// OpenAsset opens path for reading, retrying stale-handle failures per the
// policy.
func (p RetryPolicy) OpenAsset(path string) (*os.File, error) {
	return retryStale(p, "open", path, os.Open)
}

// retryStale runs one filesystem operation with exponential backoff on
// ESTALE. Everything the package exports funnels through here, so stat and
// open can never drift apart in retry or metric behavior.
func retryStale[T any](p RetryPolicy, op, path string, fn func(string) (T, error)) (T, error) {
	start := time.Now()
	volume := p.volumeFor(path)
	defer func() {
		metrics.FilesystemRetryDuration.WithLabelValues(op, volume).Observe(time.Since(start).Seconds())
	}()

	var zero T
	var lastErr error
	backoff := p.InitialBackoff

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		v, err := fn(path)
		if err == nil {
			if attempt > 0 {
				logging.Info("NFS %s succeeded on retry %d for %s", op, attempt, path)
				metrics.FilesystemRetrySuccess.WithLabelValues(op, volume).Inc()
			}
			return v, nil
		}
		if !isStale(err) {
			return zero, err
		}
		lastErr = err
		metrics.FilesystemStaleErrors.WithLabelValues(op, volume).Inc()

		if attempt < p.MaxRetries {
			metrics.FilesystemRetryAttempts.WithLabelValues(op, volume).Inc()
			logging.Debug("NFS %s returned a stale handle for %s, retrying in %v (attempt %d/%d)",
				op, path, backoff, attempt+1, p.MaxRetries)
			time.Sleep(backoff)
			backoff *= 2
			if backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
		}
	}

	logging.Warn("NFS %s failed after %d retries for %s: %v", op, p.MaxRetries, path, lastErr)
	metrics.FilesystemRetryFailures.WithLabelValues(op, volume).Inc()
	return zero, lastErr
}

// isStale reports whether err is an NFS stale file handle (ESTALE, errno
// 116 on Linux).
func isStale(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// VolumeResolver labels paths with the mount they live on, so retry metrics
// can distinguish a flaky asset share from the local data directory. Longest
// configured prefix wins.
type VolumeResolver struct {
	mounts []volumeMount // sorted longest path first
}

type volumeMount struct {
	path string // absolute, trailing slash
	name string
}

// NewVolumeResolver builds a resolver from volume name to mount path, e.g.
// {"assets": "/srv/assets", "data": "/srv/assets/data"}.
func NewVolumeResolver(volumes map[string]string) *VolumeResolver {
	mounts := make([]volumeMount, 0, len(volumes))
	for name, path := range volumes {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !strings.HasSuffix(abs, "/") {
			abs += "/"
		}
		mounts = append(mounts, volumeMount{path: abs, name: name})
	}
	sort.Slice(mounts, func(i, j int) bool {
		return len(mounts[i].path) > len(mounts[j].path)
	})
	return &VolumeResolver{mounts: mounts}
}

// Resolve returns the volume name for path, or "unknown" when no configured
// mount contains it. A nil resolver resolves everything to "unknown".
func (vr *VolumeResolver) Resolve(path string) string {
	if vr == nil {
		return "unknown"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "unknown"
	}
	for _, m := range vr.mounts {
		// The trailing-slash variant matches the mount directory itself.
		if strings.HasPrefix(abs, m.path) || strings.HasPrefix(abs+"/", m.path) {
			return m.name
		}
	}
	return "unknown"
}

var defaultResolver *VolumeResolver

// SetDefaultVolumeResolver installs the package-level resolver. Called once
// at startup after the asset and data directories are known.
func SetDefaultVolumeResolver(vr *VolumeResolver) {
	defaultResolver = vr
}

func (p RetryPolicy) volumeFor(path string) string {
	if p.Volumes != nil {
		return p.Volumes.Resolve(path)
	}
	return defaultResolver.Resolve(path)
}
