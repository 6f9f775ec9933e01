package memory

import (
	"os"
	"runtime/debug"
	"strconv"

	"asset-catalog/internal/logging"
)

// defaultHeapRatio leaves 15% of the container limit for non-heap memory:
// hashing buffers in flight, the SQLite driver's CGO allocations, and
// goroutine stacks.
const defaultHeapRatio = 0.85

// SetLimitFromEnv derives GOMEMLIMIT from the container memory limit.
// MEMORY_LIMIT carries the limit in bytes (typically injected through the
// Kubernetes Downward API); MEMORY_RATIO scales it, defaulting to
// defaultHeapRatio. An explicitly set GOMEMLIMIT always wins. Call before
// any significant allocation. Returns the effective limit in bytes, or
// zero when none is configured.
func SetLimitFromEnv() int64 {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		logging.Info("GOMEMLIMIT set explicitly: %s", env)
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < 1<<62 {
			return limit
		}
		return 0
	}

	raw := os.Getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT left alone")
		return 0
	}
	containerLimit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || containerLimit <= 0 {
		logging.Warn("Ignoring unusable MEMORY_LIMIT %q", raw)
		return 0
	}

	ratio := defaultHeapRatio
	if v := os.Getenv("MEMORY_RATIO"); v != "" {
		if r, parseErr := strconv.ParseFloat(v, 64); parseErr == nil && r > 0 && r <= 1 {
			ratio = r
		} else {
			logging.Warn("Ignoring MEMORY_RATIO %q (want a fraction in (0, 1]), using %.2f", v, defaultHeapRatio)
		}
	}

	limit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(limit)
	logging.Info("GOMEMLIMIT set to %s (%.0f%% of the %s container limit)",
		formatBytes(limit), ratio*100, formatBytes(containerLimit))
	return limit
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
