// Package workers sizes the catalog's two worker pools from the CPUs the
// container actually has.
package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Pool caps. GOMAXPROCS tracks the container CPU limit, but on a large bare
// host the derived counts would swamp the SQLite writer, so both pools stop
// growing past these.
const (
	maxScanWorkers  = 16
	maxWatchWorkers = 8
)

// ScanWorkers sizes the bulk-scan pool. A scan alternates between hashing
// file content (CPU) and reading it off disk (I/O), so it runs 1.5 workers
// per available CPU.
func ScanWorkers() int {
	return sized(1.5, maxScanWorkers)
}

// WatchWorkers sizes the watcher pool. Watch items are dominated by reads
// of freshly settled files, so it runs 2 workers per available CPU.
func WatchWorkers() int {
	return sized(2.0, maxWatchWorkers)
}

// sized derives a worker count from GOMAXPROCS. The CATALOG_WORKERS
// environment variable overrides the calculation for both pools; the
// per-pool cap still applies.
func sized(perCPU float64, limit int) int {
	if v := os.Getenv("CATALOG_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > limit {
				return limit
			}
			return n
		}
	}

	n := int(float64(runtime.GOMAXPROCS(0)) * perCPU)
	if n < 1 {
		n = 1
	}
	if n > limit {
		n = limit
	}
	return n
}
