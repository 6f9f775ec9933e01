package workers

import (
	"runtime"
	"testing"
)

func capped(n, limit int) int {
	if n < 1 {
		n = 1
	}
	if n > limit {
		n = limit
	}
	return n
}

func TestScanWorkersTracksCPUCount(t *testing.T) {
	t.Setenv("CATALOG_WORKERS", "")

	want := capped(int(float64(runtime.GOMAXPROCS(0))*1.5), maxScanWorkers)
	if got := ScanWorkers(); got != want {
		t.Errorf("ScanWorkers() = %d, want %d", got, want)
	}
}

func TestWatchWorkersTracksCPUCount(t *testing.T) {
	t.Setenv("CATALOG_WORKERS", "")

	want := capped(runtime.GOMAXPROCS(0)*2, maxWatchWorkers)
	if got := WatchWorkers(); got != want {
		t.Errorf("WatchWorkers() = %d, want %d", got, want)
	}
}

func TestEnvironmentOverride(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"override within cap", "4", 4},
		{"override above cap is clamped", "100", maxScanWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CATALOG_WORKERS", tt.value)
			if got := ScanWorkers(); got != tt.want {
				t.Errorf("ScanWorkers() with CATALOG_WORKERS=%s = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestInvalidOverrideFallsBack(t *testing.T) {
	want := capped(int(float64(runtime.GOMAXPROCS(0))*1.5), maxScanWorkers)

	for _, value := range []string{"junk", "0", "-3"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("CATALOG_WORKERS", value)
			if got := ScanWorkers(); got != want {
				t.Errorf("ScanWorkers() with CATALOG_WORKERS=%s = %d, want the computed %d", value, got, want)
			}
		})
	}
}

func TestSizedNeverReturnsZero(t *testing.T) {
	t.Setenv("CATALOG_WORKERS", "")

	if got := sized(0.1, maxWatchWorkers); got < 1 {
		t.Errorf("sized(0.1) = %d, want at least 1", got)
	}
}
