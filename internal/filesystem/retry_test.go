package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestVolumeResolver(t *testing.T) {
	vr := NewVolumeResolver(map[string]string{
		"assets": "/srv/assets",
		"data":   "/srv/assets/data",
	})

	tests := []struct {
		path string
		want string
	}{
		{"/srv/assets/textures/brick.png", "assets"},
		{"/srv/assets/data/catalog.db", "data"},
		{"/srv/assets", "assets"},
		{"/elsewhere/file.png", "unknown"},
	}

	for _, tt := range tests {
		if got := vr.Resolve(tt.path); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestVolumeResolverNilSafe(t *testing.T) {
	var vr *VolumeResolver
	if got := vr.Resolve("/any/path"); got != "unknown" {
		t.Errorf("nil resolver Resolve() = %q, want unknown", got)
	}
}

func TestStatAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.png")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := StatAsset(path)
	if err != nil {
		t.Fatalf("StatAsset: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("size = %d, want 4", info.Size())
	}
}

func TestStatAssetMissingFileFailsImmediately(t *testing.T) {
	start := time.Now()
	_, err := StatAsset(filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("error = %v, want not-exist", err)
	}

	// A not-exist error must not enter the backoff loop.
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("non-NFS error took %v, should fail without retrying", elapsed)
	}
}

func TestOpenAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.wav")
	if err := os.WriteFile(path, []byte("pcm"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := OpenAsset(path)
	if err != nil {
		t.Fatalf("OpenAsset: %v", err)
	}
	defer f.Close()

	buf := make([]byte, 3)
	if _, err := f.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf) != "pcm" {
		t.Errorf("read %q, want pcm", buf)
	}
}

func TestRetryRecoversFromStaleHandles(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 4 * time.Millisecond}

	calls := 0
	got, err := retryStale(p, "stat", "/srv/assets/a.png", func(string) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("stat: %w", syscall.ESTALE)
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("retryStale: %v", err)
	}
	if got != "ok" {
		t.Errorf("result = %q, want ok", got)
	}
	if calls != 3 {
		t.Errorf("operation ran %d times, want 3 (two stale handles, then success)", calls)
	}
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	p := RetryPolicy{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

	calls := 0
	_, err := retryStale(p, "open", "/srv/assets/a.png", func(string) (*os.File, error) {
		calls++
		return nil, syscall.ESTALE
	})
	if err == nil {
		t.Fatal("expected the stale handle to surface after retries ran out")
	}
	if !isStale(err) {
		t.Errorf("final error = %v, want the underlying ESTALE", err)
	}
	if calls != p.MaxRetries+1 {
		t.Errorf("operation ran %d times, want %d", calls, p.MaxRetries+1)
	}
}

func TestIsStale(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"ESTALE", syscall.ESTALE, true},
		{"wrapped ESTALE", fmt.Errorf("stat: %w", syscall.ESTALE), true},
		{"ENOENT", syscall.ENOENT, false},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStale(tt.err); got != tt.want {
				t.Errorf("isStale(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestPolicyVolumeOverridesDefault(t *testing.T) {
	SetDefaultVolumeResolver(NewVolumeResolver(map[string]string{"assets": "/srv/assets"}))
	t.Cleanup(func() { SetDefaultVolumeResolver(nil) })

	p := DefaultPolicy()
	p.Volumes = NewVolumeResolver(map[string]string{"scratch": "/srv/assets"})

	if got := p.volumeFor("/srv/assets/a.png"); got != "scratch" {
		t.Errorf("volumeFor = %q, want the policy-level resolver to win", got)
	}

	p.Volumes = nil
	if got := p.volumeFor("/srv/assets/a.png"); got != "assets" {
		t.Errorf("volumeFor = %q, want the package default", got)
	}
}
