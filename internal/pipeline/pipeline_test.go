package pipeline

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"asset-catalog/internal/assettypes"
)

func newTestProcessor() *Processor {
	return NewProcessor(assettypes.NewClassifier(assettypes.DefaultClassifierConfig()))
}

// writePNG writes a file carrying a valid PNG signature and IHDR-positioned
// width/height fields.
func writePNG(t *testing.T, path string, width, height uint32) {
	t.Helper()
	buf := make([]byte, 64)
	copy(buf, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	binary.BigEndian.PutUint32(buf[16:20], width)
	binary.BigEndian.PutUint32(buf[20:24], height)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestProcessCompletedImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.png")
	writePNG(t, path, 32, 64)

	run := newTestProcessor().Process(path)

	if run.Status != assettypes.StatusCompleted {
		t.Fatalf("Status = %v, want completed (error: %q)", run.Status, run.Error)
	}
	if run.Category != assettypes.CategoryImage {
		t.Errorf("Category = %v, want image", run.Category)
	}
	if run.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", run.MimeType)
	}
	if run.Width != 32 || run.Height != 64 {
		t.Errorf("dimensions = (%d, %d), want (32, 64)", run.Width, run.Height)
	}
	if run.Size != 64 {
		t.Errorf("Size = %d, want 64", run.Size)
	}
	if run.Fingerprint == "" {
		t.Error("Fingerprint empty on completed run")
	}
	if run.Elapsed < 0 {
		t.Errorf("Elapsed = %v, want >= 0", run.Elapsed)
	}
	if run.ProcessedAt.IsZero() {
		t.Error("ProcessedAt not stamped")
	}
}

func TestProcessUnsupportedExtensionSkips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.tmp")
	if err := os.WriteFile(path, []byte("scratch"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	run := newTestProcessor().Process(path)

	if run.Status != assettypes.StatusSkipped {
		t.Errorf("Status = %v, want skipped", run.Status)
	}
	if run.Error != "" {
		t.Errorf("skip is not an error, got %q", run.Error)
	}
	if run.Fingerprint != "" {
		t.Error("skipped run should never hash")
	}
}

func TestProcessMissingFileFails(t *testing.T) {
	run := newTestProcessor().Process(filepath.Join(t.TempDir(), "gone.png"))

	if run.Status != assettypes.StatusFailed {
		t.Fatalf("Status = %v, want failed", run.Status)
	}
	if run.Error != "File not found" {
		t.Errorf("Error = %q, want \"File not found\"", run.Error)
	}
	if run.ProcessedAt.IsZero() || run.Elapsed < 0 {
		t.Error("failed run missing elapsed-time bookkeeping")
	}
}

func TestProcessStatPermissionErrorKeepsItsMessage(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	path := filepath.Join(locked, "hero.png")
	writePNG(t, path, 8, 8)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	run := newTestProcessor().Process(path)

	if run.Status != assettypes.StatusFailed {
		t.Fatalf("Status = %v, want failed", run.Status)
	}
	// The file exists; only missing files get the "File not found" message.
	if run.Error == "File not found" {
		t.Error("permission failure recorded as a missing file")
	}
	if run.Error == "" {
		t.Error("stat failure did not capture the error message")
	}
}

func TestProcessHashingFailureCapturesMessage(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.png")
	writePNG(t, path, 8, 8)
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	run := newTestProcessor().Process(path)

	if run.Status != assettypes.StatusFailed {
		t.Fatalf("Status = %v, want failed", run.Status)
	}
	if run.Error == "" {
		t.Error("hashing failure did not capture the error message")
	}
}

func TestProcessNonImageSkipsMetadataStage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	run := newTestProcessor().Process(path)

	if run.Status != assettypes.StatusCompleted {
		t.Fatalf("Status = %v, want completed", run.Status)
	}
	if run.Category != assettypes.CategoryConfig {
		t.Errorf("Category = %v, want config", run.Category)
	}
	if run.Width != 0 || run.Height != 0 {
		t.Errorf("non-image carried dimensions (%d, %d)", run.Width, run.Height)
	}
}

func TestProcessMalformedImageHeaderStillCompletes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	// Too short for any header parse; metadata stage must swallow it.
	if err := os.WriteFile(path, []byte{0x89, 'P'}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	run := newTestProcessor().Process(path)

	if run.Status != assettypes.StatusCompleted {
		t.Fatalf("Status = %v, want completed", run.Status)
	}
	if run.Width != 0 || run.Height != 0 {
		t.Errorf("dimensions = (%d, %d), want (0, 0)", run.Width, run.Height)
	}
}

func TestProcessElapsedCoversWholeRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.wav")
	if err := os.WriteFile(path, make([]byte, 1<<20), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	before := time.Now()
	run := newTestProcessor().Process(path)

	if run.DiscoveredAt.Before(before.Add(-time.Second)) {
		t.Errorf("DiscoveredAt = %v, far before run start", run.DiscoveredAt)
	}
	if run.ProcessedAt.Before(run.DiscoveredAt) {
		t.Error("ProcessedAt precedes DiscoveredAt")
	}
	if got := run.ProcessedAt.Sub(run.DiscoveredAt); run.Elapsed > got+time.Second {
		t.Errorf("Elapsed %v inconsistent with timestamps (%v)", run.Elapsed, got)
	}
}
