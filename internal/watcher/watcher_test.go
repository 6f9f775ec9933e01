package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"asset-catalog/internal/assettypes"
	"asset-catalog/internal/catalog"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/pipeline"
)

func testWatcher(t *testing.T, root string) (*Watcher, *catalog.Store) {
	t.Helper()
	store, err := catalog.Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("store.Close: %v", err)
		}
	})

	cls := assettypes.NewClassifier(assettypes.DefaultClassifierConfig())
	engine := pipeline.NewEngine(pipeline.NewProcessor(cls), pipeline.NewCoordinator(store))

	w, err := New(root, engine, Config{
		SettleDelay: 50 * time.Millisecond,
		QueueSize:   64,
		Workers:     2,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return w, store
}

// waitFor polls until cond returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcherCatalogsNewFile(t *testing.T) {
	dir := t.TempDir()
	_, store := testWatcher(t, dir)

	path := filepath.Join(dir, "fresh.png")
	if err := os.WriteFile(path, []byte("png bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx := context.Background()
	ok := waitFor(t, 3*time.Second, func() bool {
		_, err := store.GetAsset(ctx, path)
		return err == nil
	})
	if !ok {
		t.Fatal("new file never appeared in the catalog")
	}

	got, err := store.GetAsset(ctx, path)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if got.Status != assettypes.StatusCompleted {
		t.Errorf("status = %v, want completed", got.Status)
	}
}

func TestWatcherIgnoresUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	_, store := testWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "scratch.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	_, total, err := store.ListAssets(context.Background(), catalog.ListOptions{})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if total != 0 {
		t.Errorf("catalog holds %d records for an unsupported file, want 0", total)
	}
}

func TestWatcherCollapsesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	_, store := testWatcher(t, dir)
	ctx := context.Background()

	path := filepath.Join(dir, "hero.png")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !waitFor(t, 3*time.Second, func() bool {
		_, err := store.GetAsset(ctx, path)
		return err == nil
	}) {
		t.Fatal("initial write never cataloged")
	}
	base, _ := store.CountEvents(ctx)

	// Several writes land inside one settle window; only the final content
	// should be fingerprinted, yielding a single update event.
	for _, content := range []string{"v2", "v3", "v4-final"} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !waitFor(t, 3*time.Second, func() bool {
		n, _ := store.CountEvents(ctx)
		return n > base
	}) {
		t.Fatal("update burst never produced an event")
	}

	// Allow any stragglers to land before asserting the count.
	time.Sleep(300 * time.Millisecond)

	after, _ := store.CountEvents(ctx)
	if after != base+1 {
		t.Errorf("write burst logged %d events, want exactly 1", after-base)
	}

	events, err := store.RecentEvents(ctx, 1)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 1 || events[0].Kind != catalog.EventFileUpdated {
		t.Errorf("latest event = %+v, want file_updated", events)
	}
}

func TestWatcherDeleteIsInformational(t *testing.T) {
	dir := t.TempDir()
	_, store := testWatcher(t, dir)
	ctx := context.Background()

	path := filepath.Join(dir, "doomed.wav")
	if err := os.WriteFile(path, []byte("pcm"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !waitFor(t, 3*time.Second, func() bool {
		_, err := store.GetAsset(ctx, path)
		return err == nil
	}) {
		t.Fatal("file never cataloged before delete")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if !waitFor(t, 3*time.Second, func() bool {
		events, err := store.RecentEvents(ctx, 5)
		if err != nil {
			return false
		}
		for _, e := range events {
			if e.Kind == catalog.EventFileDeleted && e.Path == path {
				return true
			}
		}
		return false
	}) {
		t.Fatal("delete never logged")
	}

	// The record outlives the file.
	if _, err := store.GetAsset(ctx, path); err != nil {
		t.Errorf("catalog record removed after delete notification: %v", err)
	}
}

func TestWatcherPicksUpNewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	_, store := testWatcher(t, dir)
	ctx := context.Background()

	sub := filepath.Join(dir, "textures")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	// Give the watcher a beat to register the new directory before writing
	// into it.
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(sub, "brick.bmp")
	if err := os.WriteFile(path, []byte("bmp bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if !waitFor(t, 3*time.Second, func() bool {
		_, err := store.GetAsset(ctx, path)
		return err == nil
	}) {
		t.Fatal("file inside new subdirectory never cataloged")
	}
}

func TestWatcherFullQueueDropsInsteadOfBlocking(t *testing.T) {
	// Never started, so no worker drains the queue and the second item
	// overflows it.
	w, err := New(t.TempDir(), nil, Config{
		SettleDelay: time.Millisecond,
		QueueSize:   1,
		Workers:     1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Stop)

	before := testutil.ToFloat64(metrics.WatcherDropsTotal)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.enqueue("/srv/assets/a.png")
		w.enqueue("/srv/assets/b.png")
		w.enqueue("/srv/assets/c.png")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	if depth := len(w.queue); depth != 1 {
		t.Errorf("queue depth = %d, want 1", depth)
	}
	if drops := testutil.ToFloat64(metrics.WatcherDropsTotal) - before; drops != 2 {
		t.Errorf("dropped %v items, want 2", drops)
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, _ := testWatcher(t, dir)

	w.Stop()
	w.Stop()
}
