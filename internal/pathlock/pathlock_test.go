package pathlock

import (
	"sync"
	"testing"
	"time"
)

func TestSamePathSerializes(t *testing.T) {
	m := New()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("/assets/hero.png")
			defer unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("max concurrent holders for one path = %d, want 1", maxActive)
	}
}

func TestDistinctPathsRunInParallel(t *testing.T) {
	m := New()

	unlockA := m.Lock("/a.png")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := m.Lock("/b.png")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a distinct path blocked behind an unrelated holder")
	}
}

func TestEntriesReclaimedWhenIdle(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("/shared.bin")
			time.Sleep(100 * time.Microsecond)
			unlock()
		}()
	}
	wg.Wait()

	if n := m.Len(); n != 0 {
		t.Errorf("lock map holds %d entries after all released, want 0", n)
	}
}

func TestEquivalentSpellingsShareOneLock(t *testing.T) {
	m := New()

	unlock := m.Lock("/assets/./hero.png")
	acquired := make(chan struct{})
	go func() {
		u := m.Lock("/assets/hero.png")
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("cleaned and uncleaned spellings of the same path did not share a lock")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second locker never acquired after release")
	}
}
