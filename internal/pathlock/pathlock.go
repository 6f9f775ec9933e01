package pathlock

import (
	"path/filepath"
	"sync"
)

// Map provides per-path mutual exclusion. Entries are created lazily on
// first Lock and reclaimed once the last holder or waiter releases, so the
// map stays proportional to the set of paths currently in flight rather
// than every path ever seen.
type Map struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty lock map.
func New() *Map {
	return &Map{locks: make(map[string]*entry)}
}

// Lock acquires the mutex for the normalized path, blocking while another
// goroutine holds it. The returned function releases the lock and reclaims
// the entry when no other goroutine is waiting on it.
func (m *Map) Lock(path string) (unlock func()) {
	key := Normalize(path)

	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}

// Len reports the number of live entries. Useful for tests and gauges.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Normalize cleans a path so equivalent spellings map to one lock entry.
func Normalize(path string) string {
	return filepath.Clean(path)
}
