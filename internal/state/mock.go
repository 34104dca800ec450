// internal/state/mock.go
package state

import (
	"database/sql"
	"sort"
	"time"
)

// Mock is a test double for Manager.
type Mock struct {
	entries map[[2]string]CachedLyrics
	offsets map[string]time.Duration
	stores  int
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		entries: make(map[[2]string]CachedLyrics),
		offsets: make(map[string]time.Duration),
	}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) Lookup(artist, title string) (*CachedLyrics, error) {
	a, t := cacheKey(artist, title)
	entry, ok := m.entries[[2]string{a, t}]
	if !ok {
		return nil, nil //nolint:nilnil // cache miss
	}
	return &entry, nil
}

func (m *Mock) Store(entry CachedLyrics) error {
	entry.Artist, entry.Title = cacheKey(entry.Artist, entry.Title)
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}
	m.entries[[2]string{entry.Artist, entry.Title}] = entry
	m.stores++
	return nil
}

func (m *Mock) List() ([]CachedLyrics, error) {
	entries := make([]CachedLyrics, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FetchedAt.After(entries[j].FetchedAt)
	})
	return entries, nil
}

func (m *Mock) Delete(artist, title string) (bool, error) {
	a, t := cacheKey(artist, title)
	key := [2]string{a, t}
	if _, ok := m.entries[key]; !ok {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}

func (m *Mock) Prune(before time.Time) (int64, error) {
	var n int64
	for k, e := range m.entries {
		if e.FetchedAt.Before(before) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *Mock) GetOffset(path string) (time.Duration, error) {
	return m.offsets[path], nil
}

func (m *Mock) SaveOffset(path string, offset time.Duration) {
	m.offsets[path] = offset
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) StoreCount() int { return m.stores }

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
