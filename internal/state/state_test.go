package state

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with the schema initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// Each connection gets its own in-memory database
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}

	return db
}

func TestLookup_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	entry, err := lookupLyrics(db, "Artist", "Title")
	if err != nil {
		t.Fatalf("lookupLyrics failed: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil entry on empty db, got %+v", entry)
	}
}

func TestStoreAndLookup(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fetched := time.Unix(1700000000, 0)
	err := storeLyrics(db, CachedLyrics{
		Artist:    "Some Artist",
		Title:     "Some Song",
		Album:     "Some Album",
		Source:    "lrclib",
		Content:   "[00:01.00]Hello",
		Synced:    true,
		FetchedAt: fetched,
	})
	if err != nil {
		t.Fatalf("storeLyrics failed: %v", err)
	}

	// Keys are case and whitespace insensitive
	entry, err := lookupLyrics(db, "  some artist ", "SOME SONG")
	if err != nil {
		t.Fatalf("lookupLyrics failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry, got nil")
	}
	if entry.Content != "[00:01.00]Hello" {
		t.Errorf("Content = %q", entry.Content)
	}
	if entry.Album != "Some Album" {
		t.Errorf("Album = %q, want Some Album", entry.Album)
	}
	if !entry.Synced {
		t.Error("Synced = false, want true")
	}
	if !entry.FetchedAt.Equal(fetched) {
		t.Errorf("FetchedAt = %v, want %v", entry.FetchedAt, fetched)
	}
}

func TestStore_Replaces(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_ = storeLyrics(db, CachedLyrics{Artist: "A", Title: "B", Source: "lrclib", Content: "old"})
	_ = storeLyrics(db, CachedLyrics{Artist: "a", Title: "b", Source: "file", Content: "new"})

	entries, err := listLyrics(db)
	if err != nil {
		t.Fatalf("listLyrics failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Content != "new" || entries[0].Source != "file" {
		t.Errorf("entry = %+v, want replaced content", entries[0])
	}
	if entries[0].Album != "" {
		t.Errorf("Album = %q, want empty", entries[0].Album)
	}
}

func TestList_OrderedByFetchTime(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	base := time.Unix(1700000000, 0)
	_ = storeLyrics(db, CachedLyrics{Artist: "A", Title: "old", Source: "lrclib", Content: "x", FetchedAt: base})
	_ = storeLyrics(db, CachedLyrics{Artist: "A", Title: "new", Source: "lrclib", Content: "x", FetchedAt: base.Add(time.Hour)})

	entries, err := listLyrics(db)
	if err != nil {
		t.Fatalf("listLyrics failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Title != "new" || entries[1].Title != "old" {
		t.Errorf("order = [%s %s], want [new old]", entries[0].Title, entries[1].Title)
	}
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_ = storeLyrics(db, CachedLyrics{Artist: "A", Title: "B", Source: "lrclib", Content: "x"})

	removed, err := deleteLyrics(db, "A", "B")
	if err != nil {
		t.Fatalf("deleteLyrics failed: %v", err)
	}
	if !removed {
		t.Error("removed = false, want true")
	}

	removed, err = deleteLyrics(db, "A", "B")
	if err != nil {
		t.Fatalf("deleteLyrics failed: %v", err)
	}
	if removed {
		t.Error("second delete removed = true, want false")
	}
}

func TestManager_Prune(t *testing.T) {
	db := setupTestDB(t)
	m := &Manager{db: db}
	defer m.Close()

	base := time.Unix(1700000000, 0)
	_ = m.Store(CachedLyrics{Artist: "A", Title: "old", Source: "lrclib", Content: "x", FetchedAt: base})
	_ = m.Store(CachedLyrics{Artist: "A", Title: "new", Source: "lrclib", Content: "x", FetchedAt: base.Add(48 * time.Hour)})
	_ = saveOffset(db, "/music/a.flac", 0)
	_ = saveOffset(db, "/music/b.flac", 250*time.Millisecond)

	removed, err := m.Prune(base.Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	entries, _ := m.List()
	if len(entries) != 1 || entries[0].Title != "new" {
		t.Errorf("remaining = %+v, want only 'new'", entries)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM track_offsets`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("offsets count = %d, want 1", count)
	}
}

func TestGetOffset_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	offset, err := getOffset(db, "/music/none.flac")
	if err != nil {
		t.Fatalf("getOffset failed: %v", err)
	}
	if offset != 0 {
		t.Errorf("offset = %v, want 0", offset)
	}
}

func TestManager_SaveOffset(t *testing.T) {
	db := setupTestDB(t)
	m := &Manager{db: db}

	m.SaveOffset("/music/a.flac", -300*time.Millisecond)

	// Pending value is visible before the debounced write
	offset, err := m.GetOffset("/music/a.flac")
	if err != nil {
		t.Fatalf("GetOffset failed: %v", err)
	}
	if offset != -300*time.Millisecond {
		t.Errorf("offset = %v, want -300ms", offset)
	}

	// Close flushes pending writes
	m.saveMu.Lock()
	pending := m.pending
	m.pending = nil
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveMu.Unlock()
	for p, o := range pending {
		if err := saveOffset(db, p, o); err != nil {
			t.Fatalf("saveOffset failed: %v", err)
		}
	}

	offset, err = getOffset(db, "/music/a.flac")
	if err != nil {
		t.Fatalf("getOffset failed: %v", err)
	}
	if offset != -300*time.Millisecond {
		t.Errorf("stored offset = %v, want -300ms", offset)
	}
	db.Close()
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "state.db")

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := m.Store(CachedLyrics{Artist: "A", Title: "B", Source: "lrclib", Content: "x"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	m.SaveOffset("/music/a.flac", time.Second)
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	entry, err := m.Lookup("a", "b")
	if err != nil || entry == nil {
		t.Fatalf("Lookup after reopen = %v, %v", entry, err)
	}
	offset, err := m.GetOffset("/music/a.flac")
	if err != nil {
		t.Fatalf("GetOffset failed: %v", err)
	}
	if offset != time.Second {
		t.Errorf("offset after reopen = %v, want 1s", offset)
	}
}

func TestManager_DB(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}
	if m.DB() != db {
		t.Error("DB() should return the underlying connection")
	}
}

func TestMock_CacheRoundTrip(t *testing.T) {
	m := NewMock()

	_ = m.Store(CachedLyrics{Artist: "Artist", Title: "Song", Content: "x"})
	entry, _ := m.Lookup("ARTIST", "song")
	if entry == nil || entry.Content != "x" {
		t.Fatalf("Lookup = %+v, want stored entry", entry)
	}
	if m.StoreCount() != 1 {
		t.Errorf("StoreCount = %d, want 1", m.StoreCount())
	}
	_ = m.Close()
	if !m.IsClosed() {
		t.Error("IsClosed = false after Close")
	}
}
