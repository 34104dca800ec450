package state

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/llehouerou/lyricsync/internal/db"
)

// CachedLyrics is a lyrics document stored in the local cache.
type CachedLyrics struct {
	Artist    string
	Title     string
	Album     string
	Source    string
	Content   string
	Synced    bool
	FetchedAt time.Time
}

// cacheKey normalizes an artist/title pair for lookups.
func cacheKey(artist, title string) (string, string) {
	return strings.ToLower(strings.TrimSpace(artist)), strings.ToLower(strings.TrimSpace(title))
}

// Lookup returns the cached lyrics for artist/title, or nil if none.
func (m *Manager) Lookup(artist, title string) (*CachedLyrics, error) {
	return lookupLyrics(m.db, artist, title)
}

// Store inserts or replaces a cache entry. A zero FetchedAt is set to now.
func (m *Manager) Store(entry CachedLyrics) error {
	return storeLyrics(m.db, entry)
}

// List returns every cache entry, most recently fetched first.
func (m *Manager) List() ([]CachedLyrics, error) {
	return listLyrics(m.db)
}

// Delete removes the entry for artist/title. It reports whether a row
// was removed.
func (m *Manager) Delete(artist, title string) (bool, error) {
	return deleteLyrics(m.db, artist, title)
}

// Prune removes entries fetched before the cutoff and resets zero
// offsets. It returns the number of cache entries removed.
func (m *Manager) Prune(before time.Time) (int64, error) {
	var removed int64
	err := db.WithTx(m.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM lyrics_cache WHERE fetched_at < ?`, before.Unix())
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		if err != nil {
			return err
		}
		_, err = tx.Exec(`DELETE FROM track_offsets WHERE offset_ms = 0`)
		return err
	})
	return removed, err
}

func lookupLyrics(conn *sql.DB, artist, title string) (*CachedLyrics, error) {
	a, t := cacheKey(artist, title)

	var entry CachedLyrics
	var album sql.NullString
	var synced int
	var fetchedAt int64
	err := conn.QueryRow(`
		SELECT artist, title, album, source, content, synced, fetched_at
		FROM lyrics_cache WHERE artist = ? AND title = ?
	`, a, t).Scan(&entry.Artist, &entry.Title, &album, &entry.Source, &entry.Content, &synced, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil entry means cache miss
	}
	if err != nil {
		return nil, err
	}

	entry.Album = db.NullStringValue(album)
	entry.Synced = synced != 0
	entry.FetchedAt = time.Unix(fetchedAt, 0)
	return &entry, nil
}

func storeLyrics(conn *sql.DB, entry CachedLyrics) error {
	a, t := cacheKey(entry.Artist, entry.Title)
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}

	synced := 0
	if entry.Synced {
		synced = 1
	}

	_, err := conn.Exec(`
		INSERT OR REPLACE INTO lyrics_cache (artist, title, album, source, content, synced, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a, t, db.NullString(entry.Album), entry.Source, entry.Content, synced, entry.FetchedAt.Unix())
	return err
}

func listLyrics(conn *sql.DB) ([]CachedLyrics, error) {
	rows, err := conn.Query(`
		SELECT artist, title, album, source, content, synced, fetched_at
		FROM lyrics_cache ORDER BY fetched_at DESC, artist, title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CachedLyrics
	for rows.Next() {
		var entry CachedLyrics
		var album sql.NullString
		var synced int
		var fetchedAt int64
		if err := rows.Scan(&entry.Artist, &entry.Title, &album, &entry.Source, &entry.Content, &synced, &fetchedAt); err != nil {
			return nil, err
		}
		entry.Album = db.NullStringValue(album)
		entry.Synced = synced != 0
		entry.FetchedAt = time.Unix(fetchedAt, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func deleteLyrics(conn *sql.DB, artist, title string) (bool, error) {
	a, t := cacheKey(artist, title)
	res, err := conn.Exec(`DELETE FROM lyrics_cache WHERE artist = ? AND title = ?`, a, t)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
