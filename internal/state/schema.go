package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS lyrics_cache (
			artist TEXT NOT NULL,
			title TEXT NOT NULL,
			album TEXT,
			source TEXT NOT NULL,
			content TEXT NOT NULL,
			synced INTEGER NOT NULL DEFAULT 0,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (artist, title)
		);

		CREATE INDEX IF NOT EXISTS idx_lyrics_cache_fetched_at ON lyrics_cache(fetched_at);

		CREATE TABLE IF NOT EXISTS track_offsets (
			path TEXT PRIMARY KEY,
			offset_ms INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add synced column if missing
	_, _ = db.Exec(`ALTER TABLE lyrics_cache ADD COLUMN synced INTEGER NOT NULL DEFAULT 0`)

	return nil
}
