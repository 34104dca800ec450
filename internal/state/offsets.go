package state

import (
	"database/sql"
	"errors"
	"time"
)

func getOffset(db *sql.DB, path string) (time.Duration, error) {
	var ms int64
	err := db.QueryRow(`SELECT offset_ms FROM track_offsets WHERE path = ?`, path).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func saveOffset(db *sql.DB, path string, offset time.Duration) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO track_offsets (path, offset_ms) VALUES (?, ?)
	`, path, offset.Milliseconds())
	return err
}
