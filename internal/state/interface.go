// internal/state/interface.go
package state

import (
	"database/sql"
	"time"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	Lookup(artist, title string) (*CachedLyrics, error)
	Store(entry CachedLyrics) error
	List() ([]CachedLyrics, error)
	Delete(artist, title string) (bool, error)
	Prune(before time.Time) (int64, error)
	GetOffset(path string) (time.Duration, error)
	SaveOffset(path string, offset time.Duration)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
