package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "lyricsync"
	dbFileName   = "lyricsync.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   map[string]time.Duration
}

// Open opens the state database at path, or at the default XDG data
// location when path is empty.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending offsets
	for path, offset := range pending {
		_ = saveOffset(m.db, path, offset)
	}

	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// GetOffset returns the saved playback offset for an audio file.
func (m *Manager) GetOffset(path string) (time.Duration, error) {
	m.saveMu.Lock()
	if offset, ok := m.pending[path]; ok {
		m.saveMu.Unlock()
		return offset, nil
	}
	m.saveMu.Unlock()
	return getOffset(m.db, path)
}

// SaveOffset records a playback offset for an audio file. Writes are
// debounced since offsets are nudged interactively.
func (m *Manager) SaveOffset(path string, offset time.Duration) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if m.pending == nil {
		m.pending = make(map[string]time.Duration)
	}
	m.pending[path] = offset

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		for p, o := range pending {
			_ = saveOffset(m.db, p, o)
		}
	})
}

// DefaultPath returns the default database location.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
