package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// File names inside a history directory.
const (
	RunsFile = "runs.jsonl"
	CacheDB  = "runs.db"
)

// History pairs the JSONL log with its SQLite cache.
type History struct {
	dir string
	db  *DB
}

// OpenHistory opens the history in dir, creating the directory if needed.
// An empty cache is rebuilt from the log.
func OpenHistory(dir string) (*History, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := OpenDB(filepath.Join(dir, CacheDB))
	if err != nil {
		return nil, err
	}
	h := &History{dir: dir, db: db}

	n, err := db.Count()
	if err != nil {
		db.Close()
		return nil, err
	}
	if n == 0 {
		if _, err := db.RebuildFromJSONL(h.LogPath()); err != nil {
			db.Close()
			return nil, err
		}
	}
	return h, nil
}

// LogPath returns the path of the JSONL log.
func (h *History) LogPath() string {
	return filepath.Join(h.dir, RunsFile)
}

// DB exposes the cache for queries.
func (h *History) DB() *DB {
	return h.db
}

// Record appends run to the log and caches it.
func (h *History) Record(run Run) error {
	if err := Append(h.LogPath(), run); err != nil {
		return err
	}
	return h.db.Insert(run)
}

// Lookup returns the cached run with the given key.
func (h *History) Lookup(key string) (*Run, error) {
	return h.db.Get(key)
}

// Rebuild discards the cache and reloads it from the log.
func (h *History) Rebuild() (int, error) {
	return h.db.RebuildFromJSONL(h.LogPath())
}

// Close closes the cache.
func (h *History) Close() error {
	return h.db.Close()
}
