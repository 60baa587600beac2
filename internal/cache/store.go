// Package cache persists directory aggregates between runs, so repeat
// listings of large subtrees answer from a database instead of walking the
// tree again.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/livels/internal/entry"
)

// Timestamps are stored at nanosecond precision: filesystem mtimes can
// differ within the same second, and a seconds-granular TTL check would
// round away short expiries.
const schema = `
CREATE TABLE IF NOT EXISTS dir_stats (
	path       TEXT PRIMARY KEY,
	mtime_ns   INTEGER NOT NULL,
	size       INTEGER NOT NULL,
	subfiles   INTEGER NOT NULL,
	subdirs    INTEGER NOT NULL,
	updated_ns INTEGER NOT NULL
);`

// Store is an entry.StatsCache backed by SQLite. Rows are keyed by path,
// validated against the directory's recorded modification time and expired
// after the TTL. A directory's mtime does not change when something deep
// inside it does, so the TTL bounds how stale an answer can get.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	ttl  time.Duration
}

// Open opens (creating if needed) the cache database at path. A lock file
// next to the database coordinates concurrent livels processes.
func Open(path string, ttl time.Duration) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory %s: %w", dir, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			lock.Unlock()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		lock.Unlock()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Store{db: db, lock: lock, ttl: ttl}, nil
}

// Get implements entry.StatsCache. A row answers only when its recorded
// modification time still matches and it has not outlived the TTL.
func (s *Store) Get(path string, mtime time.Time) (entry.Stats, bool) {
	var st entry.Stats
	var mtimeNS, updatedNS int64
	err := s.db.QueryRow(
		`SELECT mtime_ns, size, subfiles, subdirs, updated_ns FROM dir_stats WHERE path = ?`,
		path,
	).Scan(&mtimeNS, &st.Size, &st.Subfiles, &st.Subdirs, &updatedNS)
	if err != nil {
		return entry.Stats{}, false
	}
	if mtimeNS != mtime.UnixNano() {
		return entry.Stats{}, false
	}
	if s.ttl > 0 && time.Since(time.Unix(0, updatedNS)) > s.ttl {
		return entry.Stats{}, false
	}
	return st, true
}

// Put implements entry.StatsCache. Failed aggregations are never stored.
func (s *Store) Put(path string, mtime time.Time, st entry.Stats) error {
	if st.Size < 0 {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO dir_stats (path, mtime_ns, size, subfiles, subdirs, updated_ns)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		path, mtime.UnixNano(), st.Size, st.Subfiles, st.Subdirs, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store stats for %s: %w", path, err)
	}
	return nil
}

// Prune drops rows older than the TTL.
func (s *Store) Prune() error {
	if s.ttl <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-s.ttl).UnixNano()
	if _, err := s.db.Exec(`DELETE FROM dir_stats WHERE updated_ns < ?`, cutoff); err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	return nil
}

// Close closes the database and releases the lock file.
func (s *Store) Close() error {
	err := s.db.Close()
	if uerr := s.lock.Unlock(); err == nil {
		err = uerr
	}
	return err
}
