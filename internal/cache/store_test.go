package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/livels/internal/entry"
)

func openStore(t *testing.T, path string, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(path, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "stats.db"), time.Hour)

	mtime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	want := entry.Stats{Size: 4096, Subfiles: 12, Subdirs: 3}
	require.NoError(t, s.Put("/data/projects", mtime, want))

	got, ok := s.Get("/data/projects", mtime)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStoreMissesOnChangedMTime(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "stats.db"), time.Hour)

	mtime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Put("/data/projects", mtime, entry.Stats{Size: 1}))

	_, ok := s.Get("/data/projects", mtime.Add(time.Second))
	assert.False(t, ok)
}

func TestStoreMissesOnUnknownPath(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "stats.db"), time.Hour)

	_, ok := s.Get("/never/seen", time.Now())
	assert.False(t, ok)
}

func TestStoreExpiresAfterTTL(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "stats.db"), time.Nanosecond)

	mtime := time.Now()
	require.NoError(t, s.Put("/data/projects", mtime, entry.Stats{Size: 1}))
	time.Sleep(time.Millisecond)

	_, ok := s.Get("/data/projects", mtime)
	assert.False(t, ok)
}

func TestStoreNeverStoresFailures(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "stats.db"), time.Hour)

	mtime := time.Now()
	require.NoError(t, s.Put("/broken", mtime, entry.Stats{Size: -1, Subfiles: -1, Subdirs: -1}))

	_, ok := s.Get("/broken", mtime)
	assert.False(t, ok)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	mtime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	want := entry.Stats{Size: 512, Subfiles: 2, Subdirs: 1}

	s, err := Open(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Put("/data", mtime, want))
	require.NoError(t, s.Close())

	s = openStore(t, path, time.Hour)
	got, ok := s.Get("/data", mtime)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestPruneDropsStaleRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	mtime := time.Now()

	s, err := Open(path, time.Nanosecond)
	require.NoError(t, err)
	require.NoError(t, s.Put("/stale", mtime, entry.Stats{Size: 1}))
	time.Sleep(time.Millisecond)
	require.NoError(t, s.Prune())
	require.NoError(t, s.Close())

	// Even with a generous TTL the pruned row is gone.
	s = openStore(t, path, time.Hour)
	_, ok := s.Get("/stale", mtime)
	assert.False(t, ok)
}
