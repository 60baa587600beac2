// Package entry models one filesystem object in a listing, together with
// the lazily computed recursive aggregates for directories and the sort
// keys used to order a listing.
package entry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StatUnknown marks an aggregate that could not be determined because some
// part of the subtree failed to enumerate. All three aggregate fields carry
// it together, never a mix.
const StatUnknown int64 = -1

// statFile fills the directory-only count fields of file entries. It is
// below StatUnknown so files sort before failed directories.
const statFile int64 = -2

// Stats holds the recursive aggregates of a directory subtree.
type Stats struct {
	Size     int64
	Subfiles int64
	Subdirs  int64
}

// StatsCache answers directory aggregates from an earlier run. Get reports
// a miss for rows whose recorded modification time no longer matches.
type StatsCache interface {
	Get(path string, mtime time.Time) (Stats, bool)
	Put(path string, mtime time.Time, stats Stats) error
}

// Entry is a single object in the listed directory. Cheap metadata is fixed
// at construction; directory aggregates are computed on first access and
// memoized, so at most one traversal ever runs per entry.
type Entry struct {
	name  string
	path  string
	isDir bool
	ctime time.Time
	mtime time.Time

	aggregated bool
	size       int64
	subfiles   int64
	subdirs    int64

	cache StatsCache
}

// New builds an Entry for one child of dir. Only metadata the directory
// enumeration already produced is read; no subtree work happens here.
func New(dir string, de fs.DirEntry) (*Entry, error) {
	info, err := de.Info()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", de.Name(), err)
	}

	e := &Entry{
		name:  de.Name(),
		path:  filepath.Join(dir, de.Name()),
		isDir: de.IsDir(),
		ctime: birthTime(info),
		mtime: info.ModTime(),
	}

	// Files are complete right away; directory aggregation is deferred
	// until something asks for it.
	if !e.isDir {
		e.aggregated = true
		e.size = info.Size()
		e.subfiles = statFile
		e.subdirs = statFile
	}
	return e, nil
}

// SetStatsCache lets aggregation consult (and feed) a persistent cache.
// Must be set before the first access to an aggregate field.
func (e *Entry) SetStatsCache(c StatsCache) {
	e.cache = c
}

// Name returns the entry's display name, without any path.
func (e *Entry) Name() string { return e.name }

// DisplayName returns the name with a trailing slash for directories.
func (e *Entry) DisplayName() string {
	if e.isDir {
		return e.name + "/"
	}
	return e.name
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool { return e.isDir }

// Ext returns the entry's extension including the dot, or "" for
// directories and extensionless names.
func (e *Entry) Ext() string {
	if e.isDir {
		return ""
	}
	i := strings.LastIndex(e.name, ".")
	if i < 0 {
		return ""
	}
	return e.name[i:]
}

// CTime returns the creation time, or the nearest thing the platform has.
func (e *Entry) CTime() time.Time { return e.ctime }

// MTime returns the last modification time.
func (e *Entry) MTime() time.Time { return e.mtime }

// Size returns the entry's size in bytes. For directories this is the total
// of the subtree and may block on the first call; StatUnknown means the
// subtree could not be fully enumerated.
func (e *Entry) Size() int64 {
	e.aggregate()
	return e.size
}

// Subfiles returns the number of files in the subtree of a directory
// entry. May block on the first call, like Size.
func (e *Entry) Subfiles() int64 {
	e.aggregate()
	return e.subfiles
}

// Subdirs returns the number of directories in the subtree of a directory
// entry. May block on the first call, like Size.
func (e *Entry) Subdirs() int64 {
	e.aggregate()
	return e.subdirs
}

// aggregate computes the subtree totals of a directory entry, exactly once.
func (e *Entry) aggregate() {
	if e.aggregated {
		return
	}
	e.aggregated = true

	if e.cache != nil {
		if st, ok := e.cache.Get(e.path, e.mtime); ok {
			e.size, e.subfiles, e.subdirs = st.Size, st.Subfiles, st.Subdirs
			return
		}
	}

	st, ok := walkStats(e.path)
	if !ok {
		st = Stats{Size: StatUnknown, Subfiles: StatUnknown, Subdirs: StatUnknown}
	}
	e.size, e.subfiles, e.subdirs = st.Size, st.Subfiles, st.Subdirs

	// Failures are never cached; the next run should retry.
	if ok && e.cache != nil {
		_ = e.cache.Put(e.path, e.mtime, st)
	}
}

// walkStats totals the subtree under root with an iterative depth-first
// traversal, so depth is not bounded by the call stack. Symlinks count as
// files and are not followed. Any enumeration or stat failure anywhere in
// the subtree abandons the whole walk: partial totals are never reported.
func walkStats(root string) (Stats, bool) {
	var st Stats
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := os.ReadDir(dir)
		if err != nil {
			return Stats{}, false
		}
		for _, child := range children {
			if child.IsDir() {
				st.Subdirs++
				stack = append(stack, filepath.Join(dir, child.Name()))
				continue
			}
			info, err := child.Info()
			if err != nil {
				return Stats{}, false
			}
			st.Subfiles++
			st.Size += info.Size()
		}
	}
	return st, true
}
