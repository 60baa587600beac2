package entry

import (
	"cmp"
	"strings"
)

// Key is a total order over entries. It returns a negative number when a
// orders before b, zero on a tie and a positive number otherwise. Keys that
// read aggregate fields may block on the first comparison of a directory.
type Key func(a, b *Entry) int

// Reverse returns a key ordering elements exactly opposite to key. The
// comparison outcome is inverted, not the attribute values, so composite
// tiebreaks reverse correctly too.
func Reverse(key Key) Key {
	return func(a, b *Entry) int {
		return -key(a, b)
	}
}

// ByName orders by name: directories first, then case-folded name, then
// exact name. Every other key ends with this same tiebreak so the overall
// order is always total.
func ByName(a, b *Entry) int {
	return nameTiebreak(a, b)
}

// ByExt orders by extension, case-folded then exact.
func ByExt(a, b *Entry) int {
	ea, eb := a.Ext(), b.Ext()
	if c := strings.Compare(strings.ToLower(ea), strings.ToLower(eb)); c != 0 {
		return c
	}
	if c := strings.Compare(ea, eb); c != 0 {
		return c
	}
	return nameTiebreak(a, b)
}

// ByCTime orders by creation time.
func ByCTime(a, b *Entry) int {
	if c := a.ctime.Compare(b.ctime); c != 0 {
		return c
	}
	return nameTiebreak(a, b)
}

// ByMTime orders by last modification time.
func ByMTime(a, b *Entry) int {
	if c := a.mtime.Compare(b.mtime); c != 0 {
		return c
	}
	return nameTiebreak(a, b)
}

// BySize orders by size. Directories with failed aggregation carry
// StatUnknown and therefore sort first.
func BySize(a, b *Entry) int {
	if c := cmp.Compare(a.Size(), b.Size()); c != 0 {
		return c
	}
	return nameTiebreak(a, b)
}

// BySubfiles orders by the number of files in the subtree. Files sort
// before failed directories, which sort before successful ones.
func BySubfiles(a, b *Entry) int {
	if c := cmp.Compare(a.Subfiles(), b.Subfiles()); c != 0 {
		return c
	}
	return nameTiebreak(a, b)
}

// BySubdirs orders by the number of directories in the subtree.
func BySubdirs(a, b *Entry) int {
	if c := cmp.Compare(a.Subdirs(), b.Subdirs()); c != 0 {
		return c
	}
	return nameTiebreak(a, b)
}

func nameTiebreak(a, b *Entry) int {
	if a.isDir != b.isDir {
		if a.isDir {
			return -1
		}
		return 1
	}
	if c := strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name)); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}
