//go:build darwin

package entry

import (
	"os"
	"syscall"
	"time"
)

// birthTime returns the file's creation time from the stat birth timestamp.
func birthTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return info.ModTime()
}
