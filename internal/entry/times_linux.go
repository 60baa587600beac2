//go:build linux

package entry

import (
	"os"
	"syscall"
	"time"
)

// birthTime returns the closest thing to a creation time the platform
// exposes. Linux stat carries no birth time, so the inode change time
// stands in for it.
func birthTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}
