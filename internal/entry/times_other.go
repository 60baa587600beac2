//go:build !linux && !darwin

package entry

import (
	"os"
	"time"
)

// birthTime falls back to the modification time on platforms without an
// accessible creation timestamp.
func birthTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
