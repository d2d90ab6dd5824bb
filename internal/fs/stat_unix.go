//go:build unix

package fs

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime returns the best available creation time for a file.
// Most Unix filesystems do not expose a birth time, so the inode change
// time stands in for it; it is stored for the record but never restored.
func creationTime(info fs.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
	}
	return info.ModTime()
}
