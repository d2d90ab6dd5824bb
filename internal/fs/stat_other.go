//go:build !unix

package fs

import (
	"io/fs"
	"time"
)

// creationTime falls back to the modification time on platforms where
// stat data is not inspected.
func creationTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
