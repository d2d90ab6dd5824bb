package ds

import "time"

// FileStamp is the live timestamp state of one regular file, as read
// from the filesystem during a capture pass.
type FileStamp struct {
	Name       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// FilesystemManager abstracts the filesystem operations the engine
// needs, so the core logic is testable against any directory layout.
type FilesystemManager interface {
	// ResolveDir validates a raw path and returns a Path object.
	// It resolves the path to an absolute path and stats it. Returns
	// *DirectoryNotFoundError when the path is absent or not a directory,
	// *PathEncodingError when the path is not valid UTF-8.
	ResolveDir(rawPath string) (*Path, error)

	// ListFiles returns the regular files directly inside dir with their
	// live timestamps. Subdirectories, symlinks and special files are
	// skipped. A name that is not valid UTF-8 fails the whole listing
	// with *NameEncodingError.
	ListFiles(dir *Path) ([]FileStamp, error)

	// ListSubdirs returns the absolute paths of the directories directly
	// inside dir, in OS order.
	ListSubdirs(dir *Path) ([]string, error)

	// StatRegular reports whether name exists under dir and is a regular
	// file. A missing file is (false, nil), not an error.
	StatRegular(dir *Path, name string) (bool, error)

	// SetModTime sets the modification time of name under dir, leaving
	// the access time unchanged.
	SetModTime(dir *Path, name string, mtime time.Time) error
}
