package ds

import "fmt"

// DirectoryNotFoundError reports that the target path does not exist on
// disk, or exists but is not a directory.
type DirectoryNotFoundError struct {
	Path string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory does not exist: %s", e.Path)
}

// PathEncodingError reports a directory path that cannot be stored as
// text (not valid UTF-8).
type PathEncodingError struct {
	Path string
}

func (e *PathEncodingError) Error() string {
	return fmt.Sprintf("path is not valid UTF-8: %q", e.Path)
}

// NameEncodingError reports a directory entry whose name cannot be
// stored as text. It fails the whole capture pass; there is no partial
// silent skip.
type NameEncodingError struct {
	Dir  string
	Name string
}

func (e *NameEncodingError) Error() string {
	return fmt.Sprintf("file name is not valid UTF-8 in %s: %q", e.Dir, e.Name)
}

// TimestampWriteError reports a failure to write a modification time
// back onto a file during restore. It aborts the remaining restore work.
type TimestampWriteError struct {
	Path string
	Err  error
}

func (e *TimestampWriteError) Error() string {
	return fmt.Sprintf("setting modification time of %s: %v", e.Path, e.Err)
}

func (e *TimestampWriteError) Unwrap() error { return e.Err }
