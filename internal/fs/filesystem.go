package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"dirstamp/internal/ds"
)

// OSFilesystemManager is the real filesystem implementation of
// ds.FilesystemManager. It performs actual filesystem operations using
// the os package.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a filesystem manager that operates on
// the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// ResolveDir validates a raw path and returns a Path object.
func (m *OSFilesystemManager) ResolveDir(rawPath string) (*ds.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	if !utf8.ValidString(absPath) {
		return nil, &ds.PathEncodingError{Path: absPath}
	}

	info, err := os.Stat(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ds.DirectoryNotFoundError{Path: absPath}
	}
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return nil, &ds.DirectoryNotFoundError{Path: absPath}
	}

	return ds.NewPath(absPath, info), nil
}

// ListFiles returns the regular files directly inside dir with their
// live timestamps. Symlinks, directories and special files are skipped.
func (m *OSFilesystemManager) ListFiles(dir *ds.Path) ([]ds.FileStamp, error) {
	entries, err := os.ReadDir(dir.String())
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var stamps []ds.FileStamp
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !utf8.ValidString(name) {
			return nil, &ds.NameEncodingError{Dir: dir.String(), Name: name}
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		stamps = append(stamps, ds.FileStamp{
			Name:       name,
			CreatedAt:  creationTime(info),
			ModifiedAt: info.ModTime(),
		})
	}

	return stamps, nil
}

// ListSubdirs returns the absolute paths of the directories directly
// inside dir, in OS order.
func (m *OSFilesystemManager) ListSubdirs(dir *ds.Path) ([]string, error) {
	entries, err := os.ReadDir(dir.String())
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var subs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subs = append(subs, filepath.Join(dir.String(), entry.Name()))
		}
	}
	return subs, nil
}

// StatRegular reports whether name exists under dir and is a regular file.
func (m *OSFilesystemManager) StatRegular(dir *ds.Path, name string) (bool, error) {
	info, err := os.Lstat(filepath.Join(dir.String(), name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
	return info.Mode().IsRegular(), nil
}

// SetModTime sets the modification time of name under dir.
// The zero atime tells Chtimes to leave the access time unchanged.
func (m *OSFilesystemManager) SetModTime(dir *ds.Path, name string, mtime time.Time) error {
	return os.Chtimes(filepath.Join(dir.String(), name), time.Time{}, mtime)
}

// Compile-time check that OSFilesystemManager implements ds.FilesystemManager
var _ ds.FilesystemManager = (*OSFilesystemManager)(nil)
