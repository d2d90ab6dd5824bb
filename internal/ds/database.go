package ds

import (
	"time"

	"dirstamp/internal/model"
)

// Database provides an interface for timestamp metadata storage.
// Every method runs as one short transaction; the store's own locking
// serializes concurrent processes.
type Database interface {
	// FindOrCreateDirectory returns the directory record for an exact path
	// string, creating one inside the same transaction if none exists.
	FindOrCreateDirectory(path string) (*model.Directory, error)

	// FindDirectoryByPath returns the directory with an exact path match,
	// or nil when the path has never been captured. It never creates.
	FindDirectoryByPath(path string) (*model.Directory, error)

	// RecordCapture atomically appends one capture log entry and upserts
	// every file row, all tagged with the same capturedAt. Either the whole
	// pass becomes visible or none of it does.
	RecordCapture(directoryID string, capturedAt time.Time, files []model.FileTimestamps) error

	// LatestCaptureSet returns the newest capture anchor for a directory
	// together with all file rows whose cached_date matches it, read in one
	// transaction. Returns nil when the directory has no capture log entry.
	LatestCaptureSet(directoryID string) (*model.CaptureSet, error)

	// CaptureHistory returns the most recent capture log entries for a
	// directory, newest first.
	CaptureHistory(directoryID string, limit int) ([]*model.CaptureLogEntry, error)

	// FindFilesByDirectory returns every file row for a directory,
	// regardless of which capture pass last touched it.
	FindFilesByDirectory(directoryID string) ([]*model.FileTimestamps, error)

	// Close closes the database connection.
	Close() error
}
