package model

import "time"

// ActionKind identifies what a dir_actions_log entry records.
// Values are stored as integers; never renumber existing constants.
type ActionKind int

const (
	// ActionTimestampsCaptured marks one completed capture pass.
	ActionTimestampsCaptured ActionKind = 0
)

func (k ActionKind) String() string {
	switch k {
	case ActionTimestampsCaptured:
		return "timestamps-captured"
	default:
		return "unknown"
	}
}

// Directory represents a directory known to the store.
// The path is the natural key: exact string match, no normalization,
// so two spellings of the same directory are two records.
type Directory struct {
	ID        string // UUID
	Path      string // Absolute path on host
	CreatedAt time.Time
}

// FileTimestamps is the captured timestamp state of one file within a
// directory. There is at most one row per (directory, name); a later
// capture overwrites CapturedAt/CreatedAt/ModifiedAt in place.
type FileTimestamps struct {
	ID          string // UUID, assigned on first insert
	DirectoryID string // Foreign key to Directory
	Name        string // Base name within the directory
	CapturedAt  time.Time
	CreatedAt   time.Time // Creation time as observed (never restored)
	ModifiedAt  time.Time
}

// CaptureLogEntry is one append-only record in dir_actions_log.
// Restore anchors on the newest entry per directory; the autoincrement
// ID breaks ties when two captures share a timestamp.
type CaptureLogEntry struct {
	ID          int64
	DirectoryID string
	Action      ActionKind
	CapturedAt  time.Time
}

// CaptureSet is the restore anchor plus every file row tagged with it.
type CaptureSet struct {
	CapturedAt time.Time
	Files      []*FileTimestamps
}
