package ds

import (
	"fmt"
	"sort"
	"time"
)

// FileState classifies one file relative to the latest capture set.
type FileState int

const (
	// StateUnchanged: on disk with the captured modification time.
	StateUnchanged FileState = iota
	// StateModified: on disk but the modification time has drifted.
	StateModified
	// StateUntracked: on disk but absent from the latest capture set.
	// This includes files whose row carries a stale capture timestamp.
	StateUntracked
	// StateMissing: in the latest capture set but no longer on disk.
	StateMissing
)

// Indicator returns the single-character marker printed by the CLI.
func (st FileState) Indicator() string {
	switch st {
	case StateModified:
		return "M"
	case StateUntracked:
		return "?"
	case StateMissing:
		return "!"
	default:
		return " "
	}
}

// FileStatus is the state of one file name within the target directory.
type FileStatus struct {
	Name  string
	State FileState
}

// Status compares the latest capture set against the live directory and
// returns one entry per file name, sorted. A directory that was never
// captured reports every on-disk file as untracked.
func (s *Service) Status(rawPath string) ([]*FileStatus, error) {
	p, err := s.fsmgr.ResolveDir(rawPath)
	if err != nil {
		return nil, err
	}

	stamps, err := s.fsmgr.ListFiles(p)
	if err != nil {
		return nil, err
	}

	var set map[string]*statusEntry
	dir, err := s.database.FindDirectoryByPath(p.String())
	if err != nil {
		return nil, fmt.Errorf("looking up directory %s: %w", p.String(), err)
	}
	if dir != nil {
		captured, err := s.database.LatestCaptureSet(dir.ID)
		if err != nil {
			return nil, fmt.Errorf("loading latest capture for %s: %w", p.String(), err)
		}
		if captured != nil {
			set = make(map[string]*statusEntry, len(captured.Files))
			for _, f := range captured.Files {
				set[f.Name] = &statusEntry{modifiedAt: f.ModifiedAt}
			}
		}
	}

	var statuses []*FileStatus
	for _, st := range stamps {
		entry, ok := set[st.Name]
		switch {
		case !ok:
			statuses = append(statuses, &FileStatus{Name: st.Name, State: StateUntracked})
		case entry.modifiedAt.Equal(st.ModifiedAt):
			entry.seen = true
			statuses = append(statuses, &FileStatus{Name: st.Name, State: StateUnchanged})
		default:
			entry.seen = true
			statuses = append(statuses, &FileStatus{Name: st.Name, State: StateModified})
		}
	}

	// Captured files that have since disappeared.
	for name, entry := range set {
		if !entry.seen {
			statuses = append(statuses, &FileStatus{Name: name, State: StateMissing})
		}
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses, nil
}

type statusEntry struct {
	modifiedAt time.Time
	seen       bool
}
