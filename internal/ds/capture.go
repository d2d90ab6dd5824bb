package ds

import (
	"fmt"
	"time"

	"dirstamp/internal/model"
)

// Capture records the current timestamps of every regular file directly
// inside the given directory. Subdirectories are not descended into.
// Returns the number of files captured.
func (s *Service) Capture(rawPath string) (int, error) {
	p, err := s.fsmgr.ResolveDir(rawPath)
	if err != nil {
		return 0, err
	}
	return s.captureDir(p)
}

// captureDir runs one capture pass against an already-resolved directory.
// All rows from one pass share a single capture timestamp, taken once up
// front; the log append and every upsert commit in one transaction.
func (s *Service) captureDir(p *Path) (int, error) {
	dir, err := s.database.FindOrCreateDirectory(p.String())
	if err != nil {
		return 0, fmt.Errorf("resolving directory identity for %s: %w", p.String(), err)
	}

	capturedAt := s.clock.Now().UTC().Truncate(time.Second)

	stamps, err := s.fsmgr.ListFiles(p)
	if err != nil {
		return 0, err
	}

	files := make([]model.FileTimestamps, 0, len(stamps))
	for _, st := range stamps {
		files = append(files, model.FileTimestamps{
			DirectoryID: dir.ID,
			Name:        st.Name,
			CapturedAt:  capturedAt,
			CreatedAt:   st.CreatedAt,
			ModifiedAt:  st.ModifiedAt,
		})
	}

	if err := s.database.RecordCapture(dir.ID, capturedAt, files); err != nil {
		return 0, fmt.Errorf("recording capture for %s: %w", p.String(), err)
	}

	s.logger.Info("capture recorded", "path", p.String(), "files", len(files))
	return len(files), nil
}

// CaptureTree captures the given directory and, when recursive is true,
// every directory below it. The walk is an explicit depth-first worklist
// in OS order; any directory-read error aborts the whole traversal.
// Returns the number of directories and files captured.
func (s *Service) CaptureTree(rawPath string, recursive bool) (int, int, error) {
	if !recursive {
		n, err := s.Capture(rawPath)
		if err != nil {
			return 0, 0, err
		}
		return 1, n, nil
	}

	pending := []string{rawPath}
	var dirs, files int

	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		p, err := s.fsmgr.ResolveDir(cur)
		if err != nil {
			return dirs, files, err
		}

		n, err := s.captureDir(p)
		if err != nil {
			return dirs, files, err
		}
		dirs++
		files += n

		subs, err := s.fsmgr.ListSubdirs(p)
		if err != nil {
			return dirs, files, fmt.Errorf("reading subdirectories of %s: %w", p.String(), err)
		}
		pending = append(pending, subs...)
	}

	return dirs, files, nil
}
