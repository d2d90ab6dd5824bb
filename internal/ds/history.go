package ds

import (
	"fmt"

	"dirstamp/internal/model"
)

// History returns the most recent capture log entries for a directory,
// newest first. A directory unknown to the store yields an empty list.
func (s *Service) History(rawPath string, limit int) ([]*model.CaptureLogEntry, error) {
	p, err := s.fsmgr.ResolveDir(rawPath)
	if err != nil {
		return nil, err
	}

	dir, err := s.database.FindDirectoryByPath(p.String())
	if err != nil {
		return nil, fmt.Errorf("looking up directory %s: %w", p.String(), err)
	}
	if dir == nil {
		return nil, nil
	}

	entries, err := s.database.CaptureHistory(dir.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing capture history for %s: %w", p.String(), err)
	}
	return entries, nil
}
