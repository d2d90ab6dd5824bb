package ds

import (
	"fmt"
	"path/filepath"
)

// Apply restores the most recently captured modification time onto each
// file still present in the directory. Files that have disappeared or
// are no longer regular are skipped silently. A directory that was never
// captured is a no-op, not an error. Returns the number of files whose
// modification time was rewritten.
//
// Creation times are stored but never written back: platforms do not
// allow rewriting a file's birth time.
func (s *Service) Apply(rawPath string) (int, error) {
	p, err := s.fsmgr.ResolveDir(rawPath)
	if err != nil {
		return 0, err
	}

	dir, err := s.database.FindDirectoryByPath(p.String())
	if err != nil {
		return 0, fmt.Errorf("looking up directory %s: %w", p.String(), err)
	}
	if dir == nil {
		s.logger.Debug("directory has never been captured", "path", p.String())
		return 0, nil
	}

	set, err := s.database.LatestCaptureSet(dir.ID)
	if err != nil {
		return 0, fmt.Errorf("loading latest capture for %s: %w", p.String(), err)
	}
	if set == nil {
		s.logger.Debug("no capture recorded", "path", p.String())
		return 0, nil
	}

	restored := 0
	for _, f := range set.Files {
		ok, err := s.fsmgr.StatRegular(p, f.Name)
		if err != nil {
			return restored, &TimestampWriteError{Path: filepath.Join(p.String(), f.Name), Err: err}
		}
		if !ok {
			continue
		}
		if err := s.fsmgr.SetModTime(p, f.Name, f.ModifiedAt); err != nil {
			return restored, &TimestampWriteError{Path: filepath.Join(p.String(), f.Name), Err: err}
		}
		restored++
	}

	s.logger.Info("timestamps applied", "path", p.String(), "capturedAt", set.CapturedAt, "files", restored)
	return restored, nil
}
