package ds_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dirstamp/internal/ds"
	"dirstamp/internal/fs"
	"dirstamp/internal/testutil"
)

// setupService wires a Service against a real temp directory, an
// in-memory database, and a stub clock.
func setupService(t *testing.T) (*ds.Service, ds.Database, *testutil.StubClock, string) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	clock := testutil.FixedClock()
	svc := ds.NewService(db, fs.NewOSFilesystemManager(), ds.NewNopLogger(), clock)
	return svc, db, clock, t.TempDir()
}

func writeFile(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("content of "+name), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, time.Time{}, mtime); err != nil {
			t.Fatalf("setting mtime of %s: %v", name, err)
		}
	}
	return path
}

func latestSet(t *testing.T, db ds.Database, dirPath string) []string {
	t.Helper()
	dir, err := db.FindDirectoryByPath(dirPath)
	if err != nil {
		t.Fatalf("finding directory: %v", err)
	}
	if dir == nil {
		t.Fatalf("directory %s not in store", dirPath)
	}
	set, err := db.LatestCaptureSet(dir.ID)
	if err != nil {
		t.Fatalf("loading capture set: %v", err)
	}
	if set == nil {
		t.Fatalf("no capture set for %s", dirPath)
	}
	names := make([]string, len(set.Files))
	for i, f := range set.Files {
		names[i] = f.Name
	}
	return names
}

func TestService_Capture(t *testing.T) {
	t.Run("captures regular files only", func(t *testing.T) {
		t.Parallel()
		svc, db, _, dir := setupService(t)

		writeFile(t, dir, "a.txt", time.Time{})
		writeFile(t, dir, "b.txt", time.Time{})
		if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeFile(t, dir, "sub/nested.txt", time.Time{})
		if err := os.Symlink(filepath.Join(dir, "a.txt"), filepath.Join(dir, "link")); err != nil {
			t.Fatalf("symlink: %v", err)
		}

		n, err := svc.Capture(dir)
		if err != nil {
			t.Fatalf("Capture() error = %v", err)
		}
		if n != 2 {
			t.Errorf("captured %d files, want 2", n)
		}

		names := latestSet(t, db, dir)
		if len(names) != 2 {
			t.Fatalf("capture set has %d rows, want 2: %v", len(names), names)
		}
	})

	t.Run("missing directory fails with DirectoryNotFoundError", func(t *testing.T) {
		t.Parallel()
		svc, _, _, dir := setupService(t)

		_, err := svc.Capture(filepath.Join(dir, "nope"))
		var notFound *ds.DirectoryNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Capture() error = %v, want DirectoryNotFoundError", err)
		}
	})

	t.Run("invalid UTF-8 name fails the whole pass", func(t *testing.T) {
		t.Parallel()
		svc, db, _, dir := setupService(t)

		writeFile(t, dir, "ok.txt", time.Time{})
		writeFile(t, dir, "\xff\xfe", time.Time{})

		_, err := svc.Capture(dir)
		var badName *ds.NameEncodingError
		if !errors.As(err, &badName) {
			t.Fatalf("Capture() error = %v, want NameEncodingError", err)
		}

		// Nothing of the pass may be recorded, not even for ok.txt.
		rec, err := db.FindDirectoryByPath(dir)
		if err != nil {
			t.Fatalf("finding directory: %v", err)
		}
		if rec != nil {
			set, err := db.LatestCaptureSet(rec.ID)
			if err != nil {
				t.Fatalf("loading capture set: %v", err)
			}
			if set != nil {
				t.Errorf("failed pass left a capture set: %+v", set)
			}
			history, err := db.CaptureHistory(rec.ID, 10)
			if err != nil {
				t.Fatalf("listing history: %v", err)
			}
			if len(history) != 0 {
				t.Errorf("failed pass left %d log entries, want 0", len(history))
			}
		}
	})

	t.Run("invalid UTF-8 path fails with PathEncodingError", func(t *testing.T) {
		t.Parallel()
		svc, _, _, dir := setupService(t)

		_, err := svc.Capture(filepath.Join(dir, "\xff\xfe"))
		var badPath *ds.PathEncodingError
		if !errors.As(err, &badPath) {
			t.Fatalf("Capture() error = %v, want PathEncodingError", err)
		}
	})

	t.Run("repeated capture is idempotent per name", func(t *testing.T) {
		t.Parallel()
		svc, db, clock, dir := setupService(t)

		writeFile(t, dir, "a.txt", time.Time{})

		if _, err := svc.Capture(dir); err != nil {
			t.Fatalf("first Capture() error = %v", err)
		}
		clock.Advance(time.Minute)
		if _, err := svc.Capture(dir); err != nil {
			t.Fatalf("second Capture() error = %v", err)
		}

		dirRec, err := db.FindDirectoryByPath(dir)
		if err != nil || dirRec == nil {
			t.Fatalf("finding directory: %v", err)
		}

		// One row per name, tagged with the second pass only.
		files, err := db.FindFilesByDirectory(dirRec.ID)
		if err != nil {
			t.Fatalf("listing files: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("got %d file rows, want 1", len(files))
		}
		wantCapturedAt := clock.Now().UTC().Truncate(time.Second)
		if !files[0].CapturedAt.Equal(wantCapturedAt) {
			t.Errorf("CapturedAt = %v, want %v", files[0].CapturedAt, wantCapturedAt)
		}

		// But two log entries.
		history, err := db.CaptureHistory(dirRec.ID, 10)
		if err != nil {
			t.Fatalf("listing history: %v", err)
		}
		if len(history) != 2 {
			t.Errorf("got %d log entries, want 2", len(history))
		}
	})

	t.Run("all rows of one pass share one capture timestamp", func(t *testing.T) {
		t.Parallel()
		svc, db, clock, dir := setupService(t)

		writeFile(t, dir, "a.txt", time.Time{})
		writeFile(t, dir, "b.txt", time.Time{})
		writeFile(t, dir, "c.txt", time.Time{})

		if _, err := svc.Capture(dir); err != nil {
			t.Fatalf("Capture() error = %v", err)
		}

		dirRec, _ := db.FindDirectoryByPath(dir)
		files, err := db.FindFilesByDirectory(dirRec.ID)
		if err != nil {
			t.Fatalf("listing files: %v", err)
		}
		want := clock.Now().UTC().Truncate(time.Second)
		for _, f := range files {
			if !f.CapturedAt.Equal(want) {
				t.Errorf("%s CapturedAt = %v, want %v", f.Name, f.CapturedAt, want)
			}
		}
	})
}

func TestService_CaptureTree(t *testing.T) {
	t.Run("recursive capture covers nested directories", func(t *testing.T) {
		t.Parallel()
		svc, db, _, dir := setupService(t)

		// A/x and A/B/y
		writeFile(t, dir, "x", time.Time{})
		sub := filepath.Join(dir, "B")
		if err := os.Mkdir(sub, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeFile(t, sub, "y", time.Time{})

		dirs, files, err := svc.CaptureTree(dir, true)
		if err != nil {
			t.Fatalf("CaptureTree() error = %v", err)
		}
		if dirs != 2 {
			t.Errorf("captured %d directories, want 2", dirs)
		}
		if files != 2 {
			t.Errorf("captured %d files, want 2", files)
		}

		if names := latestSet(t, db, dir); len(names) != 1 || names[0] != "x" {
			t.Errorf("root capture set = %v, want [x]", names)
		}
		if names := latestSet(t, db, sub); len(names) != 1 || names[0] != "y" {
			t.Errorf("subdir capture set = %v, want [y]", names)
		}
	})

	t.Run("non-recursive mode captures exactly the given path", func(t *testing.T) {
		t.Parallel()
		svc, db, _, dir := setupService(t)

		writeFile(t, dir, "x", time.Time{})
		sub := filepath.Join(dir, "B")
		if err := os.Mkdir(sub, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeFile(t, sub, "y", time.Time{})

		dirs, files, err := svc.CaptureTree(dir, false)
		if err != nil {
			t.Fatalf("CaptureTree() error = %v", err)
		}
		if dirs != 1 || files != 1 {
			t.Errorf("got (%d dirs, %d files), want (1, 1)", dirs, files)
		}

		subRec, err := db.FindDirectoryByPath(sub)
		if err != nil {
			t.Fatalf("finding subdir: %v", err)
		}
		if subRec != nil {
			t.Errorf("subdirectory was captured in non-recursive mode")
		}
	})
}
