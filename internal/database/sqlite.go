package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dirstamp/internal/database/migrations"
	"dirstamp/internal/ds"
	"dirstamp/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the ds.Database interface using SQLite.
type SQLiteDatabase struct {
	db    *sql.DB
	path  string
	clock ds.Clock
}

// NewSQLiteDatabase opens a SQLite database and brings its schema up to
// date. path can be a file path or ":memory:" for an in-memory database.
// The clock stamps new directory records.
func NewSQLiteDatabase(path string, clock ds.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database %s: %w", path, err)
	}

	return &SQLiteDatabase{db: db, path: path, clock: clock}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly
// configured and the schema is applied.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock ds.Clock) *SQLiteDatabase {
	return &SQLiteDatabase{db: db, path: "", clock: clock}
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. Exported for tools and tests that need a properly
// configured connection. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Wait for locks held by a concurrent invocation instead of failing.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Directory operations

// FindDirectoryByPath returns the directory with an exact path match,
// or nil when no record exists. It never creates a record.
func (s *SQLiteDatabase) FindDirectoryByPath(path string) (*model.Directory, error) {
	var dir model.Directory
	err := s.db.QueryRow(
		"SELECT id, path, created_at FROM dir_props WHERE path = ? LIMIT 1",
		path,
	).Scan(&dir.ID, &dir.Path, &dir.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding directory by path: %w", err)
	}
	return &dir, nil
}

// FindOrCreateDirectory looks up the directory record for the exact path
// string, inserting one in the same transaction when none exists. The
// UNIQUE constraint on path backstops concurrent creators.
func (s *SQLiteDatabase) FindOrCreateDirectory(path string) (*model.Directory, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var dir model.Directory
	err = tx.QueryRowContext(ctx,
		"SELECT id, path, created_at FROM dir_props WHERE path = ? LIMIT 1",
		path,
	).Scan(&dir.ID, &dir.Path, &dir.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		dir = model.Directory{
			ID:        uuid.New().String(),
			Path:      path,
			CreatedAt: s.clock.Now().UTC(),
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO dir_props (id, path, created_at) VALUES (?, ?, ?)",
			dir.ID, dir.Path, dir.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting directory: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("finding directory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &dir, nil
}

// Capture operations

// RecordCapture atomically records one capture pass: it appends the log
// entry and upserts every file row keyed (dir_id, name), all inside a
// single transaction so a concurrent reader never observes a half-written
// pass.
func (s *SQLiteDatabase) RecordCapture(directoryID string, capturedAt time.Time, files []model.FileTimestamps) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO dir_actions_log (dir_id, action_type, cached_date) VALUES (?, ?, ?)",
		directoryID, int(model.ActionTimestampsCaptured), capturedAt,
	)
	if err != nil {
		return fmt.Errorf("appending capture log entry: %w", err)
	}

	for _, f := range files {
		var existingID string
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM dir_file_props WHERE dir_id = ? AND name = ? LIMIT 1",
			directoryID, f.Name,
		).Scan(&existingID)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx,
				"INSERT INTO dir_file_props (id, dir_id, name, cached_date, created_date, modified_date) VALUES (?, ?, ?, ?, ?, ?)",
				uuid.New().String(), directoryID, f.Name, capturedAt, f.CreatedAt, f.ModifiedAt,
			)
			if err != nil {
				return fmt.Errorf("inserting timestamps for %s: %w", f.Name, err)
			}
		case err != nil:
			return fmt.Errorf("finding timestamps for %s: %w", f.Name, err)
		default:
			_, err = tx.ExecContext(ctx,
				"UPDATE dir_file_props SET cached_date = ?, created_date = ?, modified_date = ? WHERE id = ?",
				capturedAt, f.CreatedAt, f.ModifiedAt, existingID,
			)
			if err != nil {
				return fmt.Errorf("updating timestamps for %s: %w", f.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LatestCaptureSet returns the newest capture anchor for a directory and
// every file row tagged with it, read inside one transaction for a
// consistent view even while a concurrent capture runs. Two log entries
// with the same timestamp are tie-broken by the higher autoincrement id.
// Returns nil when the directory has no capture log entry.
func (s *SQLiteDatabase) LatestCaptureSet(directoryID string) (*model.CaptureSet, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var capturedAt time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT cached_date FROM dir_actions_log
		WHERE dir_id = ? AND action_type = ?
		ORDER BY cached_date DESC, id DESC
		LIMIT 1`,
		directoryID, int(model.ActionTimestampsCaptured),
	).Scan(&capturedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Never captured
	}
	if err != nil {
		return nil, fmt.Errorf("finding latest capture: %w", err)
	}

	// Match rows on the stored anchor value itself so the comparison
	// happens on the store's own representation, not a re-bound one.
	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, cached_date, created_date, modified_date FROM dir_file_props
		WHERE dir_id = ? AND cached_date = (
			SELECT cached_date FROM dir_actions_log
			WHERE dir_id = ? AND action_type = ?
			ORDER BY cached_date DESC, id DESC
			LIMIT 1
		)`,
		directoryID, directoryID, int(model.ActionTimestampsCaptured),
	)
	if err != nil {
		return nil, fmt.Errorf("finding capture set: %w", err)
	}
	defer rows.Close()

	set := &model.CaptureSet{CapturedAt: capturedAt}
	for rows.Next() {
		f := &model.FileTimestamps{DirectoryID: directoryID}
		if err := rows.Scan(&f.ID, &f.Name, &f.CapturedAt, &f.CreatedAt, &f.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scanning capture set row: %w", err)
		}
		set.Files = append(set.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading capture set: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return set, nil
}

// CaptureHistory returns the most recent capture log entries for a
// directory, newest first.
func (s *SQLiteDatabase) CaptureHistory(directoryID string, limit int) ([]*model.CaptureLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, dir_id, action_type, cached_date FROM dir_actions_log
		WHERE dir_id = ?
		ORDER BY cached_date DESC, id DESC
		LIMIT ?`,
		directoryID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing capture history: %w", err)
	}
	defer rows.Close()

	var entries []*model.CaptureLogEntry
	for rows.Next() {
		var e model.CaptureLogEntry
		var action int
		if err := rows.Scan(&e.ID, &e.DirectoryID, &action, &e.CapturedAt); err != nil {
			return nil, fmt.Errorf("scanning capture log row: %w", err)
		}
		e.Action = model.ActionKind(action)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading capture history: %w", err)
	}
	return entries, nil
}

// FindFilesByDirectory returns every file row for a directory.
func (s *SQLiteDatabase) FindFilesByDirectory(directoryID string) ([]*model.FileTimestamps, error) {
	rows, err := s.db.Query(
		"SELECT id, name, cached_date, created_date, modified_date FROM dir_file_props WHERE dir_id = ? ORDER BY name",
		directoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding files by directory: %w", err)
	}
	defer rows.Close()

	var files []*model.FileTimestamps
	for rows.Next() {
		f := &model.FileTimestamps{DirectoryID: directoryID}
		if err := rows.Scan(&f.ID, &f.Name, &f.CapturedAt, &f.CreatedAt, &f.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading file rows: %w", err)
	}
	return files, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements ds.Database
var _ ds.Database = (*SQLiteDatabase)(nil)
