package testutil

import (
	"testing"

	"dirstamp/internal/database"
	"dirstamp/internal/ds"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied
// and a fixed clock, so record timestamps are deterministic. The database is
// automatically closed when the test completes.
func NewTestDatabase(t *testing.T) ds.Database {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, FixedClock())

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
