package database

import (
	"fmt"
	"os"
	"path/filepath"

	"dirstamp/internal/config"
	"dirstamp/internal/ds"
)

// NewDatabaseFromConfig creates a Database implementation based on the
// database config type. The clock stamps new directory records.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, clock ds.Clock) (ds.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, "dirstamp.db"), clock)
	case "memory":
		return NewSQLiteDatabase(":memory:", clock)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
