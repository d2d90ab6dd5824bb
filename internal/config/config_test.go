package config_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"dirstamp/internal/config"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig("/home/user/.local/share/dirstamp")

	var buf bytes.Buffer
	m := &config.Manager{}
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != cfg.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, cfg.BaseDir)
	}
	if got.LogDir != cfg.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, cfg.LogDir)
	}
	if got.Database != cfg.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, cfg.Database)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig("/base")
	if cfg.LogDir != filepath.Join("/base", "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Database.DataDir != filepath.Join("/base", "db") {
		t.Errorf("Database.DataDir = %q", cfg.Database.DataDir)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", "dirstamp.toml")
	cfg := config.NewConfig("/base")

	if err := config.Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := config.ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.BaseDir != "/base" {
		t.Errorf("BaseDir = %q, want /base", got.BaseDir)
	}

	// A second init must refuse to overwrite.
	if err := config.Init(path, cfg); err == nil {
		t.Errorf("Init() over existing config succeeded, want error")
	}
}

func TestReadFromFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := config.ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Errorf("ReadFromFile() on missing file = nil, want error")
	}
}
