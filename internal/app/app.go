package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"dirstamp/internal/config"
	"dirstamp/internal/database"
	"dirstamp/internal/ds"
	"dirstamp/internal/fs"
	"dirstamp/internal/model"
	"dirstamp/internal/watch"
)

// App is the application layer between the CLI and the engine.
// It constructs all dependencies from config, exposes high-level
// operations that accept raw string paths, and manages the DB lifecycle
// on Close.
type App struct {
	cfg     *config.Config
	db      ds.Database
	fsmgr   ds.FilesystemManager
	logger  ds.Logger
	service *ds.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config.
// The caller must call Close when done.
func NewApp(cfg *config.Config) (*App, error) {
	fsmgr := fs.NewOSFilesystemManager()
	clock := ds.RealClock{}

	db, err := database.NewDatabaseFromConfig(cfg.Database, clock)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	adapter := &slogAdapter{l: logger}
	svc := ds.NewService(db, fsmgr, adapter, clock)

	return &App{
		cfg:     cfg,
		db:      db,
		fsmgr:   fsmgr,
		logger:  adapter,
		service: svc,
		logFile: logFile,
	}, nil
}

// Save captures timestamps for the given path. When recursive is true,
// every directory below it is captured as well. Returns the number of
// directories and files captured.
func (a *App) Save(rawPath string, recursive bool) (int, int, error) {
	return a.service.CaptureTree(rawPath, recursive)
}

// Apply restores the most recently captured modification times onto the
// files still present in the given directory. Returns the number of
// files touched; a never-captured directory is a successful no-op.
func (a *App) Apply(rawPath string) (int, error) {
	return a.service.Apply(rawPath)
}

// Status compares the latest capture against the live directory.
func (a *App) Status(rawPath string) ([]*ds.FileStatus, error) {
	return a.service.Status(rawPath)
}

// History returns the most recent capture log entries for a directory.
func (a *App) History(rawPath string, limit int) ([]*model.CaptureLogEntry, error) {
	return a.service.History(rawPath, limit)
}

// Watch blocks watching the given directory tree and re-captures each
// directory shortly after its contents settle. Returns when ctx is
// cancelled or a watch error occurs.
func (a *App) Watch(ctx context.Context, rawPath string, recursive bool) error {
	p, err := a.fsmgr.ResolveDir(rawPath)
	if err != nil {
		return err
	}

	w, err := watch.New(a.logger, 0)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(p.String(), recursive); err != nil {
		return fmt.Errorf("registering watches: %w", err)
	}

	return w.Run(ctx, func(dir string) error {
		n, err := a.service.Capture(dir)
		if err != nil {
			return err
		}
		a.logger.Info("watch capture", "path", dir, "files", n)
		return nil
	})
}

// Close closes all resources.
func (a *App) Close() error {
	var firstErr error

	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
