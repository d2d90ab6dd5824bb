package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"dirstamp/internal/ds"
)

// DefaultDebounce is how long a directory must stay quiet after its last
// event before it is considered settled.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches directories for changes and reports each changed
// directory once it has settled. Rapid event bursts (editors, sync
// tools) collapse into a single notification per directory.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   ds.Logger
	debounce time.Duration

	mu        sync.Mutex
	timers    map[string]*time.Timer
	recursive bool

	settled chan string
	done    chan struct{}
}

// New creates a Watcher. A non-positive debounce selects DefaultDebounce.
func New(logger ds.Logger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		settled:  make(chan string),
		done:     make(chan struct{}),
	}, nil
}

// Add registers root for watching. When recursive is true, every
// directory below root is registered as well, and directories created
// later are picked up from their create events.
func (w *Watcher) Add(root string, recursive bool) error {
	w.mu.Lock()
	w.recursive = recursive
	w.mu.Unlock()

	if !recursive {
		return w.fsw.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// Run dispatches events until ctx is cancelled, invoking handle with
// each settled directory. A handler or watch error terminates the run.
func (w *Watcher) Run(ctx context.Context, handle func(dir string) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.processEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		case dir := <-w.settled:
			if err := handle(dir); err != nil {
				// The directory may have vanished between the event and
				// the capture; that is not fatal in watch mode.
				var notFound *ds.DirectoryNotFoundError
				if errors.As(err, &notFound) {
					w.logger.Warn("watched directory vanished", "path", dir)
					continue
				}
				return err
			}
		}
	}
}

// Close releases the underlying fsnotify watcher and unblocks any
// debounce timers still pending.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()
	close(w.done)
	return w.fsw.Close()
}

// processEvent maps an event to its containing directory and (re)arms
// that directory's debounce timer. New directories are added to the
// watch set in recursive mode.
func (w *Watcher) processEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	dir := filepath.Dir(event.Name)

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			w.mu.Lock()
			recursive := w.recursive
			w.mu.Unlock()
			if recursive {
				if err := w.fsw.Add(event.Name); err != nil {
					w.logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
				}
			}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[dir]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[dir] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, dir)
		w.mu.Unlock()
		select {
		case w.settled <- dir:
		case <-w.done:
		}
	})
}
