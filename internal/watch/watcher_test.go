package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dirstamp/internal/ds"
	"dirstamp/internal/watch"
)

func TestWatcherReportsSettledDirectory(t *testing.T) {
	dir := t.TempDir()

	w, err := watch.New(ds.NewNopLogger(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Add(dir, false); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settled := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(d string) error {
			select {
			case settled <- d:
			default:
			}
			return nil
		})
	}()

	// Two quick writes should collapse into one notification.
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("one"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if err := os.WriteFile(path, []byte("two"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case got := <-settled:
		if got != dir {
			t.Errorf("settled dir = %q, want %q", got, dir)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no settled notification within timeout")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run() did not return after cancel")
	}
}

func TestWatcherRecursiveAdd(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w, err := watch.New(ds.NewNopLogger(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Add(dir, true); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settled := make(chan string, 4)
	go w.Run(ctx, func(d string) error {
		settled <- d
		return nil
	})

	if err := os.WriteFile(filepath.Join(sub, "g.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case got := <-settled:
		if got != sub {
			t.Errorf("settled dir = %q, want %q", got, sub)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no settled notification for subdirectory change")
	}
}
