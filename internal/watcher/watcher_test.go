package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sortd/internal/logging"
	"sortd/internal/watcher"
)

func TestIgnoredName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"report.pdf", false},
		{".hidden", true},
		{"movie.mkv.part", true},
		{"setup.exe.crdownload", true},
		{"notes.txt~", true},
		{"draft.SWP", true},
		{"", true},
	}
	for _, tc := range cases {
		if got := watcher.IgnoredName(tc.name); got != tc.want {
			t.Errorf("IgnoredName(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStartRejectsMissingDirectory(t *testing.T) {
	w := watcher.New(filepath.Join(t.TempDir(), "absent"), 8, logging.NewNop())
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected configuration error for missing directory")
	}
}

func TestWatcherEmitsCreateEvents(t *testing.T) {
	dir := t.TempDir()
	w := watcher.New(dir, 8, logging.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "incoming.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Path != path {
			t.Fatalf("event path = %q, want %q", event.Path, path)
		}
		if event.Ext != ".txt" {
			t.Fatalf("event ext = %q, want .txt", event.Ext)
		}
		if event.ID == "" {
			t.Fatal("event should carry a correlation id")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for create event")
	}
}

func TestWatcherFiltersJunk(t *testing.T) {
	dir := t.TempDir()
	w := watcher.New(dir, 8, logging.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "movie.mkv.part"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "real.pdf"), []byte("real"), 0o644); err != nil {
		t.Fatalf("write real: %v", err)
	}

	select {
	case event := <-w.Events():
		if filepath.Base(event.Path) != "real.pdf" {
			t.Fatalf("expected only real.pdf, got %s", event.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestRescanQueuesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.jpg", ".hidden", "c.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	w := watcher.New(dir, 8, logging.NewNop())
	count, err := w.Rescan(context.Background())
	if err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if count != 2 {
		t.Fatalf("Rescan queued %d events, want 2", count)
	}

	seen := map[string]bool{}
	for i := 0; i < count; i++ {
		event := <-w.Events()
		seen[filepath.Base(event.Path)] = true
		if !event.Rescan {
			t.Fatalf("expected rescan flag on %s", event.Path)
		}
	}
	if !seen["a.pdf"] || !seen["b.jpg"] {
		t.Fatalf("unexpected rescan set: %v", seen)
	}
}

func TestStopClosesEventChannel(t *testing.T) {
	dir := t.TempDir()
	w := watcher.New(dir, 8, logging.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()

	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatal("expected closed channel after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("event channel not closed after Stop")
	}
}
