package archiver_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sortd/internal/archiver"
)

func TestArchiveStoresDatedCopy(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "sorted", "Documents", "report.pdf")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(src, []byte("archived payload"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	arch := archiver.New(filepath.Join(base, "archive"), "2006-01-02")
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	record, err := arch.Archive(src, now)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	want := filepath.Join(base, "archive", "2026-03-14", "report.pdf")
	if record.Path != want {
		t.Fatalf("archive path = %q, want %q", record.Path, want)
	}
	got, err := os.ReadFile(record.Path)
	if err != nil || string(got) != "archived payload" {
		t.Fatalf("archive copy = %q, %v", got, err)
	}
	// Archiving copies, it never moves.
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should survive archiving: %v", err)
	}
}

func TestArchiveSameDayCollisions(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "report.pdf")
	if err := os.WriteFile(src, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	arch := archiver.New(filepath.Join(base, "archive"), "2006-01-02")
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	first, err := arch.Archive(src, now)
	if err != nil {
		t.Fatalf("first Archive: %v", err)
	}
	second, err := arch.Archive(src, now)
	if err != nil {
		t.Fatalf("second Archive: %v", err)
	}
	if first.Path == second.Path {
		t.Fatalf("same-day archive collided: %s", first.Path)
	}
	if want := filepath.Join(base, "archive", "2026-03-14", "report_1.pdf"); second.Path != want {
		t.Fatalf("second path = %q, want %q", second.Path, want)
	}
}

func TestArchiveAcrossDaysNeverCollides(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "daily.log")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	arch := archiver.New(filepath.Join(base, "archive"), "2006-01-02")
	day1, err := arch.Archive(src, time.Date(2026, time.March, 14, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("day1: %v", err)
	}
	day2, err := arch.Archive(src, time.Date(2026, time.March, 15, 1, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("day2: %v", err)
	}
	if filepath.Base(day1.Path) != "daily.log" || filepath.Base(day2.Path) != "daily.log" {
		t.Fatalf("cross-day copies should keep the plain name: %s, %s", day1.Path, day2.Path)
	}
	if day1.Path == day2.Path {
		t.Fatal("cross-day copies collided")
	}
}

func TestArchiveWithoutRootFails(t *testing.T) {
	arch := archiver.New("", "2006-01-02")
	if _, err := arch.Archive("/tmp/whatever", time.Now()); err == nil {
		t.Fatal("expected configuration error for empty archive root")
	}
}
