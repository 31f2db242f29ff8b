package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sortd/internal/fileutil"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := []byte("sortd copy verification payload")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("destination contents = %q, want %q", got, payload)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain after copy: %v", err)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.pdf")
	dst := filepath.Join(dir, "nested", "dest", "report.pdf")
	if err := os.WriteFile(src, []byte("contents"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source should be gone, stat err = %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "contents" {
		t.Fatalf("destination = %q, %v", got, err)
	}
}

func TestWaitStable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settled.txt")
	if err := os.WriteFile(path, []byte("done"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	stable, err := fileutil.WaitStable(path, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitStable: %v", err)
	}
	if !stable {
		t.Fatal("expected an untouched file to be stable")
	}

	if _, err := fileutil.WaitStable(filepath.Join(dir, "missing"), 0); err == nil {
		t.Fatal("expected stat error for missing file")
	}
}
