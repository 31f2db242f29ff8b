package placer_test

import (
	"os"
	"path/filepath"
	"testing"

	"sortd/internal/placer"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestAllocateUnsuffixedWhenFree(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "Documents")
	placement, err := placer.Allocate(dest, "report.pdf")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if placement.Suffixed {
		t.Fatal("expected unsuffixed placement in empty folder")
	}
	if want := filepath.Join(dest, "report.pdf"); placement.Path != want {
		t.Fatalf("Path = %q, want %q", placement.Path, want)
	}
	if info, err := os.Stat(dest); err != nil || !info.IsDir() {
		t.Fatalf("destination dir should have been created: %v", err)
	}
}

func TestAllocateCountsUpward(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "image.jpg"), "a")
	writeFile(t, filepath.Join(dest, "image_1.jpg"), "b")

	placement, err := placer.Allocate(dest, "image.jpg")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !placement.Suffixed {
		t.Fatal("expected suffixed placement")
	}
	if want := filepath.Join(dest, "image_2.jpg"); placement.Path != want {
		t.Fatalf("Path = %q, want %q", placement.Path, want)
	}
}

func TestMoveNeverOverwrites(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "Images")

	const n = 4
	for i := 0; i < n; i++ {
		src := filepath.Join(base, "drop", "image.jpg")
		writeFile(t, src, string(rune('a'+i)))
		if _, err := placer.Move(src, dest); err != nil {
			t.Fatalf("Move #%d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if len(entries) != n {
		t.Fatalf("expected %d distinct files, found %d", n, len(entries))
	}
	// The first file must keep its original bytes.
	got, err := os.ReadFile(filepath.Join(dest, "image.jpg"))
	if err != nil || string(got) != "a" {
		t.Fatalf("image.jpg = %q, %v; want a", got, err)
	}
}

func TestMoveSameDirectoryIsNoop(t *testing.T) {
	dest := t.TempDir()
	src := filepath.Join(dest, "already.txt")
	writeFile(t, src, "in place")

	placement, err := placer.Move(src, dest)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if placement.Path != src || placement.Suffixed {
		t.Fatalf("expected no-op placement, got %+v", placement)
	}
	got, err := os.ReadFile(src)
	if err != nil || string(got) != "in place" {
		t.Fatalf("file disturbed: %q, %v", got, err)
	}
}

func TestMoveMissingSourceIsTransient(t *testing.T) {
	base := t.TempDir()
	_, err := placer.Move(filepath.Join(base, "gone.txt"), filepath.Join(base, "dest"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}
