package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sortd/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Rules.DefaultCategory != "Other" {
		t.Fatalf("DefaultCategory = %q, want Other", cfg.Rules.DefaultCategory)
	}
	if cfg.Rules.Extensions[".pdf"] != "Documents" {
		t.Fatalf("default extension map missing .pdf: %v", cfg.Rules.Extensions)
	}
	if !cfg.Archive.Enabled {
		t.Fatal("archiving should default to enabled")
	}
}

func TestLoadNormalizesExtensions(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
incoming_dir = "`+filepath.Join(base, "in")+`"
sorted_dir = "`+filepath.Join(base, "out")+`"
archive_dir = "`+filepath.Join(base, "arch")+`"
log_dir = "`+filepath.Join(base, "logs")+`"

[rules.extensions]
".PDF" = " Documents "
"jpg" = "Images"
`)
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if got := cfg.Rules.Extensions[".pdf"]; got != "Documents" {
		t.Fatalf("extensions[.pdf] = %q, want Documents", got)
	}
	if got := cfg.Rules.Extensions[".jpg"]; got != "Images" {
		t.Fatalf("extensions[.jpg] = %q, want Images (dot should be added)", got)
	}
	if _, ok := cfg.Rules.Extensions[".PDF"]; ok {
		t.Fatal("uppercase key should have been normalized away")
	}
}

func TestLoadExpandsTildeAndDefaultsSocket(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", base)
	path := writeConfig(t, `
[paths]
incoming_dir = "~/drop"
sorted_dir = "~/sorted"
archive_dir = "~/archive"
log_dir = "~/logs"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.IncomingDir != filepath.Join(base, "drop") {
		t.Fatalf("IncomingDir = %q", cfg.Paths.IncomingDir)
	}
	want := filepath.Join(base, "logs", "sortd.sock")
	if cfg.Paths.SocketPath != want {
		t.Fatalf("SocketPath = %q, want %q", cfg.Paths.SocketPath, want)
	}
}

func TestValidateRejectsSameIncomingAndSorted(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
incoming_dir = "`+base+`"
sorted_dir = "`+base+`"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for incoming_dir == sorted_dir")
	}
}

func TestValidateRejectsBadExtensionKey(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
incoming_dir = "`+filepath.Join(base, "in")+`"
sorted_dir = "`+filepath.Join(base, "out")+`"

[rules.extensions]
"." = "Dots"
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "invalid extension") {
		t.Fatalf("expected invalid extension error, got %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.IncomingDir = filepath.Join(base, "in")
	cfg.Paths.SortedDir = filepath.Join(base, "out")
	cfg.Paths.ArchiveDir = filepath.Join(base, "arch")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.IncomingDir, cfg.Paths.SortedDir, cfg.Paths.ArchiveDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	// The sample must itself be loadable.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
