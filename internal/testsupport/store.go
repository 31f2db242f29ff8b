package testsupport

import (
	"os"
	"testing"

	"sortd/internal/config"
	"sortd/internal/journal"
)

// MustOpenStore opens a journal.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	store, err := journal.Open(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
