package testsupport

import (
	"path/filepath"
	"testing"

	"sortd/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Settle delay and free-space floor are zeroed so pipeline tests run fast.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.IncomingDir = filepath.Join(base, "incoming")
	cfg.Paths.SortedDir = filepath.Join(base, "sorted")
	cfg.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SocketPath = filepath.Join(base, "logs", "sortd.sock")
	cfg.Workflow.SettleDelayMS = 0
	cfg.Workflow.ScanOnStart = false
	cfg.Workflow.MinFreeMiB = 0
	cfg.Archive.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithExtensions replaces the extension rules on the test config.
func WithExtensions(rules map[string]string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Rules.Extensions = rules
	}
}

// WithArchive enables archiving on the test config.
func WithArchive() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Archive.Enabled = true
	}
}
