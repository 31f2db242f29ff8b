package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	IncomingDir string `toml:"incoming_dir"`
	SortedDir   string `toml:"sorted_dir"`
	ArchiveDir  string `toml:"archive_dir"`
	LogDir      string `toml:"log_dir"`
	SocketPath  string `toml:"socket_path"`
}

// Rules contains the extension-to-category mapping.
type Rules struct {
	DefaultCategory string            `toml:"default_category"`
	Extensions      map[string]string `toml:"extensions"`
}

// Archive contains configuration for dated backup copies.
type Archive struct {
	Enabled    bool   `toml:"enabled"`
	DateFormat string `toml:"date_format"`
}

// Workflow contains engine timing and behavior settings.
type Workflow struct {
	// SettleDelayMS is how long the engine waits between size checks before
	// treating a new file as fully written.
	SettleDelayMS int `toml:"settle_delay_ms"`
	// EventBuffer is the capacity of the watcher's event channel.
	EventBuffer int `toml:"event_buffer"`
	// ScanOnStart sorts files already present in the incoming directory
	// when a watch session begins.
	ScanOnStart bool `toml:"scan_on_start"`
	// MinFreeMiB is the free-space floor preflight requires on the sorted
	// filesystem before a watch session may start.
	MinFreeMiB int `toml:"min_free_mib"`
	// JournalRetentionDays prunes journal entries older than this on daemon start.
	JournalRetentionDays int `toml:"journal_retention_days"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Errors         bool   `toml:"errors"`
	Session        bool   `toml:"session"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for sortd.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Rules         Rules         `toml:"rules"`
	Archive       Archive       `toml:"archive"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/sortd/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sortd.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Validate checks semantic constraints the decoder cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.IncomingDir) == "" {
		return errors.New("paths.incoming_dir is required")
	}
	if strings.TrimSpace(c.Paths.SortedDir) == "" {
		return errors.New("paths.sorted_dir is required")
	}
	if c.Paths.IncomingDir == c.Paths.SortedDir {
		return errors.New("paths.incoming_dir and paths.sorted_dir must differ")
	}
	if c.Archive.Enabled && strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		return errors.New("paths.archive_dir is required when archiving is enabled")
	}
	if strings.TrimSpace(c.Rules.DefaultCategory) == "" {
		return errors.New("rules.default_category must not be empty")
	}
	for ext, category := range c.Rules.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("rules.extensions: invalid extension %q (want e.g. %q)", ext, ".pdf")
		}
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("rules.extensions: empty category for extension %q", ext)
		}
	}
	if c.Workflow.SettleDelayMS < 0 {
		return errors.New("workflow.settle_delay_ms must not be negative")
	}
	if c.Workflow.EventBuffer <= 0 {
		return errors.New("workflow.event_buffer must be positive")
	}
	return nil
}

// EnsureDirectories creates the directories required for a watch session.
// The archive directory is best-effort so a missing backup volume does not
// block sorting.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.IncomingDir, c.Paths.SortedDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Archive.Enabled && strings.TrimSpace(c.Paths.ArchiveDir) != "" {
		_ = os.MkdirAll(c.Paths.ArchiveDir, 0o755)
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ and returns an absolute path. Empty
// input stays empty.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("absolutize %q: %w", trimmed, err)
	}
	return abs, nil
}
