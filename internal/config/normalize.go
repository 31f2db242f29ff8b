package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRules()
	c.normalizeArchive()
	c.normalizeWorkflow()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.IncomingDir, err = ExpandPath(c.Paths.IncomingDir); err != nil {
		return fmt.Errorf("paths.incoming_dir: %w", err)
	}
	if c.Paths.SortedDir, err = ExpandPath(c.Paths.SortedDir); err != nil {
		return fmt.Errorf("paths.sorted_dir: %w", err)
	}
	if c.Paths.ArchiveDir, err = ExpandPath(c.Paths.ArchiveDir); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" && c.Paths.LogDir != "" {
		c.Paths.SocketPath = filepath.Join(c.Paths.LogDir, "sortd.sock")
	}
	if c.Paths.SocketPath, err = ExpandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

// normalizeRules lowercases extension keys, guarantees the leading dot, and
// trims category names. When two keys collapse to the same lowercase form
// the later one wins.
func (c *Config) normalizeRules() {
	c.Rules.DefaultCategory = strings.TrimSpace(c.Rules.DefaultCategory)
	if c.Rules.DefaultCategory == "" {
		c.Rules.DefaultCategory = defaultCategory
	}
	if len(c.Rules.Extensions) == 0 {
		return
	}
	normalized := make(map[string]string, len(c.Rules.Extensions))
	for ext, category := range c.Rules.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		category = strings.TrimSpace(category)
		if ext == "" || category == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[ext] = category
	}
	c.Rules.Extensions = normalized
}

func (c *Config) normalizeArchive() {
	c.Archive.DateFormat = strings.TrimSpace(c.Archive.DateFormat)
	if c.Archive.DateFormat == "" {
		c.Archive.DateFormat = defaultArchiveFormat
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.EventBuffer <= 0 {
		c.Workflow.EventBuffer = defaultEventBuffer
	}
	if c.Workflow.MinFreeMiB < 0 {
		c.Workflow.MinFreeMiB = 0
	}
	if c.Workflow.JournalRetentionDays < 0 {
		c.Workflow.JournalRetentionDays = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultLogRetention
	}
}
