package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PruneOldLogs removes rotated log files in dir older than retentionDays.
// The active sortd.log is never removed. Returns the number of files deleted.
func PruneOldLogs(dir string, retentionDays int, logger *slog.Logger) int {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return 0
	}
	if logger == nil {
		logger = NewNop()
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("log retention scan failed", Error(err), String("dir", dir))
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == LogFileName || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove expired log", Error(err), String("path", path))
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("pruned expired logs", Int("removed", removed), String("dir", dir))
	}
	return removed
}
