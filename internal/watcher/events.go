package watcher

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileEvent represents one newly observed file. It is produced by the
// watcher, consumed once by the engine, then discarded.
type FileEvent struct {
	// ID correlates every log line and journal row for this file.
	ID string
	// Path is the absolute path of the observed file.
	Path string
	// Ext is the lowercase extension including the leading dot; empty when
	// the filename has none.
	Ext string
	// DetectedAt is when the creation notification was observed.
	DetectedAt time.Time
	// Rescan marks events synthesized by a directory walk rather than a
	// filesystem notification.
	Rescan bool
}

// NewFileEvent builds an event for path observed at now.
func NewFileEvent(path string, now time.Time, rescan bool) FileEvent {
	return FileEvent{
		ID:         uuid.NewString(),
		Path:       path,
		Ext:        strings.ToLower(filepath.Ext(path)),
		DetectedAt: now,
		Rescan:     rescan,
	}
}

// transient suffixes browsers and editors leave while a file is still being
// written; these never enter the pipeline under their temporary name.
var junkSuffixes = []string{
	".part",
	".partial",
	".crdownload",
	".download",
	".tmp",
	".swp",
	"~",
}

// IgnoredName reports whether a base filename should be excluded from
// watching: hidden files and in-progress temporaries.
func IgnoredName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return true
	}
	lower := strings.ToLower(name)
	for _, suffix := range junkSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
