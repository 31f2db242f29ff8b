package journal

import (
	"strings"
	"time"
)

// Status records the terminal outcome of one observed file event.
type Status string

const (
	StatusSorted  Status = "sorted"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

var allStatuses = []Status{
	StatusSorted,
	StatusSkipped,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Entry represents one journal row persisted in SQLite.
type Entry struct {
	ID           int64
	EventID      string
	SourcePath   string
	Filename     string
	Extension    string
	Category     string
	FinalPath    string
	ArchivePath  string
	Status       Status
	Collision    bool
	ErrorMessage string
	DetectedAt   time.Time
	RecordedAt   time.Time
}

// Summary aggregates journal counts per outcome.
type Summary struct {
	Total      int
	Sorted     int
	Skipped    int
	Failed     int
	Collisions int
	Archived   int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}
