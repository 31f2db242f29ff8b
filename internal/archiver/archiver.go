package archiver

import (
	"path/filepath"
	"strings"
	"time"

	"sortd/internal/fileutil"
	"sortd/internal/placer"
	"sortd/internal/services"
)

// Record describes one stored archive copy.
type Record struct {
	Path      string
	Timestamp time.Time
}

// Archiver copies sorted files into a per-day archive folder.
type Archiver struct {
	root       string
	dateFormat string
}

// New constructs an archiver rooted at root, creating one subfolder per day
// using the given time layout (e.g. "2006-01-02").
func New(root, dateFormat string) *Archiver {
	if strings.TrimSpace(dateFormat) == "" {
		dateFormat = "2006-01-02"
	}
	return &Archiver{root: root, dateFormat: dateFormat}
}

// Archive copies (never moves) the file at path into the archive folder for
// now's date. Same-named files within a day get the usual _N collision
// suffix, so repeated archiving never overwrites an earlier copy.
func (a *Archiver) Archive(path string, now time.Time) (Record, error) {
	if strings.TrimSpace(a.root) == "" {
		return Record{}, services.Wrap(services.ErrConfiguration, "archiver", "resolve archive dir",
			"archive directory not configured; set paths.archive_dir", nil)
	}

	dayDir := filepath.Join(a.root, now.Format(a.dateFormat))
	placement, err := placer.Allocate(dayDir, filepath.Base(path))
	if err != nil {
		return Record{}, services.Wrap(services.ErrArchive, "archiver", "allocate archive path", dayDir, err)
	}

	if err := fileutil.CopyFileVerified(path, placement.Path); err != nil {
		return Record{}, services.Wrap(services.ErrArchive, "archiver", "copy", "failed to store archive copy", err)
	}
	return Record{Path: placement.Path, Timestamp: now}, nil
}
