package placer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sortd/internal/fileutil"
	"sortd/internal/services"
)

// maxAttempts bounds the collision counter. Hitting it means thousands of
// same-named files in one folder, which is a configuration smell, not a
// workload we keep absorbing.
const maxAttempts = 10000

// Placement is the outcome of allocating a destination path.
type Placement struct {
	// Path is the final destination path; nothing existing is overwritten
	// by moving to it.
	Path string
	// Suffixed reports whether a collision-avoidance counter was applied.
	Suffixed bool
}

// Allocate ensures destDir exists and returns the first free path for
// filename inside it: unsuffixed when free, otherwise name_N.ext with the
// smallest unused N.
func Allocate(destDir, filename string) (Placement, error) {
	if strings.TrimSpace(filename) == "" {
		return Placement{}, services.Wrap(services.ErrDestination, "placer", "allocate", "empty filename", nil)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Placement{}, services.Wrap(services.ErrDestination, "placer", "ensure destination dir", destDir, err)
	}

	candidate := filepath.Join(destDir, filename)
	free, err := pathFree(candidate)
	if err != nil {
		return Placement{}, services.Wrap(services.ErrDestination, "placer", "probe destination", candidate, err)
	}
	if free {
		return Placement{Path: candidate}, nil
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, attempt, ext))
		free, err := pathFree(candidate)
		if err != nil {
			return Placement{}, services.Wrap(services.ErrDestination, "placer", "probe destination", candidate, err)
		}
		if free {
			return Placement{Path: candidate, Suffixed: true}, nil
		}
	}
	return Placement{}, services.Wrap(services.ErrDestination, "placer", "allocate",
		fmt.Sprintf("exhausted collision suffixes for %s in %s", filename, destDir), nil)
}

// Move relocates src into destDir under a collision-free name and returns
// where it ended up. Moving a file already inside destDir is a no-op. The
// destination is re-probed immediately before the rename; if another writer
// claimed the path in between, allocation is retried once.
func Move(src, destDir string) (Placement, error) {
	srcDir := filepath.Clean(filepath.Dir(src))
	if srcDir == filepath.Clean(destDir) {
		return Placement{Path: src}, nil
	}

	placement, err := Allocate(destDir, filepath.Base(src))
	if err != nil {
		return Placement{}, err
	}

	// Re-check just before the rename: another process may have taken the
	// slot since Allocate probed it.
	if free, probeErr := pathFree(placement.Path); probeErr == nil && !free {
		placement, err = Allocate(destDir, filepath.Base(src))
		if err != nil {
			return Placement{}, err
		}
	}

	if err := fileutil.MoveFile(src, placement.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Placement{}, services.Wrap(services.ErrTransient, "placer", "move", "source disappeared before move", err)
		}
		return Placement{}, services.Wrap(services.ErrDestination, "placer", "move", "failed to move file into category folder", err)
	}
	return placement, nil
}

func pathFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, err
}
