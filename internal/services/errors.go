package services

import (
	"errors"
	"fmt"
	"strings"

	"sortd/internal/journal"
)

var (
	// ErrConfiguration marks invalid or missing configuration. It is the only
	// error kind that may stop a watch session before it begins.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks races with the writing process: file locked, still
	// being written, or gone by the time we touched it.
	ErrTransient = errors.New("transient file error")
	// ErrDestination marks failures creating or writing the destination tree.
	ErrDestination = errors.New("destination error")
	// ErrArchive marks best-effort archive failures that never block a move.
	ErrArchive = errors.New("archive error")
	// ErrNotFound marks lookups that came up empty.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a pipeline error to the journal status the engine
// should record for the affected file event. Transient errors mean the file
// was skipped and may be picked up by a later rescan; everything else is a
// hard failure for that event.
func FailureStatus(err error) journal.Status {
	if errors.Is(err, ErrTransient) {
		return journal.StatusSkipped
	}
	return journal.StatusFailed
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
