package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"sortd/internal/fileutil"
	"sortd/internal/journal"
	"sortd/internal/logging"
	"sortd/internal/placer"
	"sortd/internal/services"
	"sortd/internal/watcher"
)

// process runs one file through the pipeline and records the outcome. It
// never returns an error: failures are logged, journaled, and isolated to
// this event so the watch loop keeps running.
func (e *Engine) process(ctx context.Context, event watcher.FileEvent) *journal.Entry {
	ctx = services.WithEventID(ctx, event.ID)
	logger := logging.WithContext(ctx, e.logger)

	entry := &journal.Entry{
		EventID:    event.ID,
		SourcePath: event.Path,
		Filename:   filepath.Base(event.Path),
		Extension:  event.Ext,
		DetectedAt: event.DetectedAt,
	}

	if err := e.settle(event); err != nil {
		entry.Status = services.FailureStatus(err)
		entry.ErrorMessage = err.Error()
		e.finish(ctx, logger, entry, err)
		return entry
	}

	category := e.rules.Classify(event.Path)
	entry.Category = category
	destDir := filepath.Join(e.cfg.Paths.SortedDir, category)

	placement, err := placer.Move(event.Path, destDir)
	if err != nil {
		entry.Status = services.FailureStatus(err)
		entry.ErrorMessage = err.Error()
		e.finish(ctx, logger, entry, err)
		return entry
	}
	entry.FinalPath = placement.Path
	entry.Collision = placement.Suffixed
	entry.Status = journal.StatusSorted

	if e.arch != nil {
		record, archErr := e.arch.Archive(placement.Path, time.Now())
		if archErr != nil {
			// Best-effort: the move already succeeded, so the entry stays
			// sorted and only carries the archive failure.
			entry.ErrorMessage = archErr.Error()
			logger.Warn("archive copy failed",
				logging.String(logging.FieldDestination, placement.Path),
				logging.Error(archErr))
		} else {
			entry.ArchivePath = record.Path
		}
	}

	e.finish(ctx, logger, entry, nil)
	return entry
}

// settle tolerates the race with the process still writing the file: wait
// for a stable size, retrying once after the settle delay before giving up
// on this event.
func (e *Engine) settle(event watcher.FileEvent) error {
	delay := time.Duration(e.cfg.Workflow.SettleDelayMS) * time.Millisecond
	if event.Rescan || delay <= 0 {
		// Rescanned files have been on disk since before the session; a
		// single existence check suffices.
		if _, err := fileutil.WaitStable(event.Path, 0); err != nil {
			return services.Wrap(services.ErrTransient, "engine", "stat source", "file vanished before processing", err)
		}
		return nil
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		stable, err := fileutil.WaitStable(event.Path, delay)
		if err != nil {
			lastErr = err
			time.Sleep(delay)
			continue
		}
		if stable {
			return nil
		}
		lastErr = nil
	}
	if lastErr != nil {
		return services.Wrap(services.ErrTransient, "engine", "settle", "file unreadable after retry", lastErr)
	}
	return services.Wrap(services.ErrTransient, "engine", "settle", "file size still changing after retry", nil)
}

// finish records the outcome in the journal, emits the per-event log line,
// updates session counters, and pushes an error notification if warranted.
// Stop cancels the session context while queued events are still draining;
// the outcome of a file that was moved on disk must reach the journal and
// the notifier regardless, so both run on an uncancelable context.
func (e *Engine) finish(ctx context.Context, logger *slog.Logger, entry *journal.Entry, cause error) {
	ctx = context.WithoutCancel(ctx)
	e.stats.record(entry)

	if e.store != nil {
		if err := e.store.Record(ctx, entry); err != nil {
			logger.Warn("failed to journal outcome", logging.Args(logging.Error(err))...)
		}
	}

	switch entry.Status {
	case journal.StatusSorted:
		attrs := []logging.Attr{
			logging.String(logging.FieldSource, entry.Filename),
			logging.String(logging.FieldCategory, entry.Category),
			logging.String(logging.FieldDestination, entry.FinalPath),
			logging.String(logging.FieldOutcome, string(entry.Status)),
			logging.Bool("collision", entry.Collision),
		}
		if entry.ArchivePath != "" {
			attrs = append(attrs, logging.String("archive", entry.ArchivePath))
		}
		logger.Info("file sorted", logging.Args(attrs...)...)
	case journal.StatusSkipped:
		logger.Warn("file skipped", logging.Args(
			logging.String(logging.FieldSource, entry.SourcePath),
			logging.String(logging.FieldOutcome, string(entry.Status)),
			logging.String("reason", entry.ErrorMessage))...)
	default:
		logger.Error("file failed", logging.Args(
			logging.String(logging.FieldSource, entry.SourcePath),
			logging.String(logging.FieldCategory, entry.Category),
			logging.String(logging.FieldOutcome, string(entry.Status)),
			logging.String("reason", entry.ErrorMessage))...)
		if err := e.notifier.NotifySortError(ctx, entry.Filename, cause); err != nil {
			logger.Warn("error notification failed", logging.Args(logging.Error(err))...)
		}
	}
}
