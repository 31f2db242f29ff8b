package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const entryColumns = `id, event_id, source_path, filename, extension, category,
final_path, archive_path, status, collision, error_message, detected_at, recorded_at`

// ErrEntryNotFound indicates the requested journal row does not exist.
var ErrEntryNotFound = errors.New("journal entry not found")

// Record inserts a terminal outcome for one file event and fills in the
// generated ID and recorded-at timestamp.
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("nil journal entry")
	}
	if _, ok := statusSet[entry.Status]; !ok {
		return fmt.Errorf("unknown journal status %q", entry.Status)
	}
	ctx = ensureContext(ctx)

	now := time.Now().UTC()
	entry.RecordedAt = now
	if entry.DetectedAt.IsZero() {
		entry.DetectedAt = now
	}

	res, err := s.execWithRetry(ctx, `
INSERT INTO entries (
    event_id, source_path, filename, extension, category,
    final_path, archive_path, status, collision, error_message,
    detected_at, recorded_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EventID,
		entry.SourcePath,
		entry.Filename,
		entry.Extension,
		entry.Category,
		entry.FinalPath,
		entry.ArchivePath,
		string(entry.Status),
		boolToInt(entry.Collision),
		entry.ErrorMessage,
		entry.DetectedAt.UTC().Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read journal entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// GetByID fetches a single entry.
func (s *Store) GetByID(ctx context.Context, id int64) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM entries WHERE id = ?", entryColumns), id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	return entry, nil
}

// List returns entries, newest first, optionally filtered by status.
// A limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Entry, error) {
	ctx = ensureContext(ctx)

	query := fmt.Sprintf("SELECT %s FROM entries", entryColumns)
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY recorded_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}
	return entries, nil
}

// Clear removes all journal entries and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ensureContext(ctx), "DELETE FROM entries")
	if err != nil {
		return 0, fmt.Errorf("clear journal: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes only failed entries.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ensureContext(ctx),
		"DELETE FROM entries WHERE status = ?", string(StatusFailed))
	if err != nil {
		return 0, fmt.Errorf("clear failed journal entries: %w", err)
	}
	return res.RowsAffected()
}

// Prune removes entries recorded before the cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ensureContext(ctx),
		"DELETE FROM entries WHERE recorded_at < ?", cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return res.RowsAffected()
}

// Stats aggregates outcome counts across the whole journal.
func (s *Store) Stats(ctx context.Context) (Summary, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `
SELECT
    COUNT(*),
    COALESCE(SUM(CASE WHEN status = 'sorted' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(collision), 0),
    COALESCE(SUM(CASE WHEN archive_path != '' THEN 1 ELSE 0 END), 0)
FROM entries`)

	var summary Summary
	if err := row.Scan(
		&summary.Total,
		&summary.Sorted,
		&summary.Skipped,
		&summary.Failed,
		&summary.Collisions,
		&summary.Archived,
	); err != nil {
		return Summary{}, fmt.Errorf("journal stats: %w", err)
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry      Entry
		status     string
		collision  int
		detectedAt string
		recordedAt string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.EventID,
		&entry.SourcePath,
		&entry.Filename,
		&entry.Extension,
		&entry.Category,
		&entry.FinalPath,
		&entry.ArchivePath,
		&status,
		&collision,
		&entry.ErrorMessage,
		&detectedAt,
		&recordedAt,
	); err != nil {
		return nil, err
	}
	entry.Status = Status(status)
	entry.Collision = collision != 0
	entry.DetectedAt = parseTimestamp(detectedAt)
	entry.RecordedAt = parseTimestamp(recordedAt)
	return &entry, nil
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
