package journal_test

import (
	"context"
	"testing"
	"time"

	"sortd/internal/journal"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func sortedEntry(name string) *journal.Entry {
	return &journal.Entry{
		EventID:    "evt-" + name,
		SourcePath: "/incoming/" + name,
		Filename:   name,
		Extension:  ".pdf",
		Category:   "Documents",
		FinalPath:  "/sorted/Documents/" + name,
		Status:     journal.StatusSorted,
	}
}

func TestRecordAssignsIDAndTimestamps(t *testing.T) {
	store := openStore(t)

	entry := sortedEntry("report.pdf")
	if err := store.Record(context.Background(), entry); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("expected generated id")
	}
	if entry.RecordedAt.IsZero() {
		t.Fatal("expected recorded-at timestamp")
	}

	got, err := store.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Filename != "report.pdf" || got.Category != "Documents" {
		t.Fatalf("unexpected round trip: %+v", got)
	}
	if got.Status != journal.StatusSorted {
		t.Fatalf("status = %s, want sorted", got.Status)
	}
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	store := openStore(t)

	entry := sortedEntry("bad.pdf")
	entry.Status = journal.Status("exploded")
	if err := store.Record(context.Background(), entry); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, sortedEntry("a.pdf")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	failed := sortedEntry("b.pdf")
	failed.Status = journal.StatusFailed
	failed.FinalPath = ""
	failed.ErrorMessage = "destination unwritable"
	if err := store.Record(ctx, failed); err != nil {
		t.Fatalf("Record: %v", err)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all entries = %d, want 2", len(all))
	}

	onlyFailed, err := store.List(ctx, 0, journal.StatusFailed)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(onlyFailed) != 1 || onlyFailed[0].Filename != "b.pdf" {
		t.Fatalf("unexpected failed entries: %+v", onlyFailed)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited entries = %d, want 1", len(limited))
	}
}

func TestClearFailedLeavesSorted(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, sortedEntry("keep.pdf")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	failed := sortedEntry("drop.pdf")
	failed.Status = journal.StatusFailed
	if err := store.Record(ctx, failed); err != nil {
		t.Fatalf("Record: %v", err)
	}

	removed, err := store.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("ClearFailed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	remaining, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Filename != "keep.pdf" {
		t.Fatalf("unexpected remaining entries: %+v", remaining)
	}
}

func TestPruneRemovesOldEntries(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, sortedEntry("old.pdf")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	removed, err := store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	kept, err := store.Prune(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if kept != 0 {
		t.Fatalf("removed = %d, want 0", kept)
	}
}

func TestStatsAggregatesOutcomes(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := sortedEntry("a.jpg")
	first.ArchivePath = "/archive/2026-08-28/a.jpg"
	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second := sortedEntry("a_1.jpg")
	second.Collision = true
	if err := store.Record(ctx, second); err != nil {
		t.Fatalf("Record: %v", err)
	}
	skipped := sortedEntry("ghost.tmp")
	skipped.Status = journal.StatusSkipped
	if err := store.Record(ctx, skipped); err != nil {
		t.Fatalf("Record: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 || stats.Sorted != 2 || stats.Skipped != 1 || stats.Failed != 0 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.Collisions != 1 {
		t.Fatalf("collisions = %d, want 1", stats.Collisions)
	}
	if stats.Archived != 1 {
		t.Fatalf("archived = %d, want 1", stats.Archived)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := journal.ParseStatus("sorted"); !ok || status != journal.StatusSorted {
		t.Fatalf("ParseStatus(sorted) = %s, %v", status, ok)
	}
	if _, ok := journal.ParseStatus("bogus"); ok {
		t.Fatal("expected bogus status to be rejected")
	}
}
