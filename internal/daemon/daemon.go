package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"sortd/internal/config"
	"sortd/internal/engine"
	"sortd/internal/journal"
	"sortd/internal/logging"
	"sortd/internal/notifications"
)

// Daemon coordinates the sorting engine and enforces single-instance
// execution through a lock file next to the logs.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *journal.Store
	engine  *engine.Engine
	logPath string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	Engine        engine.StatusSummary
	JournalDBPath string
	LockFilePath  string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *journal.Store, logger *slog.Logger, eng *engine.Engine) (*Daemon, error) {
	if cfg == nil || logger == nil || eng == nil {
		return nil, errors.New("daemon requires config, logger, and engine")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "sortd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		engine:   eng,
		logPath:  filepath.Join(cfg.Paths.LogDir, logging.LogFileName),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the watch session.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another sortd instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.engine.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start engine: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts the watch session and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.engine.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Rescan queues events for files already present in the incoming directory.
func (d *Daemon) Rescan(ctx context.Context) (int, error) {
	if !d.running.Load() {
		return 0, errors.New("daemon is not running")
	}
	return d.engine.Rescan(ctx)
}

// SortFile classifies and moves a single file outside the watch session.
func (d *Daemon) SortFile(ctx context.Context, path string) (*journal.Entry, error) {
	return d.engine.SortFile(ctx, path)
}

// HistoryList returns journal entries filtered by optional statuses.
func (d *Daemon) HistoryList(ctx context.Context, limit int, statuses []journal.Status) ([]*journal.Entry, error) {
	if d.store == nil {
		return nil, errors.New("journal unavailable")
	}
	return d.store.List(ctx, limit, statuses...)
}

// HistoryClear removes all journal entries.
func (d *Daemon) HistoryClear(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("journal unavailable")
	}
	return d.store.Clear(ctx)
}

// HistoryClearFailed removes only failed journal entries.
func (d *Daemon) HistoryClearFailed(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("journal unavailable")
	}
	return d.store.ClearFailed(ctx)
}

// HistoryStats aggregates outcome counts across the journal.
func (d *Daemon) HistoryStats(ctx context.Context) (journal.Summary, error) {
	if d.store == nil {
		return journal.Summary{}, errors.New("journal unavailable")
	}
	return d.store.Stats(ctx)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:       d.running.Load(),
		Engine:        d.engine.Status(),
		JournalDBPath: d.store.Path(),
		LockFilePath:  d.lockPath,
	}
}
