package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"sortd/internal/archiver"
	"sortd/internal/classify"
	"sortd/internal/config"
	"sortd/internal/journal"
	"sortd/internal/logging"
	"sortd/internal/notifications"
	"sortd/internal/preflight"
	"sortd/internal/services"
	"sortd/internal/watcher"
)

// State is the lifecycle of the engine: Idle with no subscription, or
// Watching with an active one. There are no intermediate states.
type State string

const (
	StateIdle     State = "idle"
	StateWatching State = "watching"
)

// Engine coordinates the watcher and the sorting pipeline.
type Engine struct {
	cfg      *config.Config
	rules    *classify.Rules
	store    *journal.Store
	arch     *archiver.Archiver
	notifier notifications.Service
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	watch     *watcher.Watcher
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedAt time.Time

	stats sessionStats
}

type sessionStats struct {
	mu        sync.Mutex
	sorted    int
	skipped   int
	failed    int
	lastError string
	lastFile  string
}

// New constructs an engine. The journal store may be nil, in which case
// outcomes are only logged. The notifier may be nil for a silent engine.
func New(cfg *config.Config, store *journal.Store, logger *slog.Logger, notifier notifications.Service) *Engine {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	var arch *archiver.Archiver
	if cfg.Archive.Enabled {
		arch = archiver.New(cfg.Paths.ArchiveDir, cfg.Archive.DateFormat)
	}
	return &Engine{
		cfg:      cfg,
		rules:    classify.NewRules(cfg.Rules.Extensions, cfg.Rules.DefaultCategory),
		store:    store,
		arch:     arch,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "engine"),
		state:    StateIdle,
	}
}

// Start transitions Idle to Watching. It validates the directory tree,
// pre-creates category folders, and begins consuming creation events. A
// failed validation surfaces as a configuration error and leaves the
// engine Idle.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateWatching {
		return errors.New("engine already watching")
	}

	if err := e.cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrConfiguration, "engine", "prepare directories", "", err)
	}
	if err := preflight.FirstFailure(preflight.Run(e.cfg)); err != nil {
		return err
	}
	if err := e.ensureCategoryFolders(); err != nil {
		return err
	}

	watch := watcher.New(e.cfg.Paths.IncomingDir, e.cfg.Workflow.EventBuffer, e.logger)
	runCtx, cancel := context.WithCancel(ctx)
	if err := watch.Start(runCtx); err != nil {
		cancel()
		return err
	}

	e.watch = watch
	e.cancel = cancel
	e.state = StateWatching
	e.startedAt = time.Now()
	e.stats.reset()

	e.wg.Add(1)
	go e.run(runCtx, watch)

	if e.cfg.Workflow.ScanOnStart {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if _, err := watch.Rescan(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				e.logger.Warn("startup rescan failed", logging.Error(err))
			}
		}()
	}

	e.logger.Info("watch session started",
		logging.String("incoming", e.cfg.Paths.IncomingDir),
		logging.String("sorted", e.cfg.Paths.SortedDir),
		logging.Int("mapped_extensions", e.rules.Len()))
	if err := e.notifier.NotifySessionStarted(ctx, e.cfg.Paths.IncomingDir); err != nil {
		e.logger.Warn("session start notification failed", logging.Error(err))
	}
	return nil
}

// Stop halts the subscription promptly, waits for the in-flight file to
// finish, and returns the engine to Idle. Stopping an idle engine is a
// no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state != StateWatching {
		e.mu.Unlock()
		return
	}
	watch := e.watch
	cancel := e.cancel
	e.watch = nil
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if watch != nil {
		watch.Stop()
	}
	e.wg.Wait()

	e.mu.Lock()
	e.state = StateIdle
	e.mu.Unlock()

	sorted, _, failed := e.stats.counts()
	e.logger.Info("watch session stopped",
		logging.Int("sorted", sorted),
		logging.Int("failed", failed))
	if err := e.notifier.NotifySessionStopped(context.Background(), sorted, failed); err != nil {
		e.logger.Warn("session stop notification failed", logging.Error(err))
	}
}

// Rescan queues events for files already sitting in the incoming
// directory. Only valid while watching.
func (e *Engine) Rescan(ctx context.Context) (int, error) {
	e.mu.Lock()
	watch := e.watch
	state := e.state
	e.mu.Unlock()
	if state != StateWatching || watch == nil {
		return 0, errors.New("engine is not watching")
	}
	return watch.Rescan(ctx)
}

// SortFile classifies and moves a single file synchronously, outside any
// watch session. Used by the one-shot CLI path.
func (e *Engine) SortFile(ctx context.Context, path string) (*journal.Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "engine", "resolve path", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "engine", "stat source", abs, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "engine", "validate source",
			abs+" is a directory", nil)
	}
	event := watcher.NewFileEvent(abs, time.Now(), true)
	entry := e.process(ctx, event)
	if entry.Status != journal.StatusSorted {
		return entry, errors.New(entry.ErrorMessage)
	}
	return entry, nil
}

// run consumes events until the watcher's channel closes. Processing is
// strictly sequential, preserving arrival order.
func (e *Engine) run(ctx context.Context, watch *watcher.Watcher) {
	defer e.wg.Done()
	for event := range watch.Events() {
		e.process(ctx, event)
	}
}

func (e *Engine) ensureCategoryFolders() error {
	for _, category := range e.rules.Categories() {
		dir := filepath.Join(e.cfg.Paths.SortedDir, category)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrConfiguration, "engine", "create category folder", dir, err)
		}
	}
	return nil
}
