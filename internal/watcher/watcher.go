package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/fsnotify/fsnotify"

	"sortd/internal/logging"
	"sortd/internal/services"
)

// Watcher subscribes to creation events on one directory and forwards them
// as FileEvent values. Events are delivered in arrival order to a single
// consumer; the channel is closed once the subscription ends.
type Watcher struct {
	dir    string
	logger *slog.Logger
	events chan FileEvent

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a watcher for dir with the given event channel capacity.
func New(dir string, buffer int, logger *slog.Logger) *Watcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Watcher{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "watcher"),
		events: make(chan FileEvent, buffer),
	}
}

// Events returns the channel new file events arrive on. It is closed after
// Stop, or when the start context is canceled.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Start validates the directory and begins the subscription. It fails with a
// configuration error when the directory is missing or unreadable.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "watcher", "stat incoming dir", w.dir, err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrConfiguration, "watcher", "validate incoming dir",
			fmt.Sprintf("%s is not a directory", w.dir), nil)
	}
	if _, err := os.ReadDir(w.dir); err != nil {
		return services.Wrap(services.ErrConfiguration, "watcher", "read incoming dir", w.dir, err)
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "watcher", "create notifier", "", err)
	}
	if err := notifier.Add(w.dir); err != nil {
		_ = notifier.Close()
		return services.Wrap(services.ErrConfiguration, "watcher", "subscribe", w.dir, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop(runCtx, notifier)

	w.logger.Info("watching for new files", logging.String("dir", w.dir))
	return nil
}

// Stop halts the subscription promptly. Events already queued remain
// readable until the channel drains and closes.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// Rescan walks the directory and emits an event for every regular file
// already present. Used at session start and on demand to catch files that
// arrived while nothing was watching.
func (w *Watcher) Rescan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "watcher", "rescan", w.dir, err)
	}
	emitted := 0
	for _, entry := range entries {
		if entry.IsDir() || IgnoredName(entry.Name()) {
			continue
		}
		event := NewFileEvent(filepath.Join(w.dir, entry.Name()), time.Now(), true)
		select {
		case w.events <- event:
			emitted++
		case <-ctx.Done():
			return emitted, ctx.Err()
		}
	}
	if emitted > 0 {
		w.logger.Info("rescan queued existing files", logging.Int("count", emitted))
	}
	return emitted, nil
}

func (w *Watcher) loop(ctx context.Context, notifier *fsnotify.Watcher) {
	defer w.wg.Done()
	defer close(w.events)
	defer func() {
		if err := notifier.Close(); err != nil {
			w.logger.Warn("failed to close notifier", logging.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-notifier.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.handleCreate(ctx, event.Name)
		case err, ok := <-notifier.Errors:
			if !ok {
				return
			}
			w.logger.Warn("notification error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleCreate(ctx context.Context, path string) {
	name := filepath.Base(path)
	if IgnoredName(name) {
		w.logger.Debug("ignoring transient file", logging.String("name", name))
		return
	}
	info, err := os.Lstat(path)
	if err != nil {
		// Gone already; the writer renamed or removed it.
		w.logger.Debug("created file vanished", logging.String("path", path), logging.Error(err))
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	event := NewFileEvent(path, time.Now(), false)
	w.logger.Info("new file detected",
		logging.String(logging.FieldEventID, event.ID),
		logging.String(logging.FieldSource, path))
	select {
	case w.events <- event:
	case <-ctx.Done():
	}
}
