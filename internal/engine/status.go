package engine

import (
	"time"

	"sortd/internal/journal"
	"sortd/internal/preflight"
)

// StatusSummary is a point-in-time snapshot of the engine for the CLI and IPC.
type StatusSummary struct {
	State       State
	IncomingDir string
	SortedDir   string
	StartedAt   time.Time
	Sorted      int
	Skipped     int
	Failed      int
	LastError   string
	LastFile    string
}

// Status reports the current session state and counters.
func (e *Engine) Status() StatusSummary {
	e.mu.Lock()
	state := e.state
	startedAt := e.startedAt
	e.mu.Unlock()

	summary := StatusSummary{
		State:       state,
		IncomingDir: e.cfg.Paths.IncomingDir,
		SortedDir:   e.cfg.Paths.SortedDir,
	}
	if state == StateWatching {
		summary.StartedAt = startedAt
	}

	e.stats.mu.Lock()
	summary.Sorted = e.stats.sorted
	summary.Skipped = e.stats.skipped
	summary.Failed = e.stats.failed
	summary.LastError = e.stats.lastError
	summary.LastFile = e.stats.lastFile
	e.stats.mu.Unlock()

	return summary
}

// Health evaluates the preflight checks against the current configuration.
func (e *Engine) Health() []preflight.Check {
	return preflight.Run(e.cfg)
}

func (s *sessionStats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sorted = 0
	s.skipped = 0
	s.failed = 0
	s.lastError = ""
	s.lastFile = ""
}

func (s *sessionStats) record(entry *journal.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch entry.Status {
	case journal.StatusSorted:
		s.sorted++
		s.lastFile = entry.FinalPath
	case journal.StatusSkipped:
		s.skipped++
		s.lastError = entry.ErrorMessage
	default:
		s.failed++
		s.lastError = entry.ErrorMessage
	}
}

func (s *sessionStats) counts() (sorted, skipped, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted, s.skipped, s.failed
}
