package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"
	"time"

	"log/slog"

	"sortd/internal/daemon"
	"sortd/internal/journal"
	"sortd/internal/logging"
	"sortd/internal/logs"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logging.NewComponentLogger(logger, "ipc"), ctx: ctx}
	if err := rpcServer.RegisterName("Sortd", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func fromJournalEntry(entry *journal.Entry) HistoryEntry {
	wire := HistoryEntry{
		ID:           entry.ID,
		Filename:     entry.Filename,
		Extension:    entry.Extension,
		Category:     entry.Category,
		FinalPath:    entry.FinalPath,
		ArchivePath:  entry.ArchivePath,
		Status:       string(entry.Status),
		Collision:    entry.Collision,
		ErrorMessage: entry.ErrorMessage,
	}
	if !entry.RecordedAt.IsZero() {
		wire.RecordedAt = entry.RecordedAt.Format(time.RFC3339)
	}
	return wire
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.logger.Debug("session start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "watch session started"
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.logger.Debug("session stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.Running = status.Running
	resp.State = string(status.Engine.State)
	resp.IncomingDir = status.Engine.IncomingDir
	resp.SortedDir = status.Engine.SortedDir
	resp.Sorted = status.Engine.Sorted
	resp.Skipped = status.Engine.Skipped
	resp.Failed = status.Engine.Failed
	resp.LastError = status.Engine.LastError
	resp.LastFile = status.Engine.LastFile
	if !status.Engine.StartedAt.IsZero() {
		resp.StartedAt = status.Engine.StartedAt.Format(time.RFC3339)
	}
	resp.JournalDBPath = status.JournalDBPath
	resp.LockPath = status.LockFilePath
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Rescan(_ RescanRequest, resp *RescanResponse) error {
	queued, err := s.daemon.Rescan(s.ctx)
	if err != nil {
		return err
	}
	resp.Queued = queued
	return nil
}

func (s *service) SortFile(req SortFileRequest, resp *SortFileResponse) error {
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("sort requires a file path")
	}
	entry, err := s.daemon.SortFile(s.ctx, req.Path)
	if entry != nil {
		resp.Entry = fromJournalEntry(entry)
	}
	return err
}

func (s *service) HistoryList(req HistoryListRequest, resp *HistoryListResponse) error {
	statuses := make([]journal.Status, 0, len(req.Statuses))
	for _, raw := range req.Statuses {
		parsed, ok := journal.ParseStatus(raw)
		if !ok {
			continue
		}
		statuses = append(statuses, parsed)
	}
	entries, err := s.daemon.HistoryList(s.ctx, req.Limit, statuses)
	if err != nil {
		return err
	}
	resp.Entries = make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		resp.Entries = append(resp.Entries, fromJournalEntry(entry))
	}
	return nil
}

func (s *service) HistoryClear(req HistoryClearRequest, resp *HistoryClearResponse) error {
	var (
		removed int64
		err     error
	)
	if req.FailedOnly {
		removed, err = s.daemon.HistoryClearFailed(s.ctx)
	} else {
		removed, err = s.daemon.HistoryClear(s.ctx)
	}
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.logger.Info("history cleared", logging.Int64("removed_count", removed))
	return nil
}

func (s *service) HistoryStats(_ HistoryStatsRequest, resp *HistoryStatsResponse) error {
	summary, err := s.daemon.HistoryStats(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = summary.Total
	resp.Sorted = summary.Sorted
	resp.Skipped = summary.Skipped
	resp.Failed = summary.Failed
	resp.Collisions = summary.Collisions
	resp.Archived = summary.Archived
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	var wait time.Duration
	if req.Follow {
		wait = time.Duration(req.WaitMillis) * time.Millisecond
		if wait <= 0 {
			wait = time.Second
		}
	}
	batch, err := logs.Tail(s.ctx, logPath, logs.Request{
		Offset:  req.Offset,
		Limit:   req.Limit,
		WaitFor: wait,
	})
	if err != nil {
		return err
	}
	resp.Lines = batch.Lines
	resp.Offset = batch.Offset
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.PID = os.Getpid()
	return nil
}
