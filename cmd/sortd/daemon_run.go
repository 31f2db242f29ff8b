package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sortd/internal/daemon"
	"sortd/internal/engine"
	"sortd/internal/ipc"
	"sortd/internal/journal"
	"sortd/internal/logging"
)

func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Daemon process management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the sortd daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd.Context(), ctx)
		},
	})
	return cmd
}

func runDaemonProcess(cmdCtx context.Context, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.PruneOldLogs(cfg.Paths.LogDir, cfg.Logging.RetentionDays, logger)

	store, err := journal.Open(cfg.Paths.LogDir)
	if err != nil {
		logger.Error("open journal", logging.Error(err))
		return err
	}
	defer store.Close()

	if days := cfg.Workflow.JournalRetentionDays; days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		if removed, pruneErr := store.Prune(signalCtx, cutoff); pruneErr != nil {
			logger.Warn("journal prune failed", logging.Error(pruneErr))
		} else if removed > 0 {
			logger.Info("pruned journal entries", logging.Int64("removed", removed))
		}
	}

	eng := engine.New(cfg, store, logger, nil)
	d, err := daemon.New(cfg, store, logger, eng)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, ctx.socketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start", logging.Error(err))
	}

	fmt.Fprintf(os.Stdout, "sortd daemon listening on %s\n", ctx.socketPath())
	<-signalCtx.Done()
	logger.Info("sortd daemon shutting down")
	return nil
}
