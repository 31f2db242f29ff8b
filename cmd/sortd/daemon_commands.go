package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sortd/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the sortd daemon and begin watching",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			client, err := ctx.dialClient()
			if err != nil {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
				if err := launchDaemon(ctx); err != nil {
					return err
				}
				client, err = waitForDaemon(ctx, 10*time.Second)
				if err != nil {
					return err
				}
			}
			defer client.Close()

			resp, err := client.Start()
			if err != nil {
				return err
			}
			if resp.Started {
				fmt.Fprintln(stdout, "Watching for new files")
			} else if strings.Contains(resp.Message, "already") {
				fmt.Fprintln(stdout, "Already watching")
			} else {
				fmt.Fprintln(stdout, resp.Message)
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the watch session",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Stop(); err != nil {
					return err
				}
				fmt.Fprintln(stdout, "Watch session stopped")
				return nil
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatusCommand(cmd, ctx)
		},
	}

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

// launchDaemon re-executes this binary as a detached `daemon run` process.
func launchDaemon(ctx *commandContext) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := []string{"daemon", "run"}
	if ctx.configFlag != nil {
		if path := strings.TrimSpace(*ctx.configFlag); path != "" {
			args = append(args, "--config", path)
		}
	}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			args = append(args, "--socket", socket)
		}
	}

	proc := exec.Command(exe, args...)
	proc.Stdout = nil
	proc.Stderr = nil
	proc.Stdin = nil
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	// The daemon outlives this CLI invocation.
	return proc.Process.Release()
}

func waitForDaemon(ctx *commandContext, timeout time.Duration) (*ipc.Client, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		client, err := ctx.dialClient()
		if err == nil {
			if _, pingErr := client.Ping(); pingErr == nil {
				return client, nil
			}
			client.Close()
		}
		time.Sleep(200 * time.Millisecond)
	}
	return nil, fmt.Errorf("daemon did not come up within %s", timeout)
}
