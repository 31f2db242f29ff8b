package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sortd/internal/engine"
	"sortd/internal/ipc"
	"sortd/internal/logging"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <file>...",
		Short: "Classify and move files without a watch session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			// Prefer the daemon so its journal records the outcome; fall
			// back to sorting in-process when it is offline.
			client, dialErr := ctx.dialClient()
			if dialErr == nil {
				defer client.Close()
				for _, path := range args {
					resp, err := client.SortFile(path)
					if err != nil {
						return err
					}
					fmt.Fprintf(stdout, "%s -> %s\n", resp.Entry.Filename, resp.Entry.FinalPath)
				}
				return nil
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			eng := engine.New(cfg, nil, logger, nil)
			for _, path := range args {
				entry, err := eng.SortFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "%s -> %s\n", entry.Filename, entry.FinalPath)
			}
			return nil
		},
	}
}

func newRescanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rescan",
		Short: "Queue files already sitting in the incoming directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Rescan()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %d file(s)\n", resp.Queued)
				return nil
			})
		},
	}
}
