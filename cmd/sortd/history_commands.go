package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sortd/internal/ipc"
	"sortd/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and maintain the sorting journal",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	historyCmd.AddCommand(newHistoryStatsCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFilter []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded outcomes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range statusFilter {
				if _, ok := journal.ParseStatus(raw); !ok {
					return fmt.Errorf("unknown status %q (expected one of: %s)", raw, statusNames())
				}
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.HistoryList(limit, statusFilter)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Entries) == 0 {
					fmt.Fprintln(stdout, "Journal is empty")
					return nil
				}

				rows := make([][]string, 0, len(resp.Entries))
				for _, entry := range resp.Entries {
					destination := entry.FinalPath
					if destination == "" {
						destination = entry.ErrorMessage
					}
					collision := ""
					if entry.Collision {
						collision = "renamed"
					}
					rows = append(rows, []string{
						strconv.FormatInt(entry.ID, 10),
						entry.Filename,
						entry.Category,
						entry.Status,
						collision,
						destination,
					})
				}
				table := renderTable(
					[]string{"ID", "File", "Category", "Outcome", "", "Destination"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum entries to show (0 for all)")
	cmd.Flags().StringSliceVar(&statusFilter, "status", nil, "Filter by outcome (sorted, skipped, failed)")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.HistoryClear(failedOnly)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entr%s\n", resp.Removed, pluralY(resp.Removed))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only delete failed entries")
	return cmd
}

func newHistoryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate journal counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.HistoryStats()
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Total", strconv.Itoa(resp.Total)},
					{"Sorted", strconv.Itoa(resp.Sorted)},
					{"Skipped", strconv.Itoa(resp.Skipped)},
					{"Failed", strconv.Itoa(resp.Failed)},
					{"Collisions", strconv.Itoa(resp.Collisions)},
					{"Archived", strconv.Itoa(resp.Archived)},
				}
				table := renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func statusNames() string {
	names := make([]string, 0, len(journal.AllStatuses()))
	for _, status := range journal.AllStatuses() {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
