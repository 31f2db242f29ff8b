package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sortd/internal/preflight"
)

func runStatusCommand(cmd *cobra.Command, ctx *commandContext) error {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	for _, line := range renderSectionHeader("Directories", colorize) {
		fmt.Fprintln(stdout, line)
	}
	cfg := ctx.configValue()
	for _, check := range preflight.Run(cfg) {
		kind := statusOK
		if !check.Ready {
			kind = statusError
		}
		fmt.Fprintln(stdout, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}
	fmt.Fprintln(stdout)

	for _, line := range renderSectionHeader("Session", colorize) {
		fmt.Fprintln(stdout, line)
	}

	client, err := ctx.dialClient()
	if err != nil {
		fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "not running", colorize))
		return nil
	}
	defer client.Close()

	status, err := client.Status()
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d)", status.PID), colorize))
	stateKind := statusInfo
	if status.Running {
		stateKind = statusOK
	}
	fmt.Fprintln(stdout, renderStatusLine("State", stateKind, status.State, colorize))
	if status.StartedAt != "" {
		fmt.Fprintln(stdout, renderStatusLine("Started", statusInfo, status.StartedAt, colorize))
	}
	if status.LastError != "" {
		fmt.Fprintln(stdout, renderStatusLine("Last error", statusWarn, status.LastError, colorize))
	}
	if status.LastFile != "" {
		fmt.Fprintln(stdout, renderStatusLine("Last file", statusInfo, status.LastFile, colorize))
	}

	fmt.Fprintln(stdout)
	rows := [][]string{
		{"Sorted", strconv.Itoa(status.Sorted)},
		{"Skipped", strconv.Itoa(status.Skipped)},
		{"Failed", strconv.Itoa(status.Failed)},
	}
	fmt.Fprintln(stdout, renderTable([]string{"Outcome", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	return nil
}
