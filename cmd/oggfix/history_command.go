package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"oggfix/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent batch runs and their per-file outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dbPath := cfg.HistoryDBPath()
			if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(out, "No run history recorded yet.")
				return nil
			}

			store, err := history.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return printFileResults(cmd, store, args[0])
			}
			return printRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func printRecentRuns(cmd *cobra.Command, store *history.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No run history recorded yet.")
		return nil
	}

	fmt.Fprintln(out, renderRunsTable(runs))
	return nil
}

func printFileResults(cmd *cobra.Command, store *history.Store, runID string) error {
	results, err := store.FileResults(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("list file results: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No file results recorded for run %s\n", runID)
		return nil
	}

	fmt.Fprintln(out, renderFileResultsTable(results))
	return nil
}
