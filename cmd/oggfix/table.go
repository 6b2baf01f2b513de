package main

import (
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"oggfix/internal/batch"
	"oggfix/internal/history"
)

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

// renderFailureTable lists the files a batch run could not transform.
// Successful results are skipped; they are summarized by the verdict line.
func renderFailureTable(results []batch.Result) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"File", "Reason", "Detail"})
	for _, result := range results {
		if result.Succeeded() {
			continue
		}
		detail := ""
		if result.Err != nil {
			detail = result.Err.Error()
		}
		tw.AppendRow(table.Row{result.Path, string(result.Reason), detail})
	}
	return tw.Render()
}

// renderRunsTable lists stored batch runs, newest first.
func renderRunsTable(runs []history.Run) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Started", "Run ID", "Directory", "Mode", "Found", "Success", "Failed"})
	for _, run := range runs {
		tw.AppendRow(table.Row{
			run.StartedAt.Local().Format(time.DateTime),
			run.ID,
			run.Root,
			runMode(run),
			run.Found,
			run.Succeeded,
			run.Failed,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	return tw.Render()
}

func runMode(run history.Run) string {
	var parts []string
	if run.Recursive {
		parts = append(parts, "recursive")
	}
	if run.DryRun {
		parts = append(parts, "dry-run")
	}
	return strings.Join(parts, " ")
}

// renderFileResultsTable lists the stored per-file outcomes of one run.
func renderFileResultsTable(results []history.FileResult) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"File", "Outcome", "Detail"})
	for _, result := range results {
		outcome := "ok"
		if result.Reason != "" {
			outcome = result.Reason
		}
		tw.AppendRow(table.Row{result.Path, outcome, result.Detail})
	}
	return tw.Render()
}
