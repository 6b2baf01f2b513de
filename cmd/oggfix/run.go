package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"oggfix/internal/batch"
	"oggfix/internal/config"
	"oggfix/internal/deps"
	"oggfix/internal/encode"
	"oggfix/internal/history"
	"oggfix/internal/logging"
)

type runFlags struct {
	recursive  bool
	noBackup   bool
	dryRun     bool
	pipeline   string
	quality    int
	sampleRate int
}

// applyOverrides layers command-line flags over the loaded configuration and
// re-validates the result.
func (f *runFlags) applyOverrides(cfg config.Config) (config.Config, error) {
	if pipeline := strings.ToLower(strings.TrimSpace(f.pipeline)); pipeline != "" {
		cfg.Encode.Pipeline = pipeline
	}
	if f.quality >= 0 {
		cfg.Encode.Quality = f.quality
	}
	if f.sampleRate > 0 {
		cfg.Encode.SampleRate = f.sampleRate
	}
	if f.noBackup {
		cfg.Backup.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runBatch(cmd *cobra.Command, ctx *commandContext, dir string, flags *runFlags) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := flags.applyOverrides(*loaded)
	if err != nil {
		return err
	}

	logger, err := ctx.logger()
	if err != nil {
		return err
	}

	// A dry run invokes no external tool, so it may proceed without them.
	if !flags.dryRun {
		if _, err := deps.Verify(cmd.Context(), deps.Requirements(&cfg)); err != nil {
			return err
		}
	}

	transformer, err := encode.ForConfig(&cfg)
	if err != nil {
		return err
	}

	runner, err := batch.NewRunner(transformer, batch.Options{
		Backup: cfg.Backup.Enabled,
		DryRun: flags.dryRun,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	summary, err := runner.Run(cmd.Context(), dir, flags.recursive)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary, cfg.Backup.Enabled)
	recordHistory(cmd.Context(), &cfg, logger, summary)
	return nil
}

func printSummary(out io.Writer, summary *batch.Summary, backups bool) {
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Found %d .ogg file(s) under %s\n", summary.Found, summary.Root)
	if summary.Found == 0 {
		return
	}

	if summary.Failed > 0 {
		fmt.Fprintln(out, renderFailureTable(summary.Results))
	}

	verdict := fmt.Sprintf("Complete! Success: %d, Failed: %d", summary.Succeeded, summary.Failed)
	if summary.DryRun {
		verdict = fmt.Sprintf("Dry run complete. Would process: %d", summary.Succeeded)
	}
	if colorize {
		color := ansiGreen
		if summary.Failed > 0 {
			color = ansiYellow
		}
		verdict = color + verdict + ansiReset
	}
	fmt.Fprintln(out, verdict)

	if backups && !summary.DryRun && summary.Succeeded > 0 {
		fmt.Fprintln(out, "Backups saved as .ogg.bak files; run `oggfix restore` to undo,")
		fmt.Fprintln(out, "or delete them once everything plays correctly.")
	}
}

// recordHistory is best-effort: failures are logged, never fatal.
func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, summary *batch.Summary) {
	if !cfg.History.Enabled || summary.DryRun {
		return
	}
	log := logging.NewComponentLogger(logger, "history")
	if err := cfg.EnsureDirectories(); err != nil {
		log.Warn("cannot create history directory", logging.Error(err))
		return
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		log.Warn("cannot open history database", logging.Error(err))
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(ctx, summary); err != nil {
		log.Warn("cannot record run", logging.Error(err))
	}
}
