package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &runFlags{}

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "oggfix [dir]",
		Short: "Batch re-encode .ogg files for engine-compatible Vorbis headers",
		Long: `oggfix re-encodes every .ogg file under a directory with external
encoder tools (ffmpeg, optionally oggenc), stripping metadata so game
engines with strict Vorbis comment-header checks accept the files again.
Each original is preserved as <name>.ogg.bak before being replaced.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runBatch(cmd, ctx, dir, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Process nested directories")
	rootCmd.Flags().BoolVar(&flags.noBackup, "no-backup", false, "Skip writing <name>.ogg.bak backups")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report what would be processed without touching any file")
	rootCmd.Flags().StringVar(&flags.pipeline, "pipeline", "", "Encoder pipeline: ffmpeg or oggenc (default from config)")
	rootCmd.Flags().IntVarP(&flags.quality, "quality", "q", -1, "Vorbis VBR quality 0-10 (default from config)")
	rootCmd.Flags().IntVar(&flags.sampleRate, "sample-rate", 0, "Output sample rate in Hz (default from config)")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newRestoreCommand(ctx))

	return rootCmd
}
