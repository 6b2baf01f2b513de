package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"oggfix/internal/batch"
	"oggfix/internal/fileutil"
)

func newRestoreCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var purge bool

	cmd := &cobra.Command{
		Use:   "restore [dir]",
		Short: "Copy .ogg.bak backups back over their re-encoded originals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolve target directory: %w", err)
			}

			backups, err := batch.DiscoverBackups(root, recursive)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d backup file(s) under %s\n", len(backups), root)
			if len(backups) == 0 {
				return nil
			}

			restored, failed := 0, 0
			for _, backup := range backups {
				original := batch.OriginalPath(backup)
				if err := restoreBackup(backup, original, purge); err != nil {
					failed++
					fmt.Fprintf(out, "  %s: %v\n", relativePath(root, backup), err)
					continue
				}
				restored++
			}

			fmt.Fprintf(out, "Restored: %d, Failed: %d\n", restored, failed)
			if failed > 0 {
				return fmt.Errorf("%d backup(s) could not be restored", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Restore backups in nested directories")
	cmd.Flags().BoolVar(&purge, "purge", false, "Delete each backup after a successful restore")
	return cmd
}

// restoreBackup puts the backup's bytes back at the original path. The copy
// always lands before the backup is touched, so a failure partway leaves the
// backup intact. Without purge the backup is kept and a restore can be
// repeated.
func restoreBackup(backup, original string, purge bool) error {
	info, err := os.Stat(backup)
	if err != nil {
		return fmt.Errorf("stat backup: %w", err)
	}
	if err := fileutil.CopyFileMode(backup, original, info.Mode().Perm()); err != nil {
		return fmt.Errorf("copy backup over original: %w", err)
	}
	if purge {
		if err := os.Remove(backup); err != nil {
			return fmt.Errorf("remove backup: %w", err)
		}
	}
	return nil
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
