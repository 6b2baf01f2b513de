package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"oggfix/internal/deps"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the configured encoder tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.Check(cmd.Context(), deps.Requirements(cfg))
			missingRequired := false
			for _, status := range statuses {
				kind := statusOK
				message := status.Detail
				if !status.Available {
					if status.Optional {
						kind = statusWarn
						message = fmt.Sprintf("%s (optional for pipeline %q)", status.Detail, cfg.Encode.Pipeline)
					} else {
						kind = statusError
						missingRequired = true
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
				if !status.Available && status.Install != "" {
					fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "", "install: "+status.Install)
				}
			}

			if missingRequired {
				return deps.ErrToolsUnavailable
			}
			fmt.Fprintln(out, "All required tools are available.")
			return nil
		},
	}
}
