package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soundvault"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check library and remote service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)
				cfg := vault.Config()

				for _, line := range renderSectionHeader("Library", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Path", statusInfo, cfg.Library.Path, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Database", statusInfo, cfg.Library.DatabasePath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Inbox", statusInfo, cfg.Library.InboxDir, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Remote enabled", statusInfo, yesNo(vault.RemoteEnabled()), colorize))
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Health Checks", colorize) {
					fmt.Fprintln(stdout, line)
				}
				healthy := true
				for _, check := range vault.Doctor(cmd.Context()) {
					kind := statusOK
					if !check.Passed {
						kind = statusError
						healthy = false
					}
					fmt.Fprintln(stdout, renderStatusLine(check.Name, kind, check.Detail, colorize))
				}
				if !healthy {
					return fmt.Errorf("one or more health checks failed")
				}
				return nil
			})
		},
	}
}
