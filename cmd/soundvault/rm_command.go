package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"soundvault"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <sound-id>...",
		Short: "Remove sounds from the library",
		Long: "Remove deletes each catalog entry, its collection memberships, " +
			"and the library copy of the audio file.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				out := cmd.OutOrStdout()
				var failures []error
				for _, id := range args {
					if err := vault.RemoveSound(cmd.Context(), id); err != nil {
						failures = append(failures, fmt.Errorf("%s: %w", id, err))
						continue
					}
					fmt.Fprintf(out, "Removed %s\n", id)
				}
				return errors.Join(failures...)
			})
		},
	}
}
