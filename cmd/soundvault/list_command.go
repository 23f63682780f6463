package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soundvault"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cataloged sounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				sounds, err := vault.ListSounds(cmd.Context())
				if err != nil {
					return err
				}
				if len(sounds) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Library is empty")
					return nil
				}
				table := renderTable(soundRowHeaders, buildSoundRows(sounds), soundRowAlignments)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}
