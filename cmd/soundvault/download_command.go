package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"soundvault"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var collectionID string

	cmd := &cobra.Command{
		Use:   "download <source-id>...",
		Short: "Materialize Freesound sounds into the library",
		Long: "Download fetches each remote sound, stores the audio in the " +
			"library, and registers a local catalog entry linked back to its " +
			"source id. A source that was already downloaded is returned as is.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				out := cmd.OutOrStdout()
				sounds, downloadErr := vault.DownloadSounds(cmd.Context(), args)
				var failures []error
				if downloadErr != nil {
					failures = append(failures, downloadErr)
				}
				for i, snd := range sounds {
					if snd == nil {
						continue
					}
					fmt.Fprintf(out, "Downloaded %s as %s (%s)\n", args[i], snd.ID, snd.Metadata.Name)
					if collectionID != "" {
						if err := vault.AddToCollection(cmd.Context(), snd.ID, collectionID); err != nil {
							failures = append(failures, fmt.Errorf("add %s to collection: %w", snd.ID, err))
						}
					}
				}
				return errors.Join(failures...)
			})
		},
	}

	cmd.Flags().StringVar(&collectionID, "collection", "", "Add downloaded sounds to this collection")
	return cmd
}
