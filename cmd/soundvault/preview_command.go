package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"soundvault"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "preview <source-id>",
		Short: "Fetch a Freesound preview without importing it",
		Long: "Preview downloads the preview rendition of a remote sound to a " +
			"local file, serving repeat requests from the preview cache. The " +
			"library catalog is not touched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceID := strings.TrimSpace(args[0])
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				data, ext, err := vault.FetchPreview(cmd.Context(), sourceID)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outputPath)
				if target == "" {
					target = sourceID + ext
				}
				absTarget, err := filepath.Abs(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := os.WriteFile(absTarget, data, 0o644); err != nil {
					return fmt.Errorf("write preview: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote preview of %s to %s (%d bytes)\n", sourceID, absTarget, len(data))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default <source-id>.<ext>)")
	return cmd
}
