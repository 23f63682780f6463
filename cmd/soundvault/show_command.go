package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"soundvault"
	"soundvault/sound"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <sound-id>",
		Short: "Show one sound in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				snd, err := vault.Sound(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				collections, err := vault.SoundCollections(cmd.Context(), snd.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				printDetail(out, "ID", snd.ID)
				printDetail(out, "Name", snd.Metadata.Name)
				printDetail(out, "Origin", originLabel(*snd))
				printDetail(out, "Duration", formatSeconds(snd.Metadata.Duration))
				printDetail(out, "License", snd.Metadata.License)
				printDetail(out, "Tags", formatTagList(snd.Metadata.Tags))
				printDetail(out, "Description", snd.Metadata.Description)
				printDetail(out, "Created", formatDisplayTime(snd.CreatedAt))
				if snd.FileReference != "" {
					if path, err := vault.SoundPath(cmd.Context(), snd.ID); err == nil {
						printDetail(out, "File", path)
					}
				}
				printDetail(out, "Preview URL", snd.PreviewURL)
				printCustom(out, snd.Metadata.Custom)
				printCollections(out, collections)
				return nil
			})
		},
	}
}

func printDetail(out io.Writer, label, value string) {
	if value == "" || value == "-" {
		return
	}
	fmt.Fprintf(out, "%-13s %s\n", label+":", value)
}

func printCustom(out io.Writer, custom map[string]string) {
	if len(custom) == 0 {
		return
	}
	keys := make([]string, 0, len(custom))
	for key := range custom {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Fprintln(out, "Custom:")
	for _, key := range keys {
		fmt.Fprintf(out, "  %s: %s\n", key, custom[key])
	}
}

func printCollections(out io.Writer, collections []*sound.Collection) {
	if len(collections) == 0 {
		return
	}
	fmt.Fprintln(out, "Collections:")
	for _, col := range collections {
		fmt.Fprintf(out, "  %s  %s\n", col.ID, col.Name)
	}
}
