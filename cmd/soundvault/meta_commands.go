package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"soundvault"
	"soundvault/sound"
)

func newMetaCommand(ctx *commandContext) *cobra.Command {
	metaCmd := &cobra.Command{
		Use:   "meta",
		Short: "Edit sound metadata",
	}

	metaCmd.AddCommand(newMetaSetCommand(ctx))
	metaCmd.AddCommand(newMetaTagCommand(ctx))
	metaCmd.AddCommand(newMetaUntagCommand(ctx))

	return metaCmd
}

func newMetaSetCommand(ctx *commandContext) *cobra.Command {
	var name string
	var description string
	var license string
	var custom []string
	var removeCustom []string

	cmd := &cobra.Command{
		Use:   "set <sound-id>",
		Short: "Set metadata fields on a sound",
		Long: "Set replaces the given fields and leaves the rest untouched. " +
			"Updated names and descriptions also refresh the embedded tag of " +
			"the library file where the format supports it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customValues, err := parseKeyValues(custom)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("description") && !flags.Changed("license") &&
				len(customValues) == 0 && len(removeCustom) == 0 {
				return fmt.Errorf("nothing to change; pass at least one field flag")
			}

			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				snd, err := vault.UpdateSoundMetadata(cmd.Context(), args[0], func(meta *sound.Metadata) error {
					if flags.Changed("name") {
						meta.Name = name
					}
					if flags.Changed("description") {
						meta.Description = description
					}
					if flags.Changed("license") {
						meta.License = license
					}
					if len(customValues) > 0 && meta.Custom == nil {
						meta.Custom = make(map[string]string, len(customValues))
					}
					for key, value := range customValues {
						meta.Custom[key] = value
					}
					for _, key := range removeCustom {
						delete(meta.Custom, key)
					}
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", snd.ID, snd.Metadata.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&license, "license", "", "New license label")
	cmd.Flags().StringArrayVar(&custom, "custom", nil, "Custom key=value metadata to set (repeatable)")
	cmd.Flags().StringArrayVar(&removeCustom, "remove-custom", nil, "Custom metadata key to remove (repeatable)")
	return cmd
}

func newMetaTagCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <sound-id> <tag>...",
		Short: "Add tags to a sound",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				snd, err := vault.UpdateSoundMetadata(cmd.Context(), args[0], func(meta *sound.Metadata) error {
					meta.Tags = append(meta.Tags, args[1:]...)
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tags for %s: %s\n", snd.ID, formatTagList(snd.Metadata.Tags))
				return nil
			})
		},
	}
}

func newMetaUntagCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "untag <sound-id> <tag>...",
		Short: "Remove tags from a sound",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			drop := make(map[string]struct{}, len(args)-1)
			for _, tag := range args[1:] {
				if normalized := sound.NormalizeTag(tag); normalized != "" {
					drop[normalized] = struct{}{}
				}
			}
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				snd, err := vault.UpdateSoundMetadata(cmd.Context(), args[0], func(meta *sound.Metadata) error {
					meta.Tags = slices.DeleteFunc(meta.Tags, func(tag string) bool {
						_, gone := drop[sound.NormalizeTag(tag)]
						return gone
					})
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tags for %s: %s\n", snd.ID, formatTagList(snd.Metadata.Tags))
				return nil
			})
		},
	}
}
