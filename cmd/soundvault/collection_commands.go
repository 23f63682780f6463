package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"soundvault"
)

func newCollectionCommand(ctx *commandContext) *cobra.Command {
	collectionCmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Organize sounds into collections",
	}

	collectionCmd.AddCommand(newCollectionCreateCommand(ctx))
	collectionCmd.AddCommand(newCollectionListCommand(ctx))
	collectionCmd.AddCommand(newCollectionShowCommand(ctx))
	collectionCmd.AddCommand(newCollectionUpdateCommand(ctx))
	collectionCmd.AddCommand(newCollectionRemoveCommand(ctx))
	collectionCmd.AddCommand(newCollectionAddCommand(ctx))
	collectionCmd.AddCommand(newCollectionDropCommand(ctx))

	return collectionCmd
}

func newCollectionCreateCommand(ctx *commandContext) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				col, err := vault.CreateCollection(cmd.Context(), args[0], description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created collection %s as %s\n", col.Name, col.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Collection description")
	return cmd
}

func newCollectionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				collections, err := vault.ListCollections(cmd.Context())
				if err != nil {
					return err
				}
				if len(collections) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No collections")
					return nil
				}
				table := renderTable(collectionRowHeaders, buildCollectionRows(collections), collectionRowAlignments)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newCollectionShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection-id>",
		Short: "Show a collection and its sounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				col, err := vault.Collection(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				sounds, err := vault.CollectionSounds(cmd.Context(), col.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				printDetail(out, "ID", col.ID)
				printDetail(out, "Name", col.Name)
				printDetail(out, "Description", col.Description)
				printDetail(out, "Created", formatDisplayTime(col.CreatedAt))
				printCustom(out, col.Custom)
				if len(sounds) == 0 {
					fmt.Fprintln(out, "Collection is empty")
					return nil
				}
				table := renderTable(soundRowHeaders, buildSoundRows(sounds), soundRowAlignments)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}
}

func newCollectionUpdateCommand(ctx *commandContext) *cobra.Command {
	var name string
	var description string

	cmd := &cobra.Command{
		Use:   "update <collection-id>",
		Short: "Rename or re-describe a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("description") {
				return errors.New("nothing to change; pass --name or --description")
			}
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				col, err := vault.Collection(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				newName := col.Name
				if flags.Changed("name") {
					newName = name
				}
				newDescription := col.Description
				if flags.Changed("description") {
					newDescription = description
				}
				updated, err := vault.UpdateCollection(cmd.Context(), col.ID, newName, newDescription, col.Custom)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated collection %s (%s)\n", updated.ID, updated.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New collection name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New collection description")
	return cmd
}

func newCollectionRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <collection-id>...",
		Short: "Delete collections",
		Long:  "Deleting a collection removes its memberships; the member sounds stay in the library.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				out := cmd.OutOrStdout()
				var failures []error
				for _, id := range args {
					if err := vault.DeleteCollection(cmd.Context(), id); err != nil {
						failures = append(failures, fmt.Errorf("%s: %w", id, err))
						continue
					}
					fmt.Fprintf(out, "Deleted collection %s\n", id)
				}
				return errors.Join(failures...)
			})
		},
	}
}

func newCollectionAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <collection-id> <sound-id>...",
		Short: "Add sounds to a collection",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				out := cmd.OutOrStdout()
				var failures []error
				for _, soundID := range args[1:] {
					if err := vault.AddToCollection(cmd.Context(), soundID, args[0]); err != nil {
						failures = append(failures, fmt.Errorf("%s: %w", soundID, err))
						continue
					}
					fmt.Fprintf(out, "Added %s to %s\n", soundID, args[0])
				}
				return errors.Join(failures...)
			})
		},
	}
}

func newCollectionDropCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <collection-id> <sound-id>...",
		Short: "Remove sounds from a collection",
		Long:  "The sounds stay in the library; only the memberships go away.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				out := cmd.OutOrStdout()
				var failures []error
				for _, soundID := range args[1:] {
					if err := vault.RemoveFromCollection(cmd.Context(), soundID, args[0]); err != nil {
						failures = append(failures, fmt.Errorf("%s: %w", soundID, err))
						continue
					}
					fmt.Fprintf(out, "Removed %s from %s\n", soundID, args[0])
				}
				return errors.Join(failures...)
			})
		},
	}
}
