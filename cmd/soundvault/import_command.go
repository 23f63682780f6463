package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"soundvault"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var name string
	var tags []string
	var description string
	var license string
	var custom []string
	var glob bool

	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Register audio files in the library",
		Long: "Import copies each audio file into the library, derives a display " +
			"name from embedded tags or the filename, and registers the result " +
			"in the catalog. With --glob each argument is treated as a glob " +
			"pattern and non-audio matches are skipped.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customValues, err := parseKeyValues(custom)
			if err != nil {
				return err
			}
			if name != "" && (glob || len(args) > 1) {
				return errors.New("--name applies to a single file import only")
			}

			opts := soundvault.ImportOptions{
				Name:        name,
				Tags:        tags,
				Description: description,
				License:     license,
				Custom:      customValues,
			}

			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				out := cmd.OutOrStdout()
				var failures []error
				imported := 0
				for _, arg := range args {
					if glob {
						sounds, err := vault.ImportGlob(cmd.Context(), arg, opts)
						for _, snd := range sounds {
							fmt.Fprintf(out, "Imported %s as %s\n", snd.Metadata.Name, snd.ID)
							imported++
						}
						if err != nil {
							failures = append(failures, err)
						}
						continue
					}
					snd, err := vault.ImportFile(cmd.Context(), arg, opts)
					if err != nil {
						failures = append(failures, fmt.Errorf("%s: %w", arg, err))
						continue
					}
					fmt.Fprintf(out, "Imported %s as %s\n", snd.Metadata.Name, snd.ID)
					imported++
				}
				if len(args) > 1 || glob {
					fmt.Fprintf(out, "Imported %d sound(s)\n", imported)
				}
				return errors.Join(failures...)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the imported sound")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Free-form description")
	cmd.Flags().StringVar(&license, "license", "", "License label")
	cmd.Flags().StringArrayVar(&custom, "custom", nil, "Custom key=value metadata (repeatable)")
	cmd.Flags().BoolVarP(&glob, "glob", "g", false, "Treat arguments as glob patterns")
	return cmd
}

// parseKeyValues splits key=value flag instances into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", pair)
		}
		values[key] = strings.TrimSpace(value)
	}
	return values, nil
}
