package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"soundvault"
	"soundvault/sound"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var remoteOnly bool
	var includeRemote bool
	var provenance string
	var limit int
	var page int
	var sortOrder string

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the library and Freesound",
		Long: "Search matches the query against names, tags, and descriptions in " +
			"the local catalog. With --remote only Freesound is queried; with " +
			"--all both run and a remote outage still returns local results.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remoteOnly && includeRemote {
				return errors.New("specify only one of --remote or --all")
			}
			kind, err := provenanceFilter(provenance)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			filter := sound.SearchFilter{Provenance: kind, Limit: limit}
			remoteOpts := soundvault.RemoteSearchOptions{Page: page, PageSize: limit, Sort: sortOrder}

			return ctx.withVault(cmd, func(vault *soundvault.Vault) error {
				out := cmd.OutOrStdout()
				switch {
				case remoteOnly:
					result, err := vault.SearchRemote(cmd.Context(), query, remoteOpts)
					if err != nil {
						return err
					}
					printRemoteResults(cmd, result)
				case includeRemote:
					combined, err := vault.SearchAll(cmd.Context(), query, filter, remoteOpts)
					if err != nil {
						return err
					}
					printLocalResults(cmd, combined.Local)
					fmt.Fprintln(out)
					switch {
					case combined.RemoteErr != nil:
						fmt.Fprintf(out, "Remote search failed: %v\n", combined.RemoteErr)
					case !vault.RemoteEnabled():
						fmt.Fprintln(out, "Remote search disabled (no api key configured)")
					default:
						printRemoteResults(cmd, soundvault.RemoteSearchResult{
							Sounds: combined.Remote,
							Total:  len(combined.Remote),
						})
					}
				default:
					local, err := vault.SearchLocal(cmd.Context(), query, filter)
					if err != nil {
						return err
					}
					printLocalResults(cmd, local)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&remoteOnly, "remote", "r", false, "Search Freesound instead of the library")
	cmd.Flags().BoolVarP(&includeRemote, "all", "a", false, "Search the library and Freesound together")
	cmd.Flags().StringVar(&provenance, "provenance", "", "Restrict local results to one provenance (local or remote)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (0 for no cap)")
	cmd.Flags().IntVar(&page, "page", 0, "Remote result page")
	cmd.Flags().StringVar(&sortOrder, "sort", "", "Remote sort order (e.g. score, downloads_desc)")
	return cmd
}

func printLocalResults(cmd *cobra.Command, sounds []*sound.Sound) {
	out := cmd.OutOrStdout()
	if len(sounds) == 0 {
		fmt.Fprintln(out, "No local matches")
		return
	}
	table := renderTable(soundRowHeaders, buildSoundRows(sounds), soundRowAlignments)
	fmt.Fprintln(out, table)
}

func printRemoteResults(cmd *cobra.Command, result soundvault.RemoteSearchResult) {
	out := cmd.OutOrStdout()
	if len(result.Sounds) == 0 {
		fmt.Fprintln(out, "No remote matches")
		return
	}
	table := renderTable(remoteRowHeaders, buildRemoteRows(result.Sounds), remoteRowAlignments)
	fmt.Fprintln(out, table)
	if result.Total > len(result.Sounds) {
		fmt.Fprintf(out, "Showing %d of %d remote matches\n", len(result.Sounds), result.Total)
	}
}

// provenanceFilter translates the --provenance flag value.
func provenanceFilter(value string) (sound.ProvenanceKind, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	kind, err := sound.ParseProvenanceKind(value)
	if err != nil {
		return "", fmt.Errorf("--provenance: %w", err)
	}
	return kind, nil
}
