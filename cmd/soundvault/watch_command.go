package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"soundvault"
	"soundvault/internal/logging"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox directory and import dropped audio files",
		Long: "Watch runs until interrupted. Audio files dropped into the inbox " +
			"directory are imported once their size settles, then removed from " +
			"the inbox. Files that fail to import stay behind.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			vault, err := soundvault.Open(signalCtx, cfg, soundvault.WithLogger(logger))
			if err != nil {
				return err
			}
			defer vault.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (ctrl-c to stop)\n", cfg.Library.InboxDir)
			err = vault.WatchInbox(signalCtx, soundvault.ImportOptions{Tags: tags})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Inbox watcher stopped")
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach to every inbox import (repeatable)")
	return cmd
}
