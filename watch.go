package soundvault

import (
	"context"

	"soundvault/internal/inbox"
)

// WatchInbox drains the configured inbox directory until ctx ends: audio
// files dropped there are imported into the library and then removed. The
// options' tags, description, and custom fields apply to every drained
// file; names are derived per file. Returns the context's error on
// shutdown.
func (v *Vault) WatchInbox(ctx context.Context, opts ImportOptions) error {
	perFile := opts
	perFile.Name = ""

	watcher, err := inbox.NewWatcher(inbox.Config{
		Dir:    v.files.Layout().InboxDir(),
		Logger: v.logger,
		Handle: func(ctx context.Context, path string) error {
			_, err := v.ImportFile(ctx, path, perFile)
			return err
		},
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
