package soundvault

import (
	"context"

	"golang.org/x/sync/errgroup"

	"soundvault/internal/logging"
	"soundvault/sound"
)

// CombinedResults bundles a unified search. A remote failure never voids
// the local half: it lands in RemoteErr and the caller decides how loudly
// to surface it.
type CombinedResults struct {
	Local     []*sound.Sound
	Remote    []sound.Sound
	RemoteErr error
}

// SearchLocal searches the catalog. Results order by tag-match count, then
// name match, then insertion order.
func (v *Vault) SearchLocal(ctx context.Context, query string, filter sound.SearchFilter) ([]*sound.Sound, error) {
	return v.store.SearchLocal(ctx, query, filter)
}

// SearchRemote queries the remote service. Without a configured remote
// source it reports ErrRemoteUnavailable.
func (v *Vault) SearchRemote(ctx context.Context, query string, opts RemoteSearchOptions) (RemoteSearchResult, error) {
	if v.remote == nil {
		return RemoteSearchResult{}, sound.Wrap(sound.ErrRemoteUnavailable, "remote search",
			"no remote source configured", nil)
	}
	return v.remote.Search(ctx, query, opts)
}

// SearchAll runs the local and remote searches concurrently and merges the
// halves. Only a local failure fails the call; the groups write disjoint
// fields so no extra synchronization is needed beyond Wait.
func (v *Vault) SearchAll(ctx context.Context, query string, filter sound.SearchFilter, opts RemoteSearchOptions) (CombinedResults, error) {
	var combined CombinedResults
	var group errgroup.Group

	group.Go(func() error {
		local, err := v.store.SearchLocal(ctx, query, filter)
		if err != nil {
			return err
		}
		combined.Local = local
		return nil
	})

	if v.remote != nil {
		group.Go(func() error {
			result, err := v.remote.Search(ctx, query, opts)
			if err != nil {
				combined.RemoteErr = err
				v.logger.Warn("remote half of unified search failed",
					logging.String(logging.FieldQuery, query),
					logging.Error(err))
				return nil
			}
			combined.Remote = result.Sounds
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return CombinedResults{}, err
	}
	v.logger.Debug("unified search finished",
		logging.String(logging.FieldQuery, query),
		logging.Int("local", len(combined.Local)),
		logging.Int("remote", len(combined.Remote)))
	return combined, nil
}
