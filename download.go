package soundvault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"soundvault/internal/audiotag"
	"soundvault/internal/logging"
	"soundvault/sound"
)

// DownloadSound materializes a remote sound into the library: fetch the
// audio, write it under the sounds directory, and register a Local sound
// whose custom metadata links back to the source id. Downloading the same
// source twice returns the already materialized sound without touching the
// network.
func (v *Vault) DownloadSound(ctx context.Context, sourceID string) (*sound.Sound, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, sound.Wrap(sound.ErrMetadataInvalid, "download sound", "source id required", nil)
	}

	existing, err := v.store.FindByRemoteSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		v.logger.Info("download skipped, source already materialized",
			logging.String(logging.FieldSourceID, sourceID),
			logging.String(logging.FieldSoundID, existing.ID))
		return existing, nil
	}

	if v.remote == nil {
		return nil, sound.Wrap(sound.ErrRemoteUnavailable, "download sound",
			"no remote source configured", nil)
	}

	payload, err := v.remote.Fetch(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	id := sound.NewID()
	ref, size, err := v.files.WriteSound(id, payload.Ext, bytes.NewReader(payload.Data))
	if err != nil {
		return nil, err
	}

	meta := payload.Sound.Metadata.Clone()
	if meta.Custom == nil {
		meta.Custom = make(map[string]string, 1)
	}
	meta.Custom[sound.CustomKeyRemoteSource] = sourceID

	snd := sound.Sound{
		ID:            id,
		Provenance:    sound.LocalProvenance(),
		Metadata:      meta,
		FileReference: ref,
	}
	if err := v.store.InsertSound(ctx, &snd); err != nil {
		if removeErr := v.files.RemoveSound(ref); removeErr != nil {
			v.logger.Warn("orphaned library copy after failed insert",
				logging.String(logging.FieldPath, ref), logging.Error(removeErr))
		}
		if errors.Is(err, sound.ErrDuplicateID) {
			// Another writer materialized the same source between the
			// lookup and the insert; theirs wins.
			if existing, findErr := v.store.FindByRemoteSource(ctx, sourceID); findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	v.stampSoundFile(&snd)

	if v.cacheDownloads {
		if _, cacheErr := v.files.WritePreviewCache(sourceID, payload.Ext, payload.Data); cacheErr != nil {
			v.logger.Warn("preview cache write failed",
				logging.String(logging.FieldSourceID, sourceID), logging.Error(cacheErr))
		}
	}

	v.logger.Info("sound materialized",
		logging.String(logging.FieldSourceID, sourceID),
		logging.String(logging.FieldSoundID, snd.ID),
		logging.Int64("bytes", size))
	return &snd, nil
}

// DownloadSounds materializes several sources with at most the configured
// download concurrency in flight. One source failing does not stop the
// rest: the returned slice keeps the input order with nil entries for the
// failures, and the joined error names every source that failed.
func (v *Vault) DownloadSounds(ctx context.Context, sourceIDs []string) ([]*sound.Sound, error) {
	results := make([]*sound.Sound, len(sourceIDs))
	failures := make([]error, len(sourceIDs))

	var group errgroup.Group
	group.SetLimit(v.downloadLimit)
	for i, sourceID := range sourceIDs {
		group.Go(func() error {
			snd, err := v.DownloadSound(ctx, sourceID)
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", sourceID, err)
				return nil
			}
			results[i] = snd
			return nil
		})
	}
	// Workers record failures per index and never abort the group.
	_ = group.Wait()
	return results, errors.Join(failures...)
}

// FetchPreview returns a remote sound's preview bytes and their file
// extension. With download caching enabled the payload is served from and
// written through the preview cache; disabled, every call re-fetches.
func (v *Vault) FetchPreview(ctx context.Context, sourceID string) ([]byte, string, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, "", sound.Wrap(sound.ErrMetadataInvalid, "fetch preview", "source id required", nil)
	}

	if v.cacheDownloads {
		data, ext, err := v.files.LookupPreviewCache(sourceID)
		if err != nil {
			return nil, "", err
		}
		if data != nil {
			v.logger.Debug("preview served from cache",
				logging.String(logging.FieldSourceID, sourceID))
			return data, ext, nil
		}
	}

	if v.remote == nil {
		return nil, "", sound.Wrap(sound.ErrRemoteUnavailable, "fetch preview",
			"no remote source configured", nil)
	}

	payload, err := v.remote.Fetch(ctx, sourceID)
	if err != nil {
		return nil, "", err
	}
	if v.cacheDownloads {
		if _, cacheErr := v.files.WritePreviewCache(sourceID, payload.Ext, payload.Data); cacheErr != nil {
			v.logger.Warn("preview cache write failed",
				logging.String(logging.FieldSourceID, sourceID), logging.Error(cacheErr))
		}
	}
	return payload.Data, payload.Ext, nil
}

// ResolveRemote fetches the current remote record for a source id without
// downloading audio.
func (v *Vault) ResolveRemote(ctx context.Context, sourceID string) (sound.Sound, error) {
	if v.remote == nil {
		return sound.Sound{}, sound.Wrap(sound.ErrRemoteUnavailable, "resolve remote",
			"no remote source configured", nil)
	}
	return v.remote.Resolve(ctx, sourceID)
}
