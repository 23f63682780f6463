package soundvault

import (
	"context"
	"io"

	"soundvault/internal/audiotag"
	"soundvault/internal/logging"
	"soundvault/sound"
)

// Sound loads one sound by id.
func (v *Vault) Sound(ctx context.Context, id string) (*sound.Sound, error) {
	return v.store.GetSound(ctx, id)
}

// ListSounds returns every sound in insertion order.
func (v *Vault) ListSounds(ctx context.Context) ([]*sound.Sound, error) {
	return v.store.ListSounds(ctx)
}

// SetSoundMetadata replaces a sound's metadata wholesale. The stored file
// reference and creation time are untouched. For local MP3 assets the
// embedded tag is rewritten to match; a stamping failure only logs, the
// catalog already holds the truth.
func (v *Vault) SetSoundMetadata(ctx context.Context, id string, meta sound.Metadata) (*sound.Sound, error) {
	updated, err := v.store.UpdateSoundMetadata(ctx, id, meta)
	if err != nil {
		return nil, err
	}
	v.stampSoundFile(updated)
	v.logger.Info("sound metadata updated", logging.String(logging.FieldSoundID, id))
	return updated, nil
}

// UpdateSoundMetadata applies an in-place edit: the mutator receives a copy
// of the current metadata and the result replaces it atomically. An error
// from the mutator aborts without writing.
func (v *Vault) UpdateSoundMetadata(ctx context.Context, id string, mutate func(*sound.Metadata) error) (*sound.Sound, error) {
	current, err := v.store.GetSound(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := current.Metadata.Clone()
	if err := mutate(&meta); err != nil {
		return nil, err
	}
	return v.SetSoundMetadata(ctx, id, meta)
}

// RemoveSound deletes a sound, its memberships, and its library file. The
// catalog row goes first; a leftover file is logged, never fatal.
func (v *Vault) RemoveSound(ctx context.Context, id string) error {
	snd, err := v.store.GetSound(ctx, id)
	if err != nil {
		return err
	}
	if err := v.store.DeleteSound(ctx, id); err != nil {
		return err
	}
	if snd.FileReference != "" {
		if err := v.files.RemoveSound(snd.FileReference); err != nil {
			v.logger.Warn("sound file removal failed",
				logging.String(logging.FieldSoundID, id),
				logging.String(logging.FieldPath, snd.FileReference),
				logging.Error(err))
		}
	}
	v.logger.Info("sound removed", logging.String(logging.FieldSoundID, id))
	return nil
}

// OpenSoundFile streams a local sound's audio bytes. Remote sounds have no
// local asset and report not found.
func (v *Vault) OpenSoundFile(ctx context.Context, id string) (io.ReadCloser, error) {
	snd, err := v.store.GetSound(ctx, id)
	if err != nil {
		return nil, err
	}
	if snd.FileReference == "" {
		return nil, sound.Wrap(sound.ErrNotFound, "open sound file",
			"sound "+id+" has no local asset", nil)
	}
	return v.files.Open(snd.FileReference)
}

// SoundPath resolves a sound's file reference to an absolute path.
func (v *Vault) SoundPath(ctx context.Context, id string) (string, error) {
	snd, err := v.store.GetSound(ctx, id)
	if err != nil {
		return "", err
	}
	if snd.FileReference == "" {
		return "", sound.Wrap(sound.ErrNotFound, "resolve sound path",
			"sound "+id+" has no local asset", nil)
	}
	return v.files.Layout().Resolve(snd.FileReference)
}

// stampSoundFile pushes catalog metadata into the asset's embedded tag.
func (v *Vault) stampSoundFile(snd *sound.Sound) {
	if snd == nil || snd.FileReference == "" {
		return
	}
	path, err := v.files.Layout().Resolve(snd.FileReference)
	if err != nil {
		return
	}
	if err := audiotag.Stamp(path, snd.Metadata); err != nil {
		v.logger.Warn("tag stamp failed",
			logging.String(logging.FieldSoundID, snd.ID),
			logging.Error(err))
	}
}
