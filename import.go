package soundvault

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"soundvault/internal/audiotag"
	"soundvault/internal/logging"
	"soundvault/sound"
)

// ImportOptions carries caller-supplied metadata for an import. An empty
// Name falls back to the file's embedded title, then to a name derived
// from the file path.
type ImportOptions struct {
	Name        string
	Tags        []string
	Description string
	License     string
	Custom      map[string]string
}

// ImportFile copies one audio file into the library and registers it as a
// Local sound. The source file is left untouched; the library receives a
// verified copy keyed by the new sound's id.
func (v *Vault) ImportFile(ctx context.Context, path string, opts ImportOptions) (*sound.Sound, error) {
	info, err := audiotag.Probe(path)
	if err != nil {
		return nil, err
	}

	meta := sound.Metadata{
		Name:        opts.Name,
		Tags:        opts.Tags,
		Description: opts.Description,
		Duration:    info.Duration,
		License:     opts.License,
		Custom:      opts.Custom,
	}
	if meta.Name == "" {
		meta.Name = info.Title
	}
	if meta.Name == "" {
		meta.Name = sound.DeriveName(path)
	}
	meta.Normalize()
	// Validate before touching the library so a bad request copies nothing.
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	id := sound.NewID()
	ref, err := v.files.ImportCopy(path, id)
	if err != nil {
		return nil, err
	}

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
		return nil, err
	}

	v.logger.Info("sound imported",
		logging.String(logging.FieldSoundID, snd.ID),
		logging.String("name", snd.Metadata.Name),
		logging.String(logging.FieldPath, path))
	return &snd, nil
}

// ImportGlob imports every audio file matching the doublestar pattern.
// Non-audio matches and directories are skipped. Failures do not stop the
// batch; the joined error reports every file that could not be imported
// alongside the sounds that were. Names are derived per file, so
// opts.Name is ignored.
func (v *Vault) ImportGlob(ctx context.Context, pattern string, opts ImportOptions) ([]*sound.Sound, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, sound.Wrap(sound.ErrStorage, "import glob", fmt.Sprintf("bad pattern %q", pattern), err)
	}

	perFile := opts
	perFile.Name = ""

	var imported []*sound.Sound
	var failures []error
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		if !audiotag.IsAudioPath(match) {
			continue
		}
		if info, statErr := os.Stat(match); statErr == nil && info.IsDir() {
			continue
		}
		snd, err := v.ImportFile(ctx, match, perFile)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", match, err))
			continue
		}
		imported = append(imported, snd)
	}

	v.logger.Info("glob import finished",
		logging.String("pattern", pattern),
		logging.Int(logging.FieldCount, len(imported)),
		logging.Int("failures", len(failures)))
	return imported, errors.Join(failures...)
}
