package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"soundvault/sound"
)

const soundColumns = `id, provenance, remote_source_id, name, description, duration, license, file_reference, preview_url, created_at`

// InsertSound persists a sound with its tags and custom fields in one
// transaction. Metadata is normalized before writing and the sound's
// CreatedAt is assigned when unset.
func (s *Store) InsertSound(ctx context.Context, snd *sound.Sound) error {
	if snd == nil {
		return sound.Wrap(sound.ErrStoreTransaction, "insert sound", "nil sound", nil)
	}
	snd.Metadata.Normalize()
	if err := snd.Validate(); err != nil {
		return err
	}
	if snd.CreatedAt.IsZero() {
		snd.CreatedAt = time.Now().UTC()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sounds (`+soundColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snd.ID,
			string(snd.Provenance.Kind),
			nullableString(snd.RemoteSourceID()),
			snd.Metadata.Name,
			snd.Metadata.Description,
			snd.Metadata.Duration,
			snd.Metadata.License,
			nullableString(snd.FileReference),
			nullableString(snd.PreviewURL),
			timestamp(snd.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert sound row: %w", err)
		}
		return replaceSoundDetails(ctx, tx, snd.ID, snd.Metadata)
	})
	if err != nil {
		if isUniqueViolation(err, "sounds.id") {
			return sound.Wrap(sound.ErrDuplicateID, "insert sound", snd.ID, err)
		}
		if isUniqueViolation(err, "sounds.remote_source_id") {
			return sound.Wrap(sound.ErrDuplicateID, "insert sound",
				fmt.Sprintf("remote source %s already materialized", snd.RemoteSourceID()), err)
		}
		return sound.Wrap(sound.ErrStoreTransaction, "insert sound", snd.ID, err)
	}
	return nil
}

// GetSound loads one sound by id, including tags and custom fields.
func (s *Store) GetSound(ctx context.Context, id string) (*sound.Sound, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+soundColumns+` FROM sounds WHERE id = ?`, id)
	snd, err := scanSound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sound.Wrap(sound.ErrNotFound, "get sound", id, nil)
		}
		return nil, sound.Wrap(sound.ErrStoreTransaction, "get sound", id, err)
	}
	if err := s.attachSoundDetails(ctx, []*sound.Sound{snd}); err != nil {
		return nil, err
	}
	return snd, nil
}

// FindByRemoteSource returns the local sound materialized from the given
// remote source id, or nil when none exists. Absence is not an error here;
// the download path branches on it.
func (s *Store) FindByRemoteSource(ctx context.Context, sourceID string) (*sound.Sound, error) {
	if sourceID == "" {
		return nil, nil
	}
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+soundColumns+` FROM sounds WHERE provenance = 'local' AND remote_source_id = ? LIMIT 1`,
		sourceID)
	snd, err := scanSound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, sound.Wrap(sound.ErrStoreTransaction, "find by remote source", sourceID, err)
	}
	if err := s.attachSoundDetails(ctx, []*sound.Sound{snd}); err != nil {
		return nil, err
	}
	return snd, nil
}

// ListSounds returns every sound in insertion order.
func (s *Store) ListSounds(ctx context.Context) ([]*sound.Sound, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+soundColumns+` FROM sounds ORDER BY rowid`)
	if err != nil {
		return nil, sound.Wrap(sound.ErrStoreTransaction, "list sounds", "query sounds", err)
	}
	defer rows.Close()

	var sounds []*sound.Sound
	for rows.Next() {
		snd, err := scanSound(rows)
		if err != nil {
			return nil, sound.Wrap(sound.ErrStoreTransaction, "list sounds", "scan sound", err)
		}
		sounds = append(sounds, snd)
	}
	if err := rows.Err(); err != nil {
		return nil, sound.Wrap(sound.ErrStoreTransaction, "list sounds", "iterate sounds", err)
	}
	if err := s.attachSoundDetails(ctx, sounds); err != nil {
		return nil, err
	}
	return sounds, nil
}

// UpdateSoundMetadata atomically replaces the sound's metadata, tags
// included. Validation failures leave the stored record untouched. The
// provenance and file reference never change through this path.
func (s *Store) UpdateSoundMetadata(ctx context.Context, id string, meta sound.Metadata) (*sound.Sound, error) {
	meta.Normalize()
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var provenance string
		var currentRef sql.NullString
		err := tx.QueryRowContext(ctx, `SELECT provenance, remote_source_id FROM sounds WHERE id = ?`, id).
			Scan(&provenance, &currentRef)
		if errors.Is(err, sql.ErrNoRows) {
			return sound.Wrap(sound.ErrNotFound, "update sound metadata", id, nil)
		}
		if err != nil {
			return fmt.Errorf("load sound row: %w", err)
		}

		ref := nullableString(currentRef.String)
		if provenance == string(sound.ProvenanceLocal) {
			ref = nullableString(meta.Custom[sound.CustomKeyRemoteSource])
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE sounds SET name = ?, description = ?, duration = ?, license = ?, remote_source_id = ? WHERE id = ?`,
			meta.Name, meta.Description, meta.Duration, meta.License, ref, id); err != nil {
			return fmt.Errorf("update sound row: %w", err)
		}
		return replaceSoundDetails(ctx, tx, id, meta)
	})
	if err != nil {
		if errors.Is(err, sound.ErrNotFound) || errors.Is(err, sound.ErrMetadataInvalid) {
			return nil, err
		}
		if isUniqueViolation(err, "sounds.remote_source_id") {
			return nil, sound.Wrap(sound.ErrDuplicateID, "update sound metadata",
				fmt.Sprintf("remote source %s already materialized", meta.Custom[sound.CustomKeyRemoteSource]), err)
		}
		return nil, sound.Wrap(sound.ErrStoreTransaction, "update sound metadata", id, err)
	}
	return s.GetSound(ctx, id)
}

// DeleteSound removes a sound together with its tags, custom fields, and
// collection memberships. The schema cascades make this a single statement.
func (s *Store) DeleteSound(ctx context.Context, id string) error {
	result, err := s.execWithRetry(ctx, `DELETE FROM sounds WHERE id = ?`, id)
	if err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "delete sound", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "delete sound", "read rows affected", err)
	}
	if affected == 0 {
		return sound.Wrap(sound.ErrNotFound, "delete sound", id, nil)
	}
	return nil
}

func replaceSoundDetails(ctx context.Context, tx *sql.Tx, soundID string, meta sound.Metadata) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM sound_tags WHERE sound_id = ?`, soundID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	for _, tag := range meta.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sound_tags (sound_id, tag) VALUES (?, ?)`, soundID, tag); err != nil {
			return fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sound_custom WHERE sound_id = ?`, soundID); err != nil {
		return fmt.Errorf("clear custom fields: %w", err)
	}
	keys := make([]string, 0, len(meta.Custom))
	for key := range meta.Custom {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sound_custom (sound_id, key, value) VALUES (?, ?, ?)`,
			soundID, key, meta.Custom[key]); err != nil {
			return fmt.Errorf("insert custom field %q: %w", key, err)
		}
	}
	return nil
}

func scanSound(scanner interface{ Scan(dest ...any) error }) (*sound.Sound, error) {
	var (
		id           string
		provenance   string
		remoteSource sql.NullString
		name         string
		description  string
		duration     float64
		license      string
		fileRef      sql.NullString
		previewURL   sql.NullString
		createdAt    string
	)
	if err := scanner.Scan(&id, &provenance, &remoteSource, &name, &description,
		&duration, &license, &fileRef, &previewURL, &createdAt); err != nil {
		return nil, err
	}

	kind, err := sound.ParseProvenanceKind(provenance)
	if err != nil {
		return nil, fmt.Errorf("sound %s: %w", id, err)
	}
	prov := sound.LocalProvenance()
	if kind == sound.ProvenanceRemote {
		prov = sound.RemoteProvenance(remoteSource.String)
	}

	return &sound.Sound{
		ID:         id,
		Provenance: prov,
		Metadata: sound.Metadata{
			Name:        name,
			Description: description,
			Duration:    duration,
			License:     license,
		},
		FileReference: fileRef.String,
		PreviewURL:    previewURL.String,
		CreatedAt:     parseTimeString(createdAt),
	}, nil
}

// attachSoundDetails loads tags and custom fields for the given sounds in two
// batched queries instead of one pair per sound.
func (s *Store) attachSoundDetails(ctx context.Context, sounds []*sound.Sound) error {
	if len(sounds) == 0 {
		return nil
	}
	byID := make(map[string]*sound.Sound, len(sounds))
	ids := make([]any, 0, len(sounds))
	for _, snd := range sounds {
		byID[snd.ID] = snd
		ids = append(ids, snd.ID)
	}
	placeholders := makePlaceholders(len(ids))

	rows, err := s.db.QueryContext(ctx,
		`SELECT sound_id, tag FROM sound_tags WHERE sound_id IN (`+placeholders+`) ORDER BY sound_id, tag`,
		ids...)
	if err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "load sound tags", "query tags", err)
	}
	for rows.Next() {
		var soundID, tag string
		if err := rows.Scan(&soundID, &tag); err != nil {
			rows.Close()
			return sound.Wrap(sound.ErrStoreTransaction, "load sound tags", "scan tag", err)
		}
		if snd, ok := byID[soundID]; ok {
			snd.Metadata.Tags = append(snd.Metadata.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return sound.Wrap(sound.ErrStoreTransaction, "load sound tags", "iterate tags", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT sound_id, key, value FROM sound_custom WHERE sound_id IN (`+placeholders+`)`,
		ids...)
	if err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "load sound custom fields", "query custom fields", err)
	}
	defer rows.Close()
	for rows.Next() {
		var soundID, key, value string
		if err := rows.Scan(&soundID, &key, &value); err != nil {
			return sound.Wrap(sound.ErrStoreTransaction, "load sound custom fields", "scan custom field", err)
		}
		snd, ok := byID[soundID]
		if !ok {
			continue
		}
		if snd.Metadata.Custom == nil {
			snd.Metadata.Custom = make(map[string]string)
		}
		snd.Metadata.Custom[key] = value
	}
	if err := rows.Err(); err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "load sound custom fields", "iterate custom fields", err)
	}
	return nil
}
