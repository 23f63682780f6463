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

const collectionColumns = `id, name, description, created_at`

// InsertCollection persists a collection with its custom fields in one
// transaction.
func (s *Store) InsertCollection(ctx context.Context, col *sound.Collection) error {
	if col == nil {
		return sound.Wrap(sound.ErrStoreTransaction, "insert collection", "nil collection", nil)
	}
	if err := col.Validate(); err != nil {
		return err
	}
	if col.CreatedAt.IsZero() {
		col.CreatedAt = time.Now().UTC()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO collections (`+collectionColumns+`) VALUES (?, ?, ?, ?)`,
			col.ID, col.Name, col.Description, timestamp(col.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert collection row: %w", err)
		}
		return replaceCollectionCustom(ctx, tx, col.ID, col.Custom)
	})
	if err != nil {
		if isUniqueViolation(err, "collections.id") {
			return sound.Wrap(sound.ErrDuplicateID, "insert collection", col.ID, err)
		}
		return sound.Wrap(sound.ErrStoreTransaction, "insert collection", col.ID, err)
	}
	return nil
}

// GetCollection loads one collection by id, including custom fields.
func (s *Store) GetCollection(ctx context.Context, id string) (*sound.Collection, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id)
	col, err := scanCollection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sound.Wrap(sound.ErrNotFound, "get collection", id, nil)
		}
		return nil, sound.Wrap(sound.ErrStoreTransaction, "get collection", id, err)
	}
	if err := s.attachCollectionCustom(ctx, []*sound.Collection{col}); err != nil {
		return nil, err
	}
	return col, nil
}

// ListCollections returns every collection in insertion order.
func (s *Store) ListCollections(ctx context.Context) ([]*sound.Collection, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+collectionColumns+` FROM collections ORDER BY rowid`)
	if err != nil {
		return nil, sound.Wrap(sound.ErrStoreTransaction, "list collections", "query collections", err)
	}
	defer rows.Close()

	var collections []*sound.Collection
	for rows.Next() {
		col, err := scanCollection(rows)
		if err != nil {
			return nil, sound.Wrap(sound.ErrStoreTransaction, "list collections", "scan collection", err)
		}
		collections = append(collections, col)
	}
	if err := rows.Err(); err != nil {
		return nil, sound.Wrap(sound.ErrStoreTransaction, "list collections", "iterate collections", err)
	}
	if err := s.attachCollectionCustom(ctx, collections); err != nil {
		return nil, err
	}
	return collections, nil
}

// UpdateCollection atomically replaces a collection's name, description, and
// custom fields. Memberships are unaffected.
func (s *Store) UpdateCollection(ctx context.Context, id, name, description string, custom map[string]string) (*sound.Collection, error) {
	candidate := sound.Collection{ID: id, Name: name, Description: description, Custom: custom}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE collections SET name = ?, description = ? WHERE id = ?`,
			name, description, id)
		if err != nil {
			return fmt.Errorf("update collection row: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("read rows affected: %w", err)
		}
		if affected == 0 {
			return sound.Wrap(sound.ErrNotFound, "update collection", id, nil)
		}
		return replaceCollectionCustom(ctx, tx, id, custom)
	})
	if err != nil {
		if errors.Is(err, sound.ErrNotFound) {
			return nil, err
		}
		return nil, sound.Wrap(sound.ErrStoreTransaction, "update collection", id, err)
	}
	return s.GetCollection(ctx, id)
}

// DeleteCollection removes a collection and its memberships. Member sounds
// are never touched.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	result, err := s.execWithRetry(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "delete collection", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "delete collection", "read rows affected", err)
	}
	if affected == 0 {
		return sound.Wrap(sound.ErrNotFound, "delete collection", id, nil)
	}
	return nil
}

// AddMembership links a sound into a collection. Adding an existing
// membership is a no-op, not an error.
func (s *Store) AddMembership(ctx context.Context, soundID, collectionID string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "sounds", soundID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, "collections", collectionID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO memberships (sound_id, collection_id, added_at) VALUES (?, ?, ?)`,
			soundID, collectionID, timestamp(time.Now()))
		if err != nil {
			return fmt.Errorf("insert membership: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sound.ErrNotFound) {
			return err
		}
		return sound.Wrap(sound.ErrStoreTransaction, "add membership",
			fmt.Sprintf("sound %s to collection %s", soundID, collectionID), err)
	}
	return nil
}

// RemoveMembership unlinks a sound from a collection. Removing an absent
// membership is a no-op as long as both records exist.
func (s *Store) RemoveMembership(ctx context.Context, soundID, collectionID string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "sounds", soundID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, "collections", collectionID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM memberships WHERE sound_id = ? AND collection_id = ?`,
			soundID, collectionID)
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sound.ErrNotFound) {
			return err
		}
		return sound.Wrap(sound.ErrStoreTransaction, "remove membership",
			fmt.Sprintf("sound %s from collection %s", soundID, collectionID), err)
	}
	return nil
}

// ListCollectionSounds returns the members of a collection in the order they
// were added.
func (s *Store) ListCollectionSounds(ctx context.Context, collectionID string) ([]*sound.Sound, error) {
	ctx = ensureContext(ctx)
	if _, err := s.GetCollection(ctx, collectionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+prefixColumns("s", soundColumns)+`
		   FROM sounds s
		   JOIN memberships m ON m.sound_id = s.id
		  WHERE m.collection_id = ?
		  ORDER BY m.added_at, m.rowid`,
		collectionID)
	if err != nil {
		return nil, sound.Wrap(sound.ErrStoreTransaction, "list collection sounds", collectionID, err)
	}
	defer rows.Close()

	var sounds []*sound.Sound
	for rows.Next() {
		snd, err := scanSound(rows)
		if err != nil {
			return nil, sound.Wrap(sound.ErrStoreTransaction, "list collection sounds", "scan sound", err)
		}
		sounds = append(sounds, snd)
	}
	if err := rows.Err(); err != nil {
		return nil, sound.Wrap(sound.ErrStoreTransaction, "list collection sounds", "iterate sounds", err)
	}
	if err := s.attachSoundDetails(ctx, sounds); err != nil {
		return nil, err
	}
	return sounds, nil
}

// ListSoundCollections returns the collections a sound belongs to, oldest
// membership first.
func (s *Store) ListSoundCollections(ctx context.Context, soundID string) ([]*sound.Collection, error) {
	ctx = ensureContext(ctx)
	if _, err := s.GetSound(ctx, soundID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+prefixColumns("c", collectionColumns)+`
		   FROM collections c
		   JOIN memberships m ON m.collection_id = c.id
		  WHERE m.sound_id = ?
		  ORDER BY m.added_at, m.rowid`,
		soundID)
	if err != nil {
		return nil, sound.Wrap(sound.ErrStoreTransaction, "list sound collections", soundID, err)
	}
	defer rows.Close()

	var collections []*sound.Collection
	for rows.Next() {
		col, err := scanCollection(rows)
		if err != nil {
			return nil, sound.Wrap(sound.ErrStoreTransaction, "list sound collections", "scan collection", err)
		}
		collections = append(collections, col)
	}
	if err := rows.Err(); err != nil {
		return nil, sound.Wrap(sound.ErrStoreTransaction, "list sound collections", "iterate collections", err)
	}
	if err := s.attachCollectionCustom(ctx, collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func requireRow(ctx context.Context, tx *sql.Tx, table, id string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		noun := "sound"
		if table == "collections" {
			noun = "collection"
		}
		return sound.Wrap(sound.ErrNotFound, "check "+noun, id, nil)
	}
	if err != nil {
		return fmt.Errorf("check %s %s: %w", table, id, err)
	}
	return nil
}

func scanCollection(scanner interface{ Scan(dest ...any) error }) (*sound.Collection, error) {
	var (
		id          string
		name        string
		description string
		createdAt   string
	)
	if err := scanner.Scan(&id, &name, &description, &createdAt); err != nil {
		return nil, err
	}
	return &sound.Collection{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   parseTimeString(createdAt),
	}, nil
}

func replaceCollectionCustom(ctx context.Context, tx *sql.Tx, collectionID string, custom map[string]string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_custom WHERE collection_id = ?`, collectionID); err != nil {
		return fmt.Errorf("clear custom fields: %w", err)
	}
	keys := make([]string, 0, len(custom))
	for key := range custom {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collection_custom (collection_id, key, value) VALUES (?, ?, ?)`,
			collectionID, key, custom[key]); err != nil {
			return fmt.Errorf("insert custom field %q: %w", key, err)
		}
	}
	return nil
}

func (s *Store) attachCollectionCustom(ctx context.Context, collections []*sound.Collection) error {
	if len(collections) == 0 {
		return nil
	}
	byID := make(map[string]*sound.Collection, len(collections))
	ids := make([]any, 0, len(collections))
	for _, col := range collections {
		byID[col.ID] = col
		ids = append(ids, col.ID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT collection_id, key, value FROM collection_custom WHERE collection_id IN (`+makePlaceholders(len(ids))+`)`,
		ids...)
	if err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "load collection custom fields", "query custom fields", err)
	}
	defer rows.Close()
	for rows.Next() {
		var collectionID, key, value string
		if err := rows.Scan(&collectionID, &key, &value); err != nil {
			return sound.Wrap(sound.ErrStoreTransaction, "load collection custom fields", "scan custom field", err)
		}
		col, ok := byID[collectionID]
		if !ok {
			continue
		}
		if col.Custom == nil {
			col.Custom = make(map[string]string)
		}
		col.Custom[key] = value
	}
	if err := rows.Err(); err != nil {
		return sound.Wrap(sound.ErrStoreTransaction, "load collection custom fields", "iterate custom fields", err)
	}
	return nil
}
