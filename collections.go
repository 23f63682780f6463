package soundvault

import (
	"context"

	"soundvault/internal/logging"
	"soundvault/sound"
)

// CreateCollection registers a new empty collection.
func (v *Vault) CreateCollection(ctx context.Context, name, description string) (*sound.Collection, error) {
	col := sound.NewCollection(name, description)
	if err := v.store.InsertCollection(ctx, &col); err != nil {
		return nil, err
	}
	v.logger.Info("collection created",
		logging.String(logging.FieldCollectionID, col.ID),
		logging.String("name", col.Name))
	return &col, nil
}

// Collection loads one collection by id.
func (v *Vault) Collection(ctx context.Context, id string) (*sound.Collection, error) {
	return v.store.GetCollection(ctx, id)
}

// ListCollections returns every collection in insertion order.
func (v *Vault) ListCollections(ctx context.Context) ([]*sound.Collection, error) {
	return v.store.ListCollections(ctx)
}

// UpdateCollection replaces a collection's name, description, and custom
// fields.
func (v *Vault) UpdateCollection(ctx context.Context, id, name, description string, custom map[string]string) (*sound.Collection, error) {
	updated, err := v.store.UpdateCollection(ctx, id, name, description, custom)
	if err != nil {
		return nil, err
	}
	v.logger.Info("collection updated", logging.String(logging.FieldCollectionID, id))
	return updated, nil
}

// DeleteCollection removes a collection and its memberships. Member sounds
// are untouched.
func (v *Vault) DeleteCollection(ctx context.Context, id string) error {
	if err := v.store.DeleteCollection(ctx, id); err != nil {
		return err
	}
	v.logger.Info("collection deleted", logging.String(logging.FieldCollectionID, id))
	return nil
}

// AddToCollection adds a sound to a collection. Adding an existing member
// again is a no-op.
func (v *Vault) AddToCollection(ctx context.Context, soundID, collectionID string) error {
	if err := v.store.AddMembership(ctx, soundID, collectionID); err != nil {
		return err
	}
	v.logger.Info("sound added to collection",
		logging.String(logging.FieldSoundID, soundID),
		logging.String(logging.FieldCollectionID, collectionID))
	return nil
}

// RemoveFromCollection removes a sound from a collection. Removing a
// non-member is a no-op.
func (v *Vault) RemoveFromCollection(ctx context.Context, soundID, collectionID string) error {
	if err := v.store.RemoveMembership(ctx, soundID, collectionID); err != nil {
		return err
	}
	v.logger.Info("sound removed from collection",
		logging.String(logging.FieldSoundID, soundID),
		logging.String(logging.FieldCollectionID, collectionID))
	return nil
}

// CollectionSounds lists a collection's members in the order they were
// added.
func (v *Vault) CollectionSounds(ctx context.Context, collectionID string) ([]*sound.Sound, error) {
	return v.store.ListCollectionSounds(ctx, collectionID)
}

// SoundCollections lists every collection a sound belongs to.
func (v *Vault) SoundCollections(ctx context.Context, soundID string) ([]*sound.Collection, error) {
	return v.store.ListSoundCollections(ctx, soundID)
}
