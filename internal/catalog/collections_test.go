package catalog_test

import (
	"context"
	"errors"
	"testing"

	"soundvault/internal/testsupport"
	"soundvault/sound"
)

func TestCollectionLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	col := sound.NewCollection("Field Recordings", "captured outdoors")
	col.Custom = map[string]string{"project": "spring"}
	if err := store.InsertCollection(ctx, &col); err != nil {
		t.Fatalf("InsertCollection failed: %v", err)
	}

	fetched, err := store.GetCollection(ctx, col.ID)
	if err != nil {
		t.Fatalf("GetCollection failed: %v", err)
	}
	if fetched.Name != "Field Recordings" || fetched.Custom["project"] != "spring" {
		t.Fatalf("unexpected collection: %#v", fetched)
	}

	updated, err := store.UpdateCollection(ctx, col.ID, "Outdoor Takes", "renamed", map[string]string{"project": "summer"})
	if err != nil {
		t.Fatalf("UpdateCollection failed: %v", err)
	}
	if updated.Name != "Outdoor Takes" || updated.Custom["project"] != "summer" {
		t.Fatalf("unexpected collection after update: %#v", updated)
	}

	all, err := store.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one collection, got %d", len(all))
	}

	if err := store.DeleteCollection(ctx, col.ID); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}
	if _, err := store.GetCollection(ctx, col.ID); !errors.Is(err, sound.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestInsertCollectionValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	unnamed := sound.NewCollection("  ", "")
	if err := store.InsertCollection(ctx, &unnamed); !errors.Is(err, sound.ErrMetadataInvalid) {
		t.Fatalf("expected ErrMetadataInvalid for empty name, got %v", err)
	}

	shadowed := sound.NewCollection("Valid", "")
	shadowed.Custom = map[string]string{"NAME": "shadow"}
	if err := store.InsertCollection(ctx, &shadowed); !errors.Is(err, sound.ErrMetadataInvalid) {
		t.Fatalf("expected ErrMetadataInvalid for reserved custom key, got %v", err)
	}
}

func TestMembershipIdempotence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	snd := testsupport.InsertLocalSound(t, store, "Member")
	col := sound.NewCollection("Bucket", "")
	if err := store.InsertCollection(ctx, &col); err != nil {
		t.Fatalf("InsertCollection failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := store.AddMembership(ctx, snd.ID, col.ID); err != nil {
			t.Fatalf("AddMembership round %d failed: %v", i, err)
		}
	}

	members, err := store.ListCollectionSounds(ctx, col.ID)
	if err != nil {
		t.Fatalf("ListCollectionSounds failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != snd.ID {
		t.Fatalf("expected exactly one membership, got %#v", members)
	}
}

func TestMembershipRequiresBothRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	snd := testsupport.InsertLocalSound(t, store, "Lonely")
	col := sound.NewCollection("Empty", "")
	if err := store.InsertCollection(ctx, &col); err != nil {
		t.Fatalf("InsertCollection failed: %v", err)
	}

	if err := store.AddMembership(ctx, "ghost-sound", col.ID); !errors.Is(err, sound.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing sound, got %v", err)
	}
	if err := store.AddMembership(ctx, snd.ID, "ghost-collection"); !errors.Is(err, sound.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing collection, got %v", err)
	}
	if err := store.RemoveMembership(ctx, "ghost-sound", col.ID); !errors.Is(err, sound.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing sound on remove, got %v", err)
	}
}

func TestRemoveMembershipAbsentIsNoOp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	snd := testsupport.InsertLocalSound(t, store, "Detached")
	col := sound.NewCollection("Sparse", "")
	if err := store.InsertCollection(ctx, &col); err != nil {
		t.Fatalf("InsertCollection failed: %v", err)
	}

	if err := store.RemoveMembership(ctx, snd.ID, col.ID); err != nil {
		t.Fatalf("removing an absent membership must succeed, got %v", err)
	}
}

func TestDeleteCollectionKeepsSounds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	snd := testsupport.InsertLocalSound(t, store, "Survivor")
	col := sound.NewCollection("Doomed", "")
	if err := store.InsertCollection(ctx, &col); err != nil {
		t.Fatalf("InsertCollection failed: %v", err)
	}
	if err := store.AddMembership(ctx, snd.ID, col.ID); err != nil {
		t.Fatalf("AddMembership failed: %v", err)
	}

	if err := store.DeleteCollection(ctx, col.ID); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}
	if _, err := store.GetSound(ctx, snd.ID); err != nil {
		t.Fatalf("sound must survive collection deletion: %v", err)
	}
}

func TestListCollectionSoundsOrderedByAddition(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	col := sound.NewCollection("Ordered", "")
	if err := store.InsertCollection(ctx, &col); err != nil {
		t.Fatalf("InsertCollection failed: %v", err)
	}

	names := []string{"Alpha", "Beta", "Gamma"}
	for _, name := range names {
		snd := testsupport.InsertLocalSound(t, store, name)
		if err := store.AddMembership(ctx, snd.ID, col.ID); err != nil {
			t.Fatalf("AddMembership failed: %v", err)
		}
	}

	members, err := store.ListCollectionSounds(ctx, col.ID)
	if err != nil {
		t.Fatalf("ListCollectionSounds failed: %v", err)
	}
	if len(members) != len(names) {
		t.Fatalf("expected %d members, got %d", len(names), len(members))
	}
	for i, name := range names {
		if members[i].Metadata.Name != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, members[i].Metadata.Name)
		}
	}
}

func TestListSoundCollections(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	snd := testsupport.InsertLocalSound(t, store, "Shared")
	first := sound.NewCollection("One", "")
	second := sound.NewCollection("Two", "")
	for _, col := range []*sound.Collection{&first, &second} {
		if err := store.InsertCollection(ctx, col); err != nil {
			t.Fatalf("InsertCollection failed: %v", err)
		}
		if err := store.AddMembership(ctx, snd.ID, col.ID); err != nil {
			t.Fatalf("AddMembership failed: %v", err)
		}
	}

	collections, err := store.ListSoundCollections(ctx, snd.ID)
	if err != nil {
		t.Fatalf("ListSoundCollections failed: %v", err)
	}
	if len(collections) != 2 {
		t.Fatalf("expected two collections, got %d", len(collections))
	}
	if collections[0].Name != "One" || collections[1].Name != "Two" {
		t.Fatalf("unexpected membership order: %#v", collections)
	}
}
