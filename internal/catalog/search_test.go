package catalog_test

import (
	"context"
	"testing"

	"soundvault/internal/testsupport"
	"soundvault/sound"
)

func insertSearchFixture(t *testing.T, store interface {
	InsertSound(ctx context.Context, snd *sound.Sound) error
}, name, description, fileRef string, tags ...string) *sound.Sound {
	t.Helper()
	snd := sound.NewLocalSound(sound.Metadata{Name: name, Description: description, Tags: tags}, fileRef)
	if err := store.InsertSound(context.Background(), &snd); err != nil {
		t.Fatalf("InsertSound failed: %v", err)
	}
	return &snd
}

func TestSearchLocalRelevanceOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	// Insert in reverse relevance order so the ranking has to reorder.
	descOnly := insertSearchFixture(t, store, "Morning Chorus", "a rainy dawn", "sounds/c.wav", "birds")
	nameHit := insertSearchFixture(t, store, "Rain on Tin Roof", "metallic patter", "sounds/b.wav", "roof")
	tagHit := insertSearchFixture(t, store, "Storm Bed", "low rumble", "sounds/a.wav", "rain", "storm")

	results, err := store.SearchLocal(ctx, "rain", sound.SearchFilter{})
	if err != nil {
		t.Fatalf("SearchLocal failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected three matches, got %d", len(results))
	}
	if results[0].ID != tagHit.ID {
		t.Fatalf("expected tag match first, got %s", results[0].Metadata.Name)
	}
	if results[1].ID != nameHit.ID {
		t.Fatalf("expected name match second, got %s", results[1].Metadata.Name)
	}
	if results[2].ID != descOnly.ID {
		t.Fatalf("expected description match last, got %s", results[2].Metadata.Name)
	}
}

func TestSearchLocalTagMatchingUsesNormalization(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	snd := insertSearchFixture(t, store, "Drone", "", "sounds/drone.wav", "Ambient")

	results, err := store.SearchLocal(ctx, "  AMBIENT ", sound.SearchFilter{})
	if err != nil {
		t.Fatalf("SearchLocal failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != snd.ID {
		t.Fatalf("expected normalized query to match stored tag, got %#v", results)
	}
}

func TestSearchLocalNoMatches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	insertSearchFixture(t, store, "Quiet Room", "near silence", "sounds/q.wav", "roomtone")

	results, err := store.SearchLocal(context.Background(), "spaceship", sound.SearchFilter{})
	if err != nil {
		t.Fatalf("SearchLocal failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result, got %#v", results)
	}
}

func TestSearchLocalTieBreaksByInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := insertSearchFixture(t, store, "Waves North", "", "sounds/w1.wav", "waves")
	second := insertSearchFixture(t, store, "Waves South", "", "sounds/w2.wav", "waves")

	results, err := store.SearchLocal(ctx, "waves", sound.SearchFilter{})
	if err != nil {
		t.Fatalf("SearchLocal failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two matches, got %d", len(results))
	}
	if results[0].ID != first.ID || results[1].ID != second.ID {
		t.Fatalf("expected insertion order on equal scores, got %s then %s",
			results[0].Metadata.Name, results[1].Metadata.Name)
	}
}

func TestSearchLocalMultiTermTagCount(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	oneHit := insertSearchFixture(t, store, "Single", "", "sounds/s1.wav", "rain")
	twoHits := insertSearchFixture(t, store, "Double", "", "sounds/s2.wav", "rain", "storm")

	results, err := store.SearchLocal(ctx, "rain storm", sound.SearchFilter{})
	if err != nil {
		t.Fatalf("SearchLocal failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two matches, got %d", len(results))
	}
	if results[0].ID != twoHits.ID || results[1].ID != oneHit.ID {
		t.Fatalf("expected higher tag count first, got %s then %s",
			results[0].Metadata.Name, results[1].Metadata.Name)
	}
}

func TestSearchLocalFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	insertSearchFixture(t, store, "Rain A", "", "sounds/ra.wav", "rain")
	insertSearchFixture(t, store, "Rain B", "", "sounds/rb.wav", "rain")
	remote := sound.NewRemoteSound("fs-77", sound.Metadata{Name: "Rain C", Tags: []string{"rain"}}, "")
	if err := store.InsertSound(ctx, &remote); err != nil {
		t.Fatalf("InsertSound remote failed: %v", err)
	}

	local, err := store.SearchLocal(ctx, "rain", sound.SearchFilter{Provenance: sound.ProvenanceLocal})
	if err != nil {
		t.Fatalf("SearchLocal failed: %v", err)
	}
	if len(local) != 2 {
		t.Fatalf("expected provenance filter to keep two sounds, got %d", len(local))
	}

	capped, err := store.SearchLocal(ctx, "rain", sound.SearchFilter{Limit: 1})
	if err != nil {
		t.Fatalf("SearchLocal failed: %v", err)
	}
	if len(capped) != 1 {
		t.Fatalf("expected limit to cap results, got %d", len(capped))
	}
}
