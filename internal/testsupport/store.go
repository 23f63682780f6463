package testsupport

import (
	"context"
	"fmt"
	"testing"

	"soundvault/config"
	"soundvault/internal/catalog"
	"soundvault/sound"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// InsertLocalSound persists a library-owned sound with a synthetic file
// reference and returns it.
func InsertLocalSound(t testing.TB, store *catalog.Store, name string, tags ...string) *sound.Sound {
	t.Helper()

	snd := sound.NewLocalSound(sound.Metadata{Name: name, Tags: tags}, fmt.Sprintf("sounds/%s.wav", name))
	if err := store.InsertSound(context.Background(), &snd); err != nil {
		t.Fatalf("store.InsertSound: %v", err)
	}
	return &snd
}
