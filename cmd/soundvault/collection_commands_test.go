package main

import (
	"path/filepath"
	"testing"

	"soundvault/internal/testsupport"
)

func TestCollectionLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "wind-chimes.wav")
	testsupport.WriteWAVFixture(t, source, 441)

	out, _, err := runCLI(t, []string{"import", source}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	soundID := idAfterAs(t, out)

	out, _, err = runCLI(t, []string{"collection", "create", "Ambience", "-d", "Background beds"}, env.configPath)
	if err != nil {
		t.Fatalf("collection create: %v", err)
	}
	requireContains(t, out, "Created collection Ambience as ")
	collectionID := idAfterAs(t, out)

	out, _, err = runCLI(t, []string{"collection", "add", collectionID, soundID}, env.configPath)
	if err != nil {
		t.Fatalf("collection add: %v", err)
	}
	requireContains(t, out, "Added "+soundID)

	out, _, err = runCLI(t, []string{"collection", "show", collectionID}, env.configPath)
	if err != nil {
		t.Fatalf("collection show: %v", err)
	}
	requireContains(t, out, "Ambience")
	requireContains(t, out, "Background beds")
	requireContains(t, out, "Wind Chimes")

	out, _, err = runCLI(t, []string{"collection", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("collection list: %v", err)
	}
	requireContains(t, out, "Ambience")

	out, _, err = runCLI(t, []string{"collection", "update", collectionID, "--name", "Beds"}, env.configPath)
	if err != nil {
		t.Fatalf("collection update: %v", err)
	}
	requireContains(t, out, "Beds")

	out, _, err = runCLI(t, []string{"collection", "drop", collectionID, soundID}, env.configPath)
	if err != nil {
		t.Fatalf("collection drop: %v", err)
	}
	requireContains(t, out, "Removed "+soundID)

	out, _, err = runCLI(t, []string{"collection", "show", collectionID}, env.configPath)
	if err != nil {
		t.Fatalf("collection show after drop: %v", err)
	}
	requireContains(t, out, "Collection is empty")

	if _, _, err = runCLI(t, []string{"collection", "rm", collectionID}, env.configPath); err != nil {
		t.Fatalf("collection rm: %v", err)
	}

	// Member sound survives collection deletion.
	out, _, err = runCLI(t, []string{"show", soundID}, env.configPath)
	if err != nil {
		t.Fatalf("show after collection rm: %v", err)
	}
	requireContains(t, out, "Wind Chimes")
}

func TestCollectionUpdateRequiresField(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"collection", "create", "Foley"}, env.configPath)
	if err != nil {
		t.Fatalf("collection create: %v", err)
	}
	collectionID := idAfterAs(t, out)

	if _, _, err := runCLI(t, []string{"collection", "update", collectionID}, env.configPath); err == nil {
		t.Fatal("expected update without flags to fail")
	}
}
