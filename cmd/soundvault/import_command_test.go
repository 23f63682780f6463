package main

import (
	"path/filepath"
	"testing"

	"soundvault/internal/testsupport"
)

func TestImportListShowRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "field-rain.wav")
	testsupport.WriteWAVFixture(t, source, 4410)

	out, _, err := runCLI(t, []string{"import", source, "--tag", "rain", "-t", "field"}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported Field Rain as ")
	id := idAfterAs(t, out)

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Field Rain")
	requireContains(t, out, id)
	requireContains(t, out, "imported")

	out, _, err = runCLI(t, []string{"show", id}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Field Rain")
	requireContains(t, out, "rain, field")

	out, _, err = runCLI(t, []string{"rm", id}, env.configPath)
	if err != nil {
		t.Fatalf("rm: %v", err)
	}
	requireContains(t, out, "Removed "+id)

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list after rm: %v", err)
	}
	requireContains(t, out, "Library is empty")
}

func TestImportGlobSkipsNonAudio(t *testing.T) {
	env := setupCLITestEnv(t)
	dropDir := filepath.Join(env.baseDir, "drop")
	testsupport.WriteWAVFixture(t, filepath.Join(dropDir, "one.wav"), 441)
	testsupport.WriteWAVFixture(t, filepath.Join(dropDir, "two.wav"), 441)
	testsupport.WriteFile(t, filepath.Join(dropDir, "notes.txt"), 16)

	out, _, err := runCLI(t, []string{"import", "--glob", filepath.Join(dropDir, "*")}, env.configPath)
	if err != nil {
		t.Fatalf("import --glob: %v", err)
	}
	requireContains(t, out, "Imported 2 sound(s)")
	requireContains(t, out, "One")
	requireContains(t, out, "Two")
}

func TestImportMissingFileFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"import", filepath.Join(env.baseDir, "absent.wav")}, env.configPath)
	if err == nil {
		t.Fatal("expected import of missing file to fail")
	}
}

func TestImportRejectsNameWithGlob(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"import", "--glob", "--name", "Thunder", "*.wav"}, env.configPath)
	if err == nil {
		t.Fatal("expected --name with --glob to fail")
	}
}
