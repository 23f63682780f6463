package soundvault_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"soundvault"
	"soundvault/internal/audiotag"
	"soundvault/internal/testsupport"
	"soundvault/sound"
)

func TestSetSoundMetadataReplacesAndStamps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	vault := testsupport.MustOpenVault(t, cfg)

	src := filepath.Join(testsupport.BaseDir(cfg), "storm.mp3")
	testsupport.WriteMP3Fixture(t, src, "Storm")
	snd, err := vault.ImportFile(context.Background(), src, soundvault.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	updated, err := vault.SetSoundMetadata(context.Background(), snd.ID, sound.Metadata{
		Name: "Distant Storm",
		Tags: []string{"weather", "thunder"},
	})
	if err != nil {
		t.Fatalf("SetSoundMetadata: %v", err)
	}
	if updated.Metadata.Name != "Distant Storm" {
		t.Fatalf("name = %q", updated.Metadata.Name)
	}
	if updated.FileReference != snd.FileReference {
		t.Fatal("file reference must survive metadata updates")
	}

	path, err := vault.SoundPath(context.Background(), snd.ID)
	if err != nil {
		t.Fatalf("SoundPath: %v", err)
	}
	info, err := audiotag.Probe(path)
	if err != nil {
		t.Fatalf("probe stamped file: %v", err)
	}
	if info.Title != "Distant Storm" {
		t.Fatalf("embedded title = %q, want restamped name", info.Title)
	}
}

func TestUpdateSoundMetadataMutator(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	vault := testsupport.MustOpenVault(t, cfg)

	src := filepath.Join(testsupport.BaseDir(cfg), "chime.wav")
	testsupport.WriteWAVFixture(t, src, 441)
	snd, err := vault.ImportFile(context.Background(), src, soundvault.ImportOptions{Tags: []string{"bell"}})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	updated, err := vault.UpdateSoundMetadata(context.Background(), snd.ID, func(meta *sound.Metadata) error {
		meta.Tags = append(meta.Tags, "chime")
		meta.Description = "small brass bell"
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateSoundMetadata: %v", err)
	}
	if len(updated.Metadata.Tags) != 2 || updated.Metadata.Tags[1] != "chime" {
		t.Fatalf("tags = %v", updated.Metadata.Tags)
	}
	if updated.Metadata.Description != "small brass bell" {
		t.Fatalf("description = %q", updated.Metadata.Description)
	}
}

func TestUpdateSoundMetadataMutatorErrorAborts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	vault := testsupport.MustOpenVault(t, cfg)

	src := filepath.Join(testsupport.BaseDir(cfg), "chime.wav")
	testsupport.WriteWAVFixture(t, src, 441)
	snd, err := vault.ImportFile(context.Background(), src, soundvault.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	boom := errors.New("caller changed their mind")
	if _, err := vault.UpdateSoundMetadata(context.Background(), snd.ID, func(*sound.Metadata) error {
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected the mutator error back, got %v", err)
	}

	stored, err := vault.Sound(context.Background(), snd.ID)
	if err != nil {
		t.Fatalf("Sound: %v", err)
	}
	if stored.Metadata.Name != snd.Metadata.Name {
		t.Fatal("aborted update must not modify stored metadata")
	}
}

func TestRemoveSoundDeletesFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	vault := testsupport.MustOpenVault(t, cfg)

	src := filepath.Join(testsupport.BaseDir(cfg), "clip.wav")
	testsupport.WriteWAVFixture(t, src, 441)
	snd, err := vault.ImportFile(context.Background(), src, soundvault.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	path, err := vault.SoundPath(context.Background(), snd.ID)
	if err != nil {
		t.Fatalf("SoundPath: %v", err)
	}

	if err := vault.RemoveSound(context.Background(), snd.ID); err != nil {
		t.Fatalf("RemoveSound: %v", err)
	}

	if _, err := vault.Sound(context.Background(), snd.ID); !errors.Is(err, sound.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("library file should be gone, stat err = %v", err)
	}
}

func TestRemoveSoundMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	vault := testsupport.MustOpenVault(t, cfg)

	if err := vault.RemoveSound(context.Background(), "no-such-id"); !errors.Is(err, sound.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenSoundFileStreamsAsset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	vault := testsupport.MustOpenVault(t, cfg)

	src := filepath.Join(testsupport.BaseDir(cfg), "clip.wav")
	testsupport.WriteWAVFixture(t, src, 441)
	snd, err := vault.ImportFile(context.Background(), src, soundvault.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	rc, err := vault.OpenSoundFile(context.Background(), snd.ID)
	if err != nil {
		t.Fatalf("OpenSoundFile: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	want, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("streamed %d bytes, want %d", len(got), len(want))
	}
}

func TestListSoundsInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	vault := testsupport.MustOpenVault(t, cfg)

	var ids []string
	for _, name := range []string{"alpha.wav", "beta.wav", "gamma.wav"} {
		src := filepath.Join(testsupport.BaseDir(cfg), name)
		testsupport.WriteWAVFixture(t, src, 441)
		snd, err := vault.ImportFile(context.Background(), src, soundvault.ImportOptions{})
		if err != nil {
			t.Fatalf("ImportFile %s: %v", name, err)
		}
		ids = append(ids, snd.ID)
	}

	listed, err := vault.ListSounds(context.Background())
	if err != nil {
		t.Fatalf("ListSounds: %v", err)
	}
	if len(listed) != len(ids) {
		t.Fatalf("listed %d sounds, want %d", len(listed), len(ids))
	}
	for i, snd := range listed {
		if snd.ID != ids[i] {
			t.Fatalf("position %d = %s, want %s", i, snd.ID, ids[i])
		}
	}
}
