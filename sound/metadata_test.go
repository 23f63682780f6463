package sound

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeTagsCollapsesCaseAndWhitespace(t *testing.T) {
	got := NormalizeTags([]string{"Ambient", " ambient ", "AMBIENT"})
	want := []string{"ambient"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeTags = %v want %v", got, want)
	}
}

func TestNormalizeTagsPreservesFirstOccurrenceOrder(t *testing.T) {
	got := NormalizeTags([]string{"Piano", "", "  ", "drum", "PIANO", "Loop"})
	want := []string{"piano", "drum", "loop"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeTags = %v want %v", got, want)
	}
}

func TestNormalizeTagsEmptyInputsYieldNil(t *testing.T) {
	if got := NormalizeTags(nil); got != nil {
		t.Fatalf("expected nil for nil input, got %v", got)
	}
	if got := NormalizeTags([]string{" ", ""}); got != nil {
		t.Fatalf("expected nil for blank tags, got %v", got)
	}
}

func TestMetadataValidateRejectsEmptyName(t *testing.T) {
	meta := Metadata{Name: "   "}
	err := meta.Validate()
	if !errors.Is(err, ErrMetadataInvalid) {
		t.Fatalf("expected ErrMetadataInvalid, got %v", err)
	}
}

func TestMetadataValidateRejectsReservedCustomKeys(t *testing.T) {
	reserved := []string{"name", "Tags", " DESCRIPTION ", "duration", "license"}
	for _, key := range reserved {
		meta := Metadata{Name: "ok", Custom: map[string]string{key: "x"}}
		if err := meta.Validate(); !errors.Is(err, ErrMetadataInvalid) {
			t.Fatalf("key %q: expected ErrMetadataInvalid, got %v", key, err)
		}
	}
}

func TestMetadataValidateAllowsApplicationKeys(t *testing.T) {
	meta := Metadata{
		Name:   "Rain Loop",
		Custom: map[string]string{"username": "someone", "game_category": "weather"},
	}
	if err := meta.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMetadataValidateRejectsNegativeDuration(t *testing.T) {
	meta := Metadata{Name: "ok", Duration: -1}
	if err := meta.Validate(); !errors.Is(err, ErrMetadataInvalid) {
		t.Fatalf("expected ErrMetadataInvalid, got %v", err)
	}
}

func TestMetadataCloneIsIndependent(t *testing.T) {
	original := Metadata{
		Name:   "Rain",
		Tags:   []string{"rain", "loop"},
		Custom: map[string]string{"username": "someone"},
	}
	clone := original.Clone()
	clone.Tags[0] = "changed"
	clone.Custom["username"] = "other"
	if original.Tags[0] != "rain" {
		t.Fatalf("clone mutated original tags: %v", original.Tags)
	}
	if original.Custom["username"] != "someone" {
		t.Fatalf("clone mutated original custom map: %v", original.Custom)
	}
}
