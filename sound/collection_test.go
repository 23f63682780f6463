package sound

import (
	"errors"
	"testing"
)

func TestNewCollectionAssignsID(t *testing.T) {
	c := NewCollection("Field Recordings", "rain and wind")
	if c.ID == "" {
		t.Fatal("expected generated id")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCollectionValidateRejectsEmptyName(t *testing.T) {
	c := NewCollection("  ", "desc")
	if err := c.Validate(); !errors.Is(err, ErrMetadataInvalid) {
		t.Fatalf("expected ErrMetadataInvalid, got %v", err)
	}
}

func TestCollectionValidateRejectsReservedCustomKeys(t *testing.T) {
	c := NewCollection("Drums", "")
	c.Custom = map[string]string{"Name": "shadowed"}
	if err := c.Validate(); !errors.Is(err, ErrMetadataInvalid) {
		t.Fatalf("expected ErrMetadataInvalid, got %v", err)
	}
}
