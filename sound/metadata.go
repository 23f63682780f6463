package sound

import (
	"fmt"
	"strings"
)

// reservedCustomKeys are the fixed Metadata field names. Custom entries may
// not shadow them; Validate rejects any collision.
var reservedCustomKeys = map[string]struct{}{
	"name":        {},
	"tags":        {},
	"description": {},
	"duration":    {},
	"license":     {},
}

// Metadata carries the descriptive fields attached to every sound. Duration
// is in seconds and optional; License holds whatever license text the origin
// supplied. Custom supports arbitrary application-defined fields without a
// schema change, last write wins per key.
type Metadata struct {
	Name        string
	Tags        []string
	Description string
	Duration    float64
	License     string
	Custom      map[string]string
}

// NormalizeTag lowercases and trims a single tag. An empty result means the
// tag carries no content and should be dropped.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags lowercases, trims, drops empties, and deduplicates while
// preserving first-occurrence order. The transformation is deterministic so
// two semantically equal tag sets always normalize to the same slice.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := NormalizeTag(tag)
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		normalized = append(normalized, cleaned)
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

// Normalize applies tag normalization in place.
func (m *Metadata) Normalize() {
	m.Tags = NormalizeTags(m.Tags)
}

// Validate checks the metadata invariants: non-empty name after trim, no
// custom key shadowing a fixed field, non-negative duration. It never
// modifies the value; callers normalize first.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return Wrap(ErrMetadataInvalid, "validate metadata", "name must not be empty", nil)
	}
	for key := range m.Custom {
		if _, reserved := reservedCustomKeys[NormalizeTag(key)]; reserved {
			return Wrap(ErrMetadataInvalid, "validate metadata", fmt.Sprintf("custom key %q shadows a reserved field", key), nil)
		}
	}
	if m.Duration < 0 {
		return Wrap(ErrMetadataInvalid, "validate metadata", "duration must not be negative", nil)
	}
	return nil
}

// Clone returns a deep copy that is safe to mutate independently of the
// receiver.
func (m Metadata) Clone() Metadata {
	out := m
	if m.Tags != nil {
		out.Tags = append([]string(nil), m.Tags...)
	}
	if m.Custom != nil {
		out.Custom = make(map[string]string, len(m.Custom))
		for key, value := range m.Custom {
			out.Custom[key] = value
		}
	}
	return out
}
