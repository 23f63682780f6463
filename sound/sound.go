package sound

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh universally unique identifier for sounds and
// collections. Identity never derives from metadata; two sounds with equal
// names remain distinct records.
func NewID() string {
	return uuid.NewString()
}

// ProvenanceKind tags where a sound record originates.
type ProvenanceKind string

const (
	// ProvenanceLocal marks a sound whose asset lives in the local library.
	ProvenanceLocal ProvenanceKind = "local"
	// ProvenanceRemote marks a transient sound discovered on the remote service.
	ProvenanceRemote ProvenanceKind = "remote"
)

// ParseProvenanceKind validates a stored provenance tag.
func ParseProvenanceKind(raw string) (ProvenanceKind, error) {
	switch kind := ProvenanceKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case ProvenanceLocal, ProvenanceRemote:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown provenance kind %q", raw)
	}
}

// Provenance is a closed variant: Local, or Remote carrying the external
// service's own identifier. A sound never changes provenance in place.
type Provenance struct {
	Kind     ProvenanceKind
	SourceID string
}

// LocalProvenance tags a sound as library-owned.
func LocalProvenance() Provenance {
	return Provenance{Kind: ProvenanceLocal}
}

// RemoteProvenance tags a sound as discovered on the remote service under the
// given source id.
func RemoteProvenance(sourceID string) Provenance {
	return Provenance{Kind: ProvenanceRemote, SourceID: sourceID}
}

// IsLocal reports whether the provenance tag is Local.
func (p Provenance) IsLocal() bool { return p.Kind == ProvenanceLocal }

// IsRemote reports whether the provenance tag is Remote.
func (p Provenance) IsRemote() bool { return p.Kind == ProvenanceRemote }

// Validate enforces the variant invariants: a remote tag requires a source id
// and a local tag forbids one.
func (p Provenance) Validate() error {
	switch p.Kind {
	case ProvenanceLocal:
		if p.SourceID != "" {
			return Wrap(ErrMetadataInvalid, "validate provenance", "local provenance carries no source id", nil)
		}
	case ProvenanceRemote:
		if strings.TrimSpace(p.SourceID) == "" {
			return Wrap(ErrMetadataInvalid, "validate provenance", "remote provenance requires a source id", nil)
		}
	default:
		return Wrap(ErrMetadataInvalid, "validate provenance", fmt.Sprintf("unknown provenance kind %q", p.Kind), nil)
	}
	return nil
}

// CustomKeyRemoteSource is the custom-metadata key linking a materialized
// Local sound back to the remote source id it was downloaded from.
const CustomKeyRemoteSource = "remote_source_id"

// Sound is one catalog entry. FileReference is an opaque locator resolved by
// the storage collaborator and is present exactly when the provenance is
// Local; the catalog never checks the referenced file for existence.
// PreviewURL carries the remote preview rendition for Remote sounds and is
// informational only. CreatedAt is assigned by the store on insert and backs
// insertion-order semantics.
type Sound struct {
	ID            string
	Provenance    Provenance
	Metadata      Metadata
	FileReference string
	PreviewURL    string
	CreatedAt     time.Time
}

// NewLocalSound builds a library-owned sound with a fresh id. The metadata is
// normalized; callers still validate before persisting.
func NewLocalSound(meta Metadata, fileReference string) Sound {
	meta.Normalize()
	return Sound{
		ID:            NewID(),
		Provenance:    LocalProvenance(),
		Metadata:      meta,
		FileReference: fileReference,
	}
}

// NewRemoteSound builds a transient sound from a remote search hit. Remote
// sounds are not persisted until explicitly materialized.
func NewRemoteSound(sourceID string, meta Metadata, previewURL string) Sound {
	meta.Normalize()
	return Sound{
		ID:         NewID(),
		Provenance: RemoteProvenance(sourceID),
		Metadata:   meta,
		PreviewURL: previewURL,
	}
}

// RemoteSourceID returns the remote source id this sound is connected to: the
// provenance source id for Remote sounds, the materialization back-reference
// for Local ones, or empty when neither applies.
func (s Sound) RemoteSourceID() string {
	if s.Provenance.IsRemote() {
		return s.Provenance.SourceID
	}
	return s.Metadata.Custom[CustomKeyRemoteSource]
}

// Validate checks identity, provenance, metadata, and the file-reference
// rule: Local sounds carry a locator, Remote sounds never do.
func (s Sound) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return Wrap(ErrMetadataInvalid, "validate sound", "id must not be empty", nil)
	}
	if err := s.Provenance.Validate(); err != nil {
		return err
	}
	if err := s.Metadata.Validate(); err != nil {
		return err
	}
	switch {
	case s.Provenance.IsLocal() && strings.TrimSpace(s.FileReference) == "":
		return Wrap(ErrMetadataInvalid, "validate sound", "local sound requires a file reference", nil)
	case s.Provenance.IsRemote() && s.FileReference != "":
		return Wrap(ErrMetadataInvalid, "validate sound", "remote sound must not carry a file reference", nil)
	}
	return nil
}

// Clone returns a deep copy safe to mutate independently.
func (s Sound) Clone() Sound {
	out := s
	out.Metadata = s.Metadata.Clone()
	return out
}
