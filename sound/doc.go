// Package sound defines the value types shared by every part of the vault:
// the Sound catalog entry, its Metadata, the Local/Remote provenance variant,
// the Collection descriptor, and the error taxonomy used across package
// boundaries.
//
// Provenance is a closed variant. A sound either lives in the local library
// (Local) or was discovered on the remote service (Remote, tagged with the
// service's own source id). A record never changes provenance in place;
// materializing a remote sound creates a new Local sound that references the
// source id it came from. Source-id equality is the only key used to detect an
// already-known remote sound, because names and other metadata are mutable
// upstream.
//
// Metadata supports arbitrary application-defined custom fields as a string
// mapping. Custom keys may not shadow the fixed field names; Validate enforces
// this and the non-empty-name rule. Tag normalization (lower-case, trim, drop
// empties, deduplicate) is deterministic so two semantically equal tag sets
// always compare equal after normalization.
package sound
