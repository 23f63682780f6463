// Package freesound wraps the Freesound.org v2 REST API: text search with
// the service's filter expressions, sound detail lookup, and preview
// download. Token credentials only grant preview renditions, so Download
// resolves the best available preview rather than the original upload.
//
// Failures map onto the shared taxonomy: unknown ids surface
// sound.ErrNotFoundUpstream, transport and rate-limit trouble surface
// sound.ErrRemoteUnavailable, and unparseable payloads surface
// sound.ErrInvalidResponse. Transient failures retry with exponential
// backoff before reporting.
package freesound
