// Package storage owns the on-disk layout of a sound library: the sounds
// directory holding imported assets, the inbox watched for drops, the
// preview cache, and the lock file that keeps two vault instances from
// sharing one library.
//
// The catalog stores file references relative to the library root; this
// package is the only place that resolves them to absolute paths. References
// are opaque to every other layer and never checked for existence during
// catalog reads.
package storage
