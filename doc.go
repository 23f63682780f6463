// Package soundvault exposes the vault engine: one facade over the local
// sound library and the remote discovery service.
//
// A Vault owns the catalog database, the on-disk library layout, and an
// optional remote source. Operations fall into four families: importing
// local audio files, organizing sounds and collections, searching locally
// and remotely, and materializing remote sounds into the library. Open
// acquires an exclusive library lock so only one process mutates a vault
// at a time; Close releases it.
package soundvault
