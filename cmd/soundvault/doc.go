// Package main hosts the SoundVault CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into vault
// operations: importing audio files, editing metadata, organizing
// collections, searching the catalog and Freesound, and materializing
// remote sounds on disk. It centralizes configuration resolution and vault
// lifecycle so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the library
// packages first, then surface it through dedicated commands or flags here.
package main
