// Package catalog is the durable, transactional home for sounds, collections,
// and memberships, backed by an embedded SQLite database.
//
// Every multi-step operation (inserting a sound with its tags and custom
// fields, replacing metadata, cascade deletes) executes inside a single
// transaction so partial application is never observable. Writers contend
// through WAL mode plus a short busy-retry loop; concurrent metadata edits of
// the same sound resolve as last-committed-wins, which is an accepted
// limitation of the catalog rather than a bug.
//
// Errors surface through the shared taxonomy: missing ids yield
// sound.ErrNotFound, id collisions yield sound.ErrDuplicateID, and any
// persistence failure is tagged sound.ErrStoreTransaction. Lookups that treat
// absence as a normal outcome (FindByRemoteSource) return nil instead of an
// error.
package catalog
