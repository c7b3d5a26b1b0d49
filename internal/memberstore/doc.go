// Package memberstore provides the shared store that backs the
// distributed declare/collect pattern: remote hosts declare backend
// members into the store, and the coordinating host collects every member
// declared for a section at assembly time.
//
// The relation is a keyed lookup, not ownership: the store only ever
// answers "give me all members declared for section X". Two
// implementations exist, an in-memory one for runs without a shared
// substrate (and for tests) and a database-backed one (embedded SQLite or
// PostgreSQL) for real multi-host deployments.
package memberstore
