// Package catalog provides the persistent asset catalog backed by SQLite.
//
// The store holds two tables:
//
//   - assets: one row per unique filesystem path, keyed by path. The path is
//     the identity key (stable across reprocessing) and the fingerprint is
//     the content-change key. The two are never conflated.
//   - events: an append-only event log. Rows are inserted by the pipeline
//     coordinator and never updated or deleted.
//
// The database runs in WAL mode so the read-only query surface can operate
// concurrently with coordinator writes. All writes are funneled through the
// coordinator; once a write call returns, subsequent reads observe it.
//
// Aggregate queries (Stats) back the external reporting collaborator:
// total/completed/failed/pending counts, total size, average elapsed time,
// and per-category and per-status breakdowns.
package catalog
