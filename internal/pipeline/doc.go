// Package pipeline contains the asset processing pipeline: the per-asset
// stage state machine and the coordinator that reconciles results into the
// catalog.
//
// # State machine
//
// Each run moves through Discovered -> Validating -> {Skipped | Failed |
// Hashing} -> MetadataExtraction -> Completed. Skipped, Failed, and
// Completed are terminal. An unsupported extension skips without error; a
// missing file fails with "File not found"; an I/O failure while hashing
// fails with the error's message verbatim. Metadata extraction (image
// dimensions) is non-critical and can never fail a run. End-to-end elapsed
// time is stamped on every terminal run.
//
// # Coordination
//
// The Coordinator owns the insert/no-op/update decision keyed on path
// identity and fingerprint content. Unchanged content is never rewritten or
// re-logged. Rename and delete notifications are logged to the event log but
// never reconciled into the catalog; stale records for vanished files are a
// documented property of the design.
//
// # Serialization
//
// Engine.ProcessPath is the one shared entry point for scans and watcher
// items. It holds a per-path lock for the duration of process+reconcile, so
// overlapping attempts on one path are equivalent to some serial order while
// distinct paths proceed in parallel.
package pipeline
