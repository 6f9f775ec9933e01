// Package scanner provides bulk enumeration and processing of the asset
// tree.
//
// Scanner.Walk is a lazy single pass over the root: unsupported extensions
// are filtered out before yielding, unreadable entries are skipped without
// aborting the walk, and an advisory progress sink fires once per candidate.
// Runner fans candidates out to a worker pool where each file runs the same
// Orchestrator -> Coordinator path the live watcher uses.
//
// A scan is interruptible between files via context cancellation; an
// in-flight file always finishes its own pipeline run.
package scanner
