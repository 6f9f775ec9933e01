// Package logging provides leveled logging for the asset catalog.
//
// The log level is configured once from the environment:
//
//   - DEBUG=1 (or true/yes/on) enables debug logging
//   - LOG_LEVEL=debug|info|warn|error selects the level explicitly
//
// The default level is info.
//
// All log output flows through a single mutex-guarded sink so that lines
// emitted by concurrent pipeline workers and watcher callbacks never
// interleave. Use SetOutput to redirect the sink, e.g. in tests.
package logging
