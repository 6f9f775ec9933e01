// Package handlers implements the HTTP API over the asset catalog.
//
// The query surface is read-only: listings with filtering, sorting, and
// pagination, single-asset lookup by path, the recent event log, and
// aggregate statistics. The only mutating endpoint is POST /api/rescan,
// which triggers a bulk scan in the background and returns immediately.
//
// Health endpoints follow the usual probe split: /livez always answers 200
// while the process runs, /readyz answers 200 once the catalog store is
// reachable, and /healthz reports a fuller status document.
package handlers
