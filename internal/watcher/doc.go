// Package watcher keeps the catalog current while files change in real
// time.
//
// It subscribes to OS filesystem notifications (fsnotify) recursively under
// the watched root. Create and write notifications arm a per-path settle
// timer; when the timer fires the path is enqueued on a bounded work queue
// consumed by a pool of workers, each running the same Orchestrator ->
// Coordinator path the bulk scanner uses. Multiple notifications for one
// path inside the settle window collapse into a single reprocessing pass.
//
// Rename and delete notifications are recorded in the event log only; the
// catalog is never reconciled for them, so records for vanished files
// remain until a product decision changes that.
//
// Notification delivery is never blocked: if the work queue is full the
// item is dropped with a logged warning and a metric, to be re-delivered by
// the next periodic rescan.
package watcher
