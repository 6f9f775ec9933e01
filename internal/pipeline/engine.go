package pipeline

import (
	"context"

	"asset-catalog/internal/pathlock"
)

// Engine is the single entry point for reprocessing a path. The bulk scanner
// and the live watcher both call ProcessPath, which serializes overlapping
// attempts on the same path while leaving distinct paths fully parallel.
type Engine struct {
	processor   *Processor
	coordinator *Coordinator
	locks       *pathlock.Map
}

// NewEngine wires a processor and coordinator behind a per-path lock map.
func NewEngine(processor *Processor, coordinator *Coordinator) *Engine {
	return &Engine{
		processor:   processor,
		coordinator: coordinator,
		locks:       pathlock.New(),
	}
}

// ProcessPath runs the full Orchestrator -> Coordinator sequence for one
// path under that path's lock. Concurrent calls for the same path apply in
// some serialized order; an older result can never overwrite a newer one
// because the later caller re-reads the file after the earlier one finished.
func (e *Engine) ProcessPath(ctx context.Context, path string) (Outcome, error) {
	unlock := e.locks.Lock(path)
	defer unlock()

	run := e.processor.Process(path)
	return e.coordinator.Reconcile(ctx, run)
}

// Coordinator exposes the underlying coordinator for informational event
// logging (rename/delete notifications).
func (e *Engine) Coordinator() *Coordinator {
	return e.coordinator
}
