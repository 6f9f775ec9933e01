package pipeline

import (
	"context"
	"errors"
	"fmt"

	"asset-catalog/internal/assettypes"
	"asset-catalog/internal/catalog"
	"asset-catalog/internal/logging"
	"asset-catalog/internal/metrics"
)

// Outcome is the coordinator's decision for one pipeline run.
type Outcome string

const (
	// OutcomeInserted means the path had never been cataloged.
	OutcomeInserted Outcome = "inserted"
	// OutcomeUpdated means the path existed and its content changed.
	OutcomeUpdated Outcome = "updated"
	// OutcomeUnchanged means the fingerprint matched; nothing was written.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSkipped means the run was rejected at validation; no catalog write.
	OutcomeSkipped Outcome = "skipped"
)

// Coordinator reconciles freshly produced pipeline runs into the catalog.
// It is the single decision point for insert/no-op/update: bulk scans and
// single watcher items go through the same Reconcile call, so there is no
// divergent "one file" vs "many files" path.
type Coordinator struct {
	store *catalog.Store
}

// NewCoordinator creates a Coordinator writing to the given store.
func NewCoordinator(store *catalog.Store) *Coordinator {
	return &Coordinator{store: store}
}

// Reconcile applies one run against the current catalog:
//
//   - skipped run: no write, no event
//   - no existing record: insert, emit file_discovered
//   - existing record, same fingerprint: no write, no event
//   - existing record, different fingerprint: update mutable fields in place
//     (identity key and original discovery timestamp preserved), emit
//     file_updated
func (c *Coordinator) Reconcile(ctx context.Context, run Run) (Outcome, error) {
	if run.Status == assettypes.StatusSkipped {
		metrics.CoordinatorOutcomes.WithLabelValues(string(OutcomeSkipped)).Inc()
		return OutcomeSkipped, nil
	}

	existing, err := c.store.GetAsset(ctx, run.Path)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return "", fmt.Errorf("catalog lookup for %s: %w", run.Path, err)
	}

	if existing == nil {
		asset := runToAsset(run)
		if err := c.store.InsertAsset(ctx, asset); err != nil {
			return "", fmt.Errorf("catalog insert for %s: %w", run.Path, err)
		}
		if err := c.store.AppendEvent(ctx, catalog.EventFileDiscovered, run.Path, "asset cataloged"); err != nil {
			logging.Warn("Failed to log discovery event for %s: %v", run.Path, err)
		}
		metrics.CoordinatorOutcomes.WithLabelValues(string(OutcomeInserted)).Inc()
		logging.Debug("Cataloged new asset %s (%s)", run.Path, run.Status)
		return OutcomeInserted, nil
	}

	if existing.Fingerprint == run.Fingerprint {
		metrics.CoordinatorOutcomes.WithLabelValues(string(OutcomeUnchanged)).Inc()
		return OutcomeUnchanged, nil
	}

	asset := runToAsset(run)
	asset.DiscoveredAt = existing.DiscoveredAt
	if err := c.store.UpdateAsset(ctx, asset); err != nil {
		return "", fmt.Errorf("catalog update for %s: %w", run.Path, err)
	}
	if err := c.store.AppendEvent(ctx, catalog.EventFileUpdated, run.Path, "content changed"); err != nil {
		logging.Warn("Failed to log update event for %s: %v", run.Path, err)
	}
	metrics.CoordinatorOutcomes.WithLabelValues(string(OutcomeUpdated)).Inc()
	logging.Debug("Updated asset %s (fingerprint %s -> %s)", run.Path, existing.Fingerprint, run.Fingerprint)
	return OutcomeUpdated, nil
}

// LogRename records a rename notification in the event log. The catalog is
// deliberately not reconciled; neither the old nor the new path reprocesses.
func (c *Coordinator) LogRename(ctx context.Context, path string) {
	if err := c.store.AppendEvent(ctx, catalog.EventFileRenamed, path, "rename observed; catalog not reconciled"); err != nil {
		logging.Warn("Failed to log rename event for %s: %v", path, err)
	}
}

// LogDelete records a delete notification in the event log. The catalog
// record for the path is left untouched, so stale entries can accumulate for
// files that no longer exist.
func (c *Coordinator) LogDelete(ctx context.Context, path string) {
	if err := c.store.AppendEvent(ctx, catalog.EventFileDeleted, path, "delete observed; record retained"); err != nil {
		logging.Warn("Failed to log delete event for %s: %v", path, err)
	}
}

func runToAsset(run Run) *catalog.Asset {
	return &catalog.Asset{
		Path:          run.Path,
		Category:      run.Category,
		MimeType:      run.MimeType,
		Status:        run.Status,
		Fingerprint:   run.Fingerprint,
		Size:          run.Size,
		CreatedAt:     run.CreatedAt,
		ModifiedAt:    run.ModifiedAt,
		DiscoveredAt:  run.DiscoveredAt,
		ProcessedAt:   run.ProcessedAt,
		Elapsed:       run.Elapsed,
		ElapsedMillis: run.Elapsed.Milliseconds(),
		Error:         run.Error,
		Width:         run.Width,
		Height:        run.Height,
	}
}
