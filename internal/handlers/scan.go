package handlers

import (
	"context"
	"net/http"
)

// TriggerRescan starts a bulk scan in the background. If a scan is already
// running the request is accepted and becomes a no-op; the response says
// which happened.
func (h *Handlers) TriggerRescan(w http.ResponseWriter, _ *http.Request) {
	if h.runner.IsScanning() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		writeJSON(w, map[string]string{
			"status": "already_scanning",
		})
		return
	}

	// Detached from the request context: the scan outlives the HTTP call.
	h.runner.TriggerScan(context.Background())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{
		"status": "scan_started",
	})
}
