package handlers

import (
	"net/http"

	"asset-catalog/internal/logging"
)

// GetStats returns aggregate catalog statistics.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		logging.Error("failed to compute stats: %v", err)
		writeJSONError(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, stats)
}
