package handlers

import (
	"net/http"
	"strconv"

	"asset-catalog/internal/catalog"
	"asset-catalog/internal/logging"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 1000
)

// EventListResponse wraps the recent slice of the append-only event log.
type EventListResponse struct {
	Events []catalog.Event `json:"events"`
	Total  int             `json:"total"`
}

// ListEvents returns the most recent event log entries, newest first.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	events, err := h.store.RecentEvents(r.Context(), limit)
	if err != nil {
		logging.Error("failed to list events: %v", err)
		writeJSONError(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	total, err := h.store.CountEvents(r.Context())
	if err != nil {
		logging.Error("failed to count events: %v", err)
		writeJSONError(w, "failed to count events", http.StatusInternalServerError)
		return
	}

	if events == nil {
		events = []catalog.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, EventListResponse{
		Events: events,
		Total:  total,
	})
}
