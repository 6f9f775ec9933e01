package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"

	"asset-catalog/internal/assettypes"
	"asset-catalog/internal/catalog"
	"asset-catalog/internal/logging"
)

// AssetListResponse is the paginated listing envelope.
type AssetListResponse struct {
	Assets   []catalog.Asset `json:"assets"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// ListAssets returns catalog records with optional filtering, sorting, and
// pagination. Unknown filter values are passed to the store as-is and simply
// match nothing.
func (h *Handlers) ListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := catalog.ListOptions{
		Category: assettypes.Category(q.Get("category")),
		Status:   assettypes.Status(q.Get("status")),
		Sort:     assettypes.SortField(q.Get("sort")),
		Order:    assettypes.SortOrder(q.Get("order")),
	}

	opts.Page = 1
	opts.PageSize = 50
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if size, err := strconv.Atoi(q.Get("pageSize")); err == nil && size > 0 {
		opts.PageSize = size
	}

	assets, total, err := h.store.ListAssets(r.Context(), opts)
	if err != nil {
		logging.Error("failed to list assets: %v", err)
		writeJSONError(w, "failed to list assets", http.StatusInternalServerError)
		return
	}

	if assets == nil {
		assets = []catalog.Asset{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, AssetListResponse{
		Assets:   assets,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	})
}

// GetAsset returns a single catalog record. The path variable is relative to
// the asset directory root.
func (h *Handlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	relPath := vars["path"]
	if relPath == "" {
		writeJSONError(w, "missing asset path", http.StatusBadRequest)
		return
	}

	fullPath := filepath.Join(h.assetDir, filepath.FromSlash(relPath))

	asset, err := h.store.GetAsset(r.Context(), fullPath)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSONError(w, "asset not found", http.StatusNotFound)
			return
		}
		logging.Error("failed to get asset %s: %v", fullPath, err)
		writeJSONError(w, "failed to get asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, asset)
}
