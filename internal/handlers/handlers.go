package handlers

import (
	"time"

	"github.com/gorilla/mux"

	"asset-catalog/internal/catalog"
	"asset-catalog/internal/scanner"
	"asset-catalog/internal/startup"
)

type Handlers struct {
	store     *catalog.Store
	runner    *scanner.Runner
	assetDir  string
	startedAt time.Time
}

func New(store *catalog.Store, runner *scanner.Runner, config *startup.Config) *Handlers {
	return &Handlers{
		store:     store,
		runner:    runner,
		assetDir:  config.AssetDir,
		startedAt: time.Now(),
	}
}

// NewRouter builds the full route table for the catalog API.
func (h *Handlers) NewRouter(metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if metricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/assets", h.ListAssets).Methods("GET")
	api.HandleFunc("/asset/{path:.*}", h.GetAsset).Methods("GET")
	api.HandleFunc("/events", h.ListEvents).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/rescan", h.TriggerRescan).Methods("POST")

	return r
}
