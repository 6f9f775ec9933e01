// Package metrics defines the Prometheus collectors used across the asset
// catalog: pipeline run outcomes and stage latencies, coordinator decisions,
// scanner and watcher activity, catalog store query timings, and HTTP request
// counters for the query API.
//
// Collectors are registered with the default registry via promauto at package
// init and exposed through promhttp on /metrics when metrics are enabled.
package metrics
