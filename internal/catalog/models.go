package catalog

import (
	"time"

	"asset-catalog/internal/assettypes"
)

// Asset is one catalog record per unique filesystem path ever seen. The path
// is the identity key and never changes; the fingerprint is the content key
// and changes exactly when the file's bytes change.
type Asset struct {
	Path          string               `json:"path"`
	Category      assettypes.Category  `json:"category"`
	MimeType      string               `json:"mimeType,omitempty"`
	Status        assettypes.Status    `json:"status"`
	Fingerprint   string               `json:"fingerprint,omitempty"`
	Size          int64                `json:"size"`
	CreatedAt     time.Time            `json:"createdAt"`
	ModifiedAt    time.Time            `json:"modifiedAt"`
	DiscoveredAt  time.Time            `json:"discoveredAt"`
	ProcessedAt   time.Time            `json:"processedAt,omitempty"`
	Elapsed       time.Duration        `json:"-"`
	ElapsedMillis int64                `json:"elapsedMs"`
	Error         string               `json:"error,omitempty"`
	Width         int                  `json:"width,omitempty"`
	Height        int                  `json:"height,omitempty"`
	// ThumbnailPath is a reserved naming slot; nothing renders thumbnails.
	ThumbnailPath string `json:"thumbnailPath,omitempty"`
}

// EventKind identifies the type of an event log entry.
type EventKind string

const (
	// EventFileDiscovered is emitted when a path is inserted into the catalog.
	EventFileDiscovered EventKind = "file_discovered"
	// EventFileUpdated is emitted when an existing record's content changed.
	EventFileUpdated EventKind = "file_updated"
	// EventFileRenamed is informational; the catalog is not reconciled.
	EventFileRenamed EventKind = "file_renamed"
	// EventFileDeleted is informational; the catalog record is left in place.
	EventFileDeleted EventKind = "file_deleted"
)

// Event is one append-only event log entry. Entries are never updated or
// deleted and exist for audit and monitoring, not catalog reconstruction.
type Event struct {
	ID        int64     `json:"id"`
	Kind      EventKind `json:"kind"`
	Path      string    `json:"path"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListOptions controls asset listing for the query surface.
type ListOptions struct {
	Category assettypes.Category
	Status   assettypes.Status
	Sort     assettypes.SortField
	Order    assettypes.SortOrder
	Page     int
	PageSize int
}

// CategoryStats is a per-category breakdown for aggregate reporting.
type CategoryStats struct {
	Count        int     `json:"count"`
	TotalSize    int64   `json:"totalSize"`
	AvgElapsedMs float64 `json:"avgElapsedMs"`
}

// Stats holds the aggregate contract the reporting collaborator depends on.
type Stats struct {
	TotalAssets  int                      `json:"totalAssets"`
	Completed    int                      `json:"completed"`
	Failed       int                      `json:"failed"`
	Pending      int                      `json:"pending"`
	TotalSize    int64                    `json:"totalSize"`
	AvgElapsedMs float64                  `json:"avgElapsedMs"`
	ByCategory   map[string]CategoryStats `json:"byCategory"`
	ByStatus     map[string]int           `json:"byStatus"`
}
