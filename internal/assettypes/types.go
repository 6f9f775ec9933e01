package assettypes

// Category classifies an asset by its content family.
type Category string

const (
	// CategoryImage represents raster image assets.
	CategoryImage Category = "image"
	// CategoryAudio represents audio assets.
	CategoryAudio Category = "audio"
	// CategoryModel represents 3D model assets.
	CategoryModel Category = "model"
	// CategoryConfig represents structured configuration files.
	CategoryConfig Category = "config"
	// CategoryScript represents script source files.
	CategoryScript Category = "script"
	// CategoryOther represents unrecognized or unsupported files.
	CategoryOther Category = "other"
)

// Status is the processing state of an asset record. It is a closed set;
// anything outside these values is a bug, not a state.
type Status string

const (
	// StatusPending marks an asset that has been discovered but not yet processed.
	StatusPending Status = "pending"
	// StatusProcessing marks an asset currently moving through the pipeline.
	StatusProcessing Status = "processing"
	// StatusCompleted marks an asset that finished the pipeline successfully.
	StatusCompleted Status = "completed"
	// StatusFailed marks an asset whose processing failed.
	StatusFailed Status = "failed"
	// StatusSkipped marks an asset rejected during validation (unsupported extension).
	StatusSkipped Status = "skipped"
)

// SortField specifies which field to sort catalog listings by.
type SortField string

// SortOrder specifies the direction of sorting.
type SortOrder string

const (
	// SortByPath sorts results by asset path.
	SortByPath SortField = "path"
	// SortBySize sorts results by file size.
	SortBySize SortField = "size"
	// SortByModified sorts results by modification time.
	SortByModified SortField = "modified"
	// SortByElapsed sorts results by processing duration.
	SortByElapsed SortField = "elapsed"

	// SortAsc sorts in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts in descending order.
	SortDesc SortOrder = "desc"
)
