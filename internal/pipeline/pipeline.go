package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"asset-catalog/internal/assettypes"
	"asset-catalog/internal/filesystem"
	"asset-catalog/internal/fingerprint"
	"asset-catalog/internal/imagemeta"
	"asset-catalog/internal/logging"
	"asset-catalog/internal/metrics"
)

// Run is the ephemeral working record for one pass of a single asset through
// the pipeline. It becomes (or updates) a catalog record only after the
// Coordinator accepts it.
type Run struct {
	Path         string
	Category     assettypes.Category
	MimeType     string
	Status       assettypes.Status
	Fingerprint  string
	Size         int64
	CreatedAt    time.Time
	ModifiedAt   time.Time
	DiscoveredAt time.Time
	ProcessedAt  time.Time
	Elapsed      time.Duration
	Error        string
	Width        int
	Height       int
}

// Processor runs a single asset through the full stage sequence:
// Discovered -> Validating -> {Skipped | Failed | Hashing} ->
// MetadataExtraction -> Completed.
type Processor struct {
	classifier *assettypes.Classifier
}

// NewProcessor creates a Processor using the given extension classifier.
func NewProcessor(classifier *assettypes.Classifier) *Processor {
	return &Processor{classifier: classifier}
}

// Process takes a path through every stage and returns the terminal run.
// Failures are captured on the run, never returned: a missing or unreadable
// file is a per-asset outcome, not a caller error. Elapsed wall-clock time is
// stamped on every terminal run, including failed ones.
func (p *Processor) Process(path string) Run {
	start := time.Now()
	run := Run{
		Path:         path,
		DiscoveredAt: start,
		Status:       assettypes.StatusProcessing,
	}

	// Validating
	vStart := time.Now()
	ext := strings.ToLower(filepath.Ext(path))
	category, mimeHint, supported := p.classifier.Classify(ext)
	run.Category = category

	if !supported {
		metrics.PipelineStageDuration.WithLabelValues("validating").Observe(time.Since(vStart).Seconds())
		logging.Debug("Skipping unsupported extension %q: %s", ext, path)
		return p.finish(run, start, assettypes.StatusSkipped)
	}

	info, err := filesystem.StatAsset(path)
	if err != nil {
		metrics.PipelineStageDuration.WithLabelValues("validating").Observe(time.Since(vStart).Seconds())
		if os.IsNotExist(err) {
			run.Error = "File not found"
		} else {
			run.Error = err.Error()
		}
		return p.finish(run, start, assettypes.StatusFailed)
	}

	run.MimeType = mimeHint
	run.Size = info.Size()
	run.ModifiedAt = info.ModTime()
	run.CreatedAt = info.ModTime()
	metrics.PipelineStageDuration.WithLabelValues("validating").Observe(time.Since(vStart).Seconds())

	// Hashing
	hStart := time.Now()
	fp, err := hashFile(path)
	metrics.PipelineStageDuration.WithLabelValues("hashing").Observe(time.Since(hStart).Seconds())
	if err != nil {
		run.Error = err.Error()
		return p.finish(run, start, assettypes.StatusFailed)
	}
	run.Fingerprint = fp

	// MetadataExtraction: image dimensions only. Non-critical; nothing in
	// this stage can downgrade the run's status.
	if category == assettypes.CategoryImage {
		mStart := time.Now()
		run.Width, run.Height = readDimensions(path, ext)
		metrics.PipelineStageDuration.WithLabelValues("metadata").Observe(time.Since(mStart).Seconds())
	}

	return p.finish(run, start, assettypes.StatusCompleted)
}

// finish stamps terminal bookkeeping on the run.
func (p *Processor) finish(run Run, start time.Time, status assettypes.Status) Run {
	run.Status = status
	run.ProcessedAt = time.Now()
	run.Elapsed = time.Since(start)

	metrics.PipelineRunsTotal.WithLabelValues(string(status)).Inc()
	metrics.PipelineRunDuration.Observe(run.Elapsed.Seconds())
	return run
}

// hashFile fingerprints the file's content, opening through the NFS retry
// layer so a transient stale handle does not fail the whole run.
func hashFile(path string) (string, error) {
	f, err := filesystem.OpenAsset(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return fingerprint.Reader(f)
}

// readDimensions reads a bounded header prefix and parses it. Read errors are
// swallowed: the file may have vanished since hashing, and dimensions are
// best-effort.
func readDimensions(path, ext string) (int, int) {
	f, err := filesystem.OpenAsset(path)
	if err != nil {
		logging.Debug("Dimension read skipped for %s: %v", path, err)
		return 0, 0
	}
	defer f.Close()

	header := make([]byte, imagemeta.HeaderBytes)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		logging.Debug("Dimension read skipped for %s: %v", path, err)
		return 0, 0
	}
	return imagemeta.Dimensions(header[:n], ext)
}
