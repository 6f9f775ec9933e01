package scanner

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"asset-catalog/internal/assettypes"
	"asset-catalog/internal/logging"
	"asset-catalog/internal/metrics"
)

// Progress is an advisory sink invoked once per yielded candidate. It is
// never required for correctness; a nil sink is valid.
type Progress func(path string)

// Scanner lazily enumerates supported asset files under a root. One Walk is
// one full tree pass; the scanner holds no state between passes, so walks
// are freely restartable.
type Scanner struct {
	root       string
	classifier *assettypes.Classifier
}

// New creates a Scanner for the given root using the injected classifier.
func New(root string, classifier *assettypes.Classifier) *Scanner {
	return &Scanner{root: root, classifier: classifier}
}

// Walk enumerates every supported candidate under the root, invoking fn for
// each. Unsupported extensions are filtered before yielding. Entries that
// raise access or I/O errors are skipped and the walk continues: one
// unreadable file never stops the scan. The walk stops between files when
// ctx is canceled.
func (s *Scanner) Walk(ctx context.Context, progress Progress, fn func(path string) error) error {
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return fs.SkipAll
		default:
		}

		if err != nil {
			logging.Warn("Error accessing path %s: %v", path, err)
			metrics.ScanEntriesSkipped.Inc()
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") && path != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !s.classifier.Supported(ext) {
			return nil
		}

		metrics.ScanCandidatesTotal.Inc()
		if progress != nil {
			progress(path)
		}
		return fn(path)
	})

	if err != nil && !errors.Is(err, fs.SkipAll) {
		return err
	}
	return nil
}
