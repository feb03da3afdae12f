// filepath: internal/housekeeping/tasks.go
package housekeeping

import (
	"fmt"
	"path/filepath"
	"time"

	"streamstore/internal/logging"
	"streamstore/internal/models"

	"github.com/dustin/go-humanize"
)

// Dependencies defines the required services for the housekeeping tasks.
type Dependencies struct {
	Storage StorageTX
	Guard   Guard
	// MinAge keeps recently modified files, which may belong to a session
	// that has not registered its destination yet.
	MinAge time.Duration
	// Reserved files are never swept, e.g. a history database that was
	// configured inside the scratch directory.
	Reserved []string
}

// RunSweep removes orphaned files from the scratch directory: anything that
// is not protected by the guard and has not been modified for MinAge.
func RunSweep(deps Dependencies) (*models.HousekeepingReport, error) {
	files, err := deps.Storage.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("could not list scratch directory: %w", err)
	}

	protected := make(map[string]bool)
	for _, p := range deps.Reserved {
		protected[pathKey(p)] = true
	}
	if deps.Guard != nil {
		for _, p := range deps.Guard.ProtectedPaths() {
			protected[pathKey(p)] = true
		}
	}

	report := &models.HousekeepingReport{}
	cutoff := time.Now().Add(-deps.MinAge)
	for _, f := range files {
		if protected[pathKey(f.Path)] || f.ModTime.After(cutoff) {
			continue
		}
		if err := deps.Storage.RemoveFile(f.Path); err != nil {
			logging.Log.Warnf("Housekeeping could not remove orphan %s: %v", f.Path, err)
			continue
		}
		logging.Log.Debugf("Removed orphaned file %s (%s)", f.Path, humanize.Bytes(uint64(f.Size)))
		report.FilesRemoved++
		report.SpaceFreedBytes += f.Size
	}

	report.Message = fmt.Sprintf("Housekeeping complete. %d orphaned files deleted, freeing %s.",
		report.FilesRemoved, humanize.Bytes(uint64(report.SpaceFreedBytes)))
	return report, nil
}

// pathKey makes relative and absolute spellings of a path compare equal.
func pathKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
