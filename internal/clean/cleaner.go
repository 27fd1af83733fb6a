// Package clean orchestrates cache/log/temp cleanup. Nothing is deleted
// outright: in live mode every file is archived into the recovery store
// first, so cleanups stay reversible until retention expiry.
package clean

import (
	"os"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/logging"
	"github.com/lakshaymaurya-felt/macmole/internal/recovery"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// Target is an enumerated set of cleanup roots.
type Target string

const (
	TargetCaches Target = "caches"
	TargetLogs   Target = "logs"
	TargetTemp   Target = "temp"
	TargetAll    Target = "all"
)

// ParseTarget validates a target name from a flag or config value.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetCaches, TargetLogs, TargetTemp, TargetAll:
		return Target(s), nil
	default:
		return "", core.InvalidInputf("unknown clean target %q", s)
	}
}

// Result aggregates one clean run.
type Result struct {
	FilesFound   int    `json:"files_found"`
	FilesCleaned int    `json:"files_cleaned"`
	BytesFreed   int64  `json:"bytes_freed"`
	ManifestID   string `json:"manifest_id,omitempty"`
	// Skipped lists files that could not be archived. Their originals
	// were left in place.
	Skipped []string `json:"skipped,omitempty"`
}

// Cleaner resolves targets to filesystem roots and routes every
// deletion-class candidate through the recovery archiver.
type Cleaner struct {
	store         *recovery.Store
	archiver      *recovery.Archiver
	retentionDays int
	concurrency   int
	protected     []string
	logger        logging.Logger

	// targetsFor resolves a target name to its roots; swapped out in
	// tests.
	targetsFor func(string) []config.CleanTarget
}

// NewCleaner wires a Cleaner to the recovery store. Extra protected
// paths from config are honored on top of the built-in never-delete
// list.
func NewCleaner(store *recovery.Store, retentionDays, concurrency int, protected []string, logger logging.Logger) *Cleaner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Cleaner{
		store:         store,
		archiver:      recovery.NewArchiver(store),
		retentionDays: retentionDays,
		concurrency:   concurrency,
		protected:     protected,
		logger:        logger,
		targetsFor:    config.GetTargetsByCategory,
	}
}

// Clean enumerates the target's roots and, in live mode, archives each
// discovered file before counting it cleaned. Dry-run only enumerates
// and sums sizes. Nonexistent roots are silently skipped.
func (c *Cleaner) Clean(target Target, dryRun bool) (*Result, error) {
	result := &Result{}

	var manifest *recovery.Manifest
	if !dryRun {
		if err := c.store.Initialize(); err != nil {
			return nil, err
		}
		manifest = c.store.CreateManifest(c.retentionDays)
	}

	for _, t := range c.targetsFor(string(target)) {
		for _, root := range t.Paths {
			root = config.ExpandHome(root)
			if _, err := os.Stat(root); err != nil {
				continue
			}

			scanner := scan.NewScanner(c.concurrency, nil)
			files, err := scanner.Walk(root)
			if err != nil {
				c.logger.Warn("skipping root", "path", root, "err", err)
				continue
			}

			for _, f := range files {
				if c.isProtected(f.Path) {
					continue
				}
				result.FilesFound++

				if dryRun {
					result.BytesFreed += f.Size
					continue
				}

				// Archive failure must prevent deletion of the
				// original; the file simply stays where it is.
				if _, err := c.archiver.Archive(f.Path, manifest, t.Category, t.Name, true); err != nil {
					c.logger.Warn("cannot archive", "path", f.Path, "err", err)
					result.Skipped = append(result.Skipped, f.Path)
					continue
				}
				result.FilesCleaned++
				result.BytesFreed += f.Size
			}
		}
	}

	if manifest != nil && len(manifest.Items) > 0 {
		if err := c.store.SaveManifest(manifest); err != nil {
			return nil, err
		}
		result.ManifestID = manifest.ID
		c.logger.Info("cleanup recorded", "manifest", manifest.ID,
			"files", result.FilesCleaned, "bytes", result.BytesFreed)
	}
	return result, nil
}

func (c *Cleaner) isProtected(path string) bool {
	if config.IsProtected(path) {
		return true
	}
	for _, p := range c.protected {
		if p != "" && (path == p || len(path) > len(p) && path[:len(p)] == p && path[len(p)] == os.PathSeparator) {
			return true
		}
	}
	return false
}
