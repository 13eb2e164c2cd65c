package app

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"mediasort/internal/domain"
	"mediasort/internal/logging"
)

// Collector enumerates the media candidates of one run. Hidden entries are
// always skipped, and anything under the destination root is excluded so a
// run can never re-ingest files it just placed.
type Collector struct {
	FS     FileSystem
	Logger logging.Logger
}

// Collect walks sourceRoot and returns the recognized media entries. When
// recursive is false, subdirectories are not descended into. Entries whose
// type is not recognized are excluded silently; they never become
// candidates.
func (c Collector) Collect(sourceRoot, destRoot string, recursive bool) ([]domain.MediaEntry, error) {
	if c.FS == nil {
		return nil, errors.New("collector requires FS")
	}

	stop := c.Logger.Measure("Scanning source directory")
	defer stop()

	var entries []domain.MediaEntry
	err := c.FS.WalkDir(sourceRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		hidden := strings.HasPrefix(d.Name(), ".")

		if d.IsDir() {
			if path == sourceRoot {
				return nil
			}
			if hidden || isWithin(destRoot, path) || !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden || isWithin(destRoot, path) {
			return nil
		}

		kind, ok := domain.ClassifyPath(path)
		if !ok {
			return nil
		}

		entries = append(entries, domain.NewMediaEntry(path, kind))
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.Logger.Verbosef("Found %d media candidates in %s", len(entries), sourceRoot)
	return entries, nil
}

// isWithin reports whether path is root itself or located under root.
func isWithin(root, path string) bool {
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
