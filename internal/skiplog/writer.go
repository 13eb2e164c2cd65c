// Package skiplog persists the files a sort run could not place.
package skiplog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediasort/internal/domain"
)

const (
	filenamePrefix  = "SkippedFiles-"
	filenameLayout  = "20060102-150405"
	headerTimestamp = "2006-01-02 15:04:05"
)

// Writer serializes skip entries to a timestamped report in the
// destination folder. The write goes through a temp file and a rename so
// a crash can never leave a torn report at the final name.
type Writer struct {
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Write creates the report and returns its path.
func (w Writer) Write(destFolder string, entries []domain.SkipEntry) (string, error) {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Files skipped by mediasort, generated %s\n", now.Format(headerTimestamp))
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s — %s\n", entry.Name, entry.Reason)
	}

	finalPath := filepath.Join(destFolder, filenamePrefix+now.Format(filenameLayout)+".txt")

	tmp, err := os.CreateTemp(destFolder, filenamePrefix+"*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, finalPath); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return finalPath, nil
}
