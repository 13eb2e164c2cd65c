package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"mediasort/internal/domain"
)

// Mode selects how a file is placed at its destination.
type Mode int

const (
	ModeCopy Mode = iota
	ModeMove
)

// Bail out of the suffix search eventually; a folder with this many name
// clashes indicates something else is wrong.
const maxSuffixAttempts = 100000

// Transferer places files into destination folders without ever
// overwriting a pre-existing file. Name clashes get an increasing numeric
// suffix. All filesystem failures are converted into skip outcomes so one
// bad file never aborts a run.
type Transferer struct {
	FS FileSystem

	// DetectDuplicates skips a file instead of suffixing it when a clash
	// target has identical content (size plus xxhash digest).
	DetectDuplicates bool
}

// Place transfers src into destFolder, creating missing folders and
// disambiguating the name if needed.
func (t Transferer) Place(src, destFolder string, mode Mode) domain.TransferOutcome {
	if t.FS == nil {
		return domain.Skipped("transfer not configured")
	}

	if err := t.FS.MkdirAll(destFolder, 0o755); err != nil {
		return domain.Skipped(fmt.Sprintf("creating destination folder: %v", err))
	}

	name := filepath.Base(src)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	destPath := ""
	for i := 0; i < maxSuffixAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", base, i, ext)
		}
		candidatePath := filepath.Join(destFolder, candidate)

		exists, err := t.FS.Exists(candidatePath)
		if err != nil {
			return domain.Skipped(fmt.Sprintf("checking destination name: %v", err))
		}
		if !exists {
			destPath = candidatePath
			break
		}
		if t.DetectDuplicates && sameContent(src, candidatePath) {
			return domain.Skipped(fmt.Sprintf("duplicate of %s", candidatePath))
		}
	}
	if destPath == "" {
		return domain.Skipped("no free destination name found")
	}

	var err error
	switch mode {
	case ModeMove:
		err = t.move(src, destPath)
	default:
		err = t.FS.CopyFile(src, destPath)
	}
	if err != nil {
		return domain.Skipped(err.Error())
	}
	return domain.Placed(destPath)
}

// move renames when possible and falls back to copy plus remove for
// cross-device destinations. The source is removed only after the copy
// succeeded.
func (t Transferer) move(src, dst string) error {
	if err := t.FS.Rename(src, dst); err == nil {
		return nil
	}
	if err := t.FS.CopyFile(src, dst); err != nil {
		return err
	}
	return t.FS.Remove(src)
}

func sameContent(a, b string) bool {
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA != nil || errB != nil || infoA.Size() != infoB.Size() {
		return false
	}

	hashA, err := hashFile(a)
	if err != nil {
		return false
	}
	hashB, err := hashFile(b)
	if err != nil {
		return false
	}
	return hashA == hashB
}

func hashFile(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, file); err != nil {
		return 0, err
	}
	return digest.Sum64(), nil
}
