package domain

// TransferOutcome is the result of placing one media entry. Exactly one of
// Placed or Skipped applies.
type TransferOutcome struct {
	DestPath string // set when the file was placed
	Reason   string // set when the file was skipped
}

func Placed(destPath string) TransferOutcome {
	return TransferOutcome{DestPath: destPath}
}

func Skipped(reason string) TransferOutcome {
	return TransferOutcome{Reason: reason}
}

func (o TransferOutcome) WasPlaced() bool {
	return o.Reason == ""
}

// SkipEntry records one file the run could not place.
type SkipEntry struct {
	Name   string
	Reason string
}

// Summary is the final result of one sort run.
type Summary struct {
	Total       int // candidates found by the collector
	Processed   int
	Skipped     int
	SkipEntries []SkipEntry
	SkipLogPath string   // empty unless a skip log was written
	Notes       []string // non-fatal status notes, e.g. a failed log write
}
