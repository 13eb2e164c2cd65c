package presentation

import (
	"fmt"
	"io"

	"mediasort/internal/domain"
)

// Printer renders run results as plain text for non-interactive use.
type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// PrintProgress renders one progress update from the sorting phase.
func (p Printer) PrintProgress(done, total int, file string) {
	fmt.Fprintf(p.Writer, "Sorted %d/%d files (%s)\n", done, total, file)
}

// PrintSummary renders the final result of a run.
func (p Printer) PrintSummary(summary domain.Summary) {
	fmt.Fprintf(p.Writer, "Processed %d of %d files, skipped %d.\n", summary.Processed, summary.Total, summary.Skipped)

	if len(summary.SkipEntries) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Skipped:")
		for _, entry := range summary.SkipEntries {
			fmt.Fprintf(p.Writer, "  %s — %s\n", entry.Name, entry.Reason)
		}
	}

	if summary.SkipLogPath != "" {
		fmt.Fprintf(p.Writer, "Skip log written to %s\n", summary.SkipLogPath)
	}

	for _, note := range summary.Notes {
		fmt.Fprintf(p.Writer, "Note: %s\n", note)
	}
}
