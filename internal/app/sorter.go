package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"mediasort/internal/domain"
	"mediasort/internal/logging"
)

// Phase is the orchestrator's position in a run. Transitions only move
// forward; a finished or failed run returns to Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseScanning
	PhaseSorting
	PhaseFinalizing
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseScanning:
		return "scanning"
	case PhaseSorting:
		return "sorting"
	case PhaseFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// Options are the per-run settings supplied by the caller.
type Options struct {
	Recursive        bool
	Move             bool
	Scheme           domain.FolderScheme
	WriteSkipLog     bool
	DetectDuplicates bool
}

// ProgressFunc receives progress updates during the sorting phase. Calls
// happen every progressInterval files and on the final file. Callbacks
// must not block; the sorting loop does not wait for rendering.
type ProgressFunc func(done, total int, file string)

// PhaseFunc is notified when the run enters a new phase.
type PhaseFunc func(phase Phase)

// SkipLogWriter persists the run's skip entries, returning the report path.
type SkipLogWriter interface {
	Write(destFolder string, entries []domain.SkipEntry) (string, error)
}

const progressInterval = 25

// Sorter coordinates one full run: validate inputs, collect candidates,
// resolve dates, place files, and write the skip report. All mutable run
// state lives in local variables; a Sorter can be reused across runs.
type Sorter struct {
	FS       FileSystem
	Resolver DateResolver
	Transfer Transferer
	SkipLog  SkipLogWriter
	Logger   logging.Logger

	OnProgress ProgressFunc
	OnPhase    PhaseFunc
}

// Run executes one sorting pass from sourceDir into destDir. Configuration
// problems abort before any file is touched; per-file failures are
// recorded and never stop the run.
func (s *Sorter) Run(ctx context.Context, sourceDir, destDir string, opts Options) (domain.Summary, error) {
	if s.FS == nil {
		return domain.Summary{}, errors.New("sorter requires FS")
	}

	stop := s.Logger.Measure("Sort run")
	defer stop()
	defer s.setPhase(PhaseIdle)

	s.setPhase(PhaseValidating)
	sourceDir, destDir, err := s.validate(sourceDir, destDir)
	if err != nil {
		return domain.Summary{}, err
	}

	s.setPhase(PhaseScanning)
	collector := Collector{FS: s.FS, Logger: s.Logger}
	entries, err := collector.Collect(sourceDir, destDir, opts.Recursive)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("scanning source: %w", err)
	}

	s.setPhase(PhaseSorting)
	summary := domain.Summary{Total: len(entries)}
	transfer := s.Transfer
	transfer.FS = s.FS
	transfer.DetectDuplicates = opts.DetectDuplicates
	mode := ModeCopy
	if opts.Move {
		mode = ModeMove
	}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		date := s.Resolver.Resolve(ctx, entry)
		folder := filepath.Join(destDir, opts.Scheme.RelativePath(date))
		outcome := transfer.Place(entry.Path, folder, mode)

		if outcome.WasPlaced() {
			summary.Processed++
			s.Logger.Verbosef("Placed %s at %s", entry.Name, outcome.DestPath)
		} else {
			summary.Skipped++
			summary.SkipEntries = append(summary.SkipEntries, domain.SkipEntry{
				Name:   entry.Name,
				Reason: outcome.Reason,
			})
			s.Logger.Warnf("Skipped %s: %s", entry.Name, outcome.Reason)
		}

		done := i + 1
		if s.OnProgress != nil && (done%progressInterval == 0 || done == len(entries)) {
			s.OnProgress(done, len(entries), entry.Name)
		}
	}

	s.setPhase(PhaseFinalizing)
	if opts.WriteSkipLog && len(summary.SkipEntries) > 0 && s.SkipLog != nil {
		path, err := s.SkipLog.Write(destDir, summary.SkipEntries)
		if err != nil {
			summary.Notes = append(summary.Notes, fmt.Sprintf("skip log could not be written: %v", err))
		} else {
			summary.SkipLogPath = path
		}
	}

	return summary, nil
}

// validate enforces the preflight invariants: distinct paths, destination
// not nested inside the source, and a writable destination. The write
// probe is the only filesystem mutation validation may perform.
func (s *Sorter) validate(sourceDir, destDir string) (string, string, error) {
	sourceAbs, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", "", fmt.Errorf("resolving source path: %w", err)
	}
	destAbs, err := filepath.Abs(destDir)
	if err != nil {
		return "", "", fmt.Errorf("resolving destination path: %w", err)
	}

	if sourceAbs == destAbs {
		return "", "", errors.New("source and destination are the same directory")
	}
	if isWithin(sourceAbs, destAbs) {
		return "", "", errors.New("destination lies inside the source directory")
	}

	info, err := s.FS.Stat(sourceAbs)
	if err != nil {
		return "", "", fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("source %s is not a directory", sourceAbs)
	}

	if err := s.FS.MkdirAll(destAbs, 0o755); err != nil {
		return "", "", fmt.Errorf("destination directory: %w", err)
	}
	probe, err := s.FS.CreateProbe(destAbs, ".mediasort-preflight-*")
	if err != nil {
		return "", "", fmt.Errorf("destination is not writable: %w", err)
	}
	if err := s.FS.Remove(probe); err != nil {
		return "", "", fmt.Errorf("destination is not writable: %w", err)
	}

	return sourceAbs, destAbs, nil
}

func (s *Sorter) setPhase(phase Phase) {
	if s.OnPhase != nil {
		s.OnPhase(phase)
	}
}
