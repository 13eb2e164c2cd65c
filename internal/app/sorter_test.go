package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mediasort/internal/domain"
	osfs "mediasort/internal/infra/fs"
	"mediasort/internal/skiplog"
)

type pathDater struct {
	dates map[string]time.Time
}

func (p pathDater) CaptureDate(ctx context.Context, path string) (time.Time, error) {
	if t, ok := p.dates[filepath.Base(path)]; ok {
		return t, nil
	}
	return time.Time{}, os.ErrNotExist
}

func newSorter(images, videos map[string]time.Time) *Sorter {
	filesystem := osfs.OSFS{}
	return &Sorter{
		FS: filesystem,
		Resolver: DateResolver{
			FS:    filesystem,
			Image: pathDater{dates: images},
			Video: pathDater{dates: videos},
		},
		SkipLog: skiplog.Writer{},
	}
}

func TestRunRejectsIdenticalPaths(t *testing.T) {
	dir := t.TempDir()
	sorter := newSorter(nil, nil)

	_, err := sorter.Run(context.Background(), dir, dir, Options{})
	if err == nil {
		t.Fatal("expected error for identical paths")
	}
}

func TestRunRejectsDestinationInsideSource(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(source, "sorted")
	sorter := newSorter(nil, nil)

	_, err := sorter.Run(context.Background(), source, dest, Options{})
	if err == nil {
		t.Fatal("expected error for nested destination")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("validation must not create the destination")
	}
}

func TestRunRejectsUnwritableDestination(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	source := t.TempDir()
	dest := t.TempDir()
	if err := os.Chmod(dest, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dest, 0o755) })

	writeFile(t, filepath.Join(source, "IMG_0001.JPG"))
	sorter := newSorter(nil, nil)

	_, err := sorter.Run(context.Background(), source, dest, Options{})
	if err == nil {
		t.Fatal("expected preflight failure")
	}

	entries, _ := os.ReadDir(dest)
	if len(entries) != 0 {
		t.Errorf("failed preflight must leave destination empty, found %d entries", len(entries))
	}
}

func TestRunSortsByCaptureDateWithFallback(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()

	img := filepath.Join(source, "IMG_0001.JPG")
	vid := filepath.Join(source, "VID_0002.MOV")
	writeFile(t, img)
	writeFile(t, vid)

	// The video carries no metadata; its filesystem time decides.
	vidTime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(vid, vidTime, vidTime); err != nil {
		t.Fatal(err)
	}

	sorter := newSorter(map[string]time.Time{
		"IMG_0001.JPG": time.Date(2024, 3, 15, 10, 22, 0, 0, time.UTC),
	}, nil)

	summary, err := sorter.Run(context.Background(), source, dest, Options{
		Recursive: true,
		Scheme:    domain.SchemeYearMonthDay,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Processed != 2 || summary.Skipped != 0 {
		t.Errorf("processed=%d skipped=%d, want 2/0", summary.Processed, summary.Skipped)
	}
	if _, err := os.Stat(filepath.Join(dest, "2024", "03", "15", "IMG_0001.JPG")); err != nil {
		t.Errorf("image not placed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "2024", "05", "01", "VID_0002.MOV")); err != nil {
		t.Errorf("video not placed: %v", err)
	}
	// Copy mode keeps sources.
	if _, err := os.Stat(img); err != nil {
		t.Errorf("source removed in copy mode: %v", err)
	}
}

func TestRunSuffixesOnResort(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(source, "IMG_0001.JPG"))

	sorter := newSorter(map[string]time.Time{
		"IMG_0001.JPG": time.Date(2024, 3, 15, 10, 22, 0, 0, time.UTC),
	}, nil)
	opts := Options{Recursive: true, Scheme: domain.SchemeYearMonthDay}

	for i := 0; i < 2; i++ {
		if _, err := sorter.Run(context.Background(), source, dest, opts); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	folder := filepath.Join(dest, "2024", "03", "15")
	if _, err := os.Stat(filepath.Join(folder, "IMG_0001.JPG")); err != nil {
		t.Errorf("original placement missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "IMG_0001-1.JPG")); err != nil {
		t.Errorf("suffixed placement missing: %v", err)
	}
}

func TestRunWritesSkipLog(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(source, "IMG_0001.JPG"))

	// Occupy the year folder with a regular file so placement must fail.
	if err := os.WriteFile(filepath.Join(dest, "2024"), []byte("in the way"), 0o644); err != nil {
		t.Fatal(err)
	}

	sorter := newSorter(map[string]time.Time{
		"IMG_0001.JPG": time.Date(2024, 3, 15, 10, 22, 0, 0, time.UTC),
	}, nil)

	summary, err := sorter.Run(context.Background(), source, dest, Options{
		Recursive:    true,
		Scheme:       domain.SchemeYear,
		WriteSkipLog: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Skipped != 1 || summary.Processed != 0 {
		t.Fatalf("processed=%d skipped=%d, want 0/1", summary.Processed, summary.Skipped)
	}
	if summary.SkipLogPath == "" {
		t.Fatal("expected a skip log path")
	}
	content, err := os.ReadFile(summary.SkipLogPath)
	if err != nil {
		t.Fatalf("reading skip log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one entry, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "IMG_0001.JPG — ") {
		t.Errorf("unexpected body line %q", lines[1])
	}
}

func TestRunReportsProgress(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(source, "IMG_0001.JPG"))

	var calls []int
	sorter := newSorter(nil, nil)
	sorter.OnProgress = func(done, total int, file string) {
		calls = append(calls, done)
		if total != 1 {
			t.Errorf("total = %d, want 1", total)
		}
	}

	if _, err := sorter.Run(context.Background(), source, dest, Options{Scheme: domain.SchemeYear}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(calls) != 1 || calls[0] != 1 {
		t.Errorf("progress calls = %v, want [1]", calls)
	}
}

func TestRunPhasesMoveForward(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(source, "IMG_0001.JPG"))

	var phases []Phase
	sorter := newSorter(nil, nil)
	sorter.OnPhase = func(p Phase) { phases = append(phases, p) }

	if _, err := sorter.Run(context.Background(), source, dest, Options{Scheme: domain.SchemeYear}); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []Phase{PhaseValidating, PhaseScanning, PhaseSorting, PhaseFinalizing, PhaseIdle}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phases = %v, want %v", phases, want)
		}
	}
}
