package config

import (
	"os"
	"path/filepath"
	"testing"

	"mediasort/internal/domain"
)

func TestLoadFileMergesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediasortrc")
	data := `
source_directory: /photos/incoming
destination_directory: /photos/sorted
include_subfolders: true
folder_scheme: hierarchical
move_instead_of_copy: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.SourceDir != "/photos/incoming" || cfg.DestDir != "/photos/sorted" {
		t.Errorf("paths not merged: %+v", cfg)
	}
	if !cfg.Recursive || !cfg.Move {
		t.Errorf("booleans not merged: %+v", cfg)
	}
	if cfg.FolderScheme() != domain.SchemeHierarchical {
		t.Errorf("scheme = %v", cfg.FolderScheme())
	}
	// Untouched defaults survive the merge.
	if !cfg.WriteSkipLog {
		t.Error("default write_skip_log lost")
	}
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	cfg := Default()
	if err := LoadFile(&cfg, filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken")
	if err := os.WriteFile(path, []byte("source_directory: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := LoadFile(&cfg, path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MEDIASORT_SOURCE_DIR", "/from/env")
	t.Setenv("MEDIASORT_VERBOSE", "yes")

	cfg := Default()
	ApplyEnv(&cfg)

	if cfg.SourceDir != "/from/env" {
		t.Errorf("SourceDir = %q", cfg.SourceDir)
	}
	if !cfg.Verbose {
		t.Error("Verbose not applied")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing paths")
	}

	cfg.SourceDir = "/a"
	cfg.DestDir = "/b"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Scheme = "weekly"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown scheme")
	}
}
