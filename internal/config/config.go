package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mediasort/internal/domain"
)

// Config holds one run's settings. Values are merged in increasing
// precedence: defaults, the YAML config file, environment variables, then
// the command-line flags bound by the CLI.
type Config struct {
	SourceDir        string `yaml:"source_directory"`
	DestDir          string `yaml:"destination_directory"`
	Recursive        bool   `yaml:"include_subfolders"`
	Move             bool   `yaml:"move_instead_of_copy"`
	Scheme           string `yaml:"folder_scheme"`
	WriteSkipLog     bool   `yaml:"write_skip_log"`
	DetectDuplicates bool   `yaml:"detect_duplicates"`
	Verbose          bool   `yaml:"verbose"`
	Plain            bool   `yaml:"plain"`
}

func Default() Config {
	return Config{
		Scheme:       domain.SchemeYearMonthDay.String(),
		WriteSkipLog: true,
	}
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mediasortrc")
}

// LoadFile merges the YAML config file at path into cfg. A missing file is
// not an error.
func LoadFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// ApplyEnv merges MEDIASORT_* environment variables into cfg.
func ApplyEnv(cfg *Config) {
	if v := envOrEmpty("MEDIASORT_SOURCE_DIR"); v != "" {
		cfg.SourceDir = v
	}
	if v := envOrEmpty("MEDIASORT_DEST_DIR"); v != "" {
		cfg.DestDir = v
	}
	if v := envOrEmpty("MEDIASORT_SCHEME"); v != "" {
		cfg.Scheme = v
	}
	if envTruthy("MEDIASORT_VERBOSE") {
		cfg.Verbose = true
	}
	if envTruthy("MEDIASORT_PLAIN") {
		cfg.Plain = true
	}
}

// Validate checks the merged configuration before a run starts.
func (c Config) Validate() error {
	if c.SourceDir == "" {
		return errors.New("source directory is required")
	}
	if c.DestDir == "" {
		return errors.New("destination directory is required")
	}
	if _, err := domain.ParseScheme(c.Scheme); err != nil {
		return err
	}
	return nil
}

// FolderScheme returns the parsed scheme. Call Validate first.
func (c Config) FolderScheme() domain.FolderScheme {
	scheme, err := domain.ParseScheme(c.Scheme)
	if err != nil {
		return domain.SchemeYearMonthDay
	}
	return scheme
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
