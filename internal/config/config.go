// Package config handles scanner configuration loading and saving.
// Configuration is stored in JSON format with restricted permissions (0600).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	configFileName = "stigcheck.json"
	configFileMode = 0600
)

// DefaultQueryTimeout is applied when the config does not set one.
const DefaultQueryTimeout = 10 * time.Second

// Formats lists the supported report output formats.
var Formats = []string{"console", "json", "csv", "markdown"}

// Config holds the scanner configuration.
type Config struct {
	// BenchmarkPath is the default XCCDF document to scan against.
	BenchmarkPath string `json:"benchmark_path,omitempty"`
	// CatalogDir holds declarative check definition files (YAML). Empty
	// means only the built-in checks are registered.
	CatalogDir string `json:"catalog_dir,omitempty"`
	// OutputDir is where reports are written when no explicit output path
	// is given.
	OutputDir string `json:"output_dir,omitempty"`
	// Format is the default report format.
	Format string `json:"format,omitempty"`
	// QueryTimeoutSeconds bounds each check's host queries.
	QueryTimeoutSeconds int `json:"query_timeout_seconds,omitempty"`
	// Severities limits the run to rules of the listed severities. Empty
	// means all rules.
	Severities []string `json:"severities,omitempty"`

	filePath string
}

// Paths holds the locations the scanner uses on this host.
type Paths struct {
	BaseDir    string
	ConfigFile string
	CatalogDir string
	ReportDir  string
	LogDir     string
}

var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultPaths returns the default paths for the current OS.
func DefaultPaths() Paths {
	var baseDir, logDir string

	switch runtime.GOOS {
	case "windows":
		baseDir = filepath.Join(os.Getenv("ProgramData"), "stigcheck")
		logDir = filepath.Join(baseDir, "log")
	case "darwin":
		baseDir = "/Library/Application Support/stigcheck"
		logDir = "/var/log/stigcheck"
	default: // linux
		baseDir = "/var/lib/stigcheck"
		logDir = "/var/log/stigcheck"
	}

	return Paths{
		BaseDir:    baseDir,
		ConfigFile: filepath.Join(baseDir, configFileName),
		CatalogDir: filepath.Join(baseDir, "catalog"),
		ReportDir:  filepath.Join(baseDir, "reports"),
		LogDir:     logDir,
	}
}

// Default returns a configuration with the stock settings.
func Default(paths Paths) *Config {
	return &Config{
		CatalogDir:          paths.CatalogDir,
		OutputDir:           paths.ReportDir,
		Format:              "console",
		QueryTimeoutSeconds: int(DefaultQueryTimeout / time.Second),
		filePath:            paths.ConfigFile,
	}
}

// Load reads the configuration from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.filePath = path
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Format != "" && !validFormat(c.Format) {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.QueryTimeoutSeconds < 0 {
		return fmt.Errorf("%w: query timeout must not be negative", ErrInvalidConfig)
	}
	for _, s := range c.Severities {
		switch s {
		case "high", "medium", "low":
		default:
			return fmt.Errorf("%w: unknown severity %q", ErrInvalidConfig, s)
		}
	}
	return nil
}

func validFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Save writes the configuration to disk with restricted permissions.
func (c *Config) Save() error {
	if c.filePath == "" {
		return errors.New("config file path not set")
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, configFileMode); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// QueryTimeout returns the per-check timeout as a duration.
func (c *Config) QueryTimeout() time.Duration {
	if c.QueryTimeoutSeconds <= 0 {
		return DefaultQueryTimeout
	}
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// EnsureDirectories creates the scanner's directories.
func EnsureDirectories(paths Paths) error {
	for _, dir := range []string{paths.BaseDir, paths.CatalogDir, paths.ReportDir, paths.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
