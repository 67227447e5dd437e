// Package logging provides logging setup for the scanner.
// Logs go to stderr so report output on stdout stays clean; a log file is
// added when a log directory is configured.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	logFileName = "stigcheck.log"
	logFileMode = 0644
	logDirMode  = 0755
)

// Config holds logging configuration.
type Config struct {
	// LogDir is where the log file lives. Empty disables file logging.
	LogDir string
	Debug  bool
}

// Setup initializes structured logging. Returns the configured logger and
// a cleanup function to close the log file. File setup failures fall back
// to stderr-only logging rather than failing the scan.
func Setup(cfg Config) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	writer := io.Writer(os.Stderr)
	cleanup := func() {}

	if cfg.LogDir != "" {
		if logFile, err := openLogFile(cfg.LogDir); err == nil {
			writer = io.MultiWriter(os.Stderr, logFile)
			cleanup = func() { logFile.Close() }
		}
	}

	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, cleanup
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, logDirMode); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, err
	}
	// Ignore chmod errors on Windows.
	os.Chmod(path, logFileMode)
	return f, nil
}
