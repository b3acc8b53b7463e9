package config

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/dpe3cl/internal/logging"
)

// Logger is the global zerolog logger instance.
//
//nolint:gochecknoglobals // Logger is intentionally global for application-wide structured logging
var Logger zerolog.Logger

// logResult tracks the current log destination so its file can be closed.
//
//nolint:gochecknoglobals // Tracks the global logger's file handle for proper cleanup
var logResult logging.LogPathResult

// logMu protects concurrent access to logResult and Logger.
//
//nolint:gochecknoglobals // Guards the global logger state
var logMu sync.RWMutex

// InitLogger rebuilds the global Logger from lc. When lc names a file that
// cannot be opened, logging falls back to stderr and the returned result
// says why.
func InitLogger(lc LoggingConfig) logging.LogPathResult {
	logMu.Lock()
	defer logMu.Unlock()

	closeLogFileLocked()

	logResult = logging.NewLoggerWithPath(lc.ToLoggingConfig())
	Logger = logResult.Logger
	return logResult
}

// SetLogLevel sets the global Logger's level. Unknown levels become info.
func SetLogLevel(level string) {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	Logger = Logger.Level(lvl)
}

// CloseLogFile closes the current log file, if any, and resets the Logger
// to stderr so later writes do not hit a closed file.
func CloseLogFile() {
	logMu.Lock()
	defer logMu.Unlock()
	closeLogFileLocked()
}

// closeLogFileLocked must be called with logMu held.
func closeLogFileLocked() {
	if !logResult.UsingFile {
		return
	}
	_ = logResult.Close()
	level := Logger.GetLevel()
	logResult = logging.LogPathResult{}
	Logger = logging.NewLogger(logging.Config{Format: logging.FormatConsole}, os.Stderr).Level(level)
}

// GetLogger returns the global logger instance.
func GetLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return Logger
}

//nolint:gochecknoinits // the package logger must exist before any configuration is loaded
func init() {
	Logger = logging.NewLogger(logging.Config{Level: "info", Format: logging.FormatConsole}, os.Stderr)
}

// ToLoggingConfig converts the configuration section to a logging.Config.
// A non-empty File selects file output; otherwise logs go to stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global configuration's logging section.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}
