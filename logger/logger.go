// Package logger initializes the zerolog logger shared by the demo binary
// and anything else that wants process-wide structured logging.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Init initializes a stdout logger at the level named by the LOG_LEVEL
// environment variable (debug, info, warn, error, trace).
func Init() (zerolog.Logger, error) {
	return InitWithOptions(os.Getenv("LOG_LEVEL"), "", false)
}

// InitWithOptions initializes the logger with explicit options.
// If logFile is empty, logs go to stdout. If pretty is true, uses
// ConsoleWriter for human-readable output (only valid when logFile is empty).
func InitWithOptions(level, logFile string, pretty bool) (zerolog.Logger, error) {
	parsedLevel := parseLogLevel(level)

	var output io.Writer
	switch {
	case logFile != "":
		//nolint:gosec // G304: User-specified log file path is intentional
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		output = file
	case pretty:
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	default:
		output = os.Stdout
	}

	log := zerolog.New(output).
		Level(parsedLevel).
		With().
		Timestamp().
		Logger()

	return log, nil
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
