// Package log configures the process-wide structured logger.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// serviceName tags every line so weave logs are attributable when several
// services share a log stream.
const serviceName = "weave"

// Setup installs the default logger at the given level. The level is matched
// case-insensitively; unknown values fall back to info. Setting LOG_FORMAT=json
// switches from the human-readable text handler to JSON lines.
func Setup(logLevel string) {
	var level slog.Level

	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler).With("service", serviceName))
}

// WithModule returns the default logger tagged with the originating module.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
