package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// EnvLevel overrides the configured log level when set.
const EnvLevel = "BEETAG_LOG"

// ParseLevel maps a level name to a slog.Level. Unknown names fall back to
// info and report ok=false.
func ParseLevel(s string) (l slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return slog.LevelDebug, true
	case "info", "inf":
		return slog.LevelInfo, true
	case "warn", "wrn":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// InitLogger installs a text slog handler appending to the file at path as
// the default logger. BEETAG_LOG takes precedence over level. The returned
// closer releases the log file.
func InitLogger(path, level string) (io.Closer, error) {
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}
	loglevel, ok := ParseLevel(level)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: loglevel})
	slog.SetDefault(slog.New(handler))

	if !ok {
		slog.Warn("Unknown log level, using info", "level", level)
	}
	return logFile, nil
}
