// Package observability provides structured logging and telemetry setup.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	tlog "go.temporal.io/sdk/log"
)

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger configures the global slog logger with JSON output at the given level.
func InitLogger(level string) *slog.Logger {
	return InitLoggerTo(os.Stdout, level)
}

// InitLoggerTo is InitLogger writing to w. CLIs log to stderr so stdout stays
// free for reports.
func InitLoggerTo(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(logger)
	return logger
}

// TemporalSlogAdapter adapts slog.Logger to Temporal's log.Logger interface.
type TemporalSlogAdapter struct {
	logger *slog.Logger
}

// NewTemporalSlogAdapter creates a Temporal log adapter from a slog.Logger.
func NewTemporalSlogAdapter(logger *slog.Logger) *TemporalSlogAdapter {
	return &TemporalSlogAdapter{logger: logger}
}

func (a *TemporalSlogAdapter) Debug(msg string, keyvals ...any) {
	a.logger.Debug(msg, keyvals...)
}

func (a *TemporalSlogAdapter) Info(msg string, keyvals ...any) {
	a.logger.Info(msg, keyvals...)
}

func (a *TemporalSlogAdapter) Warn(msg string, keyvals ...any) {
	a.logger.Warn(msg, keyvals...)
}

func (a *TemporalSlogAdapter) Error(msg string, keyvals ...any) {
	a.logger.Error(msg, keyvals...)
}

// Compile-time check.
var _ tlog.Logger = (*TemporalSlogAdapter)(nil)
