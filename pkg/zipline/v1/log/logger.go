// Package log defines the public logging interface used across zipline packages.
package log

import (
	"context"
	"log/slog"
)

// Logger defines the public interface for logging operations within zipline.
// It mirrors common logging patterns found in libraries like slog, so that
// consumers of this module can plug in their own implementation.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// Log logs a message at the specified slog.Level with additional key-value attributes.
	Log(level slog.Level, msg string, args ...interface{})
	// LogCtx logs a message at the specified slog.Level, including trace/span
	// information from ctx when the implementation supports it.
	LogCtx(ctx context.Context, level slog.Level, msg string, args ...interface{})

	// With returns a new Logger with the given attributes attached to every
	// subsequent entry.
	With(args ...interface{}) Logger
	// IsEnabled reports whether logging is active at the given level.
	IsEnabled(level slog.Level) bool
}
