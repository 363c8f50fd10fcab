package npy

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger for the package's diagnostics. The only
// messages the codec emits are best-effort warnings, such as a stream
// discarded before its declared element count was written.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil,
// a text handler to stderr is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// defaultLogger receives diagnostics from streams built without
// WithLogger.
var defaultLogger = NewLogger(nil)
