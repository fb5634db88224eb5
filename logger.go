package vecops

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with vecops-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithISA adds the active instruction set to the logger.
func (l *Logger) WithISA(isa string) *Logger {
	return &Logger{
		Logger: l.Logger.With("isa", isa),
	}
}

// WithWidth adds a preferred width field (in bits) to the logger.
func (l *Logger) WithWidth(width int) *Logger {
	return &Logger{
		Logger: l.Logger.With("width", width),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogKernelSelection logs which kernels the capability probe bound.
func (l *Logger) LogKernelSelection(ctx context.Context, info RuntimeInfo) {
	l.InfoContext(ctx, "kernels selected",
		"isa", info.ISA,
		"overridden", info.Overridden,
		"preferred_width", info.PreferredWidth,
		"wide_kernel", info.WideKernel,
	)
}

// LogBenchmark logs the outcome of one benchmark run.
func (l *Logger) LogBenchmark(ctx context.Context, name string, calls int64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "benchmark failed",
			"name", name,
			"calls", calls,
			"error", err,
		)
		return
	}

	var nsPerCall int64
	if calls > 0 {
		nsPerCall = elapsed.Nanoseconds() / calls
	}
	l.InfoContext(ctx, "benchmark completed",
		"name", name,
		"calls", calls,
		"elapsed", elapsed,
		"ns_per_call", nsPerCall,
	)
}
