package scip

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with solver-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithNode adds a node number field to the logger.
func (l *Logger) WithNode(number uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("node", number),
	}
}

// WithSelector adds the active node selector name to the logger.
func (l *Logger) WithSelector(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("selector", name),
	}
}

// LogIncumbent logs a new incumbent solution and the nodes it cut off.
func (l *Logger) LogIncumbent(ctx context.Context, value float64, cutoff int) {
	l.InfoContext(ctx, "new incumbent",
		"value", value,
		"cutoff", cutoff,
	)
}

// LogResort logs a node selector switch.
func (l *Logger) LogResort(ctx context.Context, selector string, open int) {
	l.InfoContext(ctx, "frontier resorted",
		"selector", selector,
		"open", open,
	)
}

// LogProgress logs the current state of the search.
func (l *Logger) LogProgress(ctx context.Context, processed uint64, open int, dualBound, upperBound float64) {
	l.InfoContext(ctx, "search progress",
		"processed", processed,
		"open", open,
		"dual_bound", dualBound,
		"upper_bound", upperBound,
	)
}

// LogCheckpoint logs a checkpoint save.
func (l *Logger) LogCheckpoint(ctx context.Context, name string, open int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "checkpoint failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "checkpoint saved",
			"name", name,
			"open", open,
			"duration", duration,
		)
	}
}

// LogRestore logs a checkpoint restore.
func (l *Logger) LogRestore(ctx context.Context, seq uint64, open int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "restored from checkpoint",
			"sequence", seq,
			"open", open,
		)
	}
}
