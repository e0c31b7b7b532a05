package pbcgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pbcgo-specific context.
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

// LogBuild logs a SetCoordinates operation.
func (l *Logger) LogBuild(points int, err error) {
	if err != nil {
		l.Error("build failed",
			"points", points,
			"error", err,
		)
	} else {
		l.Debug("build completed",
			"points", points,
		)
	}
}

// LogSearch logs a radius search operation.
func (l *Logger) LogSearch(radius float64, images, resultsFound int, err error) {
	if err != nil {
		l.Error("search failed",
			"radius", radius,
			"error", err,
		)
	} else {
		l.Debug("search completed",
			"radius", radius,
			"images", images,
			"results", resultsFound,
		)
	}
}

// LogRadiusClamp logs that a requested radius exceeded half the smallest
// periodic box length and was clamped to keep minimum-image results
// unambiguous.
func (l *Logger) LogRadiusClamp(requested, clamped float64) {
	l.Warn("radius clamped to half the smallest periodic box length",
		"requested", requested,
		"clamped", clamped,
	)
}

// LogSnapshotSave logs a snapshot save operation.
func (l *Logger) LogSnapshotSave(points int, err error) {
	if err != nil {
		l.Error("snapshot save failed",
			"points", points,
			"error", err,
		)
	} else {
		l.Info("snapshot saved",
			"points", points,
		)
	}
}

// LogSnapshotLoad logs a snapshot load operation.
func (l *Logger) LogSnapshotLoad(points int, err error) {
	if err != nil {
		l.Error("snapshot load failed",
			"error", err,
		)
	} else {
		l.Info("snapshot loaded",
			"points", points,
		)
	}
}
