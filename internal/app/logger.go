package app

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

// AtomicLogger is a *slog.Logger whose level and format can change at
// runtime. Level changes apply to every logger derived from it; format
// changes apply to loggers fetched with Get afterwards.
type AtomicLogger struct {
	out   io.Writer
	level *slog.LevelVar

	mu     sync.RWMutex
	format string
	logger *slog.Logger
}

// NewAtomicLogger creates a logger writing to out.
func NewAtomicLogger(out io.Writer, level, format string) *AtomicLogger {
	l := &AtomicLogger{
		out:   out,
		level: new(slog.LevelVar),
	}
	l.level.Set(parseLevel(level))
	l.setFormat(format)
	return l
}

// Get returns the current logger.
func (l *AtomicLogger) Get() *slog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

// Update applies a new level and format.
func (l *AtomicLogger) Update(level, format string) {
	l.level.Set(parseLevel(level))

	l.mu.RLock()
	same := l.format == normalizeFormat(format)
	l.mu.RUnlock()
	if !same {
		l.setFormat(format)
	}
}

// Level returns the active level.
func (l *AtomicLogger) Level() slog.Level {
	return l.level.Level()
}

func (l *AtomicLogger) setFormat(format string) {
	format = normalizeFormat(format)
	opts := &slog.HandlerOptions{Level: l.level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(l.out, opts)
	} else {
		handler = slog.NewTextHandler(l.out, opts)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
	l.logger = slog.New(handler)
}

func normalizeFormat(format string) string {
	if strings.ToLower(format) == "text" {
		return "text"
	}
	return "json"
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// slogAdapter adapts the atomic logger to the domain Logger interface. It
// resolves the logger on every call so format changes reach use cases too.
type slogAdapter struct {
	logger *AtomicLogger
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Get().Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Get().Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...any) {
	a.logger.Get().Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Get().Error(msg, keysAndValues...)
}
