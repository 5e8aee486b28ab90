// Package log configures structured logging (slog) for the harness.
package log

import (
	"io"
	"log/slog"
)

// Option configures the logger.
type Option func(*config)

type config struct {
	level     slog.Level
	addSource bool
	json      bool
}

func defaultConfig() config {
	return config{level: slog.LevelInfo}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) Option {
	return func(c *config) {
		c.addSource = enabled
	}
}

// WithJSON switches output from the human-readable text handler to JSON.
func WithJSON(enabled bool) Option {
	return func(c *config) {
		c.json = enabled
	}
}

// New creates a structured logger writing to w.
func New(w io.Writer, opts ...Option) *slog.Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	hopts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}
	if cfg.json {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// ParseLevel maps a configuration level string onto a slog level. Unknown
// strings fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
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
