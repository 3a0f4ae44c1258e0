package logger

import (
	"io"
	"log/slog"
	"os"
)

type config struct {
	output io.Writer
	level  slog.Leveler
	json   bool
	attrs  []slog.Attr
}

// LoggerOption configures the logger produced by New.
type LoggerOption func(*config)

// WithLevel sets the minimum level the logger records.
func WithLevel(level slog.Leveler) LoggerOption {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput redirects log output. Defaults to stdout.
func WithOutput(w io.Writer) LoggerOption {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithJSONFormatter switches output to JSON, the format used in deployment.
func WithJSONFormatter() LoggerOption {
	return func(c *config) {
		c.json = true
	}
}

// WithAttr attaches attributes to every record, e.g. the service name.
func WithAttr(attrs ...slog.Attr) LoggerOption {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// New creates a slog.Logger. Without options it logs text at info level to
// stdout, which suits local development.
func New(opts ...LoggerOption) *slog.Logger {
	cfg := config{
		output: os.Stdout,
		level:  slog.LevelInfo,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	}

	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}

	return slog.New(handler)
}
