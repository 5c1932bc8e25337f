package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Option configures the logger.
type Option func(*config)

type config struct {
	level  slog.Level
	output io.Writer
}

// WithLevel sets the minimum level from a LOG_LEVEL style string.
// Unknown values keep the default of info.
func WithLevel(level string) Option {
	return func(c *config) {
		c.level = ParseLevel(level)
	}
}

// WithOutput redirects log output. The CLI logs to stderr so stdout stays
// clean for credential output.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// New returns a structured JSON logger using slog.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo, output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	handler := slog.NewJSONHandler(c.output, &slog.HandlerOptions{
		Level: c.level,
	})
	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
