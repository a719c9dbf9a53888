package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/Trimetilamin/Temperature-monitor/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger builds the service logger from LOG_LEVEL and LOG_FORMAT. It writes
// to stdout and is installed as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// NewConsoleLogger builds a logger with the same level and format as
// NewLogger but writing to w. One-shot commands print their report on stdout,
// so their logs go elsewhere.
func NewConsoleLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: enabledLevel(NewLogger(cfg).Handler())}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// enabledLevel returns the lowest standard level h lets through.
func enabledLevel(h slog.Handler) slog.Level {
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if h.Enabled(context.Background(), lvl) {
			return lvl
		}
	}
	return slog.LevelError
}
