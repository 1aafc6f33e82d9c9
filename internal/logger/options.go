package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogbetterstack "github.com/samber/slog-betterstack"
)

// Options configures the full logging pipeline.
type Options struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string

	// Writer receives local JSON logs. Defaults to os.Stdout.
	Writer io.Writer

	// BetterStackToken enables remote log shipping when non-empty.
	BetterStackToken string

	// BetterStackEndpoint overrides the Better Stack ingesting endpoint.
	BetterStackEndpoint string
}

// NewWithOptions creates a logger with the full pipeline:
// context extraction -> fan-out -> local JSON + optional async Better Stack shipping.
// The returned shutdown function flushes pending remote logs; it is a no-op
// when shipping is disabled.
func NewWithOptions(opts Options) (*Logger, func(context.Context) error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	level := parseLevel(opts.Level)
	local := slog.NewJSONHandler(w, jsonHandlerOptions(level))

	shutdown := func(context.Context) error { return nil }
	handlers := []slog.Handler{local}

	if opts.BetterStackToken != "" {
		remote := slogbetterstack.Option{
			Level:    level,
			Token:    opts.BetterStackToken,
			Endpoint: opts.BetterStackEndpoint,
			Timeout:  10 * time.Second,
		}.NewBetterstackHandler()

		// Remote shipping must not block request paths.
		async := NewAsyncHandler(remote, AsyncOptions{})
		shutdown = async.Shutdown
		handlers = append(handlers, async)
	}

	handler := NewContextHandler(NewMultiHandler(handlers...))
	return &Logger{Logger: slog.New(handler)}, shutdown
}

func parseLevel(level string) slog.Level {
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

func jsonHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			if a.Key == slog.LevelKey {
				a.Key = "level"
				lv := a.Value.String()
				if lv == "WARN" {
					lv = "warning"
				} else {
					lv = strings.ToLower(lv)
				}
				a.Value = slog.StringValue(lv)
			}
			if a.Key == slog.MessageKey {
				a.Key = "message"
			}
			return a
		},
	}
}
