package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/pconf/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout)
	logger.Info("loader started", slog.String("root", "/etc/pconf"))
}

func Example_configuration() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelDebug),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.Debug("debug message with caller info")
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn))

	logger.Debug("block open")
	logger.Info("import merged")
	logger.Warn("ignoring unrecognized line", slog.Int("line", 3))
	logger.Error("parse failed", slog.String("error", "duplicate key"))
}

func Example_textFormat() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false))
	logger.Info("text format message", slog.String("file", "app.conf"))
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout)
	logger = logger.With(slog.String("source", "app.conf"))

	logger.Info("parsing")
	logger.Debug("block open", slog.String("key", "server"))
}

func Example_withContext() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.Make(os.Stdout, log.WithLevel(log.LevelTrace))

	logger.InfoContext(ctx, "parsing with context")
	logger.TraceContext(ctx, "cache lookup", slog.Bool("cache_hit", false))
}
