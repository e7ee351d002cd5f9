package log_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/arsla/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelInfo),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("program loaded", slog.String("name", "fizz.golf"))
	// Output:
	// level=INFO msg="program loaded" name=fizz.golf
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))
	logger.Error("error message", slog.Any("error", errors.New("stack underflow")))
	// Output:
	// level=WARN msg="warning message" key=value
	// level=ERROR msg="error message" error="stack underflow"
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("none"),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))

	ctx := context.Background()
	if logger.Enabled(ctx, log.LevelTrace) {
		logger.TraceContext(ctx, "step", slog.String("command", "D"))
	}
	// Output:
	// {"level":"TRACE","msg":"step","command":"D"}
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelInfo),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger = logger.With(slog.String("session", "repl"))
	logger.Info("line evaluated", slog.Int("depth", 3))
	// Output:
	// level=INFO msg="line evaluated" session=repl depth=3
}
