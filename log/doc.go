// Package log is a thin layer over [log/slog] used by the arsla command and
// by the interpreter's trace output.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Warn("program search path is empty")
//	logger.Error("cannot read program", slog.Any("error", err))
//
// # Configuration
//
// A [Logger] is configured once, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a new logger from an existing configuration, and
// [Config] does the same for the package-level logger returned by [Default].
//
// # Levels
//
// In addition to the four [slog] levels there is [LevelTrace], below
// [LevelDebug]. The interpreter logs every executed command at trace level,
// so code that builds attributes for trace messages should guard them with
// [Logger.Enabled].
//
// # Output Formats
//
// [FormatText] (the default) and [FormatJSON] are supported. With
// [WithPretty] enabled, both are rendered for a terminal: text without
// quoting and JSON with one field per line. Styling is dropped when the
// output is not a terminal.
//
// # Time Formatting
//
// [WithTimeLayout] accepts any layout understood by [time.Time.Format] or
// one of the named layouts of the [time] package, matched without regard to
// case or punctuation ("RFC3339", "rfc-3339", "Kitchen"). The layout "none"
// removes timestamps.
package log
