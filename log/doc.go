// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Configuration is applied at logger creation time using functional options.
// The zero [Logger] is valid and discards everything, which lets library
// types carry a Logger field that callers may leave unset.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("loader started", slog.String("root", dir))
//	logger.Warn("ignoring unrecognized line", slog.Int("line", 3))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger from an existing configuration with more
// options applied on top. [Config] does the same for the package-level
// logger returned by [Default].
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Level names are written in upper case,
// including TRACE, which [log/slog] would otherwise print as DEBUG-4.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. With [WithPretty] enabled, text records are styled on a
// single line and JSON records are indented over multiple lines. Styling
// is dropped automatically when the output is not a color terminal.
//
// # Time Formatting
//
// [WithTimeLayout] accepts any named layout from [TimeLayouts] or a custom
// layout string. The layout "none" omits timestamps entirely.
package log
