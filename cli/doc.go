// Package cli contains the command line interface for pconf.
//
// # Usage
//
//	pconf [flags] <command> [args]
//
// Commands read the files named on the command line, or the files given
// with --source, or standard input:
//
//	pconf check app.conf
//	pconf fmt json app.conf
//	pconf get server port -f app.conf
//	pconf eval 'server.port + "/tcp"' -f app.conf
//	cat app.conf | pconf browse
//
// # Imports
//
// By default a file resolves export("...") lines against its own directory
// and standard input resolves them against the working directory. Each
// --root flag, followed by each directory listed in the PCONF_PATH
// environment variable, replaces that with a shared search path where the
// first directory holding a file wins.
//
// # Configuration Files
//
// Flag defaults are read from the user configuration directory, in order:
// config.json, config.toml (the [config] table), and config, a pconf file
// whose "config" block holds flag values. The init command writes the
// current flag values to the latter.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Style log output for terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o pconf .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
