// Package cli contains the command line interface for arsla.
//
// # Usage
//
//	arsla [run] PROGRAM [INPUT...]   run a program file, '-' or a library name
//	arsla -e CODE [INPUT...]         run inline source
//	arsla check SUITE.yaml...        run test suites
//	arsla fmt [native|tokens|ast|json|yaml] [SOURCE]
//	arsla shell [INPUT...]           interactive shell
//	arsla docs [QUERY...]            describe builtins
//	arsla init                       write the configuration file
//
// # Configuration Loader
//
// Flags are read from $XDG_CONFIG_HOME/arsla/config.yaml (see [resolve])
// and config.json in the same directory. Command-line flags take precedence.
// The init command writes config.yaml populated with the current values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// At trace level the interpreter logs every node it executes.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o arsla .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/arsla/pprof)
//
// # Examples
//
//	# Trace a program
//	arsla --log-level=trace -e '5 [D 1 -] [D] W'
//
//	# CPU profile of a long loop
//	arsla --pprof-mode=cpu -e '0 [D 1000000 <] [1 +] W'
package cli
