// Package cli contains the command line interface for minilisp.
//
// # Usage
//
//	minilisp [flags] [run] [source ...]
//	minilisp fmt {native,json,yaml,ast,tokens} [source]
//	minilisp repl [source ...]
//	minilisp init [--force]
//
// Running without a command executes the named sources, or standard input
// when none are given. Relative source names are looked up in the working
// directory, then in each --include directory, then in each directory of
// $MINILISP_PATH.
//
// # Configuration
//
// Flag defaults are read from $XDG_CONFIG_HOME/minilisp/config.yaml, a YAML
// mapping of flag names to values. The init command writes the current
// values of all flags to that file. Command-line flags take precedence.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o minilisp .
//
//   - --pprof-mode: Enable profiling (cpu, heap, allocs, mutex, etc.)
//   - --pprof-dir: Set profile output directory
//
// # Examples
//
//	# Run a program with the bytecode engine
//	minilisp run -e vm fib.lsp
//
//	# Debug logging with CPU profiling
//	minilisp --log-level=debug --pprof-mode=cpu fib.lsp
//
//	# Dump the syntax tree of standard input as YAML
//	echo '(print-num (+ 1 2))' | minilisp fmt yaml
package cli
