// Package cmd implements the minilisp subcommands: run, fmt, repl and init.
package cmd

var (
	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file written by init.
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default bound on nested function calls.
	MaxDepthIdentifier = "maxDepth"

	// EngineIdentifier is the kong variable identifier containing the
	// comma-separated names of the evaluation engines.
	EngineIdentifier = "engines"
)
