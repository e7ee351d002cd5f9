// Package cmd implements the subcommands of the arsla command line:
// run, check, fmt, shell, docs and init.
//
// Commands write to the streams stored in their context by [WithStdio],
// which default to the process's standard streams.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file written by init.
	ConfigIdentifier = "config"

	// MaxStepsIdentifier is the kong variable identifier containing the
	// default step limit of run and check.
	MaxStepsIdentifier = "maxSteps"

	// PathEnvIdentifier is the kong variable identifier naming the
	// environment variable that lists program directories.
	PathEnvIdentifier = "pathEnv"
)
