//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the arsla module embedded at build time.
// It is printed by the CLI for the --version flag.
//
//go:embed VERSION
var version string

// Version returns the trimmed contents of the embedded VERSION file.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, default config paths, and the prefix
	// of environment variables.
	Name = "arsla"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Stack-based golfing language interpreter"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// EnvVar returns the name of the environment variable that overrides the
// setting with the given suffix, e.g. EnvVar("path") is "ARSLA_PATH".
func EnvVar(suffix string) string {
	return strings.ToUpper(Name + "_" + suffix)
}
