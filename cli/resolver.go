package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/arsla/log"
)

// resolve is a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Top-level keys set flags of the application and defaults for commands.
// A top-level mapping named after a command sets that command's flags and
// takes precedence. Flag names with hyphens (e.g., "log-level") may use
// underscores instead (e.g., "log_level").
//
// Example config file:
//
//	log-level: debug
//	log_pretty: false
//	run:
//	  max-steps: 100000
//	  format: json
//	native:
//	  indent: 1
//
// Command-line flags override config file values. A file that is not valid
// YAML is ignored with a warning.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Warn("ignoring invalid configuration file", slog.Any("error", err))

		return config{}, nil
	}

	return config(doc), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil {
		if node := parent.Node(); node != nil && node.Type == kong.CommandNode {
			if section, ok := r[node.Name].(map[string]any); ok {
				if value, ok := lookup(section, flag.Name); ok {
					return value, nil
				}
			}
		}
	}

	if value, ok := lookup(r, flag.Name); ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// lookup finds name, or its underscore form, in m and converts the value to
// one Kong can decode. Mappings are never flag values.
func lookup(m map[string]any, name string) (any, bool) {
	value, ok := m[name]
	if !ok {
		value, ok = m[strings.ReplaceAll(name, "-", "_")]
	}

	if !ok || value == nil {
		return nil, false
	}

	switch v := value.(type) {
	case map[string]any:
		return nil, false

	case bool:
		return v, true

	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = scalar(item)
		}

		return strings.Join(items, ","), true

	default:
		return scalar(v), true
	}
}

// scalar formats v the way it would be written on the command line.
// Kong requires numbers as strings for parsing.
func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
