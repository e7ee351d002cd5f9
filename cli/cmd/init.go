package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/arsla/log"
	"github.com/ardnew/arsla/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath := kongVar(ctx, ConfigIdentifier, "")
	if ktx == nil || confPath == "" {
		return ErrWriteConfig.Wrap(ErrNoConfigPath)
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(
		ctx,
		buildConfig(ktx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrYAMLMarshal.Wrap(err))
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("bytes", len(data)),
	)

	_, _ = fmt.Fprintln(stdioFrom(ctx).Out, confPath)

	return nil
}

// buildConfig collects the current value of every configurable flag. Flags
// of the application are top-level keys; flags of a command are nested under
// the command's name.
func buildConfig(ktx *kong.Context) yaml.MapSlice {
	doc := flagItems(ktx, ktx.Model.Flags)

	var walk func(nodes []*kong.Node)

	walk = func(nodes []*kong.Node) {
		for _, node := range nodes {
			if node.Hidden || node.Name == "init" {
				continue
			}

			if items := flagItems(ktx, node.Flags); len(items) > 0 {
				doc = append(doc, yaml.MapItem{Key: node.Name, Value: items})
			}

			walk(node.Children)
		}
	}

	walk(ktx.Model.Children)

	return doc
}

// ignoreFlag lists name prefixes of flags never written to the config file.
var ignoreFlag = []string{"help", "version", profile.Tag}

func flagItems(ktx *kong.Context, flags []*kong.Flag) yaml.MapSlice {
	var items yaml.MapSlice

	for _, flag := range flags {
		if flag.Hidden || slices.ContainsFunc(ignoreFlag, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)
		if val == nil && flag.HasDefault {
			val = flag.Default
		}

		if v := configValue(val); v != nil {
			items = append(items, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return items
}

// configValue converts a flag value to a form the configuration resolver
// reads back, or nil if the flag is unset.
func configValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case time.Duration:
		return v.String()

	case bool:
		return v
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return nil
		}

		return rv.String()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()

	case reflect.Float32, reflect.Float64:
		return rv.Float()

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		items := make([]any, rv.Len())
		for i := range rv.Len() {
			items[i] = configValue(rv.Index(i).Interface())
		}

		return items

	default:
		return fmt.Sprint(val)
	}
}
