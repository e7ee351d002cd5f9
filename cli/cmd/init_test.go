package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{"create_new_config", []string{"init"}, nil, nil},
		{
			"overwrite_existing_with_force",
			[]string{"init", "--force"},
			func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			nil,
		},
		{
			"fail_without_force",
			[]string{"init"},
			func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			confPath := filepath.Join(dir, "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			out, err := executeIn(t, dir, "", tt.args...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if strings.TrimSpace(out) != confPath {
				t.Errorf("got %q want %q", out, confPath)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var doc map[string]any
			if err := yaml.Unmarshal(data, &doc); err != nil {
				t.Fatalf("generated config is not YAML: %v", err)
			}

			if _, ok := doc["init"]; ok {
				t.Error("config has flags of the init command")
			}

			run, ok := doc["run"].(map[string]any)
			if !ok {
				t.Fatalf("config has no run section: %s", data)
			}

			if got := fmt.Sprint(run["format"]); got != "text" {
				t.Errorf("got run.format %q want %q", got, "text")
			}

			if got := fmt.Sprint(run["max-steps"]); got != "100000" {
				t.Errorf("got run.max-steps %q want %q", got, "100000")
			}
		})
	}
}

func TestInitWithoutPath(t *testing.T) {
	var cli struct{}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	err = (&Init{}).Run(WithContext(context.Background(), ktx))
	if !errors.Is(err, ErrNoConfigPath) {
		t.Errorf("got %v want %v", err, ErrNoConfigPath)
	}
}

func TestInitWithInvalidPath(t *testing.T) {
	var cli struct{}

	parser, err := kong.New(&cli, kong.Vars{
		ConfigIdentifier: filepath.Join(t.TempDir(), "missing", "config.yaml"),
	})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	err = (&Init{}).Run(WithContext(context.Background(), ktx))
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("got %v want %v", err, ErrWriteConfig)
	}
}

func TestConfigValue(t *testing.T) {
	type named string

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"duration", 1500 * time.Millisecond, "1.5s"},
		{"string", "text", "text"},
		{"empty_string", "", nil},
		{"named_string", named("warn"), "warn"},
		{"int", 42, int64(42)},
		{"uint", uint8(7), uint64(7)},
		{"float", 2.5, 2.5},
		{"slice", []string{"a", "b"}, []any{"a", "b"}},
		{"empty_slice", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := configValue(tt.in)
			if fmt.Sprintf("%#v", got) != fmt.Sprintf("%#v", tt.want) {
				t.Errorf("got %#v want %#v", got, tt.want)
			}
		})
	}
}
