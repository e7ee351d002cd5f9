package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

const testConfig = `
log_level: debug
pretty: true
max-steps: 7
timeout: 1.5
sub:
  max-steps: 9
  path: [a, b]
  nested:
    ignored: true
`

type resolverCLI struct {
	LogLevel string  `default:"warn"`
	Pretty   bool    `negatable:""`
	Timeout  float64 `default:"0"`

	Sub struct {
		MaxSteps int      `default:"0"`
		Path     []string `sep:","`
		Nested   string
	} `cmd:""`

	Other struct {
		MaxSteps int `default:"0"`
	} `cmd:""`
}

func parseWithConfig(t *testing.T, config string, args ...string) resolverCLI {
	t.Helper()

	r, err := resolve(strings.NewReader(config))
	if err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli, kong.Resolvers(r), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatal(err)
	}

	return cli
}

func TestResolve(t *testing.T) {
	t.Run("command_section", func(t *testing.T) {
		cli := parseWithConfig(t, testConfig, "sub")

		if cli.LogLevel != "debug" {
			t.Errorf("got log-level %q want %q", cli.LogLevel, "debug")
		}

		if !cli.Pretty {
			t.Error("got pretty false want true")
		}

		if cli.Timeout != 1.5 {
			t.Errorf("got timeout %v want 1.5", cli.Timeout)
		}

		if cli.Sub.MaxSteps != 9 {
			t.Errorf("got max-steps %d want 9", cli.Sub.MaxSteps)
		}

		if !slices.Equal(cli.Sub.Path, []string{"a", "b"}) {
			t.Errorf("got path %q want [a b]", cli.Sub.Path)
		}

		if cli.Sub.Nested != "" {
			t.Errorf("got nested %q want mapping ignored", cli.Sub.Nested)
		}
	})

	t.Run("top_level_default", func(t *testing.T) {
		cli := parseWithConfig(t, testConfig, "other")

		if cli.Other.MaxSteps != 7 {
			t.Errorf("got max-steps %d want 7", cli.Other.MaxSteps)
		}
	})

	t.Run("flags_override", func(t *testing.T) {
		cli := parseWithConfig(t, testConfig, "--no-pretty", "sub", "--max-steps=3")

		if cli.Pretty {
			t.Error("got pretty true want false")
		}

		if cli.Sub.MaxSteps != 3 {
			t.Errorf("got max-steps %d want 3", cli.Sub.MaxSteps)
		}
	})

	t.Run("invalid_yaml_ignored", func(t *testing.T) {
		cli := parseWithConfig(t, "log_level: [unclosed", "sub")

		if cli.LogLevel != "warn" {
			t.Errorf("got log-level %q want default %q", cli.LogLevel, "warn")
		}
	})

	t.Run("empty", func(t *testing.T) {
		cli := parseWithConfig(t, "", "sub")

		if cli.Sub.MaxSteps != 0 {
			t.Errorf("got max-steps %d want 0", cli.Sub.MaxSteps)
		}
	})
}

func TestScalar(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{uint64(42), "42"},
		{int64(-3), "-3"},
		{2.50, "2.5"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := scalar(tt.in); got != tt.want {
			t.Errorf("scalar(%#v): got %q want %q", tt.in, got, tt.want)
		}
	}
}
