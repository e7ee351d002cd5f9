package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/arsla/cli/cmd"
	"github.com/ardnew/arsla/lang"
	"github.com/ardnew/arsla/pkg"
)

// CLI is the top-level command-line interface for arsla.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run   cmd.Exec  `cmd:"" default:"withargs" help:"Run a program (default)."`
	Check cmd.Check `cmd:""                    help:"Run YAML test suites of programs."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Print a program in another form."`
	Shell cmd.Shell `cmd:""                    help:"Start an interactive shell."`
	Docs  cmd.Docs  `cmd:""                    help:"Describe the builtin commands."`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file."`
}

// Run executes the arsla CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":              pkg.Version(),
		cmd.ConfigIdentifier:   configFilePath,
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.MaxStepsIdentifier: strconv.Itoa(lang.DefaultStepLimit),
		cmd.PathEnvIdentifier:  "$" + pkg.EnvVar("path"),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath("config.json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
