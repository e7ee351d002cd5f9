package cmd

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ardnew/arsla/lang"
	"github.com/ardnew/arsla/log"
	"github.com/ardnew/arsla/pkg"
)

// Stack output formats for --show-stack.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Exec runs a program.
type Exec struct {
	Eval       string        `help:"Run CODE instead of a program file; PROGRAM becomes the first input." placeholder:"CODE"  short:"e"`
	Stdin      bool          `help:"Parse stdin as input pushed after the INPUT arguments."`
	ShowStack  bool          `help:"Print the whole final stack after the program completes."              short:"s"`
	Format     string        `help:"Format of --show-stack output (${enum})."                                default:"text" enum:"text,json,yaml"`
	Indent     int           `help:"Indent width for json and yaml stack output; 0 is compact."              default:"0"`
	MaxSteps   int           `help:"Stop after N execution steps; 0 is unlimited."                           default:"${maxSteps}" placeholder:"N"`
	Timeout    time.Duration `help:"Stop the program after this long; 0 is unlimited."                       default:"0"`
	NoImplicit bool          `help:"Do not print the top of the stack when the program ends."`
	Path       []string      `help:"Directories searched for PROGRAM before ${pathEnv}."                        placeholder:"DIR" sep:","`

	Program string   `arg:"" help:"Program file, '-' for stdin, or a name on the search path." name:"program" optional:""`
	Input   []string `arg:"" help:"Stack literals pushed, in order, before the program runs."   name:"input"   optional:""`
}

// Run executes the run command.
func (x *Exec) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if x.Timeout > 0 {
		var stop context.CancelFunc

		ctx, stop = context.WithTimeoutCause(
			ctx,
			x.Timeout,
			lang.ErrExecutionLimit.With(slog.Duration("timeout", x.Timeout)),
		)
		defer stop()
	}

	std := stdioFrom(ctx)

	opts := append(
		langOptions(ctx, std.Out),
		lang.WithStepLimit(x.MaxSteps),
		lang.WithImplicitOutput(!x.NoImplicit),
	)

	prog, src, err := x.load(ctx, opts...)
	if err != nil {
		return err
	}

	initial, err := x.inputs(ctx, std.In)
	if err != nil {
		return err
	}

	m := lang.NewMachine(opts...)
	m.Push(initial...)

	start := time.Now()

	err = m.Run(ctx, prog)
	if err == nil {
		err = m.Flush()
	}

	log.DebugContext(ctx, "program finished",
		slog.String("program", src.label),
		slog.Int("steps", m.Steps()),
		slog.Int("depth", m.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)

	if err != nil {
		return ErrProgram.
			With(slog.String("program", src.label)).
			WithSource(src.text).
			Wrap(err)
	}

	if x.ShowStack {
		return x.showStack(ctx, std.Out, m.Stack())
	}

	return nil
}

func (x *Exec) load(
	ctx context.Context,
	opts ...lang.Option,
) (lang.Program, source, error) {
	if x.Eval != "" {
		return evalProgram(ctx, x.Eval, opts...)
	}

	if x.Program == stdinSource && x.Stdin {
		return nil, source{}, ErrInput.
			With(slog.String("program", stdinSource)).
			Wrap(ErrStdinTwice)
	}

	return loadProgram(ctx, x.Program, x.Path, opts...)
}

// inputs parses the INPUT arguments and, with --stdin, the whole of in.
func (x *Exec) inputs(ctx context.Context, in io.Reader) ([]lang.Value, error) {
	args := x.Input
	if x.Eval != "" && x.Program != "" {
		args = append([]string{x.Program}, args...)
	}

	values, err := parseInputs(ctx, args)
	if err != nil {
		return nil, err
	}

	if !x.Stdin {
		return values, nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, ErrInput.Wrap(pkg.ErrReadStdin.Wrap(err))
	}

	more, err := parseInputs(ctx, []string{string(data)})
	if err != nil {
		return nil, err
	}

	return append(values, more...), nil
}

func (x *Exec) showStack(ctx context.Context, w io.Writer, stack []lang.Value) error {
	var err error

	switch x.Format {
	case formatJSON:
		if err = lang.FormatStackJSON(w, stack, x.Indent); err != nil {
			err = ErrJSONMarshal.Wrap(err)
		}

	case formatYAML:
		if err = lang.FormatStackYAML(ctx, w, stack, x.Indent); err != nil {
			err = ErrYAMLMarshal.Wrap(err)
		}

	default:
		_, err = io.WriteString(w, lang.Stack(stack).String()+"\n")
	}

	if err != nil {
		return ErrFormat.With(slog.String("format", x.Format)).Wrap(err)
	}

	return nil
}
