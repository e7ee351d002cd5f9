package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/arsla/lang"
	"github.com/ardnew/arsla/log"
	"github.com/ardnew/arsla/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or def if there is no kong
// context or the variable is undefined.
func kongVar(ctx context.Context, id, def string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return def
	}

	if v, ok := ktx.Model.Vars()[id]; ok {
		return v
	}

	return def
}

// Stdio holds the streams used by a command.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type stdioKey struct{}

// WithStdio returns a new context.Context whose commands read from in and
// write to out and errOut. Nil streams fall back to the process's own.
func WithStdio(
	ctx context.Context,
	in io.Reader,
	out, errOut io.Writer,
) context.Context {
	return context.WithValue(ctx, stdioKey{}, Stdio{In: in, Out: out, Err: errOut})
}

func stdioFrom(ctx context.Context) Stdio {
	s, _ := ctx.Value(stdioKey{}).(Stdio)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is program text together with a label naming where it came from.
type source struct {
	label string
	text  string
}

// openSource opens the program named by name. name is "-" for stdin, a path,
// or a name resolved against the search path built from dirs.
func openSource(
	ctx context.Context,
	name string,
	dirs []string,
) (io.ReadCloser, string, error) {
	if name == "" {
		return nil, "", ErrNoProgram
	}

	if name == stdinSource {
		return io.NopCloser(stdioFrom(ctx).In), "stdin", nil
	}

	path, err := pkg.FindProgram(name, pkg.SearchPath(dirs...))
	if err != nil {
		return nil, "", ErrReadProgram.
			With(slog.String("program", name)).
			Wrap(err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", ErrReadProgram.
			With(slog.String("program", path)).
			Wrap(err)
	}

	return file, path, nil
}

// loadProgram reads and parses the program named by name (see [openSource]).
// The returned source holds whatever text was read, even on error.
func loadProgram(
	ctx context.Context,
	name string,
	dirs []string,
	opts ...lang.Option,
) (lang.Program, source, error) {
	r, label, err := openSource(ctx, name, dirs)
	if err != nil {
		return nil, source{}, err
	}
	defer r.Close()

	var text strings.Builder

	prog, err := lang.ParseReader(ctx, io.TeeReader(r, &text), opts...)
	src := source{label: label, text: text.String()}

	if err != nil {
		if errors.Is(err, lang.ErrReadInput) {
			if label == "stdin" {
				err = pkg.ErrReadStdin.Wrap(err)
			}

			return nil, src, ErrReadProgram.
				With(slog.String("program", label)).
				Wrap(err)
		}

		return nil, src, ErrProgram.
			With(slog.String("program", label)).
			WithSource(src.text).
			Wrap(err)
	}

	log.DebugContext(ctx, "program loaded",
		slog.String("name", name),
		slog.String("path", label),
		slog.Int("bytes", text.Len()),
		slog.Int("nodes", len(prog)),
	)

	return prog, src, nil
}

// evalProgram parses inline source given with --eval.
func evalProgram(
	ctx context.Context,
	code string,
	opts ...lang.Option,
) (lang.Program, source, error) {
	src := source{label: "eval", text: code}

	prog, err := lang.ParseString(ctx, code, opts...)
	if err != nil {
		return nil, src, ErrProgram.
			With(slog.String("program", src.label)).
			WithSource(code).
			Wrap(err)
	}

	return prog, src, nil
}

// parseInputs parses each of args as stack literals, in order.
func parseInputs(ctx context.Context, args []string) ([]lang.Value, error) {
	var values []lang.Value

	for _, arg := range args {
		vs, err := lang.ParseInput(ctx, arg)
		if err != nil {
			return nil, ErrInput.
				With(slog.String("input", arg)).
				WithSource(arg).
				Wrap(err)
		}

		values = append(values, vs...)
	}

	return values, nil
}

// langOptions returns the interpreter options shared by all commands.
func langOptions(ctx context.Context, out io.Writer) []lang.Option {
	opts := []lang.Option{lang.WithOutput(out)}

	if logger := log.Default(); logger.Enabled(ctx, log.LevelTrace) {
		opts = append(opts, lang.WithLogger(logger))
	}

	return opts
}
