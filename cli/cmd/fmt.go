package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/arsla/lang"
)

// Fmt parses a program and writes it back in the chosen form.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical arsla source (default)."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the program."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
}

// fmtSource is the program argument shared by the fmt subcommands.
type fmtSource struct {
	Source string `arg:"" default:"-" help:"Program file or '-' for stdin." name:"source"`
}

func (s fmtSource) parse(ctx context.Context, format string) (lang.Program, error) {
	prog, _, err := loadProgram(ctx, s.Source, nil, langOptions(ctx, io.Discard)...)
	if err != nil {
		if e, ok := err.(*Error); ok {
			return nil, e.With(slog.String("format", format))
		}

		return nil, err
	}

	return prog, nil
}

// Native formats a program as canonical arsla source.
type Native struct {
	In fmtSource `embed:""`

	Indent int `default:"0" help:"Put each top-level node on its own line when > 0." short:"i"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := f.In.parse(ctx, "native")
	if err != nil {
		return err
	}

	if err := prog.Format(ctx, stdioFrom(ctx).Out, f.Indent); err != nil {
		return ErrFormat.With(slog.String("format", "native")).Wrap(err)
	}

	return nil
}

// Tokens lists the tokens of a program, one per line with its position.
type Tokens struct {
	In fmtSource `embed:""`
}

// Run executes the fmt tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	r, label, err := openSource(ctx, t.In.Source, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return ErrReadProgram.With(slog.String("program", label)).Wrap(err)
	}

	out := stdioFrom(ctx).Out

	for tok, err := range lang.NewLexer(string(data)).All() {
		if err != nil {
			return ErrProgram.
				With(slog.String("program", label), slog.String("format", "tokens")).
				WithSource(string(data)).
				Wrap(err)
		}

		if _, err := fmt.Fprintf(out, "%s\t%s\n", tok.Pos, tok); err != nil {
			return ErrFormat.With(slog.String("format", "tokens")).Wrap(err)
		}
	}

	return nil
}

// AST formats a program as an indented syntax tree.
type AST struct {
	In fmtSource `embed:""`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := a.In.parse(ctx, "ast")
	if err != nil {
		return err
	}

	prog.Print(stdioFrom(ctx).Out)

	return nil
}

// JSON formats the syntax tree of a program as JSON.
type JSON struct {
	In fmtSource `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output; 0 is compact." short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := j.In.parse(ctx, "json")
	if err != nil {
		return err
	}

	if err := prog.FormatJSON(ctx, stdioFrom(ctx).Out, j.Indent); err != nil {
		return ErrFormat.With(slog.String("format", "json")).Wrap(ErrJSONMarshal.Wrap(err))
	}

	return nil
}

// YAML formats the syntax tree of a program as YAML.
type YAML struct {
	In fmtSource `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output; 0 is flow style." short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := y.In.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := prog.FormatYAML(ctx, stdioFrom(ctx).Out, y.Indent); err != nil {
		return ErrFormat.With(slog.String("format", "yaml")).Wrap(ErrYAMLMarshal.Wrap(err))
	}

	return nil
}
