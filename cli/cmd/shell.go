package cmd

import (
	"context"

	"github.com/ardnew/arsla/cli/cmd/repl"
	"github.com/ardnew/arsla/lang"
	"github.com/ardnew/arsla/log"
)

// Shell starts an interactive session on a persistent stack.
type Shell struct {
	MaxSteps  int  `help:"Stop each line after N execution steps; 0 is unlimited." default:"${maxSteps}" placeholder:"N"`
	NoHistory bool `help:"Do not read or save input history."`

	Input []string `arg:"" help:"Stack literals pushed, in order, before the first prompt." name:"input" optional:""`
}

// Run executes the shell command.
func (s *Shell) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	initial, err := parseInputs(ctx, s.Input)
	if err != nil {
		return err
	}

	std := stdioFrom(ctx)

	session := repl.Session{
		Logger:  log.Default(),
		In:      std.In,
		Out:     std.Out,
		Initial: initial,
		Options: append(
			langOptions(ctx, std.Out),
			lang.WithStepLimit(s.MaxSteps),
		),
	}

	if !s.NoHistory {
		session.CacheDir = kongVar(ctx, CacheIdentifier, "")
	}

	if err := repl.Run(ctx, session); err != nil {
		return ErrShell.Wrap(err)
	}

	return nil
}
