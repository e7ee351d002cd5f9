package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/arsla/lang"
	"github.com/ardnew/arsla/log"
)

// Check runs YAML test suites of arsla programs.
//
// A suite file looks like:
//
//	name: arithmetic
//	cases:
//	  - name: sum
//	    code: "+"
//	    input: ["1", "2"]
//	    output: "3\n"
//	    expect:
//	      - top == 3
//	      - depth == 1
//	  - name: underflow
//	    code: "+"
//	    error: stack underflow
//
// Every expect entry is an expression over the result of the case (see
// [lang.Outcome.Env]) that must evaluate to true.
type Check struct {
	MaxSteps int           `default:"${maxSteps}" help:"Fail a case after N execution steps; 0 is unlimited." placeholder:"N"`
	Timeout  time.Duration `default:"0"           help:"Fail a case after this long; 0 is unlimited."`
	Verbose  bool          `                      help:"Report passing cases too."                         short:"v"`
	FailFast bool          `                      help:"Stop at the first failing case."`

	Suite []string `arg:"" help:"YAML suite files." name:"suite" type:"existingfile"`
}

// checkSuite is the document format of a suite file.
type checkSuite struct {
	Name  string      `yaml:"name"`
	Cases []checkCase `yaml:"cases"`
}

// checkCase is one program run and its expected outcome.
type checkCase struct {
	Name   string   `yaml:"name"`
	Code   string   `yaml:"code"`
	Input  []string `yaml:"input"`
	Output *string  `yaml:"output"`
	Expect []string `yaml:"expect"`
	Error  string   `yaml:"error"`
}

// checkTally counts case results.
type checkTally struct {
	passed, failed int
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdioFrom(ctx).Out

	var tally checkTally

	for _, path := range c.Suite {
		suite, err := readSuite(ctx, path)
		if err != nil {
			return err
		}

		if !c.runSuite(ctx, out, suite, &tally) {
			break
		}
	}

	_, _ = fmt.Fprintf(out, "%d passed, %d failed\n", tally.passed, tally.failed)

	if tally.failed > 0 {
		return ErrCheckFailed.
			With(slog.Int("passed", tally.passed), slog.Int("failed", tally.failed))
	}

	return nil
}

func readSuite(ctx context.Context, path string) (checkSuite, error) {
	var suite checkSuite

	data, err := os.ReadFile(path)
	if err != nil {
		return suite, ErrReadSuite.With(slog.String("file", path)).Wrap(err)
	}

	err = yaml.UnmarshalContext(ctx, data, &suite, yaml.DisallowUnknownField())
	if err != nil {
		return suite, ErrReadSuite.With(slog.String("file", path)).Wrap(err)
	}

	if suite.Name == "" {
		suite.Name = path
	}

	return suite, nil
}

// runSuite runs every case of suite. It reports false if checking should
// stop.
func (c *Check) runSuite(
	ctx context.Context,
	out io.Writer,
	suite checkSuite,
	tally *checkTally,
) bool {
	for i, tc := range suite.Cases {
		name := tc.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}

		reason := c.runCase(ctx, tc)

		log.DebugContext(ctx, "check case",
			slog.String("suite", suite.Name),
			slog.String("case", name),
			slog.Bool("pass", reason == ""),
		)

		if reason == "" {
			tally.passed++

			if c.Verbose {
				_, _ = fmt.Fprintf(out, "PASS %s/%s\n", suite.Name, name)
			}

			continue
		}

		tally.failed++

		_, _ = fmt.Fprintf(out, "FAIL %s/%s: %s\n", suite.Name, name, reason)

		if c.FailFast {
			return false
		}
	}

	return true
}

// runCase runs tc and returns why it failed, or "" if it passed.
func (c *Check) runCase(ctx context.Context, tc checkCase) string {
	expects := make([]*lang.Expectation, 0, len(tc.Expect))

	for _, src := range tc.Expect {
		e, err := lang.CompileExpectation(src)
		if err != nil {
			return err.Error()
		}

		expects = append(expects, e)
	}

	outcome := c.outcome(ctx, tc)

	switch {
	case tc.Error == "" && outcome.Err != nil:
		return "unexpected error: " + outcome.Err.Error()

	case tc.Error != "" && outcome.Err == nil:
		return fmt.Sprintf("expected error %q", tc.Error)

	case tc.Error != "" && !matchError(outcome.Err, tc.Error):
		return fmt.Sprintf("got error %q want %q", outcome.Err.Error(), tc.Error)
	}

	if tc.Output != nil && outcome.Output != *tc.Output {
		return fmt.Sprintf("got output %q want %q", outcome.Output, *tc.Output)
	}

	for _, e := range expects {
		ok, err := e.Check(outcome)
		if err != nil {
			return err.Error()
		}

		if !ok {
			return "expectation failed: " + e.Source + " (stack " +
				lang.Stack(outcome.Stack).String() + ")"
		}
	}

	return ""
}

// outcome runs the program of tc.
func (c *Check) outcome(ctx context.Context, tc checkCase) lang.Outcome {
	if c.Timeout > 0 {
		var stop context.CancelFunc

		ctx, stop = context.WithTimeoutCause(
			ctx,
			c.Timeout,
			lang.ErrExecutionLimit.With(slog.Duration("timeout", c.Timeout)),
		)
		defer stop()
	}

	var output bytes.Buffer

	opts := append(langOptions(ctx, &output), lang.WithStepLimit(c.MaxSteps))

	initial, err := parseInputs(ctx, tc.Input)
	if err != nil {
		return lang.Outcome{Err: err}
	}

	stack, err := lang.Eval(ctx, tc.Code, initial, opts...)

	return lang.Outcome{Stack: stack, Output: output.String(), Err: err}
}

// matchError reports whether err is of the expected kind or its message
// contains want.
func matchError(err error, want string) bool {
	if lang.WrapError(err).Kind() == want {
		return true
	}

	return strings.Contains(err.Error(), want)
}
