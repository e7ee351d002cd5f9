package lang

import (
	"io"
	"os"

	"github.com/ardnew/arsla/log"
)

// DefaultStepLimit is the step limit of a new [Machine]. Zero means
// unlimited. Users may modify this before creating machines.
var DefaultStepLimit = 0

// options holds parser and machine configuration.
type options struct {
	logger   log.Logger
	output   io.Writer
	steps    int
	implicit bool
	cache    bool
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets the sink written by the print command and by
// [Machine.Flush]. The default is [os.Stdout].
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithStepLimit bounds the number of nodes and loop iterations a [Machine]
// executes. Exceeding it fails with [ErrExecutionLimit]. Zero or less means
// unlimited.
func WithStepLimit(n int) Option {
	return func(o *options) {
		o.steps = max(n, 0)
	}
}

// WithImplicitOutput sets whether [Machine.Flush] prints the top of the
// stack. It is enabled by default; programs may toggle it with the e and d
// commands.
func WithImplicitOutput(enable bool) Option {
	return func(o *options) {
		o.implicit = enable
	}
}

// WithCache sets whether [ParseString] and [ParseReader] reuse previously
// parsed programs. It is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) {
		o.cache = enable
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		output:   os.Stdout,
		steps:    DefaultStepLimit,
		implicit: true,
		cache:    true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.output == nil {
		o.output = io.Discard
	}

	return o
}
