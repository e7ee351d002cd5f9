package cmd

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/arsla/lang"
)

// Error represents a CLI command error with structured logging support.
//
// An Error may carry the program source it failed on, so that [Report] can
// quote the offending line of a wrapped [lang.Error].
type Error struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source *string
}

// NewError returns a sentinel Error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}

// WithSource returns a copy of e that remembers the program source.
func (e *Error) WithSource(source string) *Error {
	c := *e
	c.source = &source

	return &c
}

// Report writes err to w for people. Errors from a program with known
// source are rendered with [lang.Error.Diagnostic]; any other error is
// written one cause per line, outermost first.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}

	var (
		ce *Error
		le *lang.Error
	)

	if errors.As(err, &ce) && ce.source != nil && errors.As(err, &le) {
		_, _ = io.WriteString(w, le.Diagnostic(*ce.source))

		return
	}

	for _, line := range causes(err) {
		_, _ = io.WriteString(w, "error: "+line+"\n")
	}
}

// causes lists the distinct messages of the chain of err, outermost first.
// Each message is trimmed of the text it shares with the next cause.
func causes(err error) []string {
	var out []string

	for err != nil {
		msg := err.Error()
		next := errors.Unwrap(err)

		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
			msg = strings.TrimSuffix(msg, next.Error())
		}

		if msg != "" {
			out = append(out, msg)
		}

		err = next
	}

	return out
}

var (
	ErrNoProgram      = NewError("no program given (name a file, '-' or use --eval)")
	ErrProgram        = NewError("program failed")
	ErrReadProgram    = NewError("read program")
	ErrInput          = NewError("invalid input")
	ErrStdinTwice     = NewError("stdin cannot supply both the program and --stdin input")
	ErrFormat         = NewError("format output")
	ErrJSONMarshal    = NewError("marshal JSON")
	ErrYAMLMarshal    = NewError("marshal YAML")
	ErrReadSuite      = NewError("read check suite")
	ErrCheckFailed    = NewError("check failed")
	ErrWriteConfig    = NewError("write configuration file")
	ErrNoConfigPath   = NewError("configuration path undefined")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
	ErrUnknownBuiltin = NewError("no builtin matches")
	ErrShell          = NewError("shell")
)
