package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Phase is the pipeline stage that produced an [Error].
type Phase int

const (
	phaseNone Phase = iota
	PhaseLex
	PhaseParse
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "lex"
	case PhaseParse:
		return "parse"
	case PhaseRuntime:
		return "runtime"
	default:
		return ""
	}
}

// Phase sentinels match every error of their stage with [errors.Is].
var (
	ErrLex     = newPhaseError(PhaseLex, "lex error")
	ErrParse   = newPhaseError(PhaseParse, "parse error")
	ErrRuntime = newPhaseError(PhaseRuntime, "runtime error")
)

// Kind sentinels.
var (
	ErrUnterminatedString = newKindError(PhaseLex, "unterminated string")

	ErrUnbalancedBrackets = newKindError(PhaseParse, "unbalanced brackets")
	ErrUnexpectedRBracket = newKindError(PhaseParse, "unexpected ']'")
	ErrInvalidNumber      = newKindError(PhaseParse, "invalid number")
	ErrInvalidInput       = newKindError(PhaseParse, "invalid input")

	ErrStackUnderflow = newKindError(PhaseRuntime, "stack underflow")
	ErrTypeMismatch   = newKindError(PhaseRuntime, "type mismatch")
	ErrDivisionByZero = newKindError(PhaseRuntime, "division by zero")
	ErrUnknownCommand = newKindError(PhaseRuntime, "unknown command")
	ErrExecutionLimit = newKindError(PhaseRuntime, "execution limit exceeded")

	ErrReadInput   = NewError("failed to read input")
	ErrWriteOutput = NewError("failed to write output")

	ErrExpectCompile  = NewError("failed to compile expectation")
	ErrExpectEvaluate = NewError("failed to evaluate expectation")
)

// Error is a failure with a kind, an optional source position, and
// attributes for structured logging. It implements both error and
// [slog.LogValuer].
//
// Errors are immutable; [Error.Wrap], [Error.With] and [Error.At] return
// copies that still match the sentinel they were derived from.
type Error struct {
	kind  *Error
	phase Phase
	msg   string
	err   error
	pos   Position
	attrs []slog.Attr
	stack []Value
}

// NewError creates a new sentinel Error with a message and no phase.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

func newKindError(phase Phase, msg string) *Error {
	e := NewError(msg)
	e.phase = phase

	return e
}

func newPhaseError(phase Phase, msg string) *Error {
	return &Error{phase: phase, msg: msg}
}

// WrapError converts err into an *Error. If err already is (or wraps) an
// *Error, that value is returned.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.msg)

	if e.pos.IsValid() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString("at ")
		b.WriteString(e.pos.String())
	}

	if len(e.attrs) > 0 {
		b.WriteString(" (")

		for i, a := range e.attrs {
			if i > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(a.Key)
			b.WriteByte('=')
			b.WriteString(a.Value.String())
		}

		b.WriteByte(')')
	}

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e belongs to the kind or phase of target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	switch {
	case t.kind != nil:
		return e.kind == t.kind
	case t.phase != phaseNone:
		return e.phase == t.phase
	default:
		return false
	}
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.phase != phaseNone {
		attrs = append(attrs, slog.String("phase", e.phase.String()))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.Any("pos", e.pos))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	attrs = append(attrs, e.attrs...)

	if e.stack != nil {
		attrs = append(attrs, slog.String("stack", Stack(e.stack).String()))
	}

	return slog.GroupValue(attrs...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// At returns a copy of e located at pos.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos = pos

	return c
}

func (e *Error) withStack(stack []Value) *Error {
	c := e.clone()
	c.stack = slices.Clone(stack)

	if c.stack == nil {
		c.stack = []Value{}
	}

	return c
}

func (e *Error) clone() *Error {
	c := *e
	c.attrs = slices.Clip(e.attrs)

	return &c
}

// Phase returns the pipeline stage that produced e.
func (e *Error) Phase() Phase { return e.phase }

// Kind returns the message of the sentinel e was derived from.
func (e *Error) Kind() string {
	if e.kind == nil {
		return ""
	}

	return e.kind.msg
}

// Position returns where in the source e occurred. The position is invalid
// when unknown.
func (e *Error) Position() Position { return e.pos }

// Stack returns a snapshot of the data stack taken when a runtime error
// occurred, or nil.
func (e *Error) Stack() []Value { return slices.Clone(e.stack) }

// Attr returns the value of the attribute named key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// Diagnostic formats e for people, quoting the offending line of source
// with a marker under the error column.
func (e *Error) Diagnostic(source string) string {
	var b strings.Builder

	if e.phase != phaseNone {
		b.WriteString(e.phase.String())
		b.WriteString(" error: ")
	}

	b.WriteString(e.Error())
	b.WriteByte('\n')

	if e.pos.IsValid() {
		lines := strings.Split(source, "\n")

		if e.pos.Line <= len(lines) {
			num := strconv.Itoa(e.pos.Line)

			b.WriteString("  ")
			b.WriteString(num)
			b.WriteString(" | ")
			b.WriteString(strings.TrimRight(lines[e.pos.Line-1], "\r"))
			b.WriteByte('\n')

			// 2 leading spaces + " | "
			b.WriteString(strings.Repeat(" ", len(num)+5+e.pos.Column-1))
			b.WriteString("^\n")
		}
	}

	if e.stack != nil {
		b.WriteString("  stack: ")
		b.WriteString(Stack(e.stack).String())
		b.WriteByte('\n')
	}

	return b.String()
}

func stackUnderflow(symbol string, needed, had int) *Error {
	return ErrStackUnderflow.With(
		slog.String("command", symbol),
		slog.Int("needed", needed),
		slog.Int("had", had),
	)
}

func typeMismatch(operands ...Value) *Error {
	kinds := make([]string, len(operands))
	for i, v := range operands {
		kinds[i] = v.Kind().String()
	}

	return ErrTypeMismatch.With(slog.String("kinds", strings.Join(kinds, ",")))
}

func unknownCommand(symbol string) *Error {
	return ErrUnknownCommand.With(slog.String("command", symbol))
}
