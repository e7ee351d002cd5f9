package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ardnew/arsla/log"
)

// ctxCheckInterval is how many steps pass between context checks.
const ctxCheckInterval = 256

// Machine executes programs against one data stack.
//
// A Machine is not safe for concurrent use. Its stack persists across calls
// to [Machine.Run], so a sequence of programs can share state.
type Machine struct {
	stack Stack
	opts  options
	steps int
}

// NewMachine returns a Machine with an empty stack.
func NewMachine(opts ...Option) *Machine {
	return &Machine{opts: makeOptions(opts...)}
}

// Run executes prog on a new Machine seeded with initial, then applies
// implicit output. It returns the final stack, which on error reflects the
// state at the point of failure.
func Run(
	ctx context.Context,
	prog Program,
	initial []Value,
	opts ...Option,
) ([]Value, error) {
	m := NewMachine(opts...)
	m.Push(initial...)

	err := m.Run(ctx, prog)
	if err == nil {
		err = m.Flush()
	}

	return m.Stack(), err
}

// Eval parses source and runs it like [Run].
func Eval(
	ctx context.Context,
	source string,
	initial []Value,
	opts ...Option,
) ([]Value, error) {
	prog, err := ParseString(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	return Run(ctx, prog, initial, opts...)
}

// Push pushes vs in order onto the stack.
func (m *Machine) Push(vs ...Value) { m.stack.Push(vs...) }

// Stack returns a copy of the stack, bottom first.
func (m *Machine) Stack() []Value {
	s := slices.Clone([]Value(m.stack))
	if s == nil {
		s = []Value{}
	}

	return s
}

// Len returns the stack depth.
func (m *Machine) Len() int { return len(m.stack) }

// Reset empties the stack and the step counter.
func (m *Machine) Reset() {
	clear(m.stack)
	m.stack = m.stack[:0]
	m.steps = 0
}

// Steps returns the number of steps executed since creation or [Machine.Reset].
func (m *Machine) Steps() int { return m.steps }

// Implicit reports whether [Machine.Flush] will print.
func (m *Machine) Implicit() bool { return m.opts.implicit }

// Run executes prog. It stops at the first error; operands already popped by
// the failing command are not restored.
func (m *Machine) Run(ctx context.Context, prog Program) error {
	if err := context.Cause(ctx); err != nil {
		return ErrExecutionLimit.Wrap(err)
	}

	m.opts.logger.TraceContext(
		ctx,
		"run start",
		slog.Int("nodes", len(prog)),
		slog.Int("depth", len(m.stack)),
	)

	err := m.exec(ctx, prog)

	m.opts.logger.TraceContext(
		ctx,
		"run complete",
		slog.Int("steps", m.steps),
		slog.Int("depth", len(m.stack)),
		slog.Bool("ok", err == nil),
	)

	return err
}

// Flush prints the top of the stack, without popping it, if implicit output
// is enabled and the stack is not empty.
func (m *Machine) Flush() error {
	top, ok := m.stack.Peek()
	if !ok || !m.opts.implicit {
		return nil
	}

	return m.print(top)
}

func (m *Machine) exec(ctx context.Context, prog Program) error {
	for _, node := range prog {
		if err := m.step(ctx, node); err != nil {
			return err
		}
	}

	return nil
}

func (m *Machine) step(ctx context.Context, node Node) error {
	if err := m.tick(ctx); err != nil {
		return m.fail(err, node)
	}

	if m.opts.logger.Enabled(ctx, log.LevelTrace) {
		m.opts.logger.TraceContext(
			ctx,
			"step",
			slog.String("node", node.String()),
			slog.Any("pos", node.Pos),
			slog.String("stack", m.stack.String()),
		)
	}

	if node.Kind == NodeLiteral {
		m.stack.Push(node.Value)

		return nil
	}

	b, ok := Lookup(node.Symbol)
	if !ok {
		return m.fail(unknownCommand(node.Symbol), node)
	}

	if err := m.apply(ctx, b); err != nil {
		return m.fail(err, node)
	}

	return nil
}

// tick counts one step against the limit and polls ctx periodically.
func (m *Machine) tick(ctx context.Context) error {
	m.steps++

	if m.opts.steps > 0 && m.steps > m.opts.steps {
		return ErrExecutionLimit.With(slog.Int("max_steps", m.opts.steps))
	}

	if m.steps%ctxCheckInterval == 0 {
		if err := context.Cause(ctx); err != nil {
			return ErrExecutionLimit.Wrap(err)
		}
	}

	return nil
}

func (m *Machine) apply(ctx context.Context, b *Builtin) error {
	if len(m.stack) < b.Arity {
		return stackUnderflow(b.Symbol, b.Arity, len(m.stack))
	}

	results, err := b.call(ctx, m, m.stack.popN(b.Arity))
	if err != nil {
		return err
	}

	m.stack.Push(results...)

	return nil
}

// fail locates err at node unless an inner node already claimed it, and
// records the command and a stack snapshot.
func (m *Machine) fail(err error, node Node) error {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrRuntime.Wrap(err)
	}

	if !e.pos.IsValid() {
		e = e.At(node.Pos)
	}

	if _, ok := e.Attr("command"); !ok && node.Kind == NodeCommand {
		e = e.With(slog.String("command", node.Symbol))
	}

	if e.stack == nil {
		e = e.withStack(m.stack)
	}

	return e
}

func (m *Machine) print(v Value) error {
	if _, err := fmt.Fprintln(m.opts.output, v.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// run executes a body value popped by a control-flow command. A List body
// pushes its elements.
func (m *Machine) run(ctx context.Context, body Value) error {
	switch body.kind {
	case KindBlock:
		return m.exec(ctx, body.block)

	case KindList:
		for _, v := range body.list {
			if err := m.tick(ctx); err != nil {
				return err
			}

			m.stack.Push(v)
		}

		return nil

	default:
		return typeMismatch(body)
	}
}
