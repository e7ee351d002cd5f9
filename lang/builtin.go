package lang

import (
	"context"
	"iter"
	"slices"
)

type (
	unaryFunc  func(a Value) (Value, error)
	binaryFunc func(a, b Value) (Value, error)
	effectFunc func(ctx context.Context, m *Machine, args []Value) ([]Value, error)
)

// Builtin describes one command of the language.
//
// Exactly one of its implementations is set. Operands arrive in stack
// order: for a binary builtin, a is second from the top and b is the top.
type Builtin struct {
	Symbol    string
	Name      string
	Doc       string
	Arity     int
	Vectorize bool

	unary  unaryFunc
	binary binaryFunc
	effect effectFunc
}

func (b *Builtin) call(ctx context.Context, m *Machine, args []Value) ([]Value, error) {
	switch {
	case b.effect != nil:
		return b.effect(ctx, m, args)

	case b.unary != nil:
		fn := b.unary
		if b.Vectorize {
			fn = mapUnary(fn)
		}

		v, err := fn(args[0])
		if err != nil {
			return nil, err
		}

		return []Value{v}, nil

	case b.binary != nil:
		fn := b.binary
		if b.Vectorize {
			fn = zipBinary(fn)
		}

		v, err := fn(args[0], args[1])
		if err != nil {
			return nil, err
		}

		return []Value{v}, nil

	default:
		return nil, unknownCommand(b.Symbol)
	}
}

var (
	builtins []*Builtin
	dispatch map[string]*Builtin
)

// The table is built in init because control-flow builtins dispatch back
// through it.
func init() {
	builtins = builtinTable()

	dispatch = make(map[string]*Builtin, len(builtins))
	for _, b := range builtins {
		dispatch[b.Symbol] = b
	}
}

func builtinTable() []*Builtin {
	return []*Builtin{
		{
			Symbol: "D", Name: "dup", Arity: 1,
			Doc:    "Duplicate the top value.",
			effect: func(_ context.Context, _ *Machine, args []Value) ([]Value, error) {
				return []Value{args[0], args[0]}, nil
			},
		},
		{
			Symbol: "S", Name: "swap", Arity: 2,
			Doc:    "Exchange the top two values.",
			effect: func(_ context.Context, _ *Machine, args []Value) ([]Value, error) {
				return []Value{args[1], args[0]}, nil
			},
		},
		{
			Symbol: "$", Name: "drop", Arity: 1,
			Doc:    "Discard the top value.",
			effect: func(context.Context, *Machine, []Value) ([]Value, error) {
				return nil, nil
			},
		},
		{
			Symbol: "C", Name: "clear", Arity: 0,
			Doc: "Discard every value on the stack.",
			effect: func(_ context.Context, m *Machine, _ []Value) ([]Value, error) {
				clear(m.stack)
				m.stack = m.stack[:0]

				return nil, nil
			},
		},
		{
			Symbol: "@", Name: "rot", Arity: 3,
			Doc:    "Rotate the third value to the top: a b c -> b c a.",
			effect: func(_ context.Context, _ *Machine, args []Value) ([]Value, error) {
				return []Value{args[1], args[2], args[0]}, nil
			},
		},
		{
			Symbol: "+", Name: "add", Arity: 2, Vectorize: true,
			Doc:    "Add numbers or concatenate strings.",
			binary: add,
		},
		{
			Symbol: "-", Name: "sub", Arity: 2, Vectorize: true,
			Doc:    "Subtract the top number from the one below it.",
			binary: sub,
		},
		{
			Symbol: "*", Name: "mul", Arity: 2,
			Doc:    "Multiply numbers, or repeat a string or list by a count.",
			binary: mul,
		},
		{
			Symbol: "/", Name: "div", Arity: 2, Vectorize: true,
			Doc:    "Divide, always giving a float.",
			binary: div,
		},
		{
			Symbol: "%", Name: "mod", Arity: 2, Vectorize: true,
			Doc:    "Modulo; the result takes the sign of the divisor.",
			binary: mod,
		},
		{
			Symbol: "^", Name: "pow", Arity: 2, Vectorize: true,
			Doc:    "Raise to a power.",
			binary: pow,
		},
		{
			Symbol: "!", Name: "fact", Arity: 1, Vectorize: true,
			Doc:   "Factorial of a non-negative integer.",
			unary: factorial,
		},
		{
			Symbol: "P", Name: "prime", Arity: 1, Vectorize: true,
			Doc:   "Smallest prime greater than the number.",
			unary: nextPrime,
		},
		{
			Symbol: "<", Name: "lt", Arity: 2, Vectorize: true,
			Doc:    "1 if the second value is less than the top, else 0.",
			binary: less,
		},
		{
			Symbol: ">", Name: "gt", Arity: 2, Vectorize: true,
			Doc:    "1 if the second value is greater than the top, else 0.",
			binary: greater,
		},
		{
			Symbol: "=", Name: "eq", Arity: 2, Vectorize: true,
			Doc:    "1 if the top two values are equal, else 0.",
			binary: equal,
		},
		{
			Symbol: "R", Name: "reverse", Arity: 1,
			Doc:   "Reverse a string or list.",
			unary: reverse,
		},
		{
			Symbol: "p", Name: "print", Arity: 1,
			Doc: "Pop and print the top value followed by a newline.",
			effect: func(_ context.Context, m *Machine, args []Value) ([]Value, error) {
				return nil, m.print(args[0])
			},
		},
		{
			Symbol: "W", Name: "while", Arity: 1,
			Doc:    "Pop a block and run it while the top value is truthy.",
			effect: while,
		},
		{
			Symbol: "?", Name: "if", Arity: 3,
			Doc:    "Pop cond, then-block and else-block; run one of them.",
			effect: ifElse,
		},
		{
			Symbol: "e", Name: "enable", Arity: 0,
			Doc: "Enable implicit output of the top value at exit.",
			effect: func(_ context.Context, m *Machine, _ []Value) ([]Value, error) {
				m.opts.implicit = true

				return nil, nil
			},
		},
		{
			Symbol: "d", Name: "disable", Arity: 0,
			Doc: "Disable implicit output of the top value at exit.",
			effect: func(_ context.Context, m *Machine, _ []Value) ([]Value, error) {
				m.opts.implicit = false

				return nil, nil
			},
		},
	}
}

// Lookup returns the builtin named by symbol.
func Lookup(symbol string) (*Builtin, bool) {
	b, ok := dispatch[symbol]

	return b, ok
}

// Builtins returns an iterator over every builtin in a fixed order.
func Builtins() iter.Seq[*Builtin] {
	return slices.Values(builtins)
}

func while(ctx context.Context, m *Machine, args []Value) ([]Value, error) {
	body := args[0]
	if body.kind != KindBlock && body.kind != KindList {
		return nil, typeMismatch(body)
	}

	for {
		top, ok := m.stack.Peek()
		if !ok || !top.Truthy() {
			return nil, nil
		}

		if err := m.tick(ctx); err != nil {
			return nil, err
		}

		if err := m.run(ctx, body); err != nil {
			return nil, err
		}
	}
}

func ifElse(ctx context.Context, m *Machine, args []Value) ([]Value, error) {
	cond, then, otherwise := args[0], args[1], args[2]

	for _, branch := range [...]Value{then, otherwise} {
		if branch.kind != KindBlock && branch.kind != KindList {
			return nil, typeMismatch(cond, then, otherwise)
		}
	}

	body := otherwise
	if cond.Truthy() {
		body = then
	}

	return nil, m.run(ctx, body)
}
