package lang

import (
	"log/slog"
	"math"
	"math/big"
	"slices"
	"strings"
)

const (
	// maxRepeat bounds the length of a string or list built by repetition.
	maxRepeat = 1 << 24

	// maxFactorial bounds the operand of the factorial command.
	maxFactorial = 1 << 16

	// primeRounds is the Miller-Rabin round count used by nextPrime.
	primeRounds = 20
)

func add(a, b Value) (Value, error) {
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		return NewNumber(a.num.Add(b.num)), nil
	case a.kind == KindString && b.kind == KindString:
		return NewString(a.str + b.str), nil
	default:
		return Value{}, typeMismatch(a, b)
	}
}

func sub(a, b Value) (Value, error) {
	if a.kind != KindNumber || b.kind != KindNumber {
		return Value{}, typeMismatch(a, b)
	}

	return NewNumber(a.num.Sub(b.num)), nil
}

// mul multiplies numbers and repeats strings and lists. A List on the left
// with an integer on top repeats the List; any other pairing with a List
// vectorizes.
func mul(a, b Value) (Value, error) {
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		return NewNumber(a.num.Mul(b.num)), nil

	case a.kind == KindString && b.kind == KindNumber:
		return repeatString(a.str, a, b)

	case a.kind == KindNumber && b.kind == KindString:
		return repeatString(b.str, a, b)

	case a.kind == KindList && b.kind == KindNumber && b.num.IsInt():
		n, err := repeatCount(len(a.list), a, b)
		if err != nil {
			return Value{}, err
		}

		return NewList(slices.Repeat(a.list, n)...), nil

	case a.kind == KindList || b.kind == KindList:
		return zipBinary(mul)(a, b)

	default:
		return Value{}, typeMismatch(a, b)
	}
}

func repeatString(s string, a, b Value) (Value, error) {
	n, err := repeatCount(len(s), a, b)
	if err != nil {
		return Value{}, err
	}

	return NewString(strings.Repeat(s, n)), nil
}

// repeatCount extracts the repetition count from whichever of a and b is
// the Number. It must be a non-negative integer.
func repeatCount(unit int, a, b Value) (int, error) {
	count := b.num
	if b.kind != KindNumber {
		count = a.num
	}

	n, ok := count.Int64()
	if !ok || n < 0 {
		return 0, typeMismatch(a, b).With(slog.String("count", count.String()))
	}

	if n > 0 && int64(unit) > maxRepeat/n {
		return 0, ErrExecutionLimit.With(
			slog.Int64("count", n),
			slog.Int("max_length", maxRepeat),
		)
	}

	return int(n), nil
}

func div(a, b Value) (Value, error) {
	if a.kind != KindNumber || b.kind != KindNumber {
		return Value{}, typeMismatch(a, b)
	}

	if b.num.IsZero() {
		return Value{}, ErrDivisionByZero.With(slog.String("dividend", a.num.String()))
	}

	return NewNumber(a.num.Quo(b.num)), nil
}

func mod(a, b Value) (Value, error) {
	if a.kind != KindNumber || b.kind != KindNumber {
		return Value{}, typeMismatch(a, b)
	}

	if b.num.IsZero() {
		return Value{}, ErrDivisionByZero.With(slog.String("dividend", a.num.String()))
	}

	return NewNumber(a.num.Mod(b.num)), nil
}

func pow(a, b Value) (Value, error) {
	if a.kind != KindNumber || b.kind != KindNumber {
		return Value{}, typeMismatch(a, b)
	}

	n, err := a.num.Pow(b.num)
	if err != nil {
		return Value{}, err
	}

	return NewNumber(n), nil
}

func factorial(a Value) (Value, error) {
	if a.kind != KindNumber {
		return Value{}, typeMismatch(a)
	}

	n, ok := a.num.Int64()
	if !ok || n < 0 {
		return Value{}, typeMismatch(a).With(slog.String("value", a.num.String()))
	}

	if n > maxFactorial {
		return Value{}, ErrExecutionLimit.With(
			slog.Int64("value", n),
			slog.Int("max_factorial", maxFactorial),
		)
	}

	if n < 2 {
		return NewInt(1), nil
	}

	return NewNumber(BigInt(new(big.Int).MulRange(1, n))), nil
}

// nextPrime returns the smallest prime strictly greater than floor(a).
func nextPrime(a Value) (Value, error) {
	if a.kind != KindNumber {
		return Value{}, typeMismatch(a)
	}

	var c *big.Int

	if a.num.IsInt() {
		c = a.num.BigInt()
	} else {
		f := a.num.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, typeMismatch(a).With(slog.String("value", a.num.String()))
		}

		c = Float(math.Floor(f)).BigInt()
	}

	two := big.NewInt(2)

	c.Add(c, big.NewInt(1))
	if c.Cmp(two) < 0 {
		c.Set(two)
	}

	for !c.ProbablyPrime(primeRounds) {
		c.Add(c, big.NewInt(1))
	}

	return NewNumber(BigInt(c)), nil
}

func less(a, b Value) (Value, error) {
	c, ordered, err := compare(a, b)
	if err != nil {
		return Value{}, err
	}

	return NewBool(ordered && c < 0), nil
}

func greater(a, b Value) (Value, error) {
	c, ordered, err := compare(a, b)
	if err != nil {
		return Value{}, err
	}

	return NewBool(ordered && c > 0), nil
}

// compare orders two Numbers or two Strings. A NaN operand is unordered.
func compare(a, b Value) (c int, ordered bool, err error) {
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		c, ordered = a.num.Compare(b.num)

		return c, ordered, nil
	case a.kind == KindString && b.kind == KindString:
		return strings.Compare(a.str, b.str), true, nil
	default:
		return 0, false, typeMismatch(a, b)
	}
}

func equal(a, b Value) (Value, error) {
	return NewBool(Equal(a, b)), nil
}

func reverse(a Value) (Value, error) {
	switch a.kind {
	case KindString:
		r := []rune(a.str)
		slices.Reverse(r)

		return NewString(string(r)), nil

	case KindList:
		l := slices.Clone(a.list)
		slices.Reverse(l)

		return NewList(l...), nil

	default:
		return Value{}, typeMismatch(a)
	}
}
