package lang

import (
	"log/slog"
	"math"
	"math/big"
	"strconv"

	"github.com/nukata/goarith"
)

// maxExactPowBits bounds the estimated size of an exact integer power.
const maxExactPowBits = 1 << 20

var intZero = goarith.AsNumber(big.NewInt(0))

// Number is an exact integer of unbounded size or an IEEE-754 double.
//
// Integer arithmetic goes through goarith, which picks the narrowest
// representation and promotes to big integers on overflow. Mixing an integer
// with a float yields a float.
type Number struct {
	n     goarith.Number
	f     float64
	float bool
}

// Int returns the integer number i.
func Int(i int64) Number {
	return Number{n: goarith.AsNumber(big.NewInt(i))}
}

// BigInt returns the integer number x. x is copied.
func BigInt(x *big.Int) Number {
	return Number{n: goarith.AsNumber(new(big.Int).Set(x))}
}

// Float returns the floating point number f.
func Float(f float64) Number {
	return Number{f: f, float: true}
}

// IsInt reports whether x is an exact integer.
func (x Number) IsInt() bool { return !x.float }

// IsZero reports whether x equals zero.
func (x Number) IsZero() bool { return x.Sign() == 0 }

// Sign returns -1, 0 or +1.
func (x Number) Sign() int {
	if x.float {
		switch {
		case x.f < 0:
			return -1
		case x.f > 0:
			return 1
		default:
			return 0
		}
	}

	return x.int().Cmp(intZero)
}

// Float64 returns the nearest float64 to x.
func (x Number) Float64() float64 {
	if x.float {
		return x.f
	}

	f, _ := new(big.Float).SetInt(x.bigInt()).Float64()

	return f
}

// Int64 returns x as an int64 if x is an integer that fits.
func (x Number) Int64() (int64, bool) {
	if x.float {
		return 0, false
	}

	b := x.bigInt()
	if !b.IsInt64() {
		return 0, false
	}

	return b.Int64(), true
}

// BigInt returns a copy of the integer value of x. Floats are truncated
// toward zero; NaN and infinities yield nil.
func (x Number) BigInt() *big.Int {
	if !x.float {
		return x.bigInt()
	}

	if math.IsNaN(x.f) || math.IsInf(x.f, 0) {
		return nil
	}

	b, _ := big.NewFloat(x.f).Int(nil)

	return b
}

func (x Number) int() goarith.Number {
	if x.n == nil {
		return intZero
	}

	return x.n
}

func (x Number) bigInt() *big.Int {
	b, ok := new(big.Int).SetString(x.int().String(), 10)
	if !ok {
		return new(big.Int)
	}

	return b
}

// Add returns x+y.
func (x Number) Add(y Number) Number {
	if x.float || y.float {
		return Float(x.Float64() + y.Float64())
	}

	return Number{n: x.int().Add(y.int())}
}

// Sub returns x-y.
func (x Number) Sub(y Number) Number {
	if x.float || y.float {
		return Float(x.Float64() - y.Float64())
	}

	return Number{n: x.int().Sub(y.int())}
}

// Mul returns x*y.
func (x Number) Mul(y Number) Number {
	if x.float || y.float {
		return Float(x.Float64() * y.Float64())
	}

	return Number{n: x.int().Mul(y.int())}
}

// Quo returns x/y as a float. The caller checks for a zero divisor.
func (x Number) Quo(y Number) Number {
	return Float(x.Float64() / y.Float64())
}

// Mod returns x modulo y, floored so the result takes the sign of y. The
// caller checks for a zero divisor.
func (x Number) Mod(y Number) Number {
	if x.float || y.float {
		a, b := x.Float64(), y.Float64()

		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}

		return Float(r)
	}

	b := y.bigInt()

	r := new(big.Int).Rem(x.bigInt(), b)
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		r.Add(r, b)
	}

	return Number{n: goarith.AsNumber(r)}
}

// Pow returns x**y. The result is exact when both are integers and y is
// non-negative. An exact result estimated above [maxExactPowBits] bits is
// refused with [ErrExecutionLimit].
func (x Number) Pow(y Number) (Number, error) {
	if x.float || y.float || y.Sign() < 0 {
		return Float(math.Pow(x.Float64(), y.Float64())), nil
	}

	base, exp := x.bigInt(), y.bigInt()

	// 0, 1 and -1 stay small for any exponent.
	if base.CmpAbs(big.NewInt(1)) > 0 {
		if !exp.IsInt64() || exp.Int64() > maxExactPowBits ||
			int64(base.BitLen()-1)*exp.Int64()+1 > maxExactPowBits {
			return Number{}, ErrExecutionLimit.With(
				slog.String("base", x.String()),
				slog.String("exponent", y.String()),
				slog.Int("max_bits", maxExactPowBits),
			)
		}
	}

	return Number{n: goarith.AsNumber(new(big.Int).Exp(base, exp, nil))}, nil
}

// Cmp compares x and y and returns -1, 0 or +1. It returns 0 when either is
// NaN; [Number.Compare] tells that case apart.
func (x Number) Cmp(y Number) int {
	c, _ := x.Compare(y)

	return c
}

// Compare compares x and y exactly. ordered is false when either is NaN.
func (x Number) Compare(y Number) (c int, ordered bool) {
	if !x.float && !y.float {
		return x.int().Cmp(y.int()), true
	}

	if x.IsNaN() || y.IsNaN() {
		return 0, false
	}

	return x.bigFloat().Cmp(y.bigFloat()), true
}

// IsNaN reports whether x is a float NaN.
func (x Number) IsNaN() bool { return x.float && math.IsNaN(x.f) }

// bigFloat returns x as an exact big.Float. x must not be NaN.
func (x Number) bigFloat() *big.Float {
	if x.float {
		return new(big.Float).SetFloat64(x.f)
	}

	return new(big.Float).SetInt(x.bigInt())
}

// String formats x. Integral floats print without a fractional part.
func (x Number) String() string {
	if x.float {
		return formatFloat(x.f)
	}

	return x.int().String()
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == 0:
		return "0"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
