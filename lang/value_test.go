package lang

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{name: "zero", v: NewInt(0), want: false},
		{name: "zero float", v: NewFloat(0), want: false},
		{name: "negative", v: NewInt(-1), want: true},
		{name: "fraction", v: NewFloat(0.1), want: true},
		{name: "empty string", v: NewString(""), want: false},
		{name: "string", v: NewString("0"), want: true},
		{name: "empty list", v: NewList(), want: false},
		{name: "list", v: NewList(NewInt(0)), want: true},
		{name: "empty block", v: NewBlock(nil), want: true},
		{name: "zero value", v: Value{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "ints", a: NewInt(3), b: NewInt(3), want: true},
		{name: "int float", a: NewInt(3), b: NewFloat(3), want: true},
		{name: "different numbers", a: NewInt(3), b: NewFloat(3.5), want: false},
		{name: "number string", a: NewInt(1), b: NewString("1"), want: false},
		{name: "lists", a: NewList(NewInt(1), NewString("a")), b: NewList(NewInt(1), NewString("a")), want: true},
		{name: "list lengths", a: NewList(NewInt(1)), b: NewList(NewInt(1), NewInt(1)), want: false},
		{name: "nested", a: NewList(NewList()), b: NewList(NewList()), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		{Int(0), "0"},
		{Int(-42), "-42"},
		{Float(5), "5"},
		{Float(-0.5), "-0.5"},
		{Float(0.1 + 0.2), "0.30000000000000004"},
		{Float(1e20), "100000000000000000000"},
		{Float(1e21), "1e+21"},
		{Float(1e-7), "1e-07"},
		{Float(math.Inf(1)), "inf"},
		{Float(math.NaN()), "nan"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.n.String(); got != tt.want {
				t.Errorf("got %s want %s", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v      Value
		str    string
		source string
	}{
		{NewString("a\"b"), "a\"b", `"a\"b"`},
		{NewList(NewString("x"), NewInt(1)), `["x" 1]`, `["x" 1]`},
		{NewList(), "[]", "[]"},
		{NewFloat(2.5), "2.5", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := tt.v.String(); got != tt.str {
				t.Errorf("String: got %s want %s", got, tt.str)
			}

			if got := tt.v.Source(); got != tt.source {
				t.Errorf("Source: got %s want %s", got, tt.source)
			}
		})
	}
}

func TestNumberArithmetic(t *testing.T) {
	big := Int(math.MaxInt64).Add(Int(1))

	if got, want := big.String(), "9223372036854775808"; got != want {
		t.Errorf("got %s want %s", got, want)
	}

	if _, ok := big.Int64(); ok {
		t.Error("Int64 reported a fit for 2^63")
	}

	if got := big.Sub(Int(1)).Cmp(Int(math.MaxInt64)); got != 0 {
		t.Errorf("Cmp got %d want 0", got)
	}

	if got := Int(7).Mod(Int(-3)).String(); got != "-2" {
		t.Errorf("7 mod -3: got %s want -2", got)
	}

	if !Int(2).Mul(Float(0.5)).Add(Int(-1)).IsZero() {
		t.Error("2*0.5-1 is not zero")
	}

	if got, _ := Int(10).Pow(Int(30)); got.String() != "1000000000000000000000000000000" {
		t.Errorf("10^30: got %s", got)
	}
}

func TestNumberPow(t *testing.T) {
	tests := []struct {
		name string
		x, y Number
		bits int // bit length of an exact result
		err  error
	}{
		{name: "power of two", x: Int(2), y: Int(700000), bits: 700001},
		{name: "largest power of two", x: Int(2), y: Int(maxExactPowBits - 1), bits: maxExactPowBits},
		{name: "past the cap", x: Int(2), y: Int(maxExactPowBits), err: ErrExecutionLimit},
		{name: "wide base", x: Int(3), y: Int(2000000), err: ErrExecutionLimit},
		{name: "huge exponent", x: Int(3), y: Int(1 << 40), err: ErrExecutionLimit},
		{name: "one", x: Int(1), y: Int(1 << 40), bits: 1},
		{name: "minus one", x: Int(-1), y: Int(1<<40 + 1), bits: 1},
		{name: "zero", x: Int(0), y: Int(1 << 40), bits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.x.Pow(tt.y)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("got %v want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.IsInt() {
				t.Fatalf("got float %s want an exact integer", got)
			}

			if n := got.BigInt().BitLen(); n != tt.bits {
				t.Errorf("bit length: got %d want %d", n, tt.bits)
			}
		})
	}

	if got, _ := Int(-1).Pow(Int(1<<40 + 1)); got.Sign() != -1 {
		t.Errorf("(-1)^odd: got %s want -1", got)
	}
}

func TestNumberCompare(t *testing.T) {
	nan := Float(math.NaN())
	wide := BigInt(new(big.Int).Lsh(big.NewInt(1), 53))
	wide = wide.Add(Int(1)) // 2^53+1 has no float64 representation

	tests := []struct {
		name    string
		x, y    Number
		want    int
		ordered bool
	}{
		{name: "ints", x: Int(1), y: Int(2), want: -1, ordered: true},
		{name: "int float", x: Int(1), y: Float(1), want: 0, ordered: true},
		{name: "nan left", x: nan, y: Int(5), ordered: false},
		{name: "nan right", x: Float(1), y: nan, ordered: false},
		{name: "nan self", x: nan, y: nan, ordered: false},
		{name: "wide int above float", x: wide, y: Float(1 << 53), want: 1, ordered: true},
		{name: "inf above wide int", x: Float(math.Inf(1)), y: wide, want: 1, ordered: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ordered := tt.x.Compare(tt.y)
			if ordered != tt.ordered {
				t.Fatalf("ordered: got %v want %v", ordered, tt.ordered)
			}

			if ordered && got != tt.want {
				t.Errorf("got %d want %d", got, tt.want)
			}
		})
	}
}

func TestMarshalStack(t *testing.T) {
	stack := Stack{
		NewInt(1),
		NewFloat(2.5),
		NewString("s"),
		NewList(NewInt(3)),
		NewNumber(Int(math.MaxInt64).Mul(Int(10))),
	}

	data, err := json.Marshal(stack)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), `[1,2.5,"s",[3],92233720368547758070]`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestProgramFormats(t *testing.T) {
	ctx := context.Background()

	prog, err := ParseString(ctx, `1 [D "x"] ["a" 2] +`)
	if err != nil {
		t.Fatal(err)
	}

	var native strings.Builder
	if err := prog.Format(ctx, &native, 0); err != nil {
		t.Fatal(err)
	}

	if got, want := native.String(), "1 [D \"x\"] [\"a\" 2] +\n"; got != want {
		t.Errorf("native: got %q want %q", got, want)
	}

	var js strings.Builder
	if err := prog.FormatJSON(ctx, &js, 0); err != nil {
		t.Fatal(err)
	}

	want := `[{"pos":"1:1","push":1},` +
		`{"block":[{"command":"D","name":"dup","pos":"1:4"},{"pos":"1:6","push":"x"}],"pos":"1:3"},` +
		`{"pos":"1:11","push":["a",2]},` +
		`{"command":"+","name":"add","pos":"1:19"}]` + "\n"
	if js.String() != want {
		t.Errorf("json: got %s want %s", js.String(), want)
	}

	var tree strings.Builder
	prog.Print(&tree)

	for _, line := range []string{
		"Literal: number 1 @1:1",
		"Block: [ @1:3",
		"  Command: D (dup) @1:4",
		"List: [ @1:11",
		`  Literal: string "a"`,
		"Command: + (add) @1:19",
	} {
		if !strings.Contains(tree.String(), line) {
			t.Errorf("tree lacks %q:\n%s", line, tree.String())
		}
	}

	var y strings.Builder
	if err := prog.FormatYAML(ctx, &y, 2); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(y.String(), "name: add") {
		t.Errorf("yaml lacks the add command:\n%s", y.String())
	}
}
