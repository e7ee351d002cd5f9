package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// eval runs src with implicit output disabled and returns the final stack
// and everything printed.
func eval(t *testing.T, src string, input ...Value) (Stack, string, error) {
	t.Helper()

	var out strings.Builder

	stack, err := Eval(
		context.Background(),
		src,
		input,
		WithOutput(&out),
		WithImplicitOutput(false),
	)

	return Stack(stack), out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		stack  string
		output string
	}{
		{name: "add", src: "1 2 +", stack: "[3]"},
		{name: "concat", src: `"Hello" "World" +`, stack: `["HelloWorld"]`},
		{name: "vector add", src: "[1 2] [3 4] +", stack: "[[4 6]]"},
		{name: "dup print", src: "10 D p p", stack: "[]", output: "10\n10\n"},
		{name: "swap print", src: "1 2 S p p", stack: "[]", output: "1\n2\n"},
		{name: "division is float", src: "10 2 /", stack: "[5]"},
		{name: "factorial", src: "5 !", stack: "[120]"},
		{name: "rot", src: "1 2 3 @", stack: "[2 3 1]"},
		{name: "drop", src: "1 2 $", stack: "[1]"},
		{name: "print string", src: `"a b" p`, stack: "[]", output: "a b\n"},
		{name: "print list", src: `[1 "a" 2.5 5.0 []] p`, stack: "[]", output: "[1 \"a\" 2.5 5 []]\n"},
		{name: "print block", src: "[1 +] p", stack: "[]", output: "[1 +]\n"},
		{name: "while countdown", src: "3 [1 -] W", stack: "[0]"},
		{name: "while prints", src: "3 [D p 1 -] W", stack: "[0]", output: "3\n2\n1\n"},
		{name: "while falsy start", src: "0 [1 +] W", stack: "[0]"},
		{name: "while empty stack", src: "[1] W", stack: "[]"},
		{name: "while list body", src: "1 [0] W", stack: "[1 0]"},
		{name: "if true", src: `1 ["yes"] ["no"] ?`, stack: `["yes"]`},
		{name: "if false", src: `0 ["yes"] ["no"] ?`, stack: `["no"]`},
		{name: "if empty string", src: `"" [1] [2] ?`, stack: "[2]"},
		{name: "if block", src: "5 1 [D *] [$] ?", stack: "[25]"},
		{name: "nested blocks", src: "2 [D 0 > [1 -] [] ?] W", stack: "[0]"},
		{name: "list of blocks", src: "[[D][S]]", stack: "[[[D] [S]]]"},
		{name: "comments", src: "1 # 2 +\n3 +", stack: "[4]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack, output, err := eval(t, tt.src)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if got := stack.String(); got != tt.stack {
				t.Errorf("stack: got %s want %s", got, tt.stack)
			}

			if output != tt.output {
				t.Errorf("output: got %q want %q", output, tt.output)
			}
		})
	}
}

func TestRunInitialStack(t *testing.T) {
	stack, _, err := eval(t, "+", NewInt(4), NewInt(5))
	if err != nil {
		t.Fatal(err)
	}

	if got := stack.String(); got != "[9]" {
		t.Errorf("got %s want [9]", got)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  error
		pos   string
		stack string // snapshot at failure
	}{
		{name: "underflow", src: "1 +", want: ErrStackUnderflow, pos: "1:3", stack: "[1]"},
		{name: "underflow empty", src: "p", want: ErrStackUnderflow, pos: "1:1", stack: "[]"},
		{name: "division by zero", src: "10 0 /", want: ErrDivisionByZero, pos: "1:6", stack: "[]"},
		{name: "modulo by zero", src: "1 2 0 %", want: ErrDivisionByZero, pos: "1:7", stack: "[1]"},
		{name: "negative factorial", src: "-1 !", want: ErrTypeMismatch, pos: "1:4", stack: "[]"},
		{name: "length mismatch", src: "[1 2] [1 2 3] +", want: ErrTypeMismatch, pos: "1:15", stack: "[]"},
		{name: "number plus string", src: `1 "a" +`, want: ErrTypeMismatch, pos: "1:7", stack: "[]"},
		{name: "unknown command", src: "1 ~", want: ErrUnknownCommand, pos: "1:3", stack: "[1]"},
		{name: "inside block", src: "1 [5 0 /] [2] ?", want: ErrDivisionByZero, pos: "1:8", stack: "[]"},
		{name: "while needs body", src: "1 2 W", want: ErrTypeMismatch, pos: "1:5", stack: "[1]"},
		{name: "if else not a block", src: "1 [D] 5 ?", want: ErrTypeMismatch, pos: "1:9", stack: "[]"},
		{name: "if then not a block", src: "0 5 [D] ?", want: ErrTypeMismatch, pos: "1:9", stack: "[]"},
		{name: "vector division aborts", src: "[10 20] [2 0] /", want: ErrDivisionByZero, pos: "1:15", stack: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack, _, err := eval(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v want %v", err, tt.want)
			}

			if !errors.Is(err, ErrRuntime) {
				t.Errorf("%v does not match ErrRuntime", err)
			}

			if errors.Is(err, ErrParse) || errors.Is(err, ErrLex) {
				t.Errorf("%v matches another phase", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			if got := e.Position().String(); got != tt.pos {
				t.Errorf("position: got %s want %s", got, tt.pos)
			}

			if got := Stack(e.Stack()).String(); got != tt.stack {
				t.Errorf("snapshot: got %s want %s", got, tt.stack)
			}

			if got := stack.String(); got != tt.stack {
				t.Errorf("final stack: got %s want %s", got, tt.stack)
			}
		})
	}
}

func TestStackUnderflowDetails(t *testing.T) {
	_, _, err := eval(t, "1 +")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("got %v want *Error", err)
	}

	for key, want := range map[string]string{
		"command": "+",
		"needed":  "2",
		"had":     "1",
	} {
		v, ok := e.Attr(key)
		if !ok || v.String() != want {
			t.Errorf("%s: got %v want %s", key, v, want)
		}
	}
}

func TestClearIsIdempotent(t *testing.T) {
	for depth := range 5 {
		input := make([]Value, depth)
		for i := range input {
			input[i] = NewInt(int64(i))
		}

		for _, src := range []string{"C", "C C"} {
			stack, _, err := eval(t, src, input...)
			if err != nil {
				t.Fatal(err)
			}

			if len(stack) != 0 {
				t.Errorf("depth %d %q: got %s want []", depth, src, stack)
			}
		}
	}
}

func TestPrintedListRoundTrips(t *testing.T) {
	inputs := []string{
		`[1 2 3]`,
		`[]`,
		`["a\"b" "tab\there" "new\nline"]`,
		`[1.5 -2 [3 [4]] "x"]`,
		`[100000000000000000000000 1e300 0.001]`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			stack, output, err := eval(t, input+" D p")
			if err != nil {
				t.Fatal(err)
			}

			prog, err := ParseString(context.Background(), strings.TrimSuffix(output, "\n"))
			if err != nil {
				t.Fatalf("printed %q does not parse: %v", output, err)
			}

			if len(prog) != 1 || !Equal(prog[0].Value, stack[0]) {
				t.Errorf("printed %q parsed to %v want %v", output, prog, stack[0].Source())
			}
		})
	}
}

func TestImplicitOutput(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		opts   []Option
		output string
	}{
		{name: "top printed once", src: "1 2", output: "2\n"},
		{name: "empty stack", src: "1 $", output: ""},
		{name: "after explicit print", src: "1 2 p", output: "2\n1\n"},
		{name: "nothing left after print", src: "1 p", output: "1\n"},
		{name: "disabled by command", src: "d 1", output: ""},
		{name: "re-enabled", src: "d e 3", output: "3\n"},
		{name: "disabled by option", src: "1", opts: []Option{WithImplicitOutput(false)}, output: ""},
		{name: "enabled by command", src: "e 1", opts: []Option{WithImplicitOutput(false)}, output: "1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder

			opts := append([]Option{WithOutput(&out)}, tt.opts...)

			stack, err := Eval(context.Background(), tt.src, nil, opts...)
			if err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.output {
				t.Errorf("got %q want %q", out.String(), tt.output)
			}

			if tt.src == "1 2" && len(stack) != 2 {
				t.Errorf("implicit output popped the stack: %v", Stack(stack))
			}
		})
	}
}

func TestImplicitOutputSkippedOnError(t *testing.T) {
	var out strings.Builder

	_, err := Eval(context.Background(), "1 2 ~", nil, WithOutput(&out))
	if err == nil {
		t.Fatal("expected error")
	}

	if out.Len() != 0 {
		t.Errorf("got output %q after error", out.String())
	}
}

func TestStepLimit(t *testing.T) {
	_, _, err := eval(t, "1 2 +")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		src   string
		limit int
		fail  bool
	}{
		{src: "1 2 +", limit: 3},
		{src: "1 2 +", limit: 2, fail: true},
		{src: "1 [] W", limit: 100, fail: true},
		{src: "1 [D] W", limit: 1000, fail: true},
		{src: "3 [1 -] W", limit: 100},
		{src: "[] 100000000000 *", limit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Eval(
				context.Background(),
				tt.src,
				nil,
				WithOutput(nil),
				WithStepLimit(tt.limit),
			)

			if got := errors.Is(err, ErrExecutionLimit); got != tt.fail {
				t.Errorf("got %v want limit exceeded = %v", err, tt.fail)
			}
		})
	}
}

func TestContextCancel(t *testing.T) {
	prog, err := ParseString(context.Background(), "1 [] W")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Run(ctx, prog, nil, WithOutput(nil))
		if !errors.Is(err, ErrExecutionLimit) || !errors.Is(err, context.Canceled) {
			t.Errorf("got %v want %v wrapping %v", err, ErrExecutionLimit, context.Canceled)
		}
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := Run(ctx, prog, nil, WithOutput(nil))
		if !errors.Is(err, ErrExecutionLimit) || !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("got %v want %v wrapping %v", err, ErrExecutionLimit, context.DeadlineExceeded)
		}
	})
}

func TestMachinePersistsStack(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(WithOutput(nil))

	for _, src := range []string{"1", "2", "+"} {
		prog, err := ParseString(ctx, src)
		if err != nil {
			t.Fatal(err)
		}

		if err := m.Run(ctx, prog); err != nil {
			t.Fatal(err)
		}
	}

	if got := Stack(m.Stack()).String(); got != "[3]" {
		t.Errorf("got %s want [3]", got)
	}

	m.Reset()

	if m.Len() != 0 || m.Steps() != 0 {
		t.Errorf("reset left depth %d steps %d", m.Len(), m.Steps())
	}
}
