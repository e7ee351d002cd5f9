package lang

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Outcome is the observable result of running a program.
type Outcome struct {
	Stack  []Value
	Output string
	Err    error
}

// Env returns the variables an [Expectation] can reference:
//
//	stack  []any    final stack, bottom first, as native values
//	top    any      top of stack, or nil
//	depth  int      stack depth
//	output string   everything printed
//	lines  []string output split into lines
//	error  string   error message, or ""
//	kind   string   error kind such as "stack underflow", or ""
//	phase  string   "lex", "parse", "runtime", or ""
func (o Outcome) Env() map[string]any {
	stack := Stack(o.Stack).ToNative()

	var top any
	if len(stack) > 0 {
		top = stack[len(stack)-1]
	}

	lines := []string{}
	if o.Output != "" {
		lines = strings.Split(strings.TrimSuffix(o.Output, "\n"), "\n")
	}

	var errText, kind, phase string

	if o.Err != nil {
		e := WrapError(o.Err)
		errText, kind, phase = o.Err.Error(), e.Kind(), e.Phase().String()
	}

	return map[string]any{
		"stack":  stack,
		"top":    top,
		"depth":  len(stack),
		"output": o.Output,
		"lines":  lines,
		"error":  errText,
		"kind":   kind,
		"phase":  phase,
	}
}

// Expectation is a compiled boolean expr-lang expression over an [Outcome].
type Expectation struct {
	Source  string
	program *vm.Program
}

// CompileExpectation compiles source, which must evaluate to a bool.
func CompileExpectation(source string) (*Expectation, error) {
	program, err := expr.Compile(
		source,
		expr.Env(Outcome{}.Env()),
		expr.AsBool(),
	)
	if err != nil {
		return nil, ErrExpectCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return &Expectation{Source: source, program: program}, nil
}

// Check evaluates e against o.
func (e *Expectation) Check(o Outcome) (bool, error) {
	result, err := expr.Run(e.program, o.Env())
	if err != nil {
		return false, ErrExpectEvaluate.Wrap(err).
			With(slog.String("source", e.Source))
	}

	ok, _ := result.(bool)

	return ok, nil
}
