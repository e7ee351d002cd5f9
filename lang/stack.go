package lang

import "strings"

// Stack is a LIFO sequence of values; the last element is the top.
type Stack []Value

// Push appends vs in order, so the last one becomes the top.
func (s *Stack) Push(vs ...Value) { *s = append(*s, vs...) }

// Pop removes and returns the top value.
func (s *Stack) Pop() (Value, bool) {
	n := len(*s)
	if n == 0 {
		return Value{}, false
	}

	v := (*s)[n-1]
	(*s)[n-1] = Value{}
	*s = (*s)[:n-1]

	return v, true
}

// Peek returns the top value without removing it.
func (s Stack) Peek() (Value, bool) {
	if len(s) == 0 {
		return Value{}, false
	}

	return s[len(s)-1], true
}

// popN removes the top n values and returns them deepest first. The caller
// checks the depth.
func (s *Stack) popN(n int) []Value {
	if n == 0 {
		return nil
	}

	k := len(*s) - n
	args := make([]Value, n)
	copy(args, (*s)[k:])
	clear((*s)[k:])
	*s = (*s)[:k]

	return args
}

// String formats s as a List literal, bottom first.
func (s Stack) String() string {
	var b strings.Builder

	writeSource(&b, Value{kind: KindList, list: s})

	return b.String()
}
