package lang

import "slices"

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindNumber Kind = iota // number
	KindString             // string
	KindList               // list
	KindBlock              // block
)

// Value is an immutable datum on the stack.
//
// The zero Value is the integer 0.
type Value struct {
	kind  Kind
	num   Number
	str   string
	list  []Value
	block Program
}

// NewNumber returns a Number value.
func NewNumber(n Number) Value { return Value{kind: KindNumber, num: n} }

// NewInt returns an integer Number value.
func NewInt(i int64) Value { return NewNumber(Int(i)) }

// NewFloat returns a floating point Number value.
func NewFloat(f float64) Value { return NewNumber(Float(f)) }

// NewString returns a String value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewList returns a List value holding elems. The slice is not copied and
// must not be modified afterward.
func NewList(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindList, list: elems}
}

// NewBlock returns a Block value that runs prog.
func NewBlock(prog Program) Value { return Value{kind: KindBlock, block: prog} }

// NewBool returns the integer 1 for true and 0 for false.
func NewBool(b bool) Value {
	if b {
		return NewInt(1)
	}

	return NewInt(0)
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// Number returns the numeric payload of v. It is zero unless v is a Number.
func (v Value) Number() Number { return v.num }

// Str returns the text of a String value.
func (v Value) Str() string { return v.str }

// List returns the elements of a List value. Callers must not modify the
// returned slice.
func (v Value) List() []Value { return v.list }

// Block returns the program of a Block value.
func (v Value) Block() Program { return v.block }

// Truthy reports whether v counts as true for control flow. Zero, the empty
// String and the empty List are false; every Block is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return !v.num.IsZero()
	case KindString:
		return v.str != ""
	case KindList:
		return len(v.list) > 0
	case KindBlock:
		return true
	default:
		return false
	}
}

// Equal reports whether a and b hold the same data. Numbers compare by value
// across integer and float, and NaN equals nothing. Lists compare element by
// element and Blocks by source.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNumber:
		c, ordered := a.num.Compare(b.num)

		return ordered && c == 0
	case KindString:
		return a.str == b.str
	case KindList:
		return slices.EqualFunc(a.list, b.list, Equal)
	case KindBlock:
		return a.block.String() == b.block.String()
	default:
		return false
	}
}

// hasBlock reports whether v is a Block or a List containing one at any
// depth.
func hasBlock(v Value) bool {
	switch v.kind {
	case KindBlock:
		return true
	case KindList:
		return slices.ContainsFunc(v.list, hasBlock)
	default:
		return false
	}
}
