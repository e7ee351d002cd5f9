package lang

import (
	"iter"
	"strings"
)

// NodeKind distinguishes the two node variants.
type NodeKind int

const (
	NodeLiteral NodeKind = iota // literal
	NodeCommand                 // command
)

func (k NodeKind) String() string {
	if k == NodeCommand {
		return "command"
	}

	return "literal"
}

// Node is one executable element of a [Program]: a literal pushed as-is or
// a command dispatched to a builtin.
type Node struct {
	Kind   NodeKind
	Value  Value  // NodeLiteral
	Symbol string // NodeCommand
	Pos    Position
}

// Literal returns a node that pushes v.
func Literal(v Value, pos Position) Node {
	return Node{Kind: NodeLiteral, Value: v, Pos: pos}
}

// Command returns a node that runs the builtin named symbol.
func Command(symbol string, pos Position) Node {
	return Node{Kind: NodeCommand, Symbol: symbol, Pos: pos}
}

// String returns the node in source form.
func (n Node) String() string {
	if n.Kind == NodeCommand {
		return n.Symbol
	}

	return n.Value.Source()
}

// Program is a parsed sequence of nodes. Programs are never modified after
// parsing and may be shared freely, including across goroutines.
type Program []Node

// All returns an iterator over every node of p, descending into Blocks and
// Lists depth-first.
func (p Program) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		p.walk(yield)
	}
}

func (p Program) walk(yield func(Node) bool) bool {
	for _, n := range p {
		if !yield(n) {
			return false
		}

		if n.Kind == NodeLiteral && !walkValue(n.Value, yield) {
			return false
		}
	}

	return true
}

func walkValue(v Value, yield func(Node) bool) bool {
	switch v.kind {
	case KindBlock:
		return v.block.walk(yield)
	case KindList:
		for _, e := range v.list {
			if !walkValue(e, yield) {
				return false
			}
		}
	}

	return true
}

// String returns p in canonical source form: nodes separated by one space.
func (p Program) String() string {
	var b strings.Builder

	for i, n := range p {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(n.String())
	}

	return b.String()
}

// isLiteral reports whether every direct child of p is a literal.
func (p Program) isLiteral() bool {
	for _, n := range p {
		if n.Kind != NodeLiteral {
			return false
		}
	}

	return true
}

// values returns the literal values of p.
func (p Program) values() []Value {
	vs := make([]Value, len(p))
	for i, n := range p {
		vs[i] = n.Value
	}

	return vs
}
