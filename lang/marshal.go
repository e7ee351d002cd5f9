package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for Program.
func (p Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToNative())
}

// ToNative converts p to a slice of maps, one per node.
func (p Program) ToNative() []any {
	nodes := make([]any, len(p))
	for i, n := range p {
		nodes[i] = n.ToNative()
	}

	return nodes
}

// ToNative converts n to a map keyed by its role: "command" for commands,
// "block" for code brackets, and "push" for every other literal.
func (n Node) ToNative() map[string]any {
	m := map[string]any{"pos": n.Pos.String()}

	switch {
	case n.Kind == NodeCommand:
		m["command"] = n.Symbol

		if b, ok := Lookup(n.Symbol); ok {
			m["name"] = b.Name
		}

	case n.Value.kind == KindBlock:
		m["block"] = n.Value.block.ToNative()

	default:
		m["push"] = n.Value.ToNative()
	}

	return m
}

// MarshalJSON implements json.Marshaler for Value.
func (v Value) MarshalJSON() ([]byte, error) {
	// Integers too wide for int64 are emitted as bare JSON numbers.
	if v.kind == KindNumber && v.num.IsInt() {
		if _, ok := v.num.Int64(); !ok {
			return []byte(v.num.String()), nil
		}
	}

	return json.Marshal(v.ToNative())
}

// ToNative converts v to plain Go data: int64 or float64 for numbers
// (decimal strings for integers beyond int64 and for non-finite floats),
// string, []any for Lists, and a map with the source text for Blocks.
func (v Value) ToNative() any {
	switch v.kind {
	case KindNumber:
		if i, ok := v.num.Int64(); ok {
			return i
		}

		if f := v.num.Float64(); v.num.float && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}

		return v.num.String()

	case KindString:
		return v.str

	case KindList:
		return Stack(v.list).ToNative()

	case KindBlock:
		return map[string]any{"block": v.block.String()}

	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler for Stack.
func (s Stack) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Value(s))
}

// ToNative converts every element of s with [Value.ToNative].
func (s Stack) ToNative() []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v.ToNative()
	}

	return out
}
