package lang

import "log/slog"

// zipBinary lifts op over Lists. Two Lists combine pairwise and must have
// equal length; a List and a scalar broadcast the scalar. Nested Lists
// recurse. The first failing element aborts the whole operation.
func zipBinary(op binaryFunc) binaryFunc {
	var zip binaryFunc

	zip = func(a, b Value) (Value, error) {
		switch {
		case a.kind == KindList && b.kind == KindList:
			if len(a.list) != len(b.list) {
				return Value{}, typeMismatch(a, b).With(
					slog.Int("left_len", len(a.list)),
					slog.Int("right_len", len(b.list)),
				)
			}

			out := make([]Value, len(a.list))

			for i := range a.list {
				v, err := zip(a.list[i], b.list[i])
				if err != nil {
					return Value{}, err
				}

				out[i] = v
			}

			return NewList(out...), nil

		case a.kind == KindList:
			return mapList(a.list, func(x Value) (Value, error) { return zip(x, b) })

		case b.kind == KindList:
			return mapList(b.list, func(y Value) (Value, error) { return zip(a, y) })

		default:
			return op(a, b)
		}
	}

	return zip
}

// mapUnary lifts op over Lists, recursing into nested Lists.
func mapUnary(op unaryFunc) unaryFunc {
	var apply unaryFunc

	apply = func(a Value) (Value, error) {
		if a.kind != KindList {
			return op(a)
		}

		return mapList(a.list, apply)
	}

	return apply
}

func mapList(elems []Value, fn unaryFunc) (Value, error) {
	out := make([]Value, len(elems))

	for i, e := range elems {
		v, err := fn(e)
		if err != nil {
			return Value{}, err
		}

		out[i] = v
	}

	return NewList(out...), nil
}
