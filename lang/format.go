package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// String formats v the way the print command does: Strings appear without
// quotes, everything nested inside a List in source form.
func (v Value) String() string {
	if v.kind == KindString {
		return v.str
	}

	return v.Source()
}

// Source formats v as a literal that parses back to an equal value.
func (v Value) Source() string {
	var b strings.Builder

	writeSource(&b, v)

	return b.String()
}

func writeSource(b *strings.Builder, v Value) {
	switch v.kind {
	case KindNumber:
		b.WriteString(v.num.String())

	case KindString:
		b.WriteString(quote(v.str))

	case KindList:
		b.WriteByte('[')

		for i, e := range v.list {
			if i > 0 {
				b.WriteByte(' ')
			}

			writeSource(b, e)
		}

		b.WriteByte(']')

	case KindBlock:
		b.WriteByte('[')
		b.WriteString(v.block.String())
		b.WriteByte(']')
	}
}

// quote is the inverse of unquote.
func quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}

// Format writes p in canonical source form. With indent > 0 every top-level
// node goes on its own line.
func (p Program) Format(_ context.Context, w io.Writer, indent int) error {
	sep := " "
	if indent > 0 {
		sep = "\n"
	}

	for i, n := range p {
		if i > 0 {
			if _, err := io.WriteString(w, sep); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, n.String()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)

	return err
}

// FormatJSON writes the node tree of p as JSON.
func (p Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the node tree of p as YAML.
func (p Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return encodeYAML(ctx, w, p.ToNative(), indent)
}

// FormatStackJSON writes stack as a JSON array of native values.
func FormatStackJSON(w io.Writer, stack []Value, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(Stack(stack), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(Stack(stack))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatStackYAML writes stack as a YAML sequence of native values.
func FormatStackYAML(
	ctx context.Context,
	w io.Writer,
	stack []Value,
	indent int,
) error {
	return encodeYAML(ctx, w, Stack(stack).ToNative(), indent)
}

func encodeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func writer(w io.Writer) func(eol string, item ...string) {
	return func(eol string, item ...string) {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)
		if err != nil {
			panic(err)
		}
	}
}

// Print writes an indented tree of p, one node per line with its position.
func (p Program) Print(w io.Writer) { p.PrintIndent(w, 0) }

// PrintIndent is like Print with every line indented by depth levels.
func (p Program) PrintIndent(w io.Writer, depth int) {
	if len(p) == 0 {
		writer(w)("\n", strings.Repeat("  ", depth)+"(empty)")

		return
	}

	for _, n := range p {
		n.print(w, depth)
	}
}

func (n Node) print(w io.Writer, depth int) {
	prefix := strings.Repeat("  ", depth)
	put := writer(w)

	if n.Kind == NodeCommand {
		name := "?"
		if b, ok := Lookup(n.Symbol); ok {
			name = b.Name
		}

		put("\n", prefix+"Command", n.Symbol+" ("+name+") @"+n.Pos.String())

		return
	}

	printValue(w, n.Value, depth, " @"+n.Pos.String())
}

func printValue(w io.Writer, v Value, depth int, suffix string) {
	prefix := strings.Repeat("  ", depth)
	put := writer(w)

	switch v.kind {
	case KindBlock:
		put("\n", prefix+"Block", "["+suffix)
		v.block.PrintIndent(w, depth+1)
		put("\n", prefix+"]")

	case KindList:
		put("\n", prefix+"List", "["+suffix)

		for _, e := range v.list {
			printValue(w, e, depth+1, "")
		}

		put("\n", prefix+"]")

	default:
		put("\n", prefix+"Literal", v.kind.String()+" "+v.Source()+suffix)
	}
}
