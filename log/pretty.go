package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// layout selects how prettyHandler arranges the fields of a record.
type layout int

const (
	layoutText layout = iota // key=value pairs on one line
	layoutJSON               // one field per line between braces
)

// palette holds the styles used to render each kind of value. Styles are
// bound to a renderer for the handler's writer, so color is only emitted
// when that writer is a capable terminal.
type palette struct {
	key, str, num, yes, no, dur, when, null lipgloss.Style
	trace, debug, info, warn, err           lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindTime:
		return p.when.Render(v.Time().Format(time.RFC3339))

	default:
		switch a := v.Any().(type) {
		case nil:
			return p.null.Render("null")
		case slog.Level:
			return p.level(a).Render(strings.ToUpper(Level(a).String()))
		case error:
			return p.no.Render(a.Error())
		default:
			return p.str.Render(fmt.Sprint(a))
		}
	}
}

// field is a rendered key and value.
type field struct {
	key, val string
}

// prettyHandler is a [slog.Handler] for humans. Groups are flattened into
// dotted keys and [slog.LogValuer] values are resolved before rendering.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	attrs  []field
	prefix string
	layout layout
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	layout layout,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		pal:    newPalette(w),
		layout: layout,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.appendAttr(fields, "", h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	fields = append(fields, field{
		key: slog.LevelKey,
		val: h.pal.level(r.Level).Render(strings.ToUpper(Level(r.Level).String())),
	})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, field{
				key: slog.SourceKey,
				val: h.pal.key.Render(fmt.Sprintf("%s:%d", src.File, src.Line)),
			})
		}
	}

	fields = append(fields, field{key: slog.MessageKey, val: r.Message})
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.prefix, a)

		return true
	})

	buf := h.render(fields)

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf)

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = make([]field, len(h.attrs), len(h.attrs)+len(attrs))
	copy(c.attrs, h.attrs)

	for _, a := range attrs {
		c.attrs = h.appendAttr(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// replace applies the configured ReplaceAttr to a builtin attribute.
func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) appendAttr(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			fields = h.appendAttr(fields, prefix, g)
		}

		return fields
	}

	return append(fields, field{key: prefix + a.Key, val: h.pal.value(a.Value)})
}

func (h *prettyHandler) render(fields []field) []byte {
	var buf bytes.Buffer

	switch h.layout {
	case layoutJSON:
		buf.WriteString("{\n")

		for i, f := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  ")
			buf.WriteString(h.pal.key.Render(f.key))
			buf.WriteString(": ")
			buf.WriteString(f.val)
		}

		buf.WriteString("\n}\n")

	default:
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.pal.key.Render(f.key))
			buf.WriteByte('=')
			buf.WriteString(f.val)
		}

		buf.WriteByte('\n')
	}

	return buf.Bytes()
}
