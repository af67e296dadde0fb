package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles come from a
// renderer bound to the handler's writer, so they render as plain text when
// the writer is not a color terminal.
type palette struct {
	key      lipgloss.Style
	text     lipgloss.Style
	number   lipgloss.Style
	yes      lipgloss.Style
	no       lipgloss.Style
	duration lipgloss.Style
	moment   lipgloss.Style
	null     lipgloss.Style
	trace    lipgloss.Style
	debug    lipgloss.Style
	info     lipgloss.Style
	warn     lipgloss.Style
	fail     lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:      fg("8"),
		text:     fg("6"),
		number:   fg("3"),
		yes:      fg("2"),
		no:       fg("1"),
		duration: fg("5"),
		moment:   fg("4"),
		null:     fg("8"),
		trace:    fg("8"),
		debug:    fg("4"),
		info:     fg("2"),
		warn:     fg("3").Bold(true),
		fail:     fg("1").Bold(true),
	}
}

func (p *palette) level(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return p.fail
	case level >= slog.LevelWarn:
		return p.warn
	case level >= slog.LevelInfo:
		return p.info
	case level >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// boundAttr is an attribute added with WithAttrs, qualified by the groups
// open at the time.
type boundAttr struct {
	prefix string
	attr   slog.Attr
}

// prettyBase is the state shared by both pretty handlers.
type prettyBase struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  *palette
	bound  []boundAttr
	prefix string // open groups, each followed by '.'
}

func newPrettyBase(w io.Writer, opts *slog.HandlerOptions) prettyBase {
	return prettyBase{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
	}
}

func (b prettyBase) enabled(level slog.Level) bool {
	minLevel := slog.LevelInfo
	if b.opts.Level != nil {
		minLevel = b.opts.Level.Level()
	}

	return level >= minLevel
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	bound := make([]boundAttr, len(b.bound), len(b.bound)+len(attrs))
	copy(bound, b.bound)

	for _, a := range attrs {
		bound = append(bound, boundAttr{prefix: b.prefix, attr: a})
	}

	b.bound = bound

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.prefix += name + "."
	}

	return b
}

// header returns the built-in attributes of r after ReplaceAttr.
func (b prettyBase) header(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, b.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	attrs = append(attrs, slog.String(slog.LevelKey, levelName(r.Level)))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	return append(attrs, slog.String(slog.MessageKey, r.Message))
}

func (b prettyBase) replace(a slog.Attr) slog.Attr {
	if b.opts.ReplaceAttr == nil {
		return a
	}

	return b.opts.ReplaceAttr(nil, a)
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one styled line per record with unquoted values.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		if a.Key == slog.LevelKey {
			h.writeKey(buf, "", a.Key)
			buf.WriteString(h.style.level(r.Level).Render(a.Value.String()))

			continue
		}

		h.writeAttr(buf, "", a)
	}

	for _, ba := range h.bound {
		h.writeAttr(buf, ba.prefix, ba.attr)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	return h.write(buf)
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, prefix, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(prefix + key))
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}

		return
	}

	h.writeKey(buf, prefix, a.Key)
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	p := h.style

	switch v.Kind() {
	case slog.KindInt64:
		buf.WriteString(p.number.Render(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(p.number.Render(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(p.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64)))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(p.yes.Render("true"))
		} else {
			buf.WriteString(p.no.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(p.duration.Render(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(p.moment.Render(v.Time().Format(time.RFC3339)))

	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			buf.WriteString(p.no.Render(err.Error()))

			return
		}

		buf.WriteString(p.text.Render(v.String()))

	default:
		buf.WriteString(p.text.Render(v.String()))
	}
}

// prettyJSONHandler writes each record as an indented, styled JSON object.
// Group attributes become nested objects.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	first := true

	buf.WriteByte('{')

	for _, a := range h.header(r) {
		if a.Key == slog.LevelKey {
			h.writeKey(buf, 1, a.Key, &first)
			buf.WriteString(h.style.level(r.Level).Render(strconv.Quote(a.Value.String())))

			continue
		}

		h.writeAttr(buf, 1, "", a, &first)
	}

	for _, ba := range h.bound {
		h.writeAttr(buf, 1, ba.prefix, ba.attr, &first)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, 1, h.prefix, a, &first)

		return true
	})

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) writeKey(
	buf *bytes.Buffer,
	depth int,
	key string,
	first *bool,
) {
	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString(h.style.key.Render(strconv.Quote(key)))
	buf.WriteString(": ")
}

func (h *prettyJSONHandler) writeAttr(
	buf *bytes.Buffer,
	depth int,
	prefix string,
	a slog.Attr,
	first *bool,
) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() != slog.KindGroup {
		h.writeKey(buf, depth, prefix+a.Key, first)
		h.writeValue(buf, a.Value)

		return
	}

	group := a.Value.Group()
	if len(group) == 0 {
		return
	}

	if a.Key == "" {
		for _, ga := range group {
			h.writeAttr(buf, depth, prefix, ga, first)
		}

		return
	}

	h.writeKey(buf, depth, prefix+a.Key, first)
	buf.WriteByte('{')

	inner := true
	for _, ga := range group {
		h.writeAttr(buf, depth+1, "", ga, &inner)
	}

	if !inner {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
	}

	buf.WriteByte('}')
}

func (h *prettyJSONHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	p := h.style

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(p.text.Render(strconv.Quote(v.String())))

	case slog.KindInt64:
		buf.WriteString(p.number.Render(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(p.number.Render(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(p.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64)))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(p.yes.Render("true"))
		} else {
			buf.WriteString(p.no.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(p.duration.Render(strconv.Quote(v.Duration().String())))

	case slog.KindTime:
		buf.WriteString(p.moment.Render(strconv.Quote(v.Time().Format(time.RFC3339))))

	default:
		val := v.Any()

		if val == nil {
			buf.WriteString(p.null.Render("null"))

			return
		}

		if err, ok := val.(error); ok {
			buf.WriteString(p.no.Render(strconv.Quote(err.Error())))

			return
		}

		data, err := json.Marshal(val)
		if err != nil {
			data = []byte(strconv.Quote(fmt.Sprint(val)))
		}

		buf.WriteString(p.text.Render(string(data)))
	}
}
