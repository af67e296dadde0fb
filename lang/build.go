package lang

import (
	"context"
	"log/slog"
	"maps"
	"strings"
)

// source is one document being parsed.
type source struct {
	name  string // name used in diagnostics and import chains
	lines []string
}

func newSource(name string, data []byte) source {
	return source{name: name, lines: strings.Split(string(data), "\n")}
}

// cursor is the read position in a line sequence.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) more() bool { return c.pos < len(c.lines) }

// next returns the next line and its 1-based line number.
func (c *cursor) next() (string, int) {
	text := c.lines[c.pos]
	c.pos++

	return text, c.pos
}

// frame is a block that has been opened and not yet closed. Its map holds
// the keys defined in that block only; the set is discarded when the
// block closes.
type frame struct {
	m    *Map
	key  string // key the block is stored under; empty at top level
	line int    // line that opened the block
}

// builder turns the lines of one source into a Map.
type builder struct {
	loader *Loader
	src    source
	chain  []string          // files being parsed, outermost first, including src
	deps   map[string]uint64 // files imported so far, by content hash
}

// build parses the whole source as a top-level document.
//
// Nested blocks are tracked on an explicit stack rather than by recursion,
// so deeply nested input cannot exhaust the goroutine stack.
func (b *builder) build(ctx context.Context) (*Map, error) {
	logger := b.loader.logger
	stack := []*frame{{m: NewMap()}}
	cur := cursor{lines: b.src.lines}

	for cur.more() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, num := cur.next()
		top := stack[len(stack)-1]
		line := Classify(text)

		switch line.Kind {
		case LineBlank:
			continue

		case LineImport:
			imported, deps, err := b.loader.importFile(ctx, line.File, b.chain)
			if err != nil {
				return nil, b.annotate(err, num)
			}

			maps.Copy(b.deps, deps)

			for k, v := range imported.All() {
				if !top.m.insert(k, v) {
					return nil, ErrDuplicateKey.With(
						slog.String("key", k),
						slog.String("file", b.src.name),
						slog.Int("line", num),
						slog.String("import", line.File),
					)
				}
			}

			logger.TraceContext(ctx, "import merged",
				slog.String("file", b.src.name),
				slog.String("import", line.File),
				slog.Int("keys", imported.Len()),
				slog.Int("depth", len(stack)-1),
			)

		case LineClose:
			if len(stack) == 1 {
				if b.loader.strict {
					return nil, ErrUnexpectedClose.With(
						slog.String("file", b.src.name),
						slog.Int("line", num),
					)
				}

				logger.WarnContext(ctx, "ignoring unmatched closing brace",
					slog.String("file", b.src.name),
					slog.Int("line", num),
				)

				continue
			}

			stack = stack[:len(stack)-1]

			logger.TraceContext(ctx, "block close",
				slog.String("key", top.key),
				slog.Int("keys", top.m.Len()),
				slog.Int("line", num),
			)

		case LineBlockOpen, LineKeyBlock:
			child := NewMap()
			if !top.m.insert(line.Key, BlockOf(child)) {
				return nil, b.duplicate(line.Key, num)
			}

			stack = append(stack, &frame{m: child, key: line.Key, line: num})

			logger.TraceContext(ctx, "block open",
				slog.String("key", line.Key),
				slog.String("shape", line.Kind.String()),
				slog.Int("line", num),
			)

		case LineKeyValue:
			if !top.m.insert(line.Key, String(line.Value)) {
				return nil, b.duplicate(line.Key, num)
			}

		case LineBareKey:
			if !top.m.insert(line.Key, Null()) {
				return nil, b.duplicate(line.Key, num)
			}

		default:
			if b.loader.strict {
				return nil, ErrUnrecognizedLine.With(
					slog.String("file", b.src.name),
					slog.Int("line", num),
					slog.String("text", strings.TrimSpace(text)),
				)
			}

			logger.WarnContext(ctx, "ignoring unrecognized line",
				slog.String("file", b.src.name),
				slog.Int("line", num),
				slog.String("text", strings.TrimSpace(text)),
			)
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1]

		return nil, ErrUnclosedBlock.With(
			slog.String("key", open.key),
			slog.String("file", b.src.name),
			slog.Int("line", open.line),
		)
	}

	return stack[0].m, nil
}

func (b *builder) duplicate(key string, num int) error {
	return ErrDuplicateKey.With(
		slog.String("key", key),
		slog.String("file", b.src.name),
		slog.Int("line", num),
	)
}

// annotate records where an import failed unless a nested parse already
// did so.
func (b *builder) annotate(err error, num int) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}

	if _, ok := e.Attr("from"); ok {
		return e
	}

	return e.With(
		slog.String("from", b.src.name),
		slog.Int("from_line", num),
	)
}
