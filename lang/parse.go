package lang

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
)

// ParseFile parses the file at path as a top-level document.
//
// Imports resolve against the directory containing path unless opts
// include [WithRoot] or [WithFS].
func ParseFile(ctx context.Context, path string, opts ...Option) (*Map, error) {
	l := NewLoader(append([]Option{WithRoot(filepath.Dir(path))}, opts...)...)

	l.logger.TraceContext(ctx, "parse start", slog.String("file", path))

	return l.ParsePath(ctx, path)
}

// ParseString parses input as a top-level document.
//
// Imports resolve against the working directory unless opts include
// [WithRoot] or [WithFS].
func ParseString(ctx context.Context, input string, opts ...Option) (*Map, error) {
	l := NewLoader(opts...)

	l.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(input)),
	)

	return l.ParseString(ctx, input)
}

// ParseReader reads r to the end and parses its content as a top-level
// document.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Map, error) {
	return NewLoader(opts...).ParseReader(ctx, r)
}
