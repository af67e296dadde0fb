package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pconf/lang"
	"github.com/ardnew/pconf/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourcesKey struct{}
	streamsKey struct{}
	parserKey  struct{}
)

// streams are the standard input and output used by commands.
type streams struct {
	in  io.Reader
	out io.Writer
}

// WithStreams returns a new context.Context whose commands read standard
// input from in and write their results to out.
func WithStreams(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out})
}

func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	return s
}

// WithSources returns a new context.Context containing the default source
// files used by commands that are not given a file argument.
func WithSources(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourcesKey{}, sources)
}

func sourcesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(sourcesKey{}).([]string)

	return s
}

// parser parses command sources.
type parser struct {
	loader *lang.Loader
	opts   []lang.Option
	rooted bool
}

// WithParser returns a new context.Context whose commands parse sources with
// the given loader options.
//
// If rooted is true, opts name an explicit import root shared by every
// source. Otherwise each file resolves imports next to itself and standard
// input resolves them against the working directory.
func WithParser(
	ctx context.Context,
	rooted bool,
	opts ...lang.Option,
) context.Context {
	return context.WithValue(ctx, parserKey{}, &parser{
		loader: lang.NewLoader(opts...),
		opts:   opts,
		rooted: rooted,
	})
}

func parserFrom(ctx context.Context) *parser {
	if p, ok := ctx.Value(parserKey{}).(*parser); ok && p != nil {
		return p
	}

	opts := []lang.Option{lang.WithLogger(log.Default())}

	return &parser{loader: lang.NewLoader(opts...), opts: opts}
}

func (p *parser) parse(
	ctx context.Context,
	src string,
	stdin io.Reader,
) (*lang.Map, error) {
	switch {
	case src == stdinSource:
		return p.loader.ParseReader(ctx, stdin)
	case p.rooted:
		return p.loader.ParsePath(ctx, src)
	default:
		return lang.ParseFile(ctx, src, p.opts...)
	}
}

// read parses src, attributing any failure to it with [ErrReadSource].
func (p *parser) read(
	ctx context.Context,
	src string,
	stdin io.Reader,
) (*lang.Map, error) {
	m, err := p.parse(ctx, src, stdin)
	if err != nil {
		return nil, ErrReadSource.
			With(slog.String("source", src)).
			Wrap(err)
	}

	return m, nil
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// load parses files, or the sources stored with [WithSources] if no files
// are given, or standard input if neither are, and merges the results in
// order.
func load(ctx context.Context, files ...string) (*lang.Map, error) {
	if len(files) == 0 {
		files = sourcesFrom(ctx)
	}

	if len(files) == 0 {
		files = []string{stdinSource}
	}

	p := parserFrom(ctx)
	s := streamsFrom(ctx)

	sources := uniqueSources(files, s.in)

	if len(sources) == 1 {
		return p.read(ctx, sources[0], s.in)
	}

	merged := lang.NewMap()

	for _, src := range sources {
		m, err := p.read(ctx, src, s.in)
		if err != nil {
			return nil, err
		}

		if err := merged.Merge(m); err != nil {
			return nil, ErrMergeSource.
				With(slog.String("source", src)).
				Wrap(err)
		}

		log.DebugContext(ctx, "source merged",
			slog.String("source", src),
			slog.Int("keys", m.Len()),
		)
	}

	return merged, nil
}

// fileKey uniquely identifies a file by its device and inode numbers, or by
// its resolved path where those are not available.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev  uint64
	ino  uint64
	path string
}

// uniqueSources returns sources with duplicates removed, keeping the first
// occurrence of each file. All occurrences of "-", and any file that is
// standard input, are replaced with a single "-" placed last so it reads
// after all regular files.
//
// Sources that cannot be resolved are kept as given so that parsing them
// reports the failure.
func uniqueSources(sources []string, stdin io.Reader) []string {
	unique := make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var (
		stdinKey fileKey
		hasStdin bool
	)

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			stdinKey, _ = makeFileKey(info)
		}
	}

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		path, key := resolveSource(src)
		if stdinKey != (fileKey{}) && key == stdinKey {
			hasStdin = true

			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, path)
	}

	if hasStdin {
		unique = append(unique, stdinSource)
	}

	return unique
}

// resolveSource returns the path used to open src and the key identifying
// the file it names.
func resolveSource(src string) (string, fileKey) {
	absPath, err := filepath.Abs(src)
	if err != nil {
		return src, fileKey{path: src}
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return src, fileKey{path: absPath}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return src, fileKey{path: resolved}
	}

	if key, ok := makeFileKey(info); ok {
		return src, key
	}

	return src, fileKey{path: resolved}
}
