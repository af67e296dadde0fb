package lang

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/pconf/log"
)

// Names given to sources that are not files.
const (
	stringSource = "<string>"
	readerSource = "<reader>"
)

// Loader parses documents and resolves their imports against a root file
// system. A Loader caches parse results and is safe for concurrent use.
type Loader struct {
	fsys    fs.FS
	logger  log.Logger
	cache   *cache
	rootDir string // directory behind fsys, if it is one
	strict  bool
}

// NewLoader returns a Loader configured with opts. Without [WithRoot] or
// [WithFS], imports resolve against the working directory at the time
// NewLoader is called.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{cache: new(cache)}

	applyOptions(l, opts...)

	if l.fsys == nil {
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}

		WithRoot(dir)(l)
	}

	return l
}

// Strict reports whether l rejects unrecognized lines.
func (l *Loader) Strict() bool { return l.strict }

// ParseFile parses the file name within the root file system.
func (l *Loader) ParseFile(ctx context.Context, name string) (*Map, error) {
	clean := path.Clean(name)
	if !fs.ValidPath(clean) {
		return nil, ErrInvalidPath.With(slog.String("file", name))
	}

	data, err := l.readFS(clean)
	if err != nil {
		return nil, readError(err, name)
	}

	return l.parse(ctx, newSource(clean, data), xxh3.Hash(data), []string{clean})
}

// ParseString parses input. Imports resolve against the root file system.
func (l *Loader) ParseString(ctx context.Context, input string) (*Map, error) {
	data := []byte(input)

	return l.parse(ctx, newSource(stringSource, data), xxh3.Hash(data), nil)
}

// ParseReader reads r to the end and parses its content.
func (l *Loader) ParseReader(ctx context.Context, r io.Reader) (*Map, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", readerSource))
	}

	l.logger.TraceContext(
		ctx,
		"read input",
		slog.String("source", readerSource),
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return l.parse(ctx, newSource(readerSource, data), xxh3.Hash(data), nil)
}

// ParsePath parses the file at p in the host file system, which need not
// lie within the root. When it does, it is identified by its name within
// the root so that importing it again is seen as circular.
func (l *Loader) ParsePath(ctx context.Context, p string) (*Map, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, readError(err, p)
	}
	defer f.Close()

	data, err := readAll(f)
	if err != nil {
		return nil, readError(err, p)
	}

	l.logger.TraceContext(
		ctx,
		"read input",
		slog.String("file", p),
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return l.parse(ctx, newSource(p, data), xxh3.Hash(data), []string{l.rootName(p)})
}

// rootName returns the name of p relative to the root directory, or p
// unchanged if it lies outside of it.
func (l *Loader) rootName(p string) string {
	if l.rootDir == "" {
		return p
	}

	root, err := filepath.Abs(l.rootDir)
	if err != nil {
		return p
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || !filepath.IsLocal(rel) {
		return p
	}

	return filepath.ToSlash(rel)
}

// parse builds src, or returns a clone of its cached result.
func (l *Loader) parse(
	ctx context.Context,
	src source,
	sum uint64,
	chain []string,
) (*Map, error) {
	m, _, err := l.parseDeps(ctx, src, sum, chain)

	return m, err
}

func (l *Loader) parseDeps(
	ctx context.Context,
	src source,
	sum uint64,
	chain []string,
) (*Map, map[string]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	key := cacheKey{sum: sum, strict: l.strict}

	if e, ok := l.lookup(ctx, key, chain); ok {
		return e.m.Clone(), e.deps, nil
	}

	b := builder{
		loader: l,
		src:    src,
		chain:  chain,
		deps:   map[string]uint64{},
	}

	m, err := b.build(ctx)
	if err != nil {
		return nil, nil, err
	}

	l.cache.store(key, entry{m: m, deps: b.deps})

	return m.Clone(), b.deps, nil
}

// importFile parses the file name as an independent top-level document on
// behalf of a source whose import chain is chain. It returns the parsed map
// and the content hash of every file that went into it, name included.
func (l *Loader) importFile(
	ctx context.Context,
	name string,
	chain []string,
) (*Map, map[string]uint64, error) {
	clean := path.Clean(name)
	if !fs.ValidPath(clean) {
		return nil, nil, ErrInvalidPath.With(slog.String("file", name))
	}

	if slices.Contains(chain, clean) {
		return nil, nil, ErrCircularImport.With(
			slog.String("file", clean),
			slog.String("chain", strings.Join(append(slices.Clone(chain), clean), " -> ")),
		)
	}

	data, err := l.readFS(clean)
	if err != nil {
		return nil, nil, readError(err, name)
	}

	sum := xxh3.Hash(data)

	l.logger.TraceContext(
		ctx,
		"import begin",
		slog.String("file", clean),
		slog.Int("source_bytes", len(data)),
		slog.Int("chain_length", len(chain)),
	)

	m, deps, err := l.parseDeps(
		ctx,
		newSource(clean, data),
		sum,
		append(slices.Clone(chain), clean),
	)
	if err != nil {
		return nil, nil, err
	}

	all := maps.Clone(deps)
	all[clean] = sum

	l.logger.TraceContext(
		ctx,
		"import end",
		slog.String("file", clean),
		slog.Int("keys", m.Len()),
	)

	return m, all, nil
}

// readFS reads the file name from the root file system.
func (l *Loader) readFS(name string) ([]byte, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readAll(f)
}

// readAll reads r to the end through an asynchronous read-ahead buffer.
func readAll(r io.Reader) ([]byte, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	return io.ReadAll(ra)
}

// readError converts a failure to open or read the file name into an
// [Error].
func readError(err error, name string) error {
	file := slog.String("file", name)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrFileNotFound.Wrap(err).With(file)
	default:
		return ErrReadInput.Wrap(err).With(file)
	}
}

// SearchFS returns a file system that opens each name from the first of
// dirs that contains it.
func SearchFS(dirs ...string) fs.FS {
	s := make(searchFS, 0, len(dirs))
	for _, dir := range dirs {
		s = append(s, os.DirFS(dir))
	}

	return s
}

type searchFS []fs.FS

func (s searchFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	for _, fsys := range s {
		f, err := fsys.Open(name)
		if err == nil {
			return f, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
