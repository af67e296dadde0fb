package lang

import (
	"io/fs"
	"os"

	"github.com/ardnew/pconf/log"
)

// Option configures a [Loader].
type Option func(*Loader)

// WithRoot resolves imports against the directory dir.
func WithRoot(dir string) Option {
	return func(l *Loader) {
		l.fsys = os.DirFS(dir)
		l.rootDir = dir
	}
}

// WithFS resolves imports against fsys. Import names are slash-separated
// paths as accepted by [fs.ValidPath].
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.fsys = fsys
		l.rootDir = ""
	}
}

// WithStrict makes unrecognized lines and unmatched closing braces parse
// failures instead of logged warnings.
func WithStrict(strict bool) Option {
	return func(l *Loader) {
		l.strict = strict
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

func applyOptions(l *Loader, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
}
