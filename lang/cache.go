package lang

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// cacheKey identifies a parse result by source content and parse mode.
type cacheKey struct {
	sum    uint64
	strict bool
}

// entry is a successful parse result. Only successes are stored, because a
// failure such as a circular import depends on the chain that reached the
// source and not on the source alone.
type entry struct {
	m    *Map
	deps map[string]uint64 // every file imported, transitively, by content hash
}

// cache stores parse results. The stored maps are never handed out; callers
// receive clones.
type cache struct {
	entries sync.Map // cacheKey -> entry
}

func (c *cache) load(key cacheKey) (entry, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return entry{}, false
	}

	e, ok := v.(entry)

	return e, ok
}

func (c *cache) store(key cacheKey, e entry) { c.entries.Store(key, e) }

func (c *cache) clear() { c.entries.Clear() }

// lookup returns the cached result for key if it is still valid: every
// file it imported must still hold the content it was parsed from, and none
// of them may be in chain. A stale or cyclic entry is reported as a miss so
// that parsing again produces the accurate result or error.
func (l *Loader) lookup(
	ctx context.Context,
	key cacheKey,
	chain []string,
) (entry, bool) {
	e, ok := l.cache.load(key)

	l.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(key.sum, 16)),
		slog.Bool("strict", key.strict),
		slog.Bool("cache_hit", ok),
	)

	if !ok {
		return entry{}, false
	}

	for name, sum := range e.deps {
		if slices.Contains(chain, name) {
			return entry{}, false
		}

		data, err := l.readFS(name)
		if err != nil || xxh3.Hash(data) != sum {
			l.logger.TraceContext(ctx, "cache stale", slog.String("import", name))

			return entry{}, false
		}
	}

	return e, true
}

// ClearCache discards every parse result cached by l.
func (l *Loader) ClearCache() { l.cache.clear() }
