package lang

import (
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions limits the alternatives offered for a missing key.
const maxSuggestions = 3

// Lookup returns the value at path, descending one block per key. An empty
// path returns m itself as a block.
//
// A missing key fails with [ErrKeyNotFound]; when keys of that block
// resemble the missing one, the error carries them in its "suggest"
// attribute. Descending into a string or null fails with [ErrNotBlock].
func (m *Map) Lookup(path ...string) (Value, error) {
	cur := BlockOf(m)

	for i, key := range path {
		if cur.Kind != KindBlock {
			return Value{}, ErrNotBlock.With(
				slog.String("path", strings.Join(path[:i], " ")),
				slog.String("kind", cur.Kind.String()),
			)
		}

		v, ok := cur.Block.Get(key)
		if !ok {
			err := ErrKeyNotFound.With(
				slog.String("key", key),
				slog.String("path", strings.Join(path[:i+1], " ")),
			)

			if s := Suggest(key, cur.Block.Keys()); len(s) > 0 {
				err = err.With(slog.String("suggest", strings.Join(s, ", ")))
			}

			return Value{}, err
		}

		cur = v
	}

	return cur, nil
}

// Suggest returns up to three of candidates that fuzzily match key, best
// match first.
func Suggest(key string, candidates []string) []string {
	matches := fuzzy.Find(key, candidates)

	s := make([]string, 0, min(len(matches), maxSuggestions))
	for _, match := range matches {
		if len(s) == maxSuggestions {
			break
		}

		s = append(s, match.Str)
	}

	return s
}
