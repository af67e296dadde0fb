package lang

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/pconf/log"
)

func TestLoader_ParseFile(t *testing.T) {
	l := NewLoader(WithFS(memFS(
		"app/main.conf", lines(`"x" = {`, `export("lib/common.conf")`, `}`),
		"lib/common.conf", lines(`"a": "1"`),
		"loop.conf", lines(`export("./loop.conf")`),
	)))

	t.Run("names resolve against the root", func(t *testing.T) {
		m, err := l.ParseFile(context.Background(), "app/main.conf")
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		want := map[string]any{"x": map[string]any{"a": "1"}}
		if diff := cmp.Diff(want, m.ToNative()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cleaned names are the same file", func(t *testing.T) {
		_, err := l.ParseFile(context.Background(), "loop.conf")
		if !errors.Is(err, ErrCircularImport) {
			t.Fatalf("expected ErrCircularImport, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := l.ParseFile(context.Background(), "nope.conf")
		if !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := l.ParseFile(context.Background(), "../main.conf")
		if !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("expected ErrInvalidPath, got %v", err)
		}
	})
}

func TestLoader_ParsePath(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()

	writeFiles(t, dir,
		"shared.conf", lines(`"shared": "yes"`),
		"self.conf", lines(`export("self.conf")`),
	)
	writeFiles(t, other,
		"outside.conf", lines(`"x" = {`, `export("shared.conf")`, `}`),
	)

	l := NewLoader(WithRoot(dir))

	t.Run("files outside the root import from the root", func(t *testing.T) {
		m, err := l.ParsePath(context.Background(), filepath.Join(other, "outside.conf"))
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		want := map[string]any{"x": map[string]any{"shared": "yes"}}
		if diff := cmp.Diff(want, m.ToNative()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("files inside the root are named relative to it", func(t *testing.T) {
		_, err := l.ParsePath(context.Background(), filepath.Join(dir, "self.conf"))
		if !errors.Is(err, ErrCircularImport) {
			t.Fatalf("expected ErrCircularImport, got %v", err)
		}

		if got := attr(t, err, "chain"); got != "self.conf -> self.conf" {
			t.Errorf("chain = %q", got)
		}
	})
}

func TestLoader_CacheReturnsIndependentMaps(t *testing.T) {
	l := NewLoader(WithFS(memFS("f.conf", lines(`"x" = {`, `"a": "1"`, `}`))))

	first, err := l.ParseFile(context.Background(), "f.conf")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	x, _ := first.Get("x")
	if err := x.Block.Merge(mustParse(t, lines(`"b": "2"`))); err != nil {
		t.Fatalf("merge error: %v", err)
	}

	second, err := l.ParseFile(context.Background(), "f.conf")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := map[string]any{"x": map[string]any{"a": "1"}}
	if diff := cmp.Diff(want, second.ToNative()); diff != "" {
		t.Errorf("cached result was modified (-want +got):\n%s", diff)
	}
}

func TestLoader_CacheHitIsLogged(t *testing.T) {
	var buf bytes.Buffer

	l := NewLoader(
		WithFS(memFS("f.conf", lines(`"a": "1"`))),
		WithLogger(log.Make(&buf,
			log.WithLevel(log.LevelTrace),
			log.WithFormat(log.FormatJSON),
			log.WithPretty(false),
		)),
	)

	for range 2 {
		if _, err := l.ParseFile(context.Background(), "f.conf"); err != nil {
			t.Fatalf("parse error: %v", err)
		}
	}

	if !strings.Contains(buf.String(), `"cache_hit":true`) {
		t.Errorf("expected a cache hit in log output:\n%s", buf.String())
	}

	buf.Reset()
	l.ClearCache()

	if _, err := l.ParseFile(context.Background(), "f.conf"); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if strings.Contains(buf.String(), `"cache_hit":true`) {
		t.Errorf("expected no cache hit after ClearCache:\n%s", buf.String())
	}
}

func TestLoader_CacheSeesChangedImports(t *testing.T) {
	dir := t.TempDir()

	writeFiles(t, dir,
		"main.conf", lines(`export("part.conf")`),
		"part.conf", lines(`"a": "1"`),
	)

	l := NewLoader(WithRoot(dir))

	m, err := l.ParseFile(context.Background(), "main.conf")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if diff := cmp.Diff(map[string]any{"a": "1"}, m.ToNative()); diff != "" {
		t.Errorf("first parse (-want +got):\n%s", diff)
	}

	writeFiles(t, dir, "part.conf", lines(`"a": "2"`, `"b"`))

	m, err = l.ParseFile(context.Background(), "main.conf")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := map[string]any{"a": "2", "b": nil}
	if diff := cmp.Diff(want, m.ToNative()); diff != "" {
		t.Errorf("second parse (-want +got):\n%s", diff)
	}

	if err := os.Remove(filepath.Join(dir, "part.conf")); err != nil {
		t.Fatal(err)
	}

	if _, err := l.ParseFile(context.Background(), "main.conf"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound after removing import, got %v", err)
	}
}

func TestLoader_CacheDoesNotHideCycles(t *testing.T) {
	fsys := memFS(
		"c.conf", lines(`"k" = {`, `export("d.conf")`, `}`),
		"d.conf", lines(`"d"`),
	)

	l := NewLoader(WithFS(fsys))

	if _, err := l.ParseFile(context.Background(), "c.conf"); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	// The cached result for c.conf imported d.conf, which now imports c.conf.
	fsys["d.conf"] = &fstest.MapFile{Data: []byte(lines(`export("c.conf")`))}

	_, err := l.ParseFile(context.Background(), "d.conf")
	if !errors.Is(err, ErrCircularImport) {
		t.Fatalf("expected ErrCircularImport, got %v", err)
	}

	if got := attr(t, err, "chain"); got != "d.conf -> c.conf -> d.conf" {
		t.Errorf("chain = %q", got)
	}
}

func TestLoader_StrictnessIsPartOfCacheKey(t *testing.T) {
	fsys := memFS("f.conf", lines(`"a": "1"`, `junk`))

	loose := NewLoader(WithFS(fsys))
	if _, err := loose.ParseFile(context.Background(), "f.conf"); err != nil {
		t.Fatalf("permissive parse error: %v", err)
	}

	strict := NewLoader(WithFS(fsys), WithStrict(true))
	if !strict.Strict() {
		t.Fatal("Strict() = false, want true")
	}

	if _, err := strict.ParseFile(context.Background(), "f.conf"); !errors.Is(err, ErrUnrecognizedLine) {
		t.Fatalf("expected ErrUnrecognizedLine, got %v", err)
	}
}

func TestLoader_Concurrent(t *testing.T) {
	l := NewLoader(WithFS(memFS(
		"main.conf", lines(`"x" = {`, `export("a.conf")`, `}`, `export("b.conf")`),
		"a.conf", lines(`"a": "1"`),
		"b.conf", lines(`"b" = {`, `export("a.conf")`, `}`),
	)))

	want := map[string]any{
		"x": map[string]any{"a": "1"},
		"b": map[string]any{"a": "1"},
	}

	var wg sync.WaitGroup

	errs := make(chan error, 32)

	for range 32 {
		wg.Go(func() {
			m, err := l.ParseFile(context.Background(), "main.conf")
			if err != nil {
				errs <- err

				return
			}

			if diff := cmp.Diff(want, m.ToNative()); diff != "" {
				errs <- errors.New(diff)
			}
		})
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestSearchFS(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()

	writeFiles(t, first, "shared.conf", lines(`"from": "first"`))
	writeFiles(t, second,
		"shared.conf", lines(`"from": "second"`),
		"only.conf", lines(`"only"`),
	)

	fsys := SearchFS(first, second)

	tests := []struct {
		name string
		file string
		want string
	}{
		{"first match wins", "shared.conf", "first"},
		{"falls through", "only.conf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := fs.ReadFile(fsys, tt.file)
			if err != nil {
				t.Fatalf("read error: %v", err)
			}

			if tt.want != "" && !strings.Contains(string(data), tt.want) {
				t.Errorf("read %q, want content from %s", data, tt.want)
			}
		})
	}

	t.Run("missing", func(t *testing.T) {
		if _, err := fsys.Open("none.conf"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := fsys.Open("../none.conf"); !errors.Is(err, fs.ErrInvalid) {
			t.Errorf("expected fs.ErrInvalid, got %v", err)
		}
	})

	t.Run("as import root", func(t *testing.T) {
		m, err := ParseString(context.Background(),
			lines(`export("shared.conf")`, `export("only.conf")`),
			WithFS(fsys),
		)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		want := map[string]any{"from": "first", "only": nil}
		if diff := cmp.Diff(want, m.ToNative()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func mustParse(t *testing.T, input string) *Map {
	t.Helper()

	m, err := ParseString(context.Background(), input, WithFS(memFS()))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return m
}
