package lang

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/pconf/log"
)

// lines joins its arguments into a source document.
func lines(ls ...string) string { return strings.Join(ls, "\n") + "\n" }

// memFS builds an in-memory root from name/content pairs.
func memFS(files ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for i := 0; i+1 < len(files); i += 2 {
		fsys[files[i]] = &fstest.MapFile{Data: []byte(files[i+1])}
	}

	return fsys
}

// attr returns the string form of the named error attribute.
func attr(t *testing.T, err error, key string) string {
	t.Helper()

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is %T, not *Error", err, err)
	}

	v, ok := e.Attr(key)
	if !ok {
		t.Fatalf("error %v has no %q attribute", err, key)
	}

	return v.String()
}

func TestParseString_Structure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "empty",
			input: "",
			want:  map[string]any{},
		},
		{
			name:  "flat",
			input: lines(`"a": "1"`, `"b": ""`),
			want:  map[string]any{"a": "1", "b": ""},
		},
		{
			name:  "bare key",
			input: lines(`"debug"`),
			want:  map[string]any{"debug": nil},
		},
		{
			name:  "block open",
			input: lines(`"x" = {`, `"y": "z"`, `}`),
			want:  map[string]any{"x": map[string]any{"y": "z"}},
		},
		{
			name:  "key block",
			input: lines(`"x": {`, `"y": "z"`, `}`),
			want:  map[string]any{"x": map[string]any{"y": "z"}},
		},
		{
			name:  "empty block",
			input: lines(`"x" = {`, `}`),
			want:  map[string]any{"x": map[string]any{}},
		},
		{
			name: "nested with blank lines and indentation",
			input: lines(
				`"server" = {`,
				``,
				`    "host": "localhost"`,
				`    "tls": {`,
				`        "cert": "server.pem"`,
				`        "verify"`,
				`    }`,
				`}`,
				`"name": "web"`,
			),
			want: map[string]any{
				"server": map[string]any{
					"host": "localhost",
					"tls":  map[string]any{"cert": "server.pem", "verify": nil},
				},
				"name": "web",
			},
		},
		{
			name:  "no trailing newline",
			input: `"a": "1"`,
			want:  map[string]any{"a": "1"},
		},
		{
			name:  "carriage returns",
			input: "\"x\" = {\r\n\"y\": \"z\"\r\n}\r\n",
			want:  map[string]any{"x": map[string]any{"y": "z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseString(context.Background(), tt.input, WithFS(memFS()))
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if diff := cmp.Diff(tt.want, m.ToNative()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseString_KeepsSourceOrder(t *testing.T) {
	m, err := ParseString(context.Background(),
		lines(`"c": "1"`, `"a" = {`, `"z"`, `"y"`, `}`, `"b"`),
		WithFS(memFS()),
	)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if diff := cmp.Diff([]string{"c", "a", "b"}, m.Keys()); diff != "" {
		t.Errorf("top-level keys (-want +got):\n%s", diff)
	}

	a, _ := m.Get("a")
	if diff := cmp.Diff([]string{"z", "y"}, a.Block.Keys()); diff != "" {
		t.Errorf("nested keys (-want +got):\n%s", diff)
	}
}

func TestParseString_DepthMatchesBraces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		depth int
	}{
		{"flat", lines(`"a": "1"`), 0},
		{"one", lines(`"a" = {`, `}`), 1},
		{"three", lines(`"a" = {`, `"b": {`, `"c" = {`, `"d"`, `}`, `}`, `}`), 3},
		{
			name: "siblings",
			input: lines(
				`"a" = {`, `"b" = {`, `}`, `}`,
				`"c" = {`, `}`,
			),
			depth: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseString(context.Background(), tt.input, WithFS(memFS()))
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := m.Depth(); got != tt.depth {
				t.Errorf("Depth() = %d, want %d", got, tt.depth)
			}
		})
	}
}

func TestParseString_DuplicateKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		line  string
	}{
		{"two strings", lines(`"a": "1"`, `"a": "2"`), "a", "2"},
		{"string then bare", lines(`"a": "1"`, `"a"`), "a", "2"},
		{"bare then block", lines(`"a"`, `"a" = {`, `}`), "a", "2"},
		{"block then string", lines(`"a": {`, `}`, `"a": "1"`), "a", "3"},
		{"two blocks", lines(`"a" = {`, `}`, `"a" = {`, `}`), "a", "3"},
		{
			name:  "inside nested block",
			input: lines(`"x" = {`, `"k": "1"`, `"k": ""`, `}`),
			key:   "k",
			line:  "3",
		},
		{
			name:  "after sibling block closes",
			input: lines(`"x" = {`, `"k": "1"`, `}`, `"y"`, `"y"`),
			key:   "y",
			line:  "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input, WithFS(memFS()))
			if !errors.Is(err, ErrDuplicateKey) {
				t.Fatalf("expected ErrDuplicateKey, got %v", err)
			}

			if got := attr(t, err, "key"); got != tt.key {
				t.Errorf("key = %q, want %q", got, tt.key)
			}

			if got := attr(t, err, "line"); got != tt.line {
				t.Errorf("line = %q, want %q", got, tt.line)
			}
		})
	}
}

func TestParseString_SameKeyAtDifferentDepths(t *testing.T) {
	input := lines(
		`"a": "top"`,
		`"x" = {`,
		`  "a": "one"`,
		`  "y": {`,
		`    "a": "two"`,
		`  }`,
		`}`,
		`"z" = {`,
		`  "a"`,
		`}`,
	)

	m, err := ParseString(context.Background(), input, WithFS(memFS()))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := map[string]any{
		"a": "top",
		"x": map[string]any{"a": "one", "y": map[string]any{"a": "two"}},
		"z": map[string]any{"a": nil},
	}

	if diff := cmp.Diff(want, m.ToNative()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseString_UnclosedBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		line  string
	}{
		{"single", lines(`"x" = {`, `"y": "z"`), "x", "1"},
		{"innermost reported", lines(`"x" = {`, `"y": {`, `"z"`), "y", "2"},
		{"inner closed", lines(`"x" = {`, `"y": {`, `}`), "x", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input, WithFS(memFS()))
			if !errors.Is(err, ErrUnclosedBlock) {
				t.Fatalf("expected ErrUnclosedBlock, got %v", err)
			}

			if got := attr(t, err, "key"); got != tt.key {
				t.Errorf("key = %q, want %q", got, tt.key)
			}

			if got := attr(t, err, "line"); got != tt.line {
				t.Errorf("line = %q, want %q", got, tt.line)
			}
		})
	}
}

func TestParseString_Import(t *testing.T) {
	fsys := memFS(
		"f.conf", lines(`"a": "1"`),
		"block.conf", lines(`"b" = {`, `"c"`, `}`),
		"chain.conf", lines(`"d": "4"`, `export("f.conf")`),
		"sub/g.conf", lines(`"g": "7"`),
		"empty.conf", "",
	)

	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "into block without the key",
			input: lines(`"x" = {`, `export("f.conf")`, `}`),
			want:  map[string]any{"x": map[string]any{"a": "1"}},
		},
		{
			name:  "at top level",
			input: lines(`"z": "0"`, `export("f.conf")`),
			want:  map[string]any{"z": "0", "a": "1"},
		},
		{
			name:  "nested blocks",
			input: lines(`export("block.conf")`),
			want:  map[string]any{"b": map[string]any{"c": nil}},
		},
		{
			name:  "transitive",
			input: lines(`"x" = {`, `export("chain.conf")`, `}`),
			want:  map[string]any{"x": map[string]any{"d": "4", "a": "1"}},
		},
		{
			name:  "subdirectory",
			input: lines(`export("sub/g.conf")`),
			want:  map[string]any{"g": "7"},
		},
		{
			name:  "empty file",
			input: lines(`"x" = {`, `export("empty.conf")`, `}`),
			want:  map[string]any{"x": map[string]any{}},
		},
		{
			name: "same file in two blocks",
			input: lines(
				`"x" = {`, `export("f.conf")`, `}`,
				`"y" = {`, `export("f.conf")`, `}`,
			),
			want: map[string]any{
				"x": map[string]any{"a": "1"},
				"y": map[string]any{"a": "1"},
			},
		},
		{
			name:  "imported keys do not clash with parent scope",
			input: lines(`"a": "0"`, `"x" = {`, `export("f.conf")`, `}`),
			want:  map[string]any{"a": "0", "x": map[string]any{"a": "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseString(context.Background(), tt.input, WithFS(fsys))
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if diff := cmp.Diff(tt.want, m.ToNative()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseString_ImportDuplicateKey(t *testing.T) {
	fsys := memFS("f.conf", lines(`"a": "1"`))

	tests := []struct {
		name  string
		input string
	}{
		{"import after key", lines(`"x" = {`, `"a": "2"`, `export("f.conf")`, `}`)},
		{"key after import", lines(`"x" = {`, `export("f.conf")`, `"a"`, `}`)},
		{"block after import", lines(`export("f.conf")`, `"a" = {`, `}`)},
		{"imported twice", lines(`export("f.conf")`, `export("f.conf")`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input, WithFS(fsys))
			if !errors.Is(err, ErrDuplicateKey) {
				t.Fatalf("expected ErrDuplicateKey, got %v", err)
			}

			if got := attr(t, err, "key"); got != "a" {
				t.Errorf("key = %q, want %q", got, "a")
			}
		})
	}

	t.Run("names the import", func(t *testing.T) {
		input := lines(`"a": "2"`, `export("f.conf")`)

		_, err := ParseString(context.Background(), input, WithFS(fsys))
		if got := attr(t, err, "import"); got != "f.conf" {
			t.Errorf("import = %q, want %q", got, "f.conf")
		}

		if got := attr(t, err, "line"); got != "2" {
			t.Errorf("line = %q, want %q", got, "2")
		}
	})
}

func TestParseString_ImportFailures(t *testing.T) {
	fsys := memFS(
		"self.conf", lines(`export("self.conf")`),
		"a.conf", lines(`"a" = {`, `export("b.conf")`, `}`),
		"b.conf", lines(`export("a.conf")`),
		"dup.conf", lines(`"k"`, `"k"`),
		"open.conf", lines(`"k" = {`),
		"missing.conf", lines(`export("nowhere.conf")`),
		"dir/x.conf", lines(`"x"`),
	)

	tests := []struct {
		name  string
		input string
		want  error
		attrs map[string]string
	}{
		{
			name:  "missing file",
			input: lines(`"x" = {`, `export("nope.conf")`, `}`),
			want:  ErrFileNotFound,
			attrs: map[string]string{"file": "nope.conf", "from": "<string>", "from_line": "2"},
		},
		{
			name:  "missing transitive file",
			input: lines(`export("missing.conf")`),
			want:  ErrFileNotFound,
			attrs: map[string]string{"file": "nowhere.conf", "from": "missing.conf"},
		},
		{
			name:  "self import",
			input: lines(`export("self.conf")`),
			want:  ErrCircularImport,
			attrs: map[string]string{"file": "self.conf", "chain": "self.conf -> self.conf"},
		},
		{
			name:  "import cycle",
			input: lines(`export("a.conf")`),
			want:  ErrCircularImport,
			attrs: map[string]string{"file": "a.conf", "chain": "a.conf -> b.conf -> a.conf"},
		},
		{
			name:  "duplicate inside imported file",
			input: lines(`export("dup.conf")`),
			want:  ErrDuplicateKey,
			attrs: map[string]string{"key": "k", "file": "dup.conf", "line": "2"},
		},
		{
			name:  "unclosed inside imported file",
			input: lines(`"x" = {`, `export("open.conf")`, `}`),
			want:  ErrUnclosedBlock,
			attrs: map[string]string{"key": "k", "file": "open.conf", "from_line": "2"},
		},
		{
			name:  "parent directory",
			input: lines(`export("../secret.conf")`),
			want:  ErrInvalidPath,
			attrs: map[string]string{"file": "../secret.conf"},
		},
		{
			name:  "absolute path",
			input: lines(`export("/etc/passwd")`),
			want:  ErrInvalidPath,
		},
		{
			name:  "directory",
			input: lines(`export("dir")`),
			want:  ErrReadInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseString(context.Background(), tt.input, WithFS(fsys))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			if m != nil {
				t.Errorf("expected no map on failure, got %v", m.ToNative())
			}

			for k, want := range tt.attrs {
				if got := attr(t, err, k); got != want {
					t.Errorf("%s = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestParseString_Strictness(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		strict  error
		warning string
	}{
		{
			name:    "unrecognized line",
			input:   lines(`"a": "1"`, `this is not pconf`, `"b": "2"`),
			want:    map[string]any{"a": "1", "b": "2"},
			strict:  ErrUnrecognizedLine,
			warning: "ignoring unrecognized line",
		},
		{
			name:    "unterminated quote",
			input:   lines(`"x" = {`, `"a": "1`, `}`),
			want:    map[string]any{"x": map[string]any{}},
			strict:  ErrUnrecognizedLine,
			warning: "ignoring unrecognized line",
		},
		{
			name:    "unmatched close",
			input:   lines(`"a": "1"`, `}`, `"b": "2"`),
			want:    map[string]any{"a": "1", "b": "2"},
			strict:  ErrUnexpectedClose,
			warning: "ignoring unmatched closing brace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/permissive", func(t *testing.T) {
			var buf bytes.Buffer

			logger := log.Make(&buf,
				log.WithLevel(log.LevelWarn),
				log.WithFormat(log.FormatText),
				log.WithPretty(false),
			)

			m, err := ParseString(context.Background(), tt.input,
				WithFS(memFS()),
				WithLogger(logger),
			)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if diff := cmp.Diff(tt.want, m.ToNative()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}

			if !strings.Contains(buf.String(), tt.warning) {
				t.Errorf("expected warning %q in log output:\n%s", tt.warning, buf.String())
			}
		})

		t.Run(tt.name+"/strict", func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input,
				WithFS(memFS()),
				WithStrict(true),
			)
			if !errors.Is(err, tt.strict) {
				t.Fatalf("expected %v, got %v", tt.strict, err)
			}

			if got := attr(t, err, "line"); got != "2" {
				t.Errorf("line = %q, want %q", got, "2")
			}
		})
	}
}

func TestParseString_StrictAppliesToImports(t *testing.T) {
	fsys := memFS("loose.conf", lines(`"a": "1"`, `garbage`))

	if _, err := ParseString(context.Background(), lines(`export("loose.conf")`),
		WithFS(fsys)); err != nil {
		t.Fatalf("permissive parse error: %v", err)
	}

	_, err := ParseString(context.Background(), lines(`export("loose.conf")`),
		WithFS(fsys), WithStrict(true))
	if !errors.Is(err, ErrUnrecognizedLine) {
		t.Fatalf("expected ErrUnrecognizedLine, got %v", err)
	}

	if got := attr(t, err, "file"); got != "loose.conf" {
		t.Errorf("file = %q, want %q", got, "loose.conf")
	}
}

func TestParseString_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseString(ctx, lines(`"a": "1"`), WithFS(memFS()))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseReader(t *testing.T) {
	m, err := ParseReader(context.Background(),
		strings.NewReader(lines(`"x" = {`, `export("f.conf")`, `}`)),
		WithFS(memFS("f.conf", lines(`"a": "1"`))),
	)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := map[string]any{"x": map[string]any{"a": "1"}}
	if diff := cmp.Diff(want, m.ToNative()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseString_ErrorMessage(t *testing.T) {
	_, err := ParseString(context.Background(), lines(`"a"`, `"a"`), WithFS(memFS()))
	if err == nil {
		t.Fatal("expected error")
	}

	want := "duplicate key (key=a, file=<string>, line=2)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func writeFiles(t *testing.T, dir string, files ...string) {
	t.Helper()

	for i := 0; i+1 < len(files); i += 2 {
		name := filepath.Join(dir, filepath.FromSlash(files[i]))

		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(name, []byte(files[i+1]), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	writeFiles(t, dir,
		"main.conf", lines(`"name": "web"`, `"db" = {`, `export("db.conf")`, `}`),
		"db.conf", lines(`"host": "localhost"`, `"port": "5432"`),
		"self.conf", lines(`"a"`, `export("self.conf")`),
		"loop/a.conf", lines(`export("loop/b.conf")`),
		"loop/b.conf", lines(`export("loop/a.conf")`),
	)

	t.Run("imports resolve next to the file", func(t *testing.T) {
		m, err := ParseFile(context.Background(), filepath.Join(dir, "main.conf"))
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		want := map[string]any{
			"name": "web",
			"db":   map[string]any{"host": "localhost", "port": "5432"},
		}

		if diff := cmp.Diff(want, m.ToNative()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "nope.conf")

		_, err := ParseFile(context.Background(), path)
		if !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound, got %v", err)
		}

		if got := attr(t, err, "file"); got != path {
			t.Errorf("file = %q, want %q", got, path)
		}
	})

	t.Run("top-level file importing itself", func(t *testing.T) {
		_, err := ParseFile(context.Background(), filepath.Join(dir, "self.conf"))
		if !errors.Is(err, ErrCircularImport) {
			t.Fatalf("expected ErrCircularImport, got %v", err)
		}
	})

	t.Run("cycle through explicit root", func(t *testing.T) {
		_, err := ParseFile(context.Background(),
			filepath.Join(dir, "loop", "a.conf"),
			WithRoot(dir),
		)
		if !errors.Is(err, ErrCircularImport) {
			t.Fatalf("expected ErrCircularImport, got %v", err)
		}

		want := "loop/a.conf -> loop/b.conf -> loop/a.conf"
		if got := attr(t, err, "chain"); got != want {
			t.Errorf("chain = %q, want %q", got, want)
		}
	})
}
