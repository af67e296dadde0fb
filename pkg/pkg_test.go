package pkg

import (
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "pconf" {
		t.Errorf("expected Name to be %q, got %q", "pconf", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("expected Version to be %q, got %q", content, Version())
	}

	if Version() == "" {
		t.Error("expected a non-empty version")
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew"
	}) {
		t.Errorf("expected Author to contain %q", "ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/pconf", "pconf"},
		{"/tmp/__debug_bin3051", Name},
		{"./.pconf-dev.bin", "pconf-dev"},
		{`C:\bin\pconf.exe`, "pconf"},
		{"/opt/...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := prefixOf(slashed(tt.path)); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// slashed normalizes Windows separators so the table runs on any OS.
func slashed(p string) string { return strings.ReplaceAll(p, `\`, "/") }

func TestEnvPrefix(t *testing.T) {
	got := EnvPrefix()

	if got == "" {
		t.Fatal("expected a non-empty prefix")
	}

	if strings.ToUpper(got) != got || strings.ContainsAny(got, "-.") {
		t.Errorf("EnvPrefix() = %q is not an identifier in upper case", got)
	}
}
