package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name used for the configuration directory and the
// prefix of environment variable identifiers.
//
// Prefix is the base name of the executable file unless it matches one of
// the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with Name
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		return prefixOf(executable())
	},
)

func executable() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}

	return os.Args[0]
}

func prefixOf(path string) string {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	id = regexp.MustCompile(`^__debug_bin\d*$`).ReplaceAllString(id, Name)
	id = regexp.MustCompile(`^\.+`).ReplaceAllString(id, "")

	if id == "" {
		return Name
	}

	return id
}

// EnvPrefix returns Prefix in upper case with every character that is not a
// letter or digit replaced by an underscore.
func EnvPrefix() string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, Prefix())
}

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
	},
)

// CacheDir returns the cache directory path used for transient files.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
	},
)

// userDir returns the directory reported by fn, falling back to a hidden
// directory in the user's home, then to the working directory.
func userDir(fn func() (string, error), hidden string) string {
	if dir, err := fn(); err == nil {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, hidden)
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}
