package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/pconf/pkg"
)

// baseConfig is the base name of the configuration file and of the block
// holding flag values within it.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// searchPath returns the directories imports are resolved against, in
// search order: each of roots, then each entry of env, a list separated by
// [os.PathListSeparator]. Entries that are not directories are dropped, as
// are repeated entries after the first.
func searchPath(roots []string, env string) []string {
	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(roots...),
		mung.WithFilter(isDir),
	).String()

	dirs := make([]string, 0, len(roots))

	for _, dir := range filepath.SplitList(list) {
		dir = strings.TrimSpace(dir)
		if dir == "" || !isDir(dir) {
			continue
		}

		dir = filepath.Clean(dir)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
