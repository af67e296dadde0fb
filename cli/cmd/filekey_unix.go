//go:build unix

package cmd

import (
	"os"
	"syscall"
)

// makeFileKey creates a fileKey from the device and inode of info.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	//nolint:unconvert // field types differ across platforms
	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
