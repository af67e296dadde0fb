//go:build !unix

package cmd

import "os"

// makeFileKey always returns false where device and inode numbers are not
// available; files are then identified by their resolved path.
func makeFileKey(os.FileInfo) (fileKey, bool) { return fileKey{}, false }
