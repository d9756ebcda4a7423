package fileutils

import (
	"os"
	"path/filepath"
)

// IsWriteable reports whether path can be written: an existing file with
// the owner write bit, or a missing file inside a writable directory.
func IsWriteable(path string) bool {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.Mode().Perm()&0200 != 0

	case os.IsNotExist(err):
		dir := filepath.Dir(path)
		if dir == "" {
			dir = "."
		}
		dirInfo, err := os.Stat(dir)
		return err == nil && dirInfo.IsDir() && dirInfo.Mode().Perm()&0200 != 0

	default:
		return false
	}
}
