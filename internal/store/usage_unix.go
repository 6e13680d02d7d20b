//go:build unix

package store

import "syscall"

// freeBytes returns the space available to unprivileged writes on the
// filesystem hosting dir.
func freeBytes(dir string) (int64, bool) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return 0, false
	}

	return int64(stat.Bavail) * int64(stat.Bsize), true
}
