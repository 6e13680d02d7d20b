//go:build !unix

package store

// freeBytes reports that the host cannot estimate free space; Usage degrades
// to {0, 0}.
func freeBytes(dir string) (int64, bool) {
	return 0, false
}
