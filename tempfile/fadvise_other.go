//go:build !linux

package tempfile

// fadviseSequential is a no-op where posix_fadvise is unavailable.
func fadviseSequential(fd int, offset, length int64) {}
