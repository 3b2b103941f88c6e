//go:build linux

package tempfile

import "golang.org/x/sys/unix"

// fadviseSequential tells the kernel the range will be read sequentially so
// it can read ahead aggressively. Errors are ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}
