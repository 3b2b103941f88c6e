//go:build linux

package tempfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves disk blocks so a full disk is reported before the
// data is written rather than halfway through.
func fallocateFile(file *os.File, size int64) error {
	if err := unix.Fallocate(int(file.Fd()), 0, 0, size); err != nil {
		// some file systems (tmpfs on old kernels, NFS) reject fallocate
		return unix.Ftruncate(int(file.Fd()), size)
	}
	return unix.Ftruncate(int(file.Fd()), size)
}
