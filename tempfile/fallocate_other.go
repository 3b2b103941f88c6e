//go:build !linux && !darwin

package tempfile

import "os"

// fallocateFile only sets the file size on platforms without a native
// preallocation call.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
