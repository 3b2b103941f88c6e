// Package tempfile manages the files used by the sorter: scratch segment
// naming, the scratch directory, and the file system the data lives on.
// Every sorted frame is written to its own scratch file whose name is derived
// from the worker and frame that produced it, so concurrent workers never
// need to coordinate when creating files.
package tempfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPrefix is the scratch filename prefix used when none is configured.
// It includes the process id so concurrent runs sharing a directory do not collide.
var DefaultPrefix = fmt.Sprintf("u32sort_%d_", os.Getpid())

// OS is the FS backed by the operating system.
var OS FS = osFS{}

type osFS struct{}

func (osFS) Create(name string) (File, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (osFS) Open(name string) (File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (osFS) Remove(name string) error {
	return os.Remove(name)
}

func (osFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Name returns the scratch file name for the given worker and frame.
// Distinct (worker, frame) pairs always produce distinct names.
func Name(dir, prefix string, worker, frame int) string {
	return filepath.Join(dir, fmt.Sprintf("%sw%d_f%d", prefix, worker, frame))
}

// AdviseSequential hints that length bytes of f starting at offset will be
// read sequentially. It only has an effect for files on the OS file system.
func AdviseSequential(f File, offset, length int64) {
	if osf, ok := f.(*os.File); ok {
		fadviseSequential(int(osf.Fd()), offset, length)
	}
}

// Preallocate reserves size bytes of disk space for f and sets its length.
// Files that do not live on the OS file system are left untouched.
func Preallocate(f File, size int64) error {
	if size <= 0 {
		return nil
	}
	if osf, ok := f.(*os.File); ok {
		return fallocateFile(osf, size)
	}
	return nil
}
