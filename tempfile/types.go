package tempfile

import "io"

// File is an open input, output or scratch file.
// *os.File satisfies it.
type File interface {
	io.Reader
	io.ReaderAt
	io.Writer
	io.Seeker
	io.Closer

	// Name returns the name the file was created or opened with.
	Name() string
}

// FS defines the file system operations the sorter needs.
// OS is backed by the operating system, Mock keeps all files in memory
// and can inject create and write failures.
type FS interface {
	// Create creates or truncates the named file for writing and reading.
	Create(name string) (File, error)

	// Open opens the named file for reading.
	// A missing file reports an error matching fs.ErrNotExist.
	Open(name string) (File, error)

	// Remove deletes the named file.
	Remove(name string) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error
}
