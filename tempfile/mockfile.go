package tempfile

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"sync"
)

// Mock is an in-memory FS. It is safe for concurrent use and is meant for
// tests and benchmarks that should not touch the disk. Create and write
// failures can be injected per file name with CreateError and WriteLimit.
type Mock struct {
	mu      sync.Mutex
	files   map[string]*mockData
	created []string
	limits  []writeLimit
	fails   []createFailure
}

type mockData struct {
	buf []byte
}

type writeLimit struct {
	match func(string) bool
	limit int64
}

type createFailure struct {
	match func(string) bool
	err   error
}

// NewMock returns an empty in-memory file system.
func NewMock() *Mock {
	return &Mock{files: make(map[string]*mockData)}
}

// Put stores a file with the given contents, replacing any existing one.
func (m *Mock) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = &mockData{buf: slices.Clone(data)}
}

// Bytes returns a copy of the named file's contents.
func (m *Mock) Bytes(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.files[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(d.buf), true
}

// Exists reports whether the named file is present.
func (m *Mock) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

// Names returns the names of all present files in sorted order.
func (m *Mock) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Created returns every name passed to a successful Create, in call order.
func (m *Mock) Created() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.created)
}

// WriteLimit caps the total number of bytes accepted by each file created
// after this call whose name matches. Writes past the cap are short and
// return io.ErrShortWrite.
func (m *Mock) WriteLimit(match func(name string) bool, limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = append(m.limits, writeLimit{match: match, limit: limit})
}

// CreateError makes Create fail with err for every matching name.
func (m *Mock) CreateError(match func(name string) bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails = append(m.fails, createFailure{match: match, err: err})
}

// Create creates or truncates the named file.
func (m *Mock) Create(name string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.fails {
		if f.match(name) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: f.err}
		}
	}
	limit := int64(-1)
	for _, l := range m.limits {
		if l.match(name) {
			limit = l.limit
		}
	}
	d := &mockData{}
	m.files[name] = d
	m.created = append(m.created, name)
	return &mockFile{m: m, name: name, data: d, writable: true, limit: limit}, nil
}

// Open opens the named file for reading.
func (m *Mock) Open(name string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &mockFile{m: m, name: name, data: d, limit: -1}, nil
}

// Remove deletes the named file.
func (m *Mock) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

// MkdirAll is a no-op, the mock has a flat namespace.
func (m *Mock) MkdirAll(path string) error {
	return nil
}

// mockFile is an open handle on a Mock file with its own position.
type mockFile struct {
	m        *Mock
	name     string
	data     *mockData
	pos      int64
	written  int64
	limit    int64
	writable bool
	closed   bool
}

func (f *mockFile) Name() string {
	return f.name
}

func (f *mockFile) Write(p []byte) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	if !f.writable {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: fs.ErrPermission}
	}
	n := int64(len(p))
	if f.limit >= 0 && f.written+n > f.limit {
		n = max(f.limit-f.written, 0)
	}
	end := f.pos + n
	if end > int64(len(f.data.buf)) {
		f.data.buf = append(f.data.buf, make([]byte, end-int64(len(f.data.buf)))...)
	}
	copy(f.data.buf[f.pos:end], p[:n])
	f.pos = end
	f.written += n
	if n < int64(len(p)) {
		return int(n), io.ErrShortWrite
	}
	return int(n), nil
}

func (f *mockFile) Read(p []byte) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.pos >= int64(len(f.data.buf)) {
		return 0, io.EOF
	}
	n := copy(p, f.data.buf[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *mockFile) ReadAt(p []byte, off int64) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	if off < 0 {
		return 0, errors.New("tempfile: negative offset")
	}
	if off >= int64(len(f.data.buf)) {
		return 0, io.EOF
	}
	n := copy(p, f.data.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *mockFile) Seek(offset int64, whence int) (int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.pos + offset
	case io.SeekEnd:
		abs = int64(len(f.data.buf)) + offset
	default:
		return 0, errors.New("tempfile: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("tempfile: negative position")
	}
	f.pos = abs
	return abs, nil
}

func (f *mockFile) Close() error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	return nil
}
