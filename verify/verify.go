// Package verify inspects element files produced by the sorter: it checks
// ordering, fingerprints their contents as a multiset so an output can be
// matched against its input, and diffs two sorted files.
// Files are memory mapped read-only, so checking a file does not need a
// buffer the size of the file.
package verify

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	"github.com/lanrat/u32sort/internal/raw"
)

// File is a read-only view of an element file.
type File struct {
	mmap     mmap.MMap
	elements []uint32
	trailing int64
}

// Open memory-maps the named file. Per POSIX mmap(2) the descriptor is
// closed before Open returns.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open element file: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat element file: %w", err)
	}
	size := st.Size()
	v := &File{trailing: size % raw.ElementSize}
	if size < raw.ElementSize {
		// nothing to map, mmap rejects empty regions
		return v, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap element file: %w", err)
	}
	v.mmap = m
	v.elements = raw.Elements([]byte(m))
	return v, nil
}

// Elements returns the whole elements of the file. The slice is only valid
// until Close.
func (f *File) Elements() []uint32 {
	return f.elements
}

// TrailingBytes returns the number of bytes after the last whole element.
func (f *File) TrailingBytes() int64 {
	return f.trailing
}

// Close unmaps the file.
func (f *File) Close() error {
	f.elements = nil
	if f.mmap == nil {
		return nil
	}
	err := f.mmap.Unmap()
	f.mmap = nil
	return err
}

// Fingerprint identifies a multiset of elements independent of their order:
// the element count and the wrapping sum of the xxhash64 of every element.
// Two files holding the same elements in any order have equal fingerprints.
type Fingerprint struct {
	Count uint64
	Sum   uint64
}

func (fp Fingerprint) String() string {
	return fmt.Sprintf("%d:%016x", fp.Count, fp.Sum)
}

// FingerprintOf returns the fingerprint of elems. Elements are hashed in
// little-endian form so fingerprints agree across platforms.
func FingerprintOf(elems []uint32) Fingerprint {
	var b [raw.ElementSize]byte
	fp := Fingerprint{Count: uint64(len(elems))}
	for _, v := range elems {
		binary.LittleEndian.PutUint32(b[:], v)
		fp.Sum += xxhash.Sum64(b[:])
	}
	return fp
}

// Report summarizes one element file.
type Report struct {
	Elements      int64
	TrailingBytes int64
	// FirstUnsorted is the index of the first element smaller than its
	// predecessor, or -1 if the file is in ascending order.
	FirstUnsorted int64
	Fingerprint   Fingerprint
}

// Sorted reports whether the file was in ascending order.
func (r Report) Sorted() bool {
	return r.FirstUnsorted < 0
}

// Check maps the named file and reports its ordering and fingerprint.
func Check(path string) (Report, error) {
	f, err := Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()
	elems := f.Elements()
	return Report{
		Elements:      int64(len(elems)),
		TrailingBytes: f.TrailingBytes(),
		FirstUnsorted: firstUnsorted(elems),
		Fingerprint:   FingerprintOf(elems),
	}, nil
}

func firstUnsorted(elems []uint32) int64 {
	for i := 1; i < len(elems); i++ {
		if elems[i] < elems[i-1] {
			return int64(i)
		}
	}
	return -1
}
