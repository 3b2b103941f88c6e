package u32sort

import (
	"cmp"
	"errors"
	"fmt"
	"io"

	"github.com/lanrat/u32sort/internal/raw"
	"github.com/lanrat/u32sort/tempfile"
)

// segmentID identifies the frame a segment was produced from.
type segmentID struct {
	worker int
	frame  int
}

func (a segmentID) compare(b segmentID) int {
	return cmp.Or(cmp.Compare(a.worker, b.worker), cmp.Compare(a.frame, b.frame))
}

// segment is one ascending run spilled to a scratch file, plus the state
// needed to stream it back during the merge.
type segment struct {
	id    segmentID
	path  string
	count int64 // elements in the file

	file   tempfile.File
	buf    []uint32 // read buffer
	window []uint32 // filled part of buf
	pos    int      // cursor into window, the head value is window[pos]
	done   bool     // no unconsumed elements remain

	retired bool // file closed and removed
}

func newSegment(worker, frame int, path string, count int64) *segment {
	return &segment{
		id:    segmentID{worker: worker, frame: frame},
		path:  path,
		count: count,
	}
}

// head returns the smallest unconsumed value of the segment.
func (s *segment) head() uint32 {
	return s.window[s.pos]
}

// open opens the scratch file with a read buffer of bufElems elements and
// loads the first value as head.
func (s *segment) open(fsys tempfile.FS, bufElems int) error {
	f, err := fsys.Open(s.path)
	if err != nil {
		return &ScratchReadError{Path: s.path, Err: err}
	}
	s.file = f
	tempfile.AdviseSequential(f, 0, s.count*raw.ElementSize)
	s.buf = make([]uint32, min(int64(bufElems), max(s.count, 1)))
	return s.fill()
}

// advance moves the cursor to the next value, reading the next window from
// disk when the current one is used up.
func (s *segment) advance() error {
	s.pos++
	if s.pos < len(s.window) {
		return nil
	}
	return s.fill()
}

// fill replaces the window with the next run of values from the file.
func (s *segment) fill() error {
	n, err := io.ReadFull(s.file, raw.Bytes(s.buf))
	switch {
	case err == nil, errors.Is(err, io.ErrUnexpectedEOF):
		if n%raw.ElementSize != 0 {
			return &ScratchReadError{Path: s.path, Err: fmt.Errorf("partial element in %d byte read", n)}
		}
	case errors.Is(err, io.EOF):
		// nothing left
	default:
		return &ScratchReadError{Path: s.path, Err: err}
	}
	s.window = s.buf[:n/raw.ElementSize]
	s.pos = 0
	s.done = len(s.window) == 0
	return nil
}

// close releases the file handle and the read buffer.
func (s *segment) close() error {
	s.buf, s.window = nil, nil
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
