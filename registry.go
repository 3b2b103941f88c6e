package u32sort

import (
	"cmp"
	"errors"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/lanrat/u32sort/queue"
	"github.com/lanrat/u32sort/tempfile"
)

// registry owns the scratch segments of a run. Sort workers register
// segments concurrently; the merge then consumes them in order of their head
// values.
//
// Segments with equal head values are ordered by id, (worker, frame), so the
// order segments are consumed and retired in does not depend on goroutine
// scheduling.
type registry struct {
	mu       sync.Mutex
	fs       tempfile.FS
	log      *slog.Logger
	segments []*segment                     // every registered segment
	queue    *queue.PriorityQueue[*segment] // live segments, set by prime
}

func newRegistry(fsys tempfile.FS, log *slog.Logger) *registry {
	return &registry{fs: fsys, log: log}
}

func compareSegments(a, b *segment) int {
	return cmp.Or(cmp.Compare(a.head(), b.head()), a.id.compare(b.id))
}

// register adds a freshly written segment. Safe for concurrent use.
func (r *registry) register(s *segment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.segments = append(r.segments, s)
}

// size returns the number of live segments.
func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.queue != nil {
		return r.queue.Len()
	}
	return len(r.segments)
}

// elements returns the total number of elements in registered segments.
func (r *registry) elements() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.segments {
		n += s.count
	}
	return n
}

// prime opens every registered segment with a read buffer of bufElems
// elements, loads its head value and orders the registry by head.
// It must be called once, after all workers finished.
func (r *registry) prime(bufElems int) error {
	live := make([]*segment, 0, len(r.segments))
	for _, s := range r.segments {
		if err := s.open(r.fs, bufElems); err != nil {
			return err
		}
		if s.done {
			r.retire(s)
			continue
		}
		live = append(live, s)
	}
	r.mu.Lock()
	r.queue = queue.NewPriorityQueue(compareSegments, live...)
	r.mu.Unlock()
	return nil
}

// takeMin returns the segment holding the smallest head value without
// removing it.
func (r *registry) takeMin() *segment {
	return r.queue.Peek()
}

// isEmpty reports whether every segment has been consumed.
func (r *registry) isEmpty() bool {
	return r.queue == nil || r.queue.Len() == 0
}

// advanceAndReposition consumes the head of s, which must be the segment
// returned by takeMin. An exhausted segment is removed from the registry and
// its scratch file deleted; otherwise s moves to its new place in the order.
// Disk reads happen before the lock is taken.
func (r *registry) advanceAndReposition(s *segment) error {
	if err := s.advance(); err != nil {
		return err
	}
	r.mu.Lock()
	if !s.done {
		r.queue.PeekUpdate()
		r.mu.Unlock()
		return nil
	}
	r.queue.Pop()
	r.mu.Unlock()
	r.retire(s)
	return nil
}

// heads returns the head values of the live segments from front to back.
func (r *registry) heads() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.queue == nil {
		return nil
	}
	sorted := r.queue.Sorted()
	heads := make([]uint32, len(sorted))
	for i, s := range sorted {
		heads[i] = s.head()
	}
	return heads
}

// retire closes and deletes an exhausted segment. A file that cannot be
// removed is left for close to retry.
func (r *registry) retire(s *segment) {
	if err := s.close(); err != nil {
		r.log.Warn("error closing scratch file", "file", s.path, "error", err)
	}
	if err := r.fs.Remove(s.path); err != nil {
		r.log.Warn("error deleting scratch file", "file", s.path, "error", err)
		return
	}
	s.retired = true
	r.log.Debug("scratch file processed", "file", s.path)
}

// close removes every scratch file that has not been retired yet. It is
// called on every exit path of a run.
func (r *registry) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, s := range r.segments {
		if s.retired {
			continue
		}
		if err := s.close(); err != nil {
			errs = append(errs, err)
		}
		if err := r.fs.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		s.retired = true
	}
	r.queue = nil
	return errors.Join(errs...)
}
