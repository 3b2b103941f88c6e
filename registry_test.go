package u32sort

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/lanrat/u32sort/internal/raw"
	"github.com/lanrat/u32sort/tempfile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// putSegment writes values as a scratch file and registers it.
func putSegment(m *tempfile.Mock, r *registry, worker, frame int, values ...uint32) {
	name := tempfile.Name("", "seg_", worker, frame)
	m.Put(name, raw.Bytes(values))
	r.register(newSegment(worker, frame, name, int64(len(values))))
}

func TestRegistryOrder(t *testing.T) {
	m := tempfile.NewMock()
	r := newRegistry(m, testLogger())
	rng := rand.New(rand.NewPCG(3, 4))
	var all []uint32
	for w := range 4 {
		for f := range 3 {
			run := make([]uint32, rng.IntN(20))
			for i := range run {
				run[i] = rng.Uint32N(50)
			}
			slices.Sort(run)
			all = append(all, run...)
			putSegment(m, r, w, f, run...)
		}
	}
	if err := r.prime(2); err != nil {
		t.Fatal(err)
	}

	var merged []uint32
	for !r.isEmpty() {
		heads := r.heads()
		if !slices.IsSorted(heads) {
			t.Fatalf("heads out of order: %v", heads)
		}
		s := r.takeMin()
		if s.head() != heads[0] {
			t.Fatalf("takeMin head %d, front of registry %d", s.head(), heads[0])
		}
		merged = append(merged, s.head())
		if err := r.advanceAndReposition(s); err != nil {
			t.Fatal(err)
		}
	}
	slices.Sort(all)
	if !slices.Equal(merged, all) {
		t.Fatal("merged values differ from the registered segments")
	}
	if names := m.Names(); len(names) != 0 {
		t.Fatalf("segments not deleted after they were consumed: %v", names)
	}
}

// TestRegistryTieBreak checks that equal heads are consumed in
// (worker, frame) order regardless of registration order.
func TestRegistryTieBreak(t *testing.T) {
	m := tempfile.NewMock()
	r := newRegistry(m, testLogger())
	putSegment(m, r, 1, 0, 3, 3)
	putSegment(m, r, 0, 1, 3)
	putSegment(m, r, 0, 0, 1, 3)
	if err := r.prime(1); err != nil {
		t.Fatal(err)
	}

	type step struct {
		id    segmentID
		value uint32
	}
	var got []step
	for !r.isEmpty() {
		s := r.takeMin()
		got = append(got, step{s.id, s.head()})
		if err := r.advanceAndReposition(s); err != nil {
			t.Fatal(err)
		}
	}
	expected := []step{
		{segmentID{0, 0}, 1},
		{segmentID{0, 0}, 3},
		{segmentID{0, 1}, 3},
		{segmentID{1, 0}, 3},
		{segmentID{1, 0}, 3},
	}
	if !slices.Equal(got, expected) {
		t.Fatalf("consumed %v, expected %v", got, expected)
	}
}

func TestRegistryEmptySegment(t *testing.T) {
	m := tempfile.NewMock()
	r := newRegistry(m, testLogger())
	putSegment(m, r, 0, 0)
	putSegment(m, r, 0, 1, 4)
	if err := r.prime(8); err != nil {
		t.Fatal(err)
	}
	if r.size() != 1 {
		t.Fatalf("%d live segments, expected 1", r.size())
	}
	if m.Exists(tempfile.Name("", "seg_", 0, 0)) {
		t.Error("empty segment not deleted")
	}
}

func TestRegistryMissingSegment(t *testing.T) {
	m := tempfile.NewMock()
	r := newRegistry(m, testLogger())
	putSegment(m, r, 0, 0, 1, 2)
	r.register(newSegment(0, 1, "gone", 2))

	err := r.prime(4)
	var re *ScratchReadError
	if !errors.As(err, &re) || re.Path != "gone" {
		t.Fatalf("expected ScratchReadError for the missing segment, got %v", err)
	}
	if StatusOf(err) != StatusScratchReadFailure {
		t.Fatalf("StatusOf = %s", StatusOf(err))
	}
	if err := r.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if names := m.Names(); len(names) != 0 {
		t.Fatalf("close left %v", names)
	}
}

func TestRegistryPartialElement(t *testing.T) {
	m := tempfile.NewMock()
	r := newRegistry(m, testLogger())
	m.Put("odd", []byte{1, 0, 0, 0, 2, 0})
	r.register(newSegment(0, 0, "odd", 2))
	err := r.prime(4)
	if StatusOf(err) != StatusScratchReadFailure {
		t.Fatalf("expected scratch read failure, got %v", err)
	}
	_ = r.close()
}

func TestRegistryCloseBeforePrime(t *testing.T) {
	m := tempfile.NewMock()
	r := newRegistry(m, testLogger())
	putSegment(m, r, 0, 0, 1)
	putSegment(m, r, 1, 0, 2)
	if r.size() != 2 || r.elements() != 2 {
		t.Fatalf("size=%d elements=%d", r.size(), r.elements())
	}
	if err := r.close(); err != nil {
		t.Fatal(err)
	}
	if names := m.Names(); len(names) != 0 {
		t.Fatalf("close left %v", names)
	}
	// a second close has nothing left to do
	if err := r.close(); err != nil {
		t.Fatal(err)
	}
}
