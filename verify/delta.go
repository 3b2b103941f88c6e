package verify

import "fmt"

// Delta represents the type of difference found when comparing two sorted files.
// It indicates whether an element is only in the first file (OLD) or only in
// the second file (NEW).
type Delta int

const (
	// NEW indicates an element that exists only in the second file (B).
	NEW Delta = iota // +

	// OLD indicates an element that exists only in the first file (A).
	OLD // -
)

// ResultFunc is called once for each element that appears more often in one
// of the two files than in the other. If it returns an error, the diff stops.
type ResultFunc func(Delta, uint32) error

func (d Delta) String() string {
	switch d {
	case NEW:
		return ">"
	case OLD:
		return "<"
	default:
		return "?"
	}
}

// Result contains counts of the differences between two sorted files.
type Result struct {
	// ExtraA is the count of elements that exist only in file A (OLD elements)
	ExtraA uint64

	// ExtraB is the count of elements that exist only in file B (NEW elements)
	ExtraB uint64

	// TotalA is the total count of elements processed from file A
	TotalA uint64

	// TotalB is the total count of elements processed from file B
	TotalB uint64

	// Common is the count of elements that exist in both files
	Common uint64
}

// Equal reports whether both files held the same multiset of elements.
func (r Result) Equal() bool {
	return r.ExtraA == 0 && r.ExtraB == 0
}

func (r *Result) String() string {
	return fmt.Sprintf("A: %d/%d\tB: %d/%d\tC: %d", r.ExtraA, r.TotalA, r.ExtraB, r.TotalB, r.Common)
}
