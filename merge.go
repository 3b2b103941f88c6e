package u32sort

import (
	"context"
	"math/bits"

	"github.com/lanrat/u32sort/internal/raw"
	"github.com/lanrat/u32sort/tempfile"
)

// mergeBufferElements returns the element count of the output buffer and of
// every segment read buffer for a merge over the given number of segments:
// the largest power of two that lets all of them fit in half the budget.
func mergeBufferElements(memBudget int64, segments int) int {
	limit := memBudget / raw.ElementSize / 2 / int64(segments+1)
	if limit < 1 {
		return 1
	}
	return 1 << (bits.Len64(uint64(limit)) - 1)
}

// merge streams the primed registry into out in ascending order using an
// output buffer of bufElems elements, and returns the number of elements
// written. Every write must be accepted in full. A flush of a full buffer is
// mid-stream even if it holds the last elements; only a partial buffer left
// at the end is flushed as final.
func merge(ctx context.Context, reg *registry, out tempfile.File, bufElems int) (int64, error) {
	buf := make([]uint32, 0, min(int64(bufElems), reg.elements()))
	var written int64
	for !reg.isEmpty() {
		s := reg.takeMin()
		buf = append(buf, s.head())
		if len(buf) == bufElems {
			if err := flush(out, buf, false); err != nil {
				return written, err
			}
			written += int64(len(buf))
			buf = buf[:0]
			if err := ctx.Err(); err != nil {
				return written, err
			}
		}
		if err := reg.advanceAndReposition(s); err != nil {
			return written, err
		}
	}
	if len(buf) > 0 {
		if err := flush(out, buf, true); err != nil {
			return written, err
		}
		written += int64(len(buf))
	}
	return written, nil
}

// flush writes elems to out in a single call.
func flush(out tempfile.File, elems []uint32, final bool) error {
	b := raw.Bytes(elems)
	n, err := out.Write(b)
	if n != len(b) || err != nil {
		return &OutputWriteError{Path: out.Name(), Want: len(b), Got: n, Final: final, Err: err}
	}
	return nil
}
