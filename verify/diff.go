package verify

import (
	"context"
	"fmt"
	"io"
)

// cancelCheckInterval is how many elements are compared between context checks.
const cancelCheckInterval = 1 << 16

// Diff compares two ascending element slices as multisets and calls
// resultFunc for each element that is only in one of them. Duplicates are
// matched one to one, so [1 1] and [1] differ by one OLD 1.
// The inputs are assumed to be sorted; this is not validated.
func Diff(ctx context.Context, a, b []uint32, resultFunc ResultFunc) (r Result, err error) {
	if ctx == nil || resultFunc == nil {
		return Result{}, fmt.Errorf("arguments must not be nil")
	}
	i, j := 0, 0
	for steps := 0; i < len(a) && j < len(b); steps++ {
		if steps%cancelCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return r, err
			}
		}
		switch {
		case a[i] > b[j]:
			r.TotalB++
			r.ExtraB++
			if err = resultFunc(NEW, b[j]); err != nil {
				return
			}
			j++
		case a[i] < b[j]:
			r.TotalA++
			r.ExtraA++
			if err = resultFunc(OLD, a[i]); err != nil {
				return
			}
			i++
		default:
			r.Common++
			r.TotalA++
			r.TotalB++
			i++
			j++
		}
	}
	// if only A has data left
	for ; i < len(a); i++ {
		r.TotalA++
		r.ExtraA++
		if err = resultFunc(OLD, a[i]); err != nil {
			return
		}
	}
	// if only B has data left
	for ; j < len(b); j++ {
		r.TotalB++
		r.ExtraB++
		if err = resultFunc(NEW, b[j]); err != nil {
			return
		}
	}
	return
}

// DiffFiles maps two sorted element files and diffs them with Diff.
func DiffFiles(ctx context.Context, pathA, pathB string, resultFunc ResultFunc) (Result, error) {
	a, err := Open(pathA)
	if err != nil {
		return Result{}, err
	}
	defer a.Close()
	b, err := Open(pathB)
	if err != nil {
		return Result{}, err
	}
	defer b.Close()
	return Diff(ctx, a.Elements(), b.Elements(), resultFunc)
}

// Printer returns a ResultFunc that writes each difference to w, formatted
// as the Delta symbol followed by the element value.
func Printer(w io.Writer) ResultFunc {
	return func(d Delta, v uint32) error {
		_, err := fmt.Fprintf(w, "%s %d\n", d, v)
		return err
	}
}
