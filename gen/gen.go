// Package gen writes reproducible element files for exercising the sorter.
//
// Element i of a file generated with seed s is always Value(s, i), so files
// can be produced in parallel chunks and regenerated later for comparison.
package gen

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/lanrat/u32sort/internal/raw"
	"github.com/lanrat/u32sort/tempfile"
)

// ChunkElements is the number of elements each writer produces per call.
const ChunkElements = 1 << 20

// Value returns element i of the sequence for seed.
func Value(seed, i uint64) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], i)
	return uint32(xxh3.HashSeed(b[:], seed))
}

// Fill sets dst[k] to Value(seed, start+k).
func Fill(dst []uint32, seed, start uint64) {
	for k := range dst {
		dst[k] = Value(seed, start+uint64(k))
	}
}

// Values returns the first count elements of the sequence for seed.
func Values(seed uint64, count int) []uint32 {
	v := make([]uint32, count)
	Fill(v, seed, 0)
	return v
}

// Write creates path holding count elements of the sequence for seed in
// native byte order. Up to workers chunks are generated concurrently.
func Write(ctx context.Context, path string, count int64, seed uint64, workers int) error {
	if count < 0 {
		return fmt.Errorf("element count must not be negative, got %d", count)
	}
	if workers < 1 {
		workers = 1
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tempfile.Preallocate(f, count*raw.ElementSize); err != nil {
		_ = f.Close()
		return fmt.Errorf("preallocate %s: %w", path, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := int64(0); start < count; start += ChunkElements {
		n := min(ChunkElements, count-start)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf := make([]uint32, n)
			Fill(buf, seed, uint64(start))
			if _, err := f.WriteAt(raw.Bytes(buf), start*raw.ElementSize); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			return nil
		})
	}
	err = g.Wait()
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}
