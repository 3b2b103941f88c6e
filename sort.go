// Package u32sort implements an external sort for files of unsigned 32-bit
// integers stored as raw native-endian binary, far larger than memory.
//
// The input is split into one byte range per worker. Workers run in parallel,
// each reading its range in frames that fit its share of the memory budget,
// sorting every frame in memory and spilling it to its own scratch file.
// Once every worker has finished, a single k-way merge streams the scratch
// files into the output and deletes each one as soon as it is consumed.
package u32sort

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lanrat/u32sort/internal/raw"
	"github.com/lanrat/u32sort/tempfile"

	"golang.org/x/sync/errgroup"
)

// Result describes a finished sort run.
type Result struct {
	Status         Status
	InputBytes     int64         // size of the input file
	TruncatedBytes int64         // trailing bytes dropped because they do not form a whole element
	Elements       int64         // elements written to the output
	Tasks          int           // sort workers started
	Segments       int           // scratch segments produced by the workers
	MergeBuffer    int           // elements per merge buffer
	Elapsed        time.Duration // wall clock time of the run
}

// sorter holds the state of one run.
type sorter struct {
	cfg      *Config
	log      *slog.Logger
	input    string
	output   string
	registry *registry
	result   Result

	failMu   sync.Mutex
	failures []FailureRecord
}

// Sort sorts the elements of the input file into the output file.
//
// The run measures the input, plans one task per worker, sorts all partitions
// in parallel, and merges the scratch segments into the output. If any
// worker fails the merge is skipped, the output file is not created and the
// returned error is a *WorkerFailureError listing every failure. Scratch files
// are removed on every exit path.
//
// A trailing partial element in the input is dropped and reported in
// Result.TruncatedBytes. The returned Result is never nil; its Status is
// StatusOf(err).
func Sort(ctx context.Context, input, output string, config *Config) (*Result, error) {
	start := time.Now()
	cfg := mergeConfig(config)
	s := &sorter{
		cfg:    cfg,
		log:    cfg.logger(),
		input:  input,
		output: output,
	}
	err := s.run(ctx)
	s.result.Status = StatusOf(err)
	s.result.Elapsed = time.Since(start)
	if err != nil {
		s.log.Error("sort failed", "status", s.result.Status.String(), "error", err)
	}
	s.log.Info("sort finished", "status", s.result.Status.String(), "elapsed", s.result.Elapsed)
	return &s.result, err
}

func (s *sorter) run(ctx context.Context) error {
	if err := s.cfg.validate(); err != nil {
		return err
	}
	length, err := s.measure()
	if err != nil {
		return err
	}
	dir, err := tempfile.ResolveDir(s.cfg.FS, s.cfg.ScratchDir)
	if err != nil {
		return err
	}

	s.registry = newRegistry(s.cfg.FS, s.log)
	defer func() {
		if err := s.registry.close(); err != nil {
			s.log.Warn("scratch cleanup incomplete", "error", err)
		}
	}()

	p := Plan(length, s.cfg.MemoryBudget, s.cfg.Threads)
	s.result.Tasks = len(p.Tasks)
	s.log.Debug("partition planned",
		"threads", s.cfg.Threads,
		"thread_memory", p.ThreadMemory,
		"slice_bytes", p.SliceSize,
		"reserved", p.Reserved)

	if err := s.sortPartitions(ctx, p, dir); err != nil {
		return err
	}
	return s.merge(ctx, length)
}

// measure returns the input length truncated down to whole elements.
func (s *sorter) measure() (int64, error) {
	f, err := s.cfg.FS.Open(s.input)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}
	defer f.Close()
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, NewDiskError(err, "seek", s.input)
	}

	length := raw.AlignDown(size)
	s.result.InputBytes = size
	s.result.TruncatedBytes = size - length
	s.log.Info("input measured", "file", s.input, "bytes", size, "elements", size/raw.ElementSize)
	if length != size {
		s.log.Warn("input length is not a multiple of the element size, truncating",
			"file", s.input,
			"element_size", raw.ElementSize,
			"bytes", length,
			"truncated_bytes", size-length)
	}
	return length, nil
}

// sortPartitions runs one worker per task and waits for all of them.
// A failing worker does not stop the others.
func (s *sorter) sortPartitions(ctx context.Context, p Partition, dir string) error {
	var g errgroup.Group
	for _, task := range p.Tasks {
		s.log.Debug("starting sort worker",
			"worker", task.ID,
			"offset", task.Offset,
			"bytes", task.Length,
			"memory", task.Memory)
		w := &sortWorker{
			task:     task,
			input:    s.input,
			fs:       s.cfg.FS,
			dir:      dir,
			prefix:   s.cfg.ScratchPrefix,
			registry: s.registry,
			log:      s.log,
		}
		g.Go(func() error {
			err := w.run(ctx)
			if err != nil {
				s.fail(task.ID, err)
			}
			return err
		})
	}
	// join barrier, every failure is already in s.failures
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.failures) > 0 {
		slices.SortFunc(s.failures, func(a, b FailureRecord) int {
			return a.WorkerID - b.WorkerID
		})
		return &WorkerFailureError{Failures: s.failures}
	}
	s.result.Segments = s.registry.size()
	s.log.Info("partial sort completed", "segments", s.result.Segments, "elements", s.registry.elements())
	return nil
}

func (s *sorter) fail(worker int, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures = append(s.failures, FailureRecord{WorkerID: worker, Err: err})
	s.log.Error("sort worker failed", "worker", worker, "error", err)
}

// merge streams the registered segments into the output file.
func (s *sorter) merge(ctx context.Context, length int64) error {
	bufElems := mergeBufferElements(s.cfg.MemoryBudget, s.result.Segments)
	s.result.MergeBuffer = bufElems
	s.log.Info("merging", "segments", s.result.Segments, "buffer_elements", bufElems)

	out, err := s.cfg.FS.Create(s.output)
	if err != nil {
		return &OutputOpenError{Path: s.output, Err: err}
	}
	if err := tempfile.Preallocate(out, length); err != nil {
		s.log.Debug("output preallocation failed", "file", s.output, "error", err)
	}
	if err := s.registry.prime(bufElems); err != nil {
		_ = out.Close()
		return err
	}

	written, err := merge(ctx, s.registry, out, bufElems)
	s.result.Elements = written
	cerr := out.Close()
	if err != nil {
		return err
	}
	if cerr != nil {
		return NewDiskError(cerr, "close output", s.output)
	}
	s.log.Info("output written",
		"file", s.output,
		"bytes", written*raw.ElementSize,
		"elements", written)
	return nil
}
