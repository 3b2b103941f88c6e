package u32sort

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/lanrat/u32sort/internal/raw"
	"github.com/lanrat/u32sort/tempfile"
)

// sortWorker turns the byte range of one task into sorted scratch segments.
// Workers share nothing but the registry and the failure list of the run.
type sortWorker struct {
	task     Task
	input    string
	fs       tempfile.FS
	dir      string
	prefix   string
	registry *registry
	log      *slog.Logger
}

// run reads the task's range frame by frame, sorts every frame in memory and
// spills it to its own scratch file. It stops at the first error without
// retrying; segments written before the error stay registered.
func (w *sortWorker) run(ctx context.Context) error {
	in, err := w.fs.Open(w.input)
	if err != nil {
		return NewDiskError(err, "open input", w.input)
	}
	defer in.Close()
	tempfile.AdviseSequential(in, w.task.Offset, w.task.Length)
	section := io.NewSectionReader(in, w.task.Offset, w.task.Length)

	remaining := w.task.Length / raw.ElementSize
	buf := make([]uint32, min(int64(w.task.frameElements()), remaining))
	for frame := 0; remaining > 0; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		want := min(int64(len(buf)), remaining)
		n, err := io.ReadFull(section, raw.Bytes(buf[:want]))
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return NewDiskError(err, "read input", w.input)
		}
		got := int64(n / raw.ElementSize)
		if got == 0 {
			// the input shrank after it was measured
			return nil
		}
		remaining -= got
		if got < want {
			remaining = 0
		}

		frameData := buf[:got]
		slices.Sort(frameData)
		seg, err := w.spill(frame, frameData)
		if err != nil {
			return err
		}
		w.registry.register(seg)
		w.log.Debug("created sorted file", "worker", w.task.ID, "file", seg.path, "elements", seg.count)
	}
	return nil
}

// spill writes a sorted frame to a new scratch file. A file that was not
// written completely is removed again since it never becomes a segment.
func (w *sortWorker) spill(frame int, data []uint32) (*segment, error) {
	name := tempfile.Name(w.dir, w.prefix, w.task.ID, frame)
	f, err := w.fs.Create(name)
	if err != nil {
		return nil, &ScratchOpenError{Path: name, Err: err}
	}

	b := raw.Bytes(data)
	if err := tempfile.Preallocate(f, int64(len(b))); err != nil {
		w.log.Debug("scratch preallocation failed", "file", name, "error", err)
	}
	n, err := f.Write(b)
	cerr := f.Close()
	if n != len(b) || err != nil {
		w.discard(name)
		return nil, &ShortWriteError{Path: name, Want: len(b), Got: n, Err: err}
	}
	if cerr != nil {
		w.discard(name)
		return nil, NewDiskError(cerr, "close scratch file", name)
	}
	return newSegment(w.task.ID, frame, name, int64(len(data))), nil
}

func (w *sortWorker) discard(name string) {
	if err := w.fs.Remove(name); err != nil {
		w.log.Warn("error deleting incomplete scratch file", "file", name, "error", err)
	}
}
