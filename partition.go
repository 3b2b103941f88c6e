package u32sort

import (
	"github.com/lanrat/u32sort/internal/raw"
)

// Task assigns one contiguous, element aligned byte range of the input to a
// sort worker.
type Task struct {
	ID     int   // worker id, also the first component of its segment names
	Offset int64 // first byte of the range
	Length int64 // length of the range in bytes, a multiple of the element size
	Memory int64 // frame buffer size in bytes
}

// Partition is the work plan for the sort phase.
type Partition struct {
	Tasks        []Task
	ThreadMemory int64 // frame buffer bytes per worker
	SliceSize    int64 // input bytes per worker, the last task may be shorter
	Reserved     int64 // bytes of the budget left unused by the workers
}

// Plan splits totalLen bytes of input between threads workers sharing a
// memBudget byte budget. totalLen must already be a multiple of the element
// size. Workers whose range would start past the end of the input get no task.
func Plan(totalLen, memBudget int64, threads int) Partition {
	n := int64(threads)
	p := Partition{
		Reserved: memBudget / (2 * n),
	}
	p.ThreadMemory = raw.AlignDown((memBudget - p.Reserved) / n)
	p.SliceSize = raw.AlignUp((totalLen + n - 1) / n)

	for i := int64(0); i < n; i++ {
		start := i * p.SliceSize
		if start >= totalLen {
			break
		}
		end := min(start+p.SliceSize, totalLen)
		p.Tasks = append(p.Tasks, Task{
			ID:     int(i),
			Offset: start,
			Length: end - start,
			Memory: p.ThreadMemory,
		})
	}
	return p
}

// frameElements returns the number of elements a worker sorts per frame.
func (t Task) frameElements() int {
	return int(t.Memory / raw.ElementSize)
}
