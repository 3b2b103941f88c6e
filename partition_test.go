package u32sort

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		memory   int64
		threads  int
		reserved int64
		thread   int64
		slice    int64
		tasks    []Task
	}{
		{
			name: "two workers two frames", total: 32, memory: 24, threads: 2,
			reserved: 6, thread: 8, slice: 16,
			tasks: []Task{{0, 0, 16, 8}, {1, 16, 16, 8}},
		},
		{
			name: "short last slice", total: 40, memory: 1000, threads: 3,
			reserved: 166, thread: 276, slice: 16,
			tasks: []Task{{0, 0, 16, 276}, {1, 16, 16, 276}, {2, 32, 8, 276}},
		},
		{
			name: "more workers than elements", total: 12, memory: 128 << 20, threads: 4,
			reserved: 16 << 20, thread: 28 << 20, slice: 4,
			tasks: []Task{{0, 0, 4, 28 << 20}, {1, 4, 4, 28 << 20}, {2, 8, 4, 28 << 20}},
		},
		{
			name: "slice rounded up to an element", total: 8, memory: 100, threads: 4,
			reserved: 12, thread: 20, slice: 4,
			tasks: []Task{{0, 0, 4, 20}, {1, 4, 4, 20}},
		},
		{
			name: "empty input", total: 0, memory: 1024, threads: 3,
			reserved: 170, thread: 284, slice: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plan(tt.total, tt.memory, tt.threads)
			if p.Reserved != tt.reserved || p.ThreadMemory != tt.thread || p.SliceSize != tt.slice {
				t.Errorf("reserved=%d thread=%d slice=%d, expected %d %d %d",
					p.Reserved, p.ThreadMemory, p.SliceSize, tt.reserved, tt.thread, tt.slice)
			}
			if !slices.Equal(p.Tasks, tt.tasks) {
				t.Errorf("tasks %+v, expected %+v", p.Tasks, tt.tasks)
			}
		})
	}
}

func TestPlanCoversInput(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 1000 {
		total := r.Int64N(1<<20) &^ 3
		threads := 1 + r.IntN(64)
		p := Plan(total, 1<<20, threads)

		if len(p.Tasks) > threads {
			t.Fatalf("%d tasks for %d threads", len(p.Tasks), threads)
		}
		var next int64
		for i, task := range p.Tasks {
			if task.ID != i || task.Offset != next {
				t.Fatalf("total=%d threads=%d: task %+v does not follow offset %d", total, threads, task, next)
			}
			if task.Length <= 0 || task.Length%4 != 0 || task.Offset%4 != 0 {
				t.Fatalf("total=%d threads=%d: misaligned task %+v", total, threads, task)
			}
			next += task.Length
		}
		if next != total {
			t.Fatalf("total=%d threads=%d: tasks cover %d bytes", total, threads, next)
		}
	}
}

func TestMergeBufferElements(t *testing.T) {
	tests := []struct {
		memory   int64
		segments int
		want     int
	}{
		{24, 4, 1},
		{4096, 18, 16},
		{4096, 0, 512},
		{128 << 20, 1, 8 << 20},
		{128 << 20, 3, 4 << 20},
		{1 << 20, 100, 1024},
	}
	for _, tt := range tests {
		if got := mergeBufferElements(tt.memory, tt.segments); got != tt.want {
			t.Errorf("mergeBufferElements(%d, %d) = %d, expected %d", tt.memory, tt.segments, got, tt.want)
		}
	}
}
