// Package queue provides a generic priority queue built on container/heap.
// It orders the live segments of a k-way merge: the minimum is always at the
// front and repositioning the front after its key changes costs O(log k).
package queue

// Priority queue based on
// https://golang.org/pkg/container/heap/#example__priorityQueue

import (
	"container/heap"
	"slices"
)

// innerPriorityQueue implements heap.Interface
type innerPriorityQueue[E any] struct {
	items []E
	cmp   func(a, b E) int
}

// PriorityQueue is a min-heap ordered by a three-way comparison function.
// Items the comparison function reports as equal are returned in an
// unspecified order, so callers that need a deterministic order must make
// the comparison total.
type PriorityQueue[E any] struct {
	ipq innerPriorityQueue[E]
}

// NewPriorityQueue creates a PriorityQueue holding items, ordered by cmp.
// cmp returns a negative number when a sorts before b, zero when they are
// equal and a positive number otherwise, like cmp.Compare.
func NewPriorityQueue[E any](cmp func(a, b E) int, items ...E) *PriorityQueue[E] {
	var pq PriorityQueue[E]
	pq.ipq.items = slices.Clone(items)
	pq.ipq.cmp = cmp
	heap.Init(&pq.ipq)
	return &pq
}

// Len returns the number of items in the queue
func (pq *PriorityQueue[E]) Len() int {
	return pq.ipq.Len()
}

// Push adds x to the queue
func (pq *PriorityQueue[E]) Push(x E) {
	heap.Push(&pq.ipq, x)
}

// Pop removes and returns the smallest item
func (pq *PriorityQueue[E]) Pop() E {
	return heap.Pop(&pq.ipq).(E)
}

// Peek returns the smallest item without removing it
func (pq *PriorityQueue[E]) Peek() E {
	return pq.ipq.items[0]
}

// PeekUpdate restores the ordering after the key of the front item changed.
// The front item is left in place if it is still not greater than the rest.
func (pq *PriorityQueue[E]) PeekUpdate() {
	heap.Fix(&pq.ipq, 0)
}

// Sorted returns a copy of the queued items from smallest to largest.
func (pq *PriorityQueue[E]) Sorted() []E {
	items := slices.Clone(pq.ipq.items)
	slices.SortFunc(items, pq.ipq.cmp)
	return items
}

func (pq *innerPriorityQueue[E]) Len() int {
	return len(pq.items)
}

func (pq *innerPriorityQueue[E]) Less(i, j int) bool {
	return pq.cmp(pq.items[i], pq.items[j]) < 0
}

func (pq *innerPriorityQueue[E]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}

func (pq *innerPriorityQueue[E]) Push(x any) {
	pq.items = append(pq.items, x.(E))
}

func (pq *innerPriorityQueue[E]) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	var zero E
	old[n-1] = zero // drop the reference for the garbage collector
	pq.items = old[0 : n-1]
	return item
}
