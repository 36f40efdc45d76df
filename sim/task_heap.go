package sim

import (
	"container/heap"
	"time"
)

// taskEntry is one pending fire of a task. fireAt is the nominal fire time:
// fixed-rate scheduling advances it by exactly one period per execution,
// independent of how long the execution took.
type taskEntry struct {
	task   *Task
	period time.Duration
	fireAt time.Time
	seq    uint64
}

// taskHeap implements a priority queue with deterministic ordering
// Ordering: nominal fire time → enqueue sequence
type taskHeap struct {
	entries []*taskEntry
}

// newTaskHeap creates a new task heap
func newTaskHeap() *taskHeap {
	h := &taskHeap{
		entries: make([]*taskEntry, 0),
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *taskHeap) Len() int {
	return len(h.entries)
}

// Less implements heap.Interface with deterministic ordering
// Order by: fire time → enqueue sequence
func (h *taskHeap) Less(i, j int) bool {
	ei, ej := h.entries[i], h.entries[j]

	// Primary: nominal fire time (earlier first)
	if !ei.fireAt.Equal(ej.fireAt) {
		return ei.fireAt.Before(ej.fireAt)
	}

	// Secondary: enqueue sequence (lower first, deterministic tie-breaker)
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (h *taskHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

// Push implements heap.Interface
func (h *taskHeap) Push(x interface{}) {
	h.entries = append(h.entries, x.(*taskEntry))
}

// Pop implements heap.Interface
func (h *taskHeap) Pop() interface{} {
	old := h.entries
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.entries = old[0 : n-1]
	return item
}

// Schedule adds an entry to the heap
func (h *taskHeap) Schedule(e *taskEntry) {
	heap.Push(h, e)
}

// PopNext removes and returns the next due entry
func (h *taskHeap) PopNext() *taskEntry {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*taskEntry)
}

// Peek returns the next entry without removing it
func (h *taskHeap) Peek() *taskEntry {
	if h.Len() == 0 {
		return nil
	}
	return h.entries[0]
}
