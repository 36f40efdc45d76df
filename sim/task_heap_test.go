package sim

import (
	"testing"
	"time"
)

// TestTaskHeap_FireTimeOrdering tests that entries pop in nominal fire order
func TestTaskHeap_FireTimeOrdering(t *testing.T) {
	h := newTaskHeap()
	base := time.Now()

	// Schedule out of order
	h.Schedule(&taskEntry{task: &Task{Name: "c"}, fireAt: base.Add(150 * time.Millisecond), seq: 1})
	h.Schedule(&taskEntry{task: &Task{Name: "a"}, fireAt: base.Add(50 * time.Millisecond), seq: 2})
	h.Schedule(&taskEntry{task: &Task{Name: "b"}, fireAt: base.Add(100 * time.Millisecond), seq: 3})

	for _, want := range []string{"a", "b", "c"} {
		e := h.PopNext()
		if e == nil || e.task.Name != want {
			t.Fatalf("PopNext returned %v, want task %q", e, want)
		}
	}

	if h.Len() != 0 {
		t.Errorf("Heap should be empty, len = %d", h.Len())
	}
}

// TestTaskHeap_SequenceTieBreak tests deterministic ordering at equal fire times
func TestTaskHeap_SequenceTieBreak(t *testing.T) {
	h := newTaskHeap()
	at := time.Now()

	h.Schedule(&taskEntry{task: &Task{Name: "second"}, fireAt: at, seq: 2})
	h.Schedule(&taskEntry{task: &Task{Name: "first"}, fireAt: at, seq: 1})
	h.Schedule(&taskEntry{task: &Task{Name: "third"}, fireAt: at, seq: 3})

	for _, want := range []string{"first", "second", "third"} {
		if e := h.PopNext(); e.task.Name != want {
			t.Errorf("PopNext = %q, want %q", e.task.Name, want)
		}
	}
}

func TestTaskHeap_PeekDoesNotRemove(t *testing.T) {
	h := newTaskHeap()
	h.Schedule(&taskEntry{task: &Task{Name: "only"}, fireAt: time.Now(), seq: 1})

	if e := h.Peek(); e == nil || e.task.Name != "only" {
		t.Fatalf("Peek = %v, want task %q", e, "only")
	}
	if h.Len() != 1 {
		t.Errorf("Peek removed the entry, len = %d", h.Len())
	}
}

func TestTaskHeap_EmptyReturnsNil(t *testing.T) {
	h := newTaskHeap()
	if h.Peek() != nil {
		t.Error("Peek on empty heap should return nil")
	}
	if h.PopNext() != nil {
		t.Error("PopNext on empty heap should return nil")
	}
}
