package satsolver

import (
	"math/rand"
	"testing"
)

func TestAddrHeapOrdersByPriority(t *testing.T) {
	priority := map[int]int{0: 3, 1: 1, 2: 4, 3: 1, 4: 5}
	h := newAddrHeap(func(a, b int) bool { return priority[a] > priority[b] })
	for k := range priority {
		h.Push(k)
	}

	var order []int
	for h.Len() > 0 {
		order = append(order, h.Pop())
	}

	for i := 1; i < len(order); i++ {
		if priority[order[i-1]] < priority[order[i]] {
			t.Fatalf("heap popped out of order: %v (priorities %v)", order, priority)
		}
	}
	if len(order) != len(priority) {
		t.Fatalf("popped %d items, want %d", len(order), len(priority))
	}
}

func TestAddrHeapRemoveAndContains(t *testing.T) {
	h := newAddrHeap(func(a, b int) bool { return a > b })
	for _, k := range []int{5, 3, 8, 1, 9, 2} {
		h.Push(k)
	}
	if !h.Contains(8) {
		t.Fatalf("expected heap to contain 8")
	}
	h.Remove(8)
	if h.Contains(8) {
		t.Fatalf("expected heap to no longer contain 8 after Remove")
	}
	if got, want := h.Pop(), 9; got != want {
		t.Fatalf("Pop() = %d, want %d", got, want)
	}
}

func TestAddrHeapFixAfterPriorityChange(t *testing.T) {
	priority := []int{1, 2, 3, 4, 5}
	h := newAddrHeap(func(a, b int) bool { return priority[a] > priority[b] })
	for i := range priority {
		h.Push(i)
	}
	priority[0] = 100
	h.Fix(0)
	if got, want := h.Peek(), 0; got != want {
		t.Fatalf("Peek() = %d, want %d after raising priority[0]", got, want)
	}
}

func TestAddrHeapPushDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate Push")
		}
	}()
	h := newAddrHeap(func(a, b int) bool { return a > b })
	h.Push(1)
	h.Push(1)
}

func TestAddrHeapRandomizedInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	priority := make([]int, 200)
	for i := range priority {
		priority[i] = rng.Intn(1000)
	}
	h := newAddrHeap(func(a, b int) bool { return priority[a] > priority[b] })
	for i := range priority {
		h.Push(i)
	}

	last := 1 << 30
	for h.Len() > 0 {
		k := h.Pop()
		if priority[k] > last {
			t.Fatalf("heap invariant violated: popped priority %d after %d", priority[k], last)
		}
		last = priority[k]
	}
}
