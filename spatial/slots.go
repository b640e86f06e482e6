package spatial

import "container/heap"

// A slot allocator.
//
// Slots are handed out from 0. Released slots are reused in priority, lowest
// first, so a store keeps its live records packed at the start of its arena.
type SlotAllocator struct {
	next     int
	reusable slotHeap
}

// New returns the lowest free slot.
func (a *SlotAllocator) New() int {
	if a.reusable.Len() != 0 {
		return heap.Pop(&a.reusable).(int)
	}

	slot := a.next
	a.next++
	return slot
}

// Reuse marks the given slot as reusable. Reusable slots are returned in
// priority when using New.
func (a *SlotAllocator) Reuse(slot int) {
	heap.Push(&a.reusable, slot)
}

// Cap returns the number of slots that were ever handed out.
func (a *SlotAllocator) Cap() int {
	return a.next
}

type slotHeap []int

func (h slotHeap) Len() int           { return len(h) }
func (h slotHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h slotHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *slotHeap) Push(x any) {
	*h = append(*h, x.(int))
}

func (h *slotHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
