package util

import (
	"cmp"
	"container/heap"
)

//*******************************************
// priority queue
//*******************************************

type pqEntry[T any, P cmp.Ordered] struct {
	item     T
	priority P
}

type pqHeap[T any, P cmp.Ordered] []pqEntry[T, P]

func (h pqHeap[T, P]) Len() int           { return len(h) }
func (h pqHeap[T, P]) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h pqHeap[T, P]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pqHeap[T, P]) Push(x any)        { *h = append(*h, x.(pqEntry[T, P])) }
func (h *pqHeap[T, P]) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// PriorityQueue is a min-queue. Entries are never updated in place; callers
// enqueue again with a smaller priority and skip stale entries on dequeue.
type PriorityQueue[T any, P cmp.Ordered] struct {
	h *pqHeap[T, P]
}

func NewPriorityQueue[T any, P cmp.Ordered](capacity int) PriorityQueue[T, P] {
	h := make(pqHeap[T, P], 0, capacity)
	return PriorityQueue[T, P]{h: &h}
}

func (pq PriorityQueue[T, P]) Enqueue(item T, priority P) {
	heap.Push(pq.h, pqEntry[T, P]{item: item, priority: priority})
}

func (pq PriorityQueue[T, P]) Dequeue() (T, bool) {
	if len(*pq.h) == 0 {
		var item T
		return item, false
	}
	entry := heap.Pop(pq.h).(pqEntry[T, P])
	return entry.item, true
}

// Peek returns the smallest priority without removing its entry.
func (pq PriorityQueue[T, P]) Peek() (P, bool) {
	if len(*pq.h) == 0 {
		var p P
		return p, false
	}
	return (*pq.h)[0].priority, true
}

func (pq PriorityQueue[T, P]) Len() int {
	return len(*pq.h)
}

func (pq PriorityQueue[T, P]) Clear() {
	*pq.h = (*pq.h)[:0]
}
