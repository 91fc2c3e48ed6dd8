package scheduler

import (
	"sync"
)

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Peek() T {
	return (*q)[0]
}

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	var zero T
	old[0] = zero
	*q = old[1:]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

func (q *queue[T]) Reset() {
	*q = nil
}

// priorityQueue is a bounded FIFO of descriptors guarded by its own lock.
type priorityQueue struct {
	priority JobPriority
	capacity int
	mu       sync.Mutex
	items    queue[*jobDescriptor]
}

func newPriorityQueue(p JobPriority, capacity int) *priorityQueue {
	return &priorityQueue{priority: p, capacity: capacity}
}

// enqueue appends d at the tail. It returns false if the queue is full.
func (pq *priorityQueue) enqueue(d *jobDescriptor) bool {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	if pq.capacity > 0 && pq.items.Len() >= pq.capacity {
		return false
	}
	pq.items.Push(d)
	return true
}

// drain hands the head of the queue to assign until assign refuses it or
// the queue is empty. The head is never skipped. It returns the number of
// dispatched descriptors and whether the queue stalled on a non-empty head.
func (pq *priorityQueue) drain(assign func(*jobDescriptor) bool) (dispatched int, stalled bool) {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	for pq.items.Len() > 0 {
		if !assign(pq.items.Peek()) {
			return dispatched, true
		}
		pq.items.Pop()
		dispatched++
	}
	return dispatched, false
}

func (pq *priorityQueue) len() int {
	pq.mu.Lock()
	defer pq.mu.Unlock()
	return pq.items.Len()
}

// clear drops every queued descriptor and returns how many were dropped.
func (pq *priorityQueue) clear() int {
	pq.mu.Lock()
	defer pq.mu.Unlock()
	n := pq.items.Len()
	pq.items.Reset()
	return n
}
