// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import "container/heap"

// Order selects the extraction order of a queue. It is fixed at construction.
type Order uint8

const (
	// FIFO returns items in insertion order.
	FIFO Order = iota
	// LIFO returns the most recently inserted item first.
	LIFO
	// Priority returns the minimum item first.
	Priority
)

func (o Order) String() string {
	switch o {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case Priority:
		return "priority"
	default:
		return "unknown"
	}
}

// buffer is an ordering strategy. Callers hold the queue mutex.
type buffer[T any] interface {
	push(item T)
	pop() T
	len() int
}

// fifoBuffer is a growable ring deque.
type fifoBuffer[T any] struct {
	items []T
	head  int
	n     int
}

func (d *fifoBuffer[T]) push(item T) {
	if d.n == len(d.items) {
		d.grow()
	}
	d.items[(d.head+d.n)&(len(d.items)-1)] = item
	d.n++
}

func (d *fifoBuffer[T]) pop() T {
	var zero T
	item := d.items[d.head]
	d.items[d.head] = zero
	d.head = (d.head + 1) & (len(d.items) - 1)
	d.n--
	return item
}

func (d *fifoBuffer[T]) len() int { return d.n }

// grow doubles the ring, keeping its length a power of 2.
func (d *fifoBuffer[T]) grow() {
	size := len(d.items) * 2
	if size == 0 {
		size = 8
	}
	items := make([]T, size)
	tail := copy(items, d.items[d.head:])
	copy(items[tail:], d.items[:d.head])
	d.items = items
	d.head = 0
}

type lifoBuffer[T any] struct {
	items []T
}

func (s *lifoBuffer[T]) push(item T) { s.items = append(s.items, item) }

func (s *lifoBuffer[T]) pop() T {
	var zero T
	last := len(s.items) - 1
	item := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return item
}

func (s *lifoBuffer[T]) len() int { return len(s.items) }

// priorityBuffer is a binary min-heap. Ties are broken by insertion order.
type priorityBuffer[T any] struct {
	h   entryHeap[T]
	seq uint64
}

func newPriorityBuffer[T any](less func(a, b T) bool) *priorityBuffer[T] {
	return &priorityBuffer[T]{h: entryHeap[T]{less: less}}
}

func (p *priorityBuffer[T]) push(item T) {
	p.seq++
	heap.Push(&p.h, entry[T]{item: item, seq: p.seq})
}

func (p *priorityBuffer[T]) pop() T {
	return heap.Pop(&p.h).(entry[T]).item
}

func (p *priorityBuffer[T]) len() int { return len(p.h.entries) }

type entry[T any] struct {
	item T
	seq  uint64
}

type entryHeap[T any] struct {
	entries []entry[T]
	less    func(a, b T) bool
}

func (h *entryHeap[T]) Len() int { return len(h.entries) }

func (h *entryHeap[T]) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if h.less(a.item, b.item) {
		return true
	}
	if h.less(b.item, a.item) {
		return false
	}
	return a.seq < b.seq
}

func (h *entryHeap[T]) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *entryHeap[T]) Push(x any) { h.entries = append(h.entries, x.(entry[T])) }

func (h *entryHeap[T]) Pop() any {
	last := len(h.entries) - 1
	e := h.entries[last]
	h.entries[last] = entry[T]{}
	h.entries = h.entries[:last]
	return e
}

func newBuffer[T any](order Order, less func(a, b T) bool) buffer[T] {
	switch order {
	case LIFO:
		return &lifoBuffer[T]{}
	case Priority:
		return newPriorityBuffer(less)
	default:
		return &fifoBuffer[T]{}
	}
}
