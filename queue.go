// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import (
	"sync"

	"code.hybscloud.com/duoq/internal/atomics"
	"code.hybscloud.com/duoq/loop"
)

// Queue is a queue shared by goroutines and the tasks of one loop.
//
// Queue owns all state. [Queue.Blocking] and [Queue.Suspending] return
// views over it: the blocking side parks the calling goroutine, the
// suspending side suspends the calling task. Items put on either side are
// visible to both, and a commit on one side wakes waiters on the other.
//
// One mutex serializes every buffer and counter access. The suspending
// side also holds a loop.Lock so tasks never interleave predicate checks
// while the mutex is released around a suspension.
type Queue[T any] struct {
	mu      sync.Mutex
	buf     buffer[T]
	maxsize int

	unfinished int
	closing    atomics.Bool

	// lock-free snapshots, written under mu
	size      atomics.Int64
	remaining atomics.Int64

	// thread side
	notEmpty     notifyList
	notFull      notifyList
	allTasksDone notifyList

	// task side, loop-confined
	taskMu       loop.Lock
	taskNotEmpty *loop.Cond
	taskNotFull  *loop.Cond
	finished     loop.Event

	threadGetters int
	threadPutters int
	taskGetters   int
	taskPutters   int

	// in-flight cross-domain notifications, value cancels the job
	pending map[*loop.Future]func() bool

	// bound on first suspending-side use
	loop *loop.Loop

	logger  Logger
	metrics MetricsWriter

	blocking   BlockingQueue[T]
	suspending SuspendingQueue[T]
}

func newQueue[T any](opts Options, less func(a, b T) bool) *Queue[T] {
	q := &Queue[T]{
		buf:     newBuffer(opts.order, less),
		maxsize: opts.maxsize,
		pending: make(map[*loop.Future]func() bool),
		logger:  opts.logger,
		metrics: opts.metrics,
	}
	if q.metrics == nil {
		q.metrics = DummyMetrics{}
	}
	q.taskNotEmpty = loop.NewCond(&q.taskMu)
	q.taskNotFull = loop.NewCond(&q.taskMu)
	q.finished.Set()
	q.blocking.q = q
	q.suspending.q = q
	return q
}

// Blocking returns the goroutine-side view.
func (q *Queue[T]) Blocking() *BlockingQueue[T] {
	return &q.blocking
}

// Suspending returns the task-side view.
func (q *Queue[T]) Suspending() *SuspendingQueue[T] {
	return &q.suspending
}

// Maxsize returns the capacity; <= 0 means unbounded.
func (q *Queue[T]) Maxsize() int {
	return q.maxsize
}

// Closed reports whether Close was called and no cross-domain notification
// is still in flight.
func (q *Queue[T]) Closed() bool {
	if !q.isClosing() {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) == 0
}

// Qsize returns the number of buffered items. Advisory only.
func (q *Queue[T]) Qsize() int {
	return int(q.size.Load())
}

// Empty reports whether the buffer is empty. Advisory only.
func (q *Queue[T]) Empty() bool {
	return q.Qsize() == 0
}

// Full reports whether a bounded queue holds maxsize items. Advisory only.
// An unbounded queue is never full.
func (q *Queue[T]) Full() bool {
	return q.maxsize > 0 && q.Qsize() >= q.maxsize
}

// UnfinishedTasks returns the number of puts not yet acknowledged by
// TaskDone.
func (q *Queue[T]) UnfinishedTasks() int {
	return int(q.remaining.Load())
}

func (q *Queue[T]) isClosing() bool {
	return q.closing.Load()
}

func (q *Queue[T]) sizeLocked() int {
	return q.buf.len()
}

func (q *Queue[T]) fullLocked() bool {
	return q.maxsize > 0 && q.sizeLocked() >= q.maxsize
}

func (q *Queue[T]) insertLocked(item T, d Domain) {
	q.buf.push(item)
	q.unfinished++
	q.finished.Clear()
	q.size.Store(int64(q.buf.len()))
	q.remaining.Store(int64(q.unfinished))
	q.metrics.QueuePut(d)
}

func (q *Queue[T]) extractLocked(d Domain) T {
	item := q.buf.pop()
	q.size.Store(int64(q.buf.len()))
	q.metrics.QueueGet(d)
	return item
}

// taskDone acknowledges one item. Shared by both sides: the counters are
// common and the wakeups it issues never block.
func (q *Queue[T]) taskDone() error {
	if q.isClosing() {
		return ErrClosed
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unfinished <= 0 {
		return ErrTooManyCompletions
	}
	q.unfinished--
	q.remaining.Store(int64(q.unfinished))
	if q.unfinished == 0 {
		q.allTasksDone.notifyAll()
		q.finished.Set()
	}
	return nil
}

// bind ties the suspending side to l on first use.
func (q *Queue[T]) bind(l *loop.Loop) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.bindLocked(l)
}

func (q *Queue[T]) bindLocked(l *loop.Loop) error {
	if q.loop == nil {
		q.loop = l
		return nil
	}
	if q.loop != l {
		return ErrWrongLoop
	}
	return nil
}

func (q *Queue[T]) logf(format string, v ...any) {
	if q.logger != nil {
		q.logger.Printf(format, v...)
	}
}
