// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import "time"

// BlockingQueue is the goroutine-side view of a [Queue].
//
// Blocking calls park the calling goroutine. Never call them from a task
// body: that stalls the loop.
type BlockingQueue[T any] struct {
	q *Queue[T]
}

// Put inserts item, blocking while the queue is full.
func (b *BlockingQueue[T]) Put(item T) error {
	return b.PutWait(item, true, NoTimeout)
}

// PutTimeout inserts item, blocking at most timeout while the queue is full.
// Returns ErrFull once the timeout elapses and ErrInvalidTimeout if timeout
// is negative.
func (b *BlockingQueue[T]) PutTimeout(item T, timeout time.Duration) error {
	return b.PutWait(item, true, timeout)
}

// PutNowait inserts item or returns ErrFull at once.
func (b *BlockingQueue[T]) PutNowait(item T) error {
	return b.PutWait(item, false, 0)
}

// PutWait inserts item.
//
// With block false it returns ErrFull at once if there is no room and
// timeout is ignored. With block true it waits for room, at most timeout
// unless timeout is NoTimeout.
func (b *BlockingQueue[T]) PutWait(item T, block bool, timeout time.Duration) error {
	q := b.q
	if q.isClosing() {
		return ErrClosed
	}
	if block && timeout < 0 {
		return ErrInvalidTimeout
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.isClosing() {
		return ErrClosed
	}
	if q.fullLocked() {
		if !block {
			return ErrFull
		}
		var deadline time.Time
		if timeout != NoTimeout {
			deadline = time.Now().Add(timeout)
		}
		for q.fullLocked() {
			wait := time.Duration(-1)
			if !deadline.IsZero() {
				wait = time.Until(deadline)
				if wait <= 0 {
					return ErrFull
				}
			}
			q.threadPutters++
			q.notFull.wait(&q.mu, wait)
			q.threadPutters--
			if q.isClosing() {
				return ErrClosed
			}
		}
	}

	q.insertLocked(item, Thread)
	q.notEmpty.notify(1)
	if q.taskGetters > 0 {
		q.notifyTaskLocked(q.taskNotEmpty, Thread)
	}
	return nil
}

// Get removes and returns an item, blocking while the queue is empty.
func (b *BlockingQueue[T]) Get() (T, error) {
	return b.GetWait(true, NoTimeout)
}

// GetTimeout removes and returns an item, blocking at most timeout while the
// queue is empty. Returns ErrEmpty once the timeout elapses and
// ErrInvalidTimeout if timeout is negative.
func (b *BlockingQueue[T]) GetTimeout(timeout time.Duration) (T, error) {
	return b.GetWait(true, timeout)
}

// GetNowait removes and returns an item or returns ErrEmpty at once.
func (b *BlockingQueue[T]) GetNowait() (T, error) {
	return b.GetWait(false, 0)
}

// GetWait removes and returns an item. block and timeout behave as in
// PutWait, with ErrEmpty in place of ErrFull.
func (b *BlockingQueue[T]) GetWait(block bool, timeout time.Duration) (T, error) {
	var zero T
	q := b.q
	if q.isClosing() {
		return zero, ErrClosed
	}
	if block && timeout < 0 {
		return zero, ErrInvalidTimeout
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.isClosing() {
		return zero, ErrClosed
	}
	if q.sizeLocked() == 0 {
		if !block {
			return zero, ErrEmpty
		}
		var deadline time.Time
		if timeout != NoTimeout {
			deadline = time.Now().Add(timeout)
		}
		for q.sizeLocked() == 0 {
			wait := time.Duration(-1)
			if !deadline.IsZero() {
				wait = time.Until(deadline)
				if wait <= 0 {
					return zero, ErrEmpty
				}
			}
			q.threadGetters++
			q.notEmpty.wait(&q.mu, wait)
			q.threadGetters--
			if q.isClosing() {
				return zero, ErrClosed
			}
		}
	}

	item := q.extractLocked(Thread)
	q.notFull.notify(1)
	if q.taskPutters > 0 {
		q.notifyTaskLocked(q.taskNotFull, Thread)
	}
	return item, nil
}

// TaskDone acknowledges one item obtained by a get. When every put has been
// acknowledged, Join returns on both sides.
// Returns ErrTooManyCompletions if called more times than items were put.
func (b *BlockingQueue[T]) TaskDone() error {
	return b.q.taskDone()
}

// Join blocks until every item put has been acknowledged by TaskDone.
// Returns ErrClosed if the queue is, or becomes, closed.
func (b *BlockingQueue[T]) Join() error {
	q := b.q
	if q.isClosing() {
		return ErrClosed
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.unfinished > 0 {
		q.allTasksDone.wait(&q.mu, -1)
		if q.isClosing() {
			return ErrClosed
		}
	}
	return nil
}

// Maxsize returns the capacity; <= 0 means unbounded.
func (b *BlockingQueue[T]) Maxsize() int { return b.q.Maxsize() }

// Closed reports whether Close has run and no notification is in flight.
func (b *BlockingQueue[T]) Closed() bool { return b.q.Closed() }

// Qsize returns the number of buffered items.
func (b *BlockingQueue[T]) Qsize() int { return b.q.Qsize() }

// Empty reports whether no item is buffered.
func (b *BlockingQueue[T]) Empty() bool { return b.q.Empty() }

// Full reports whether a put would have to wait.
func (b *BlockingQueue[T]) Full() bool { return b.q.Full() }

// UnfinishedTasks returns the number of items not yet marked done.
func (b *BlockingQueue[T]) UnfinishedTasks() int { return b.q.UnfinishedTasks() }
