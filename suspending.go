// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import "code.hybscloud.com/duoq/loop"

// SuspendingQueue is the task-side view of a [Queue].
//
// Every call taking a *loop.Task must run in that task's body. The first
// such call binds the queue to the task's loop; calls from tasks of another
// loop return ErrWrongLoop. Suspended calls return loop.ErrCancelled when
// the task is cancelled.
type SuspendingQueue[T any] struct {
	q *Queue[T]
}

// Put inserts item, suspending t while the queue is full.
func (s *SuspendingQueue[T]) Put(t *loop.Task, item T) error {
	q := s.q
	if q.isClosing() {
		return ErrClosed
	}
	if err := q.bind(t.Loop()); err != nil {
		return err
	}
	if err := q.taskMu.Lock(t); err != nil {
		return err
	}
	defer q.taskMu.Unlock()

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.isClosing() {
			return ErrClosed
		}
		if !q.fullLocked() {
			break
		}
		q.taskPutters++
		q.mu.Unlock()
		err := q.taskNotFull.Wait(t)
		q.mu.Lock()
		q.taskPutters--
		if err != nil {
			return err
		}
	}

	q.insertLocked(item, Task)
	q.taskNotEmpty.Notify(1)
	if q.threadGetters > 0 {
		q.notifyThreadLocked(&q.notEmpty)
	}
	return nil
}

// PutNowait inserts item or returns ErrFull at once. It never suspends.
func (s *SuspendingQueue[T]) PutNowait(t *loop.Task, item T) error {
	q := s.q
	if q.isClosing() {
		return ErrClosed
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.bindLocked(t.Loop()); err != nil {
		return err
	}
	if q.fullLocked() {
		return ErrFull
	}

	q.insertLocked(item, Task)
	if q.taskGetters > 0 {
		// The task lock is not held here; a notifier task takes it.
		q.notifyTaskLocked(q.taskNotEmpty, Task)
	}
	if q.threadGetters > 0 {
		q.notifyThreadLocked(&q.notEmpty)
	}
	return nil
}

// Get removes and returns an item, suspending t while the queue is empty.
func (s *SuspendingQueue[T]) Get(t *loop.Task) (T, error) {
	var zero T
	q := s.q
	if q.isClosing() {
		return zero, ErrClosed
	}
	if err := q.bind(t.Loop()); err != nil {
		return zero, err
	}
	if err := q.taskMu.Lock(t); err != nil {
		return zero, err
	}
	defer q.taskMu.Unlock()

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.isClosing() {
			return zero, ErrClosed
		}
		if q.sizeLocked() > 0 {
			break
		}
		q.taskGetters++
		q.mu.Unlock()
		err := q.taskNotEmpty.Wait(t)
		q.mu.Lock()
		q.taskGetters--
		if err != nil {
			return zero, err
		}
	}

	item := q.extractLocked(Task)
	q.taskNotFull.Notify(1)
	if q.threadPutters > 0 {
		q.notifyThreadLocked(&q.notFull)
	}
	return item, nil
}

// GetNowait removes and returns an item or returns ErrEmpty at once. It
// never suspends.
func (s *SuspendingQueue[T]) GetNowait(t *loop.Task) (T, error) {
	var zero T
	q := s.q
	if q.isClosing() {
		return zero, ErrClosed
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.bindLocked(t.Loop()); err != nil {
		return zero, err
	}
	if q.sizeLocked() == 0 {
		return zero, ErrEmpty
	}

	item := q.extractLocked(Task)
	if q.taskPutters > 0 {
		q.notifyTaskLocked(q.taskNotFull, Task)
	}
	if q.threadPutters > 0 {
		q.notifyThreadLocked(&q.notFull)
	}
	return item, nil
}

// TaskDone acknowledges one item obtained by a get. It never suspends.
// Returns ErrTooManyCompletions if called more times than items were put.
func (s *SuspendingQueue[T]) TaskDone() error {
	return s.q.taskDone()
}

// Join suspends t until every item put has been acknowledged by TaskDone.
// Returns ErrClosed if the queue is, or becomes, closed.
func (s *SuspendingQueue[T]) Join(t *loop.Task) error {
	q := s.q
	if err := q.bind(t.Loop()); err != nil {
		return err
	}
	for {
		q.mu.Lock()
		closing, done := q.isClosing(), q.unfinished == 0
		q.mu.Unlock()
		if closing {
			return ErrClosed
		}
		if done {
			return nil
		}
		if err := q.finished.Wait(t); err != nil {
			return err
		}
	}
}

// Maxsize returns the capacity; <= 0 means unbounded.
func (s *SuspendingQueue[T]) Maxsize() int { return s.q.Maxsize() }

// Closed reports whether Close has run and no notification is in flight.
func (s *SuspendingQueue[T]) Closed() bool { return s.q.Closed() }

// Qsize returns the number of buffered items.
func (s *SuspendingQueue[T]) Qsize() int { return s.q.Qsize() }

// Empty reports whether no item is buffered.
func (s *SuspendingQueue[T]) Empty() bool { return s.q.Empty() }

// Full reports whether a put would have to wait.
func (s *SuspendingQueue[T]) Full() bool { return s.q.Full() }

// UnfinishedTasks returns the number of items not yet marked done.
func (s *SuspendingQueue[T]) UnfinishedTasks() int { return s.q.UnfinishedTasks() }
