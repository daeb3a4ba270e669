// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import "code.hybscloud.com/duoq/loop"

// Close shuts the queue. Safe from any goroutine and idempotent.
//
// Close cancels every in-flight cross-domain notification, releases every
// Join on both sides and wakes every blocked or suspended put and get,
// which then return ErrClosed. Items still buffered are discarded with the
// queue. Close does not wait; a task calls WaitClosed for that.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.isClosing() {
		return
	}
	q.closing.Store(true)

	for _, cancel := range q.pending {
		cancel()
	}
	q.finished.Set()
	q.allTasksDone.notifyAll()
	q.notEmpty.notifyAll()
	q.notFull.notifyAll()
	if q.loop != nil {
		q.wakeTasksLocked()
	}
}

// WaitClosed suspends t until every cross-domain notification still in
// flight has completed or been cancelled. Returns ErrNotClosing if Close
// has not been called.
func (q *Queue[T]) WaitClosed(t *loop.Task) error {
	if !q.isClosing() {
		return ErrNotClosing
	}
	q.mu.Lock()
	bound := q.loop
	q.mu.Unlock()
	if bound != nil && bound != t.Loop() {
		return ErrWrongLoop
	}

	// Let notifier jobs already queued on the loop run first.
	if err := loop.Yield(t); err != nil {
		return err
	}
	for {
		q.mu.Lock()
		n := len(q.pending)
		var live []*loop.Future
		for f := range q.pending {
			if !f.IsDone() {
				live = append(live, f)
			}
		}
		q.mu.Unlock()

		switch {
		case n == 0:
			return nil
		case len(live) == 0:
			// Done, but the removal callbacks have not run yet.
			if err := loop.Yield(t); err != nil {
				return err
			}
		default:
			if err := loop.WaitAll(t, live...); err != nil {
				return err
			}
		}
	}
}

// CloseWait closes the queue and waits for it to drain. Task side only.
func (q *Queue[T]) CloseWait(t *loop.Task) error {
	q.Close()
	return q.WaitClosed(t)
}
