// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import (
	"errors"
	"sync"
	"time"

	"code.hybscloud.com/duoq/loop"
)

// notifyList is a goroutine-side condition bound to the caller's mutex.
// Waiters are woken in FIFO order. Unlike sync.Cond, wait accepts a timeout.
type notifyList struct {
	waiters []chan struct{}
}

// wait releases mu, parks until notified or d elapses, and reacquires mu.
// d < 0 waits without a deadline. Reports whether a notification was
// consumed.
func (n *notifyList) wait(mu *sync.Mutex, d time.Duration) bool {
	ch := make(chan struct{})
	n.waiters = append(n.waiters, ch)
	mu.Unlock()

	notified := true
	if d < 0 {
		<-ch
	} else {
		timer := time.NewTimer(d)
		select {
		case <-ch:
		case <-timer.C:
			notified = false
		}
		timer.Stop()
	}

	mu.Lock()
	if !notified && !n.remove(ch) {
		// notified between the timer firing and mu.Lock
		notified = true
	}
	return notified
}

// notify wakes up to k waiters. Caller holds the mutex.
func (n *notifyList) notify(k int) {
	for k > 0 && len(n.waiters) > 0 {
		close(n.waiters[0])
		n.waiters[0] = nil
		n.waiters = n.waiters[1:]
		k--
	}
}

func (n *notifyList) notifyAll() {
	n.notify(len(n.waiters))
}

func (n *notifyList) remove(ch chan struct{}) bool {
	for i, w := range n.waiters {
		if w == ch {
			copy(n.waiters[i:], n.waiters[i+1:])
			n.waiters[len(n.waiters)-1] = nil
			n.waiters = n.waiters[:len(n.waiters)-1]
			return true
		}
	}
	return false
}

// notifyTaskLocked starts a notifier task on the bound loop that takes the
// task lock and wakes one waiter of cond. Safe from any goroutine; the
// caller holds q.mu. A loop that is gone drops the wakeup.
func (q *Queue[T]) notifyTaskLocked(cond *loop.Cond, from Domain) {
	if q.loop == nil {
		return
	}
	t := q.loop.Go(func(t *loop.Task) error {
		if err := q.taskMu.Lock(t); err != nil {
			return err
		}
		cond.Notify(1)
		q.taskMu.Unlock()
		return nil
	})
	// The body never returns loop.ErrClosed; Go does if submission failed.
	if errors.Is(t.Err(), loop.ErrClosed) {
		q.dropLocked(from, Task, loop.ErrClosed)
		return
	}
	q.trackLocked(t.Future, t.Cancel)
	q.metrics.Notify(from, Task)
}

// notifyThreadLocked submits a job to the loop's executor that takes q.mu
// and wakes one goroutine parked on n. Called from a task holding q.mu, so
// the job cannot finish before this returns.
func (q *Queue[T]) notifyThreadLocked(n *notifyList) {
	f := q.loop.RunInExecutor(func() {
		q.mu.Lock()
		n.notify(1)
		q.mu.Unlock()
	})
	if f.IsDone() {
		q.dropLocked(Task, Thread, f.Err())
		return
	}
	q.trackLocked(f, f.Cancel)
	q.metrics.Notify(Task, Thread)
}

// wakeTasksLocked starts a task that wakes every task-side waiter. Used by
// Close; the job stays tracked so WaitClosed awaits it.
func (q *Queue[T]) wakeTasksLocked() {
	t := q.loop.Go(func(t *loop.Task) error {
		if err := q.taskMu.Lock(t); err != nil {
			return err
		}
		q.taskNotEmpty.NotifyAll()
		q.taskNotFull.NotifyAll()
		q.taskMu.Unlock()
		return nil
	})
	if errors.Is(t.Err(), loop.ErrClosed) {
		q.logf("duoq: close wakeup dropped: %v", loop.ErrClosed)
		return
	}
	q.trackLocked(t.Future, t.Cancel)
}

// trackLocked adds f to the pending set. A done-callback on the loop
// removes it.
func (q *Queue[T]) trackLocked(f *loop.Future, cancel func() bool) {
	q.pending[f] = cancel
	f.OnDone(func(f *loop.Future) {
		q.mu.Lock()
		delete(q.pending, f)
		q.mu.Unlock()
	})
}

func (q *Queue[T]) dropLocked(from, to Domain, err error) {
	q.metrics.NotifyDrop(from, to)
	q.logf("duoq: %s to %s notification dropped: %v", from, to, err)
}
