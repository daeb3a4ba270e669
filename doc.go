// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package duoq provides a queue shared by blocking goroutines and the
// tasks of one cooperative loop.
//
// A [Queue] has two views over the same buffer:
//
//   - Blocking: for goroutines; waits park the goroutine
//   - Suspending: for [loop.Task] bodies; waits suspend the task
//
// Items put on either side are visible to both. A put on one side wakes a
// get waiting on the other, and the reverse, without polling.
//
// # Quick Start
//
// Direct constructors:
//
//	q := duoq.NewQueue[Job](128)          // FIFO, bounded
//	q := duoq.NewLifoQueue[Job](0)        // LIFO, unbounded
//	q := duoq.NewPriorityQueue[int](64)   // smallest first
//
// Builder API:
//
//	q := duoq.Build[Job](duoq.New(128).Logger(log.Default()))
//	q := duoq.BuildPriority(duoq.New(0), func(a, b Job) bool {
//	    return a.Rank < b.Rank
//	})
//
// # Basic Usage
//
// A goroutine feeds a task:
//
//	l := loop.New()
//	defer l.Close()
//	q := duoq.NewQueue[int](16)
//
//	go func() {
//	    for i := range 10 {
//	        q.Blocking().Put(i)
//	    }
//	}()
//
//	err := l.RunTask(ctx, func(t *loop.Task) error {
//	    for range 10 {
//	        v, err := q.Suspending().Get(t)
//	        if err != nil {
//	            return err
//	        }
//	        process(v)
//	        q.Suspending().TaskDone()
//	    }
//	    return q.CloseWait(t)
//	})
//
// # Blocking Side
//
// Put and Get wait without a deadline. PutTimeout and GetTimeout wait at
// most the given duration and return [ErrFull] or [ErrEmpty] when it
// elapses. PutNowait and GetNowait never wait. PutWait and GetWait take
// block and timeout explicitly; [NoTimeout] waits without a deadline.
//
//	err := q.Blocking().PutTimeout(job, 100*time.Millisecond)
//	if errors.Is(err, duoq.ErrFull) {
//	    // still full after 100ms
//	}
//
// # Suspending Side
//
// Every call takes the calling task. The first call binds the queue to the
// task's loop; later calls from another loop return [ErrWrongLoop]. There
// are no timeouts: cancel the task instead, and the suspended call returns
// [loop.ErrCancelled] with the queue state intact.
//
// # Ordering
//
// FIFO is the default. [Builder.Lifo] selects most-recent-first.
// [BuildPriority] selects minimum-first under a less function; equal items
// are returned in insertion order.
//
// # Completion Tracking
//
// Every successful put increments the unfinished count; TaskDone on either
// side decrements it. Join on either side returns once it reaches zero.
// A TaskDone without a matching put returns [ErrTooManyCompletions].
//
//	for {
//	    job, err := q.Blocking().Get()
//	    if err != nil {
//	        return err
//	    }
//	    handle(job)
//	    q.Blocking().TaskDone()
//	}
//
// # Cross-Domain Wakeups
//
// A commit on the blocking side that may satisfy a suspended task starts a
// notifier task on the bound loop through [loop.Loop.Go]. A commit on the
// suspending side that may satisfy a parked goroutine submits a job to the
// loop's executor through [loop.Loop.RunInExecutor]. Neither side ever
// waits on the other's primitives. If the loop or its executor is gone,
// the wakeup is dropped and reported to the [MetricsWriter] and [Logger].
//
// Snapshots (Qsize, Empty, Full, UnfinishedTasks) are advisory: they read
// atomics and may be stale by the time the caller uses them.
//
// # Shutdown
//
// Close is idempotent and never waits. It makes every further operation
// return [ErrClosed], wakes every waiter on both sides and cancels the
// wakeups still in flight. A task then calls WaitClosed (or CloseWait) to
// let those retire:
//
//	q.Close()
//	if err := q.WaitClosed(t); err != nil {
//	    return err
//	}
//	// q.Closed() == true
//
// WaitClosed before Close returns [ErrNotClosing].
//
// # Error Handling
//
// [ErrFull] and [ErrEmpty] wrap [ErrWouldBlock]:
//
//	duoq.IsWouldBlock(err)  // true for ErrFull and ErrEmpty
//	duoq.IsSemantic(err)    // true for control flow signals
//
// The remaining errors are plain sentinels compared with errors.Is.
//
// # Race Detection
//
// Snapshots use atomix in normal builds. Under the race detector they
// switch to sync/atomic so accesses are visible to it.
package duoq
