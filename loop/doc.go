// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package loop provides a single-threaded cooperative scheduler.
//
// A [Loop] owns one dispatch goroutine that runs callbacks in submission
// order. A [Task] is a function body that runs on its own goroutine but
// holds the loop exclusively while it executes: the dispatch goroutine
// hands control to the task and waits until the task suspends or returns.
// At any instant exactly one of {dispatch goroutine, one task body} runs
// loop-side code, so loop-confined state needs no locking.
//
// # Suspension Points
//
// A task gives control back only at suspension points:
//
//	t.Await(f)        // wait for a Future
//	mu.Lock(t)        // Lock, FIFO hand-off
//	cond.Wait(t)      // Cond bound to a Lock
//	ev.Wait(t)        // Event
//	loop.Yield(t)     // let other callbacks run
//	loop.Sleep(t, d)
//	loop.WaitAll(t, futs...)
//
// Never block a task body on a goroutine-level primitive (channel, mutex
// held across a wait, sync.Cond). That stalls the whole loop.
//
// # Quick Start
//
//	l := loop.New()
//	defer l.Close()
//
//	err := l.RunTask(ctx, func(t *loop.Task) error {
//	    worker := l.Go(func(t *loop.Task) error {
//	        return loop.Sleep(t, 10*time.Millisecond)
//	    })
//	    return t.Await(worker.Future)
//	})
//
// # Foreign Goroutines
//
// [Loop.CallSoonThreadsafe] and [Loop.Go] are safe from any goroutine.
// [Future] and [Event] are safe from any goroutine; Future callbacks always
// run on the dispatch goroutine. [Lock] and [Cond] are loop-confined.
//
// [Loop.RunInExecutor] runs a function on the loop's [Executor] (a
// pool.Pool unless [WithExecutor] says otherwise) and reports completion
// through a Future.
//
// # Cancellation
//
// [Task.Cancel] cancels the Future the task is suspended on, so the
// suspension point returns [ErrCancelled]. A cancel that arrives while the
// task is runnable is delivered at its next suspension. A task cancelled
// before it starts never runs. [Loop.Close] cancels every task still
// suspended and dispatches until their bodies return.
package loop
