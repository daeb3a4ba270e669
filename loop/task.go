// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import (
	"errors"
	"fmt"
	"sync"
)

// Task is a cooperatively scheduled function body.
//
// The embedded Future completes with the body's return value. A body that
// returns ErrCancelled (or an error wrapping it) completes the Future as
// cancelled.
type Task struct {
	*Future
	fn func(t *Task) error

	resume chan struct{}
	yield  chan struct{}

	startMu     sync.Mutex
	started     bool
	cancelEarly bool

	// loop-confined
	waiting   *Future
	cancelReq bool
}

// Go starts fn as a task on l. Safe from any goroutine. If l is closed, the
// returned task is already resolved with ErrClosed.
func (l *Loop) Go(fn func(t *Task) error) *Task {
	t := &Task{
		Future: l.NewFuture(),
		fn:     fn,
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	if err := l.CallSoonThreadsafe(t.start); err != nil {
		t.Future.Resolve(err)
	}
	return t
}

// start runs on the dispatch goroutine and holds it until the body first
// suspends or returns.
func (t *Task) start() {
	t.startMu.Lock()
	t.started = true
	early := t.cancelEarly
	t.startMu.Unlock()
	if early {
		t.Future.Cancel()
		return
	}
	t.loop.track(t)
	go t.run()
	<-t.yield
}

func (t *Task) run() {
	err := t.call()
	if errors.Is(err, ErrCancelled) {
		t.Future.Cancel()
	} else {
		t.Future.Resolve(err)
	}
	t.loop.untrack(t)
	t.yield <- struct{}{}
}

func (t *Task) call() (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.loop.logf("loop: task panicked: %v", r)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return t.fn(t)
}

// step hands the loop to a parked task and waits for it to park again.
func (t *Task) step() {
	t.resume <- struct{}{}
	<-t.yield
}

// park hands the loop back to the dispatch goroutine.
func (t *Task) park() {
	t.yield <- struct{}{}
	<-t.resume
}

// Await suspends t until f is done and returns f.Err().
//
// If f is already done, Await returns without suspending. A cancel
// requested while t was runnable makes Await return ErrCancelled; a cancel
// requested while t is suspended cancels f.
func (t *Task) Await(f *Future) error {
	if f.IsDone() {
		return f.Err()
	}
	if t.cancelReq {
		t.cancelReq = false
		return ErrCancelled
	}

	t.waiting = f
	f.OnDone(func(*Future) { t.step() })
	t.park()
	t.waiting = nil

	if t.cancelReq {
		t.cancelReq = false
		return ErrCancelled
	}
	return f.Err()
}

// Cancel requests cancellation of t. Safe from any goroutine.
// Returns false if t is already done or its loop is closed.
func (t *Task) Cancel() bool {
	if t.IsDone() {
		return false
	}
	t.startMu.Lock()
	if !t.started {
		t.cancelEarly = true
		t.startMu.Unlock()
		return true
	}
	t.startMu.Unlock()
	return t.loop.CallSoonThreadsafe(t.interrupt) == nil
}

// interrupt delivers a cancel on the dispatch goroutine. A suspended task
// has its awaited Future cancelled; a runnable one fails its next Await.
func (t *Task) interrupt() {
	if t.IsDone() {
		return
	}
	if t.waiting != nil && t.waiting.Cancel() {
		return
	}
	t.cancelReq = true
}

// Loop returns the loop t runs on.
func (t *Task) Loop() *Loop {
	return t.loop
}
