// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import "sync"

type futureState uint8

const (
	futurePending futureState = iota
	futureResolved
	futureCancelled
)

// Future is a one-shot completion bound to a Loop.
//
// A Future completes once, either resolved with an error value (nil for
// success) or cancelled. All methods are safe from any goroutine.
// Callbacks registered with OnDone run on the loop's dispatch goroutine.
type Future struct {
	loop *Loop

	mu        sync.Mutex
	state     futureState
	err       error
	callbacks []func(*Future)
	done      chan struct{}
}

// NewFuture creates a pending Future bound to l.
func (l *Loop) NewFuture() *Future {
	return &Future{loop: l, done: make(chan struct{})}
}

// Resolve completes the Future with err. Returns false if it was already done.
func (f *Future) Resolve(err error) bool {
	return f.finish(futureResolved, err)
}

// Cancel completes the Future as cancelled. Returns false if it was already done.
func (f *Future) Cancel() bool {
	return f.finish(futureCancelled, ErrCancelled)
}

func (f *Future) finish(state futureState, err error) bool {
	f.mu.Lock()
	if f.state != futurePending {
		f.mu.Unlock()
		return false
	}
	f.state = state
	f.err = err
	cbs := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range cbs {
		f.schedule(cb)
	}
	return true
}

// OnDone registers cb to run on the loop once f is done. If f is already
// done, cb is scheduled immediately. cb never runs synchronously inside
// OnDone, Resolve or Cancel.
func (f *Future) OnDone(cb func(*Future)) {
	f.mu.Lock()
	if f.state == futurePending {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.schedule(cb)
}

func (f *Future) schedule(cb func(*Future)) {
	if err := f.loop.CallSoonThreadsafe(func() { cb(f) }); err != nil {
		f.loop.logf("loop: dropped future callback: %v", err)
	}
}

// Done returns a channel closed when f completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether f has completed.
func (f *Future) IsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != futurePending
}

// Cancelled reports whether f was cancelled.
func (f *Future) Cancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == futureCancelled
}

// Err returns the completion error: nil while pending or on success,
// ErrCancelled if cancelled.
func (f *Future) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Loop returns the loop f is bound to.
func (f *Future) Loop() *Loop {
	return f.loop
}
