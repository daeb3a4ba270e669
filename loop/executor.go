// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

// Executor runs jobs off the loop, on goroutines that may block.
// *pool.Pool satisfies it.
type Executor interface {
	Submit(job func()) error
}

// RunInExecutor submits fn to the loop's executor and returns a Future
// resolved once fn returns. If submission fails, the Future is already
// resolved with the submission error.
//
// Cancelling the Future does not stop fn.
func (l *Loop) RunInExecutor(fn func()) *Future {
	f := l.NewFuture()
	e := l.Executor()
	if e == nil {
		f.Resolve(ErrClosed)
		return f
	}
	if err := e.Submit(func() {
		fn()
		f.Resolve(nil)
	}); err != nil {
		f.Resolve(err)
	}
	return f
}
