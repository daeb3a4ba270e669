// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import "time"

// Yield suspends t and lets callbacks already queued run first.
func Yield(t *Task) error {
	f := t.loop.NewFuture()
	if err := t.loop.CallSoonThreadsafe(func() { f.Resolve(nil) }); err != nil {
		return err
	}
	return t.Await(f)
}

// Sleep suspends t for at least d. d <= 0 behaves as Yield.
func Sleep(t *Task, d time.Duration) error {
	if d <= 0 {
		return Yield(t)
	}
	f := t.loop.NewFuture()
	timer := time.AfterFunc(d, func() { f.Resolve(nil) })
	defer timer.Stop()
	return t.Await(f)
}

// WaitAll suspends t until every future in futs is done. Cancelled or failed
// members count as done; their errors are not reported. Returns
// ErrCancelled if t itself is cancelled, leaving the members untouched.
func WaitAll(t *Task, futs ...*Future) error {
	var pending []*Future
	for _, f := range futs {
		if !f.IsDone() {
			pending = append(pending, f)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	all := t.loop.NewFuture()
	remaining := len(pending)
	for _, f := range pending {
		// Callbacks run on the dispatch goroutine, one at a time.
		f.OnDone(func(*Future) {
			remaining--
			if remaining == 0 {
				all.Resolve(nil)
			}
		})
	}
	return t.Await(all)
}
